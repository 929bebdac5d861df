// Package hal defines the small hardware contracts the core packages poll
// against. Concrete wiring onto real peripherals lives in package platform;
// core packages never import platform, only hal.
package hal

import "github.com/villagekit/robokit-go/tick"

// OutputPin drives a single digital output.
type OutputPin interface {
	SetHigh() error
	SetLow() error
	SetState(on bool) error
}

// InputPin reads a single digital input.
type InputPin interface {
	IsHigh() (bool, error)
	IsLow() (bool, error)
}

// Timer is a single-shot, non-blocking countdown measured in ticks.
// Start arms it; Wait is polled until it reports done.
type Timer interface {
	Now() tick.Ticks
	Start(duration tick.Ticks) error
	Cancel() error
	// Wait reports whether the duration has elapsed. It never blocks.
	Wait() (done bool, err error)
}

// Serial is a non-blocking byte-oriented duplex link, polled one byte at a
// time so no component ever blocks the cooperative loop.
type Serial interface {
	// WriteByte attempts to enqueue b. done reports whether the byte was
	// accepted; the caller must retry on the same byte until done.
	WriteByte(b byte) (done bool, err error)
	// Flush reports whether the output has fully drained.
	Flush() (done bool, err error)
	// ReadByte attempts to read one byte. done is false when no byte is
	// available yet (not an error).
	ReadByte() (b byte, done bool, err error)
}

// Watchdog is independent of the cooperative loop: Feed resets it, and it
// is started once with a timeout the caller (out of scope) is responsible
// for respecting by feeding often enough.
type Watchdog interface {
	Start(timeout tick.Ticks)
	Feed()
}

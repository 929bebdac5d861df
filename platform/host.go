//go:build !rp2040 && !rp2350

// Package platform wires the hal contracts onto real hardware drivers for
// rp2040/rp2350 builds, and onto host-side fakes everywhere else, the same
// split the teacher keeps between its host and rp2xxx factory files.
package platform

import (
	"sync"

	"github.com/villagekit/robokit-go/hal"
	"github.com/villagekit/robokit-go/tick"
)

// FakePin is an in-memory digital pin for host tests.
type FakePin struct {
	mu    sync.Mutex
	level bool
}

func (p *FakePin) SetHigh() error { p.mu.Lock(); p.level = true; p.mu.Unlock(); return nil }
func (p *FakePin) SetLow() error  { p.mu.Lock(); p.level = false; p.mu.Unlock(); return nil }
func (p *FakePin) SetState(on bool) error {
	p.mu.Lock()
	p.level = on
	p.mu.Unlock()
	return nil
}
func (p *FakePin) IsHigh() (bool, error) { p.mu.Lock(); defer p.mu.Unlock(); return p.level, nil }
func (p *FakePin) IsLow() (bool, error)  { p.mu.Lock(); defer p.mu.Unlock(); return !p.level, nil }

// Set forces the pin's level, for test harnesses driving a limit switch.
func (p *FakePin) Set(level bool) { p.mu.Lock(); p.level = level; p.mu.Unlock() }

var _ hal.OutputPin = (*FakePin)(nil)
var _ hal.InputPin = (*FakePin)(nil)

// FakeCounter is a software HWCounter advanced explicitly by tests,
// standing in for a free-running hardware counter.
type FakeCounter struct {
	mu sync.Mutex
	n  tick.Ticks
}

func (c *FakeCounter) Count() tick.Ticks { c.mu.Lock(); defer c.mu.Unlock(); return c.n }

// Advance moves the counter forward by delta ticks.
func (c *FakeCounter) Advance(delta tick.Ticks) {
	c.mu.Lock()
	c.n += delta
	c.mu.Unlock()
}

// HWTimer implements hal.Timer against a shared tick.SuperTimer.
type HWTimer struct {
	sub *tick.SubTimer
}

// NewHWTimer builds a Timer sharing the given SuperTimer's tick count.
func NewHWTimer(super *tick.SuperTimer) *HWTimer { return &HWTimer{sub: super.Sub()} }

func (t *HWTimer) Now() tick.Ticks { return t.sub.Elapsed() }
func (t *HWTimer) Start(d tick.Ticks) error {
	t.sub.Start(d)
	return nil
}
func (t *HWTimer) Cancel() error { t.sub.Cancel(); return nil }
func (t *HWTimer) Wait() (bool, error) { return t.sub.Wait(), nil }

var _ hal.Timer = (*HWTimer)(nil)

// FakeSerial is an in-memory loopback-free half-duplex serial link for
// host tests: writes append to Written, reads drain Pending.
type FakeSerial struct {
	mu      sync.Mutex
	Written []byte
	Pending []byte
}

func (s *FakeSerial) WriteByte(b byte) (bool, error) {
	s.mu.Lock()
	s.Written = append(s.Written, b)
	s.mu.Unlock()
	return true, nil
}
func (s *FakeSerial) Flush() (bool, error) { return true, nil }
func (s *FakeSerial) ReadByte() (byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Pending) == 0 {
		return 0, false, nil
	}
	b := s.Pending[0]
	s.Pending = s.Pending[1:]
	return b, true, nil
}

// Feed appends bytes for ReadByte to drain, simulating a device reply.
func (s *FakeSerial) Feed(b []byte) {
	s.mu.Lock()
	s.Pending = append(s.Pending, b...)
	s.mu.Unlock()
}

var _ hal.Serial = (*FakeSerial)(nil)

// NoopWatchdog ignores Feed, for host builds with no real watchdog.
type NoopWatchdog struct{}

func (NoopWatchdog) Start(tick.Ticks) {}
func (NoopWatchdog) Feed()            {}

var _ hal.Watchdog = NoopWatchdog{}

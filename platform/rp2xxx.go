//go:build rp2040 || rp2350

package platform

import (
	"machine"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"github.com/villagekit/robokit-go/hal"
	"github.com/villagekit/robokit-go/tick"
)

// Pin wraps a machine.Pin as both hal.OutputPin and hal.InputPin.
type Pin struct {
	p machine.Pin
}

// NewOutputPin configures n as a push-pull output.
func NewOutputPin(n int) *Pin {
	p := machine.Pin(n)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &Pin{p: p}
}

// NewInputPin configures n as an input with the given pull.
func NewInputPin(n int, pullUp bool) *Pin {
	p := machine.Pin(n)
	mode := machine.PinInputPulldown
	if pullUp {
		mode = machine.PinInputPullup
	}
	p.Configure(machine.PinConfig{Mode: mode})
	return &Pin{p: p}
}

func (p *Pin) SetHigh() error { p.p.High(); return nil }
func (p *Pin) SetLow() error  { p.p.Low(); return nil }
func (p *Pin) SetState(on bool) error {
	p.p.Set(on)
	return nil
}
func (p *Pin) IsHigh() (bool, error) { return p.p.Get(), nil }
func (p *Pin) IsLow() (bool, error)  { return !p.p.Get(), nil }

var _ hal.OutputPin = (*Pin)(nil)
var _ hal.InputPin = (*Pin)(nil)

// rp2Counter reads the RP2040/RP2350 hardware timer's free-running count
// as the shared HWCounter backing every SuperTimer on-device.
type rp2Counter struct{}

func (rp2Counter) Count() tick.Ticks {
	hi, lo := machine.Timer.GetCurrentCount()
	_ = hi
	return tick.Ticks(lo)
}

// DefaultHWCounter returns the board's free-running tick source.
func DefaultHWCounter() tick.HWCounter { return rp2Counter{} }

// HWTimer implements hal.Timer against a shared tick.SuperTimer, identical
// in shape to the host build — only the counter behind SuperTimer differs.
type HWTimer struct {
	sub *tick.SubTimer
}

// NewHWTimer builds a Timer sharing the given SuperTimer's tick count.
func NewHWTimer(super *tick.SuperTimer) *HWTimer { return &HWTimer{sub: super.Sub()} }

func (t *HWTimer) Now() tick.Ticks      { return t.sub.Elapsed() }
func (t *HWTimer) Start(d tick.Ticks) error {
	t.sub.Start(d)
	return nil
}
func (t *HWTimer) Cancel() error       { t.sub.Cancel(); return nil }
func (t *HWTimer) Wait() (bool, error) { return t.sub.Wait(), nil }

var _ hal.Timer = (*HWTimer)(nil)

// UART wraps a tinygo-uartx UART as a non-blocking hal.Serial, one byte
// at a time, never calling the blocking Read/Write helpers.
type UART struct {
	u *uartx.UART
}

// NewUART configures u at baud and wraps it.
func NewUART(u *uartx.UART, baud uint32) *UART {
	_ = u.Configure(uartx.UARTConfig{BaudRate: baud})
	return &UART{u: u}
}

func (s *UART) WriteByte(b byte) (bool, error) {
	if err := s.u.WriteByte(b); err != nil {
		return false, nil // would-block: retry next poll
	}
	return true, nil
}

func (s *UART) Flush() (bool, error) {
	return s.u.Buffered() == 0, nil
}

func (s *UART) ReadByte() (byte, bool, error) {
	if s.u.Buffered() == 0 {
		return 0, false, nil
	}
	var buf [1]byte
	n, err := s.u.Read(buf[:])
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		return 0, false, nil
	}
	return buf[0], true, nil
}

var _ hal.Serial = (*UART)(nil)

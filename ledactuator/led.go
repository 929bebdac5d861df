// Package ledactuator drives a single LED output through Set and Blink
// actions.
package ledactuator

import (
	"github.com/villagekit/robokit-go/command"
	"github.com/villagekit/robokit-go/errcode"
	"github.com/villagekit/robokit-go/hal"
)

var (
	ErrPinSet     = &errcode.E{C: errcode.HALNotReady, Op: "ledactuator", Msg: "pin set failed"}
	ErrTimerStart = &errcode.E{C: errcode.HALNotReady, Op: "ledactuator", Msg: "timer start failed"}
	ErrTimerWait  = &errcode.E{C: errcode.HALNotReady, Op: "ledactuator", Msg: "timer wait failed"}
)

// State is the actuator's overall status.
type State int

const (
	Idle State = iota
	Running
)

type blinkPhase int

const (
	blinkStart blinkPhase = iota
	blinkWait
	blinkDone
)

// Device is a single LED's actuator state machine.
type Device struct {
	pin   hal.OutputPin
	timer hal.Timer

	state State
	on    bool

	blinking bool
	phase    blinkPhase
	action   command.LedAction
}

// New constructs a Device starting off and idle.
func New(pin hal.OutputPin, timer hal.Timer) *Device {
	return &Device{pin: pin, timer: timer, state: Idle}
}

// Run accepts a new action, preempting any in-flight blink.
func (d *Device) Run(act command.LedAction) error {
	if !act.Blink {
		if err := d.pin.SetState(act.On); err != nil {
			return ErrPinSet
		}
		d.on = act.On
		d.blinking = false
		d.state = Idle
		return nil
	}

	d.action = act
	d.blinking = true
	d.phase = blinkStart
	d.state = Running
	return nil
}

// Poll advances any in-flight blink. done is true once the action settles.
func (d *Device) Poll() (done bool, err error) {
	if !d.blinking {
		return true, nil
	}

	switch d.phase {
	case blinkStart:
		if err := d.pin.SetState(!d.on); err != nil {
			return false, ErrPinSet
		}
		d.on = !d.on
		if err := d.timer.Start(d.action.Duration); err != nil {
			return false, ErrTimerStart
		}
		d.phase = blinkWait
		return false, nil

	case blinkWait:
		ok, err := d.timer.Wait()
		if err != nil {
			return false, ErrTimerWait
		}
		if !ok {
			return false, nil
		}
		d.phase = blinkDone
		return false, nil

	case blinkDone:
		d.blinking = false
		d.state = Idle
		return true, nil
	}
	return true, nil
}

// IsOn reports the LED's current physical level.
func (d *Device) IsOn() bool { return d.on }

// Package runner dispatches commands to a fixed set of actuators and
// round-robin polls whichever are still in flight.
package runner

import (
	"errors"

	"github.com/villagekit/robokit-go/axis"
	"github.com/villagekit/robokit-go/command"
	"github.com/villagekit/robokit-go/errcode"
	"github.com/villagekit/robokit-go/internal/ring"
	"github.com/villagekit/robokit-go/ledactuator"
	"github.com/villagekit/robokit-go/spindle"
)

const activeQueueCap = 8

var ErrQueueFull = errors.New("runner: active command queue full")
var ErrUnknownDevice = errors.New("runner: command targets an unknown device id")

// DeviceError wraps an actuator error with the device id that produced it,
// since Go has no exhaustive sum type to match callers back onto. Code
// classifies Err into a stable identifier a caller can log or compare
// without type-switching on every actuator's concrete error type.
type DeviceError struct {
	Kind command.Kind
	ID   string
	Err  error
	Code errcode.Code
}

func newDeviceError(kind command.Kind, id string, err error) *DeviceError {
	return &DeviceError{Kind: kind, ID: id, Err: err, Code: errcode.Of(err)}
}

func (e *DeviceError) Error() string { return e.ID + ": " + e.Err.Error() }
func (e *DeviceError) Unwrap() error { return e.Err }

// Runner holds the closed set of devices and the active-command queue.
type Runner struct {
	leds     map[command.LedID]*ledactuator.Device
	axes     map[command.AxisID]*axis.Device
	spindles map[command.SpindleID]*spindle.Driver

	active *ring.Buffer[command.Command]
}

// New constructs a Runner over the given device maps.
func New(leds map[command.LedID]*ledactuator.Device, axes map[command.AxisID]*axis.Device, spindles map[command.SpindleID]*spindle.Driver) *Runner {
	return &Runner{
		leds: leds, axes: axes, spindles: spindles,
		active: ring.New[command.Command](activeQueueCap),
	}
}

// Run dispatches a batch of commands per the given action.
func (r *Runner) Run(cmds []command.Command, action command.RunnerAction) error {
	if action == command.RunnerReset {
		r.active = ring.New[command.Command](activeQueueCap)
	}
	for _, c := range cmds {
		if err := r.dispatch(c); err != nil {
			return err
		}
		if !r.active.PushBack(c) {
			return ErrQueueFull
		}
	}
	return nil
}

func (r *Runner) dispatch(c command.Command) error {
	switch c.Kind {
	case command.KindLed:
		d, ok := r.leds[c.LedID]
		if !ok {
			return ErrUnknownDevice
		}
		if err := d.Run(c.LedAct); err != nil {
			return newDeviceError(c.Kind, string(c.LedID), err)
		}
	case command.KindAxis:
		d, ok := r.axes[c.AxisID]
		if !ok {
			return ErrUnknownDevice
		}
		if err := d.Run(c.AxisAct); err != nil {
			return newDeviceError(c.Kind, string(c.AxisID), err)
		}
	case command.KindSpindle:
		d, ok := r.spindles[c.SpindID]
		if !ok {
			return ErrUnknownDevice
		}
		if err := d.Run(c.SpindAct); err != nil {
			return newDeviceError(c.Kind, string(c.SpindID), err)
		}
	}
	return nil
}

func (r *Runner) pollOne(c command.Command) (done bool, err error) {
	switch c.Kind {
	case command.KindLed:
		d := r.leds[c.LedID]
		done, err = d.Poll()
		if err != nil {
			err = newDeviceError(c.Kind, string(c.LedID), err)
		}
	case command.KindAxis:
		d := r.axes[c.AxisID]
		done, err = d.Poll()
		if err != nil {
			err = newDeviceError(c.Kind, string(c.AxisID), err)
		}
	case command.KindSpindle:
		d := r.spindles[c.SpindID]
		done, err = d.Poll()
		if err != nil {
			err = newDeviceError(c.Kind, string(c.SpindID), err)
		}
	}
	return done, err
}

// Poll round-robins one step through every in-flight command. It returns
// done=true once the active queue has drained.
func (r *Runner) Poll() (done bool, err error) {
	n := r.active.Len()
	for i := 0; i < n; i++ {
		c, ok := r.active.PopFront()
		if !ok {
			break
		}
		finished, err := r.pollOne(c)
		if err != nil {
			return false, err
		}
		if !finished {
			if !r.active.PushBack(c) {
				return false, ErrQueueFull
			}
		}
	}
	return r.active.Empty(), nil
}

// Active reports whether any command is still in flight.
func (r *Runner) Active() bool { return !r.active.Empty() }

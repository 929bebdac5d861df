// Package axis drives a single stepper axis through relative/absolute
// moves and a homing sequence, respecting two limit switches.
package axis

import (
	"github.com/villagekit/robokit-go/command"
	"github.com/villagekit/robokit-go/errcode"
	"github.com/villagekit/robokit-go/hal"
	"github.com/villagekit/robokit-go/switchsensor"
)

var (
	ErrDriverUpdate        = &errcode.E{C: errcode.HALNotReady, Op: "axis", Msg: "driver update failed"}
	ErrDriverResetPosition = &errcode.E{C: errcode.HALNotReady, Op: "axis", Msg: "driver reset position failed"}
	ErrDriverMoveToPos     = &errcode.E{C: errcode.HALNotReady, Op: "axis", Msg: "driver move-to-position failed"}
	ErrLimit               = &errcode.E{C: errcode.LimitTripped, Op: "axis", Msg: "hit a limit switch mid-move"}
	ErrLimitSensor         = &errcode.E{C: errcode.HALNotReady, Op: "axis", Msg: "limit sensor read failed"}
	ErrUnexpected          = &errcode.E{C: errcode.Error, Op: "axis", Msg: "unexpected state during homing"}
)

// State is the axis actuator's top-level mode.
type State int

const (
	Idle State = iota
	Moving
	Homing
)

// LimitSide names one of the axis's two physical limit switches.
type LimitSide int

const (
	LimitMin LimitSide = iota
	LimitMax
)

// LimitState is whether a limit switch currently reads as tripped. The
// zero value, LimitUnset, means the switch has never been polled yet and
// must not be treated as a confirmed reading either way.
type LimitState int

const (
	LimitUnset LimitState = iota // never polled
	LimitUnder                  // not tripped
	LimitOver                   // tripped
)

type moveSub int

const (
	moveStart moveSub = iota
	moveMotion
)

type homeSub int

const (
	homeStart homeSub = iota
	homeTowardHome
	homeInterlude
	homeBackOffHome
	homeDone
)

// HomeBackOffSteps is how far the axis backs off the home limit once
// tripped, before declaring home position reached.
const HomeBackOffSteps = 50

// Device is one axis's full actuator state machine.
type Device struct {
	stepPin hal.OutputPin
	dirPin  hal.OutputPin
	timer   hal.Timer

	limitMin *switchsensor.Switch
	limitMax *switchsensor.Switch

	limitMinStatus LimitState
	limitMaxStatus LimitState
	homeSide       LimitSide

	logicalPosition int32
	cruiseTicks     uint32

	state    State
	moveSub  moveSub
	homeSub  homeSub
	ramp     *trapezoidalRamp
	target   int32
	dir      int32
	waitingStep bool
}

// New constructs a Device idle at logical position 0.
func New(stepPin, dirPin hal.OutputPin, timer hal.Timer, limitMin, limitMax *switchsensor.Switch, homeSide LimitSide, cruiseTicks uint32) *Device {
	return &Device{
		stepPin: stepPin, dirPin: dirPin, timer: timer,
		limitMin: limitMin, limitMax: limitMax,
		homeSide: homeSide, cruiseTicks: cruiseTicks,
	}
}

// LogicalPosition returns the axis's position in steps. It advances by one
// on every completed step pulse of a move or back-off, and is set to 0 when
// homing completes; it is not set to a move's target when the move is
// accepted. A move aborted on a limit error leaves it at the last completed
// step.
func (d *Device) LogicalPosition() int32 { return d.logicalPosition }

// Run accepts a new move or home action, rewriting MoveRelative into an
// absolute target against the current logical position.
func (d *Device) Run(act command.AxisAction) error {
	switch act.Kind {
	case command.AxisMoveRelative:
		return d.startMove(d.logicalPosition + act.Steps)
	case command.AxisMoveAbsolute:
		return d.startMove(act.Steps)
	case command.AxisHome:
		d.state = Homing
		d.homeSub = homeStart
		return nil
	}
	return nil
}

func (d *Device) startMove(target int32) error {
	d.target = target
	d.state = Moving
	d.moveSub = moveStart
	return nil
}

func limitStateFromSwitch(s switchsensor.Status) LimitState {
	if s == switchsensor.On {
		return LimitOver
	}
	return LimitUnder
}

// updateLimitSwitches debounces both limit switches and refreshes their
// persisted status from the current debounced reading, not just on an
// edge, so a switch left tripped from a prior poll stays visible.
func (d *Device) updateLimitSwitches() error {
	if _, err := d.limitMin.Update(); err != nil {
		return ErrLimitSensor
	}
	d.limitMinStatus = limitStateFromSwitch(d.limitMin.Status())

	if _, err := d.limitMax.Update(); err != nil {
		return ErrLimitSensor
	}
	d.limitMaxStatus = limitStateFromSwitch(d.limitMax.Status())

	return nil
}

// Poll advances whichever sub-state-machine is active. done is true when
// the axis returns to Idle.
func (d *Device) Poll() (done bool, err error) {
	if err := d.updateLimitSwitches(); err != nil {
		return false, err
	}

	if d.limitMinStatus == LimitUnset || d.limitMaxStatus == LimitUnset {
		return false, ErrUnexpected
	}

	switch d.state {
	case Idle:
		return true, nil
	case Moving:
		return d.pollMove()
	case Homing:
		return d.pollHome()
	}
	return true, nil
}

func (d *Device) pollMove() (bool, error) {
	switch d.moveSub {
	case moveStart:
		delta := d.target - d.logicalPosition
		if delta == 0 {
			d.state = Idle
			return true, nil
		}
		if delta > 0 {
			d.dir = 1
			if err := d.dirPin.SetHigh(); err != nil {
				return false, ErrDriverUpdate
			}
		} else {
			d.dir = -1
			if err := d.dirPin.SetLow(); err != nil {
				return false, ErrDriverUpdate
			}
		}
		steps := delta
		if steps < 0 {
			steps = -steps
		}
		d.ramp = newTrapezoidalRamp(uint32(steps), d.cruiseTicks)
		d.moveSub = moveMotion
		d.waitingStep = false
		return false, nil

	case moveMotion:
		if d.dir > 0 {
			if d.limitMaxStatus == LimitOver {
				d.state = Idle
				return false, ErrLimit
			}
		} else if d.limitMinStatus == LimitOver {
			d.state = Idle
			return false, ErrLimit
		}

		if d.ramp.Done() {
			d.state = Idle
			return true, nil
		}
		if !d.waitingStep {
			if err := d.stepPin.SetHigh(); err != nil {
				return false, ErrDriverMoveToPos
			}
			dur := d.ramp.NextStepDuration()
			if err := d.timer.Start(dur); err != nil {
				return false, ErrDriverMoveToPos
			}
			d.waitingStep = true
			return false, nil
		}
		ok, err := d.timer.Wait()
		if err != nil {
			return false, ErrDriverMoveToPos
		}
		if !ok {
			return false, nil
		}
		if err := d.stepPin.SetLow(); err != nil {
			return false, ErrDriverMoveToPos
		}
		d.logicalPosition += d.dir
		d.waitingStep = false
		return false, nil
	}
	return true, nil
}

func (d *Device) pollHome() (bool, error) {
	switch d.homeSub {
	case homeStart:
		d.dir = -1
		if d.homeSide == LimitMax {
			d.dir = 1
		}
		if d.dir > 0 {
			if err := d.dirPin.SetHigh(); err != nil {
				return false, ErrDriverUpdate
			}
		} else {
			if err := d.dirPin.SetLow(); err != nil {
				return false, ErrDriverUpdate
			}
		}
		d.ramp = newTrapezoidalRamp(^uint32(0)>>1, d.cruiseTicks)
		d.homeSub = homeTowardHome
		d.waitingStep = false
		return false, nil

	case homeTowardHome:
		reachedHome := false
		if d.dir > 0 {
			reachedHome = d.limitMaxStatus == LimitOver
		} else {
			reachedHome = d.limitMinStatus == LimitOver
		}
		if reachedHome {
			d.homeSub = homeInterlude
			d.waitingStep = false
			return false, nil
		}
		if d.ramp.Done() {
			return false, ErrUnexpected
		}
		if !d.waitingStep {
			if err := d.stepPin.SetHigh(); err != nil {
				return false, ErrDriverMoveToPos
			}
			dur := d.ramp.NextStepDuration()
			if err := d.timer.Start(dur); err != nil {
				return false, ErrDriverMoveToPos
			}
			d.waitingStep = true
			return false, nil
		}
		ok, err := d.timer.Wait()
		if err != nil {
			return false, ErrDriverMoveToPos
		}
		if !ok {
			return false, nil
		}
		if err := d.stepPin.SetLow(); err != nil {
			return false, ErrDriverMoveToPos
		}
		d.waitingStep = false
		return false, nil

	case homeInterlude:
		d.dir = -d.dir
		if d.dir > 0 {
			if err := d.dirPin.SetHigh(); err != nil {
				return false, ErrDriverUpdate
			}
		} else {
			if err := d.dirPin.SetLow(); err != nil {
				return false, ErrDriverUpdate
			}
		}
		d.ramp = newTrapezoidalRamp(HomeBackOffSteps, d.cruiseTicks)
		d.homeSub = homeBackOffHome
		d.waitingStep = false
		return false, nil

	case homeBackOffHome:
		if d.dir > 0 {
			if d.limitMaxStatus == LimitOver {
				return false, ErrLimit
			}
		} else if d.limitMinStatus == LimitOver {
			return false, ErrLimit
		}

		if d.ramp.Done() {
			d.homeSub = homeDone
			return false, nil
		}
		if !d.waitingStep {
			if err := d.stepPin.SetHigh(); err != nil {
				return false, ErrDriverMoveToPos
			}
			dur := d.ramp.NextStepDuration()
			if err := d.timer.Start(dur); err != nil {
				return false, ErrDriverMoveToPos
			}
			d.waitingStep = true
			return false, nil
		}
		ok, err := d.timer.Wait()
		if err != nil {
			return false, ErrDriverMoveToPos
		}
		if !ok {
			return false, nil
		}
		if err := d.stepPin.SetLow(); err != nil {
			return false, ErrDriverMoveToPos
		}
		d.logicalPosition += d.dir
		d.waitingStep = false
		return false, nil

	case homeDone:
		d.logicalPosition = 0
		d.state = Idle
		return true, nil
	}
	return true, nil
}

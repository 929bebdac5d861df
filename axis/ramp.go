package axis

import "github.com/villagekit/robokit-go/x/mathx"

// MinStepTicks is the minimum duration of any single step, enforced so a
// step timer is never armed for less than it takes to actually tick,
// mirroring the 2-tick floor the original stepper timer wrapper applied.
const MinStepTicks = 2

// trapezoidalRamp generates per-step durations for a fixed step count: an
// acceleration phase ramping from slowest to the cruise velocity, a cruise
// phase at constant velocity, and a mirrored deceleration phase. It holds
// no hardware state; axis.Device drives it as a pure sequence.
type trapezoidalRamp struct {
	totalSteps  uint32
	stepped     uint32
	rampSteps   uint32
	cruiseTicks uint32
	startTicks  uint32
}

// newTrapezoidalRamp builds a ramp moving totalSteps steps, cruising at a
// duration of cruiseTicks per step once accelerated, using up to half the
// total steps for acceleration (and the mirror image for deceleration).
func newTrapezoidalRamp(totalSteps uint32, cruiseTicks uint32) *trapezoidalRamp {
	cruiseTicks = mathx.Max(cruiseTicks, MinStepTicks)
	rampSteps := totalSteps / 2
	startTicks := cruiseTicks * 4
	if startTicks < cruiseTicks {
		startTicks = cruiseTicks
	}
	return &trapezoidalRamp{
		totalSteps:  totalSteps,
		rampSteps:   rampSteps,
		cruiseTicks: cruiseTicks,
		startTicks:  startTicks,
	}
}

// Done reports whether every step has been issued.
func (r *trapezoidalRamp) Done() bool { return r.stepped >= r.totalSteps }

// NextStepDuration returns the tick duration to hold before the next step
// pulse and advances the internal step counter. Callers must not call it
// once Done reports true.
func (r *trapezoidalRamp) NextStepDuration() uint32 {
	remaining := r.totalSteps - r.stepped
	r.stepped++

	var phaseSteps uint32
	if r.stepped <= r.rampSteps {
		phaseSteps = r.stepped
	} else if remaining <= r.rampSteps {
		phaseSteps = remaining
	} else {
		return r.cruiseTicks
	}

	if r.rampSteps == 0 {
		return r.cruiseTicks
	}
	// linear interpolation from startTicks down to cruiseTicks across the
	// ramp, clamped so duration never drops below the floor.
	span := r.startTicks - r.cruiseTicks
	d := r.startTicks - (span*phaseSteps)/r.rampSteps
	return mathx.Clamp(d, MinStepTicks, r.startTicks)
}

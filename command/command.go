// Package command defines the closed set of device ids and the tagged
// command union the runner dispatches to actuators.
package command

import "github.com/villagekit/robokit-go/tick"

// LedID, AxisID and SpindleID identify devices within their own closed set;
// the runner looks them up in a fixed map built at construction time.
type LedID string
type AxisID string
type SpindleID string

// Kind discriminates the Command union.
type Kind int

const (
	KindLed Kind = iota
	KindAxis
	KindSpindle
)

// LedAction is the action taken by a LED actuator.
type LedAction struct {
	// Set turns the LED on/off immediately when Blink is false.
	Blink    bool
	On       bool
	Duration tick.Ticks // used only when Blink is true
}

// LedSet builds a Set(on) action.
func LedSet(on bool) LedAction { return LedAction{On: on} }

// LedBlink builds a Blink(duration) action.
func LedBlink(duration tick.Ticks) LedAction { return LedAction{Blink: true, Duration: duration} }

// AxisActionKind discriminates AxisAction's payload.
type AxisActionKind int

const (
	AxisMoveRelative AxisActionKind = iota
	AxisMoveAbsolute
	AxisHome
)

// AxisAction is the action taken by an axis actuator.
type AxisAction struct {
	Kind     AxisActionKind
	Steps    int32 // relative/absolute target step count
	Velocity uint32
}

// SpindleAction is the action taken by a spindle driver.
type SpindleAction struct {
	On  bool
	RPM int16 // valid only when On is true
}

// Command is a tagged union of what can be placed on the runner's queue.
type Command struct {
	Kind Kind

	LedID    LedID
	LedAct   LedAction
	AxisID   AxisID
	AxisAct  AxisAction
	SpindID  SpindleID
	SpindAct SpindleAction
}

// Led builds a Command targeting a LED.
func Led(id LedID, act LedAction) Command {
	return Command{Kind: KindLed, LedID: id, LedAct: act}
}

// Axis builds a Command targeting an axis.
func Axis(id AxisID, act AxisAction) Command {
	return Command{Kind: KindAxis, AxisID: id, AxisAct: act}
}

// Spindle builds a Command targeting a spindle.
func Spindle(id SpindleID, act SpindleAction) Command {
	return Command{Kind: KindSpindle, SpindID: id, SpindAct: act}
}

// RunnerAction is what the runner does with a batch of commands.
type RunnerAction int

const (
	RunnerRun RunnerAction = iota
	RunnerReset
)

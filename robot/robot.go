// Package robot assembles actuators, a runner and a scheduler into one
// machine, the way robot.rs's typestate builder wires up a Robot.
package robot

import (
	"github.com/villagekit/robokit-go/axis"
	"github.com/villagekit/robokit-go/command"
	"github.com/villagekit/robokit-go/ledactuator"
	"github.com/villagekit/robokit-go/runner"
	"github.com/villagekit/robokit-go/scheduler"
	"github.com/villagekit/robokit-go/spindle"
)

// Builder assembles a Robot's devices and static command lists.
type Builder struct {
	leds     map[command.LedID]*ledactuator.Device
	axes     map[command.AxisID]*axis.Device
	spindles map[command.SpindleID]*spindle.Driver

	startCommands []command.Command
	runCommands   [][]command.Command
	stopCommands  []command.Command
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		leds:     map[command.LedID]*ledactuator.Device{},
		axes:     map[command.AxisID]*axis.Device{},
		spindles: map[command.SpindleID]*spindle.Driver{},
	}
}

// WithLed registers a LED device under id.
func (b *Builder) WithLed(id command.LedID, d *ledactuator.Device) *Builder {
	b.leds[id] = d
	return b
}

// WithAxis registers an axis device under id.
func (b *Builder) WithAxis(id command.AxisID, d *axis.Device) *Builder {
	b.axes[id] = d
	return b
}

// WithSpindle registers a spindle driver under id.
func (b *Builder) WithSpindle(id command.SpindleID, d *spindle.Driver) *Builder {
	b.spindles[id] = d
	return b
}

// WithStartCommands sets the command batch dispatched once, on Toggle
// from Idle.
func (b *Builder) WithStartCommands(cmds []command.Command) *Builder {
	b.startCommands = cmds
	return b
}

// WithRunCommands sets the sequence of command batches cycled while
// running.
func (b *Builder) WithRunCommands(batches [][]command.Command) *Builder {
	b.runCommands = batches
	return b
}

// WithStopCommands sets the command batch dispatched once, on Toggle out
// of a running/starting phase.
func (b *Builder) WithStopCommands(cmds []command.Command) *Builder {
	b.stopCommands = cmds
	return b
}

// Robot bundles a runner and scheduler ready to poll every loop iteration.
type Robot struct {
	Runner    *runner.Runner
	Scheduler *scheduler.Scheduler
}

// Build finalizes the Builder into a Robot.
func (b *Builder) Build() *Robot {
	r := runner.New(b.leds, b.axes, b.spindles)
	s := scheduler.New(r, b.startCommands, b.runCommands, b.stopCommands)
	return &Robot{Runner: r, Scheduler: s}
}

// Toggle starts or stops the machine.
func (rb *Robot) Toggle() error { return rb.Scheduler.Toggle() }

// Poll advances the machine one step.
func (rb *Robot) Poll() error { return rb.Scheduler.Poll() }

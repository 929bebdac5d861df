// Package scheduler drives the top-level machine: idle, then a start
// sequence, then a looping run sequence, then (on toggle) a stop sequence
// back to idle.
package scheduler

import (
	"io"

	"github.com/villagekit/robokit-go/command"
	"github.com/villagekit/robokit-go/runner"
	"github.com/villagekit/robokit-go/x/fmtx"
)

type phase int

const (
	phaseIdle phase = iota
	phaseStart
	phaseStartLoop
	phaseRun
	phaseRunLoop
	phaseStop
	phaseStopLoop
)

// State reports the coarse, comparable state of the scheduler — callers
// that only care "are we idle, running, or transitioning" use this rather
// than the internal phase/index pair.
type State int

const (
	Idle State = iota
	Starting
	Running
	Stopping
)

// Scheduler holds the run/start/stop command lists and toggles between an
// idle state and a running loop.
type Scheduler struct {
	runner *runner.Runner

	startCommands []command.Command
	runCommands   [][]command.Command
	stopCommands  []command.Command

	phase  phase
	runIdx int

	trace io.Writer
}

// New constructs a Scheduler over the given runner and static command
// lists; runCommands is a sequence of command batches cycled while running.
func New(r *runner.Runner, startCommands []command.Command, runCommands [][]command.Command, stopCommands []command.Command) *Scheduler {
	return &Scheduler{runner: r, startCommands: startCommands, runCommands: runCommands, stopCommands: stopCommands}
}

// SetTrace directs step tracing ("Start: %v", "Run: %v", "Stop: %v") at w,
// mirroring the original's defmt println calls at each phase transition. A
// nil writer (the default) disables tracing.
func (s *Scheduler) SetTrace(w io.Writer) { s.trace = w }

func (s *Scheduler) tracef(format string, a ...any) {
	if s.trace == nil {
		return
	}
	fmtx.Fprintf(s.trace, format+"\n", a...)
}

// State reports the coarse scheduler state.
func (s *Scheduler) State() State {
	switch s.phase {
	case phaseIdle:
		return Idle
	case phaseStart, phaseStartLoop:
		return Starting
	case phaseRun, phaseRunLoop:
		return Running
	default:
		return Stopping
	}
}

// Toggle starts the machine from Idle, or begins the stop sequence from
// any running/starting phase. It is a no-op while already stopping.
func (s *Scheduler) Toggle() error {
	switch s.phase {
	case phaseIdle:
		s.phase = phaseStart
		s.tracef("Start: %v", s.startCommands)
		return s.runner.Run(s.startCommands, command.RunnerRun)
	case phaseStart, phaseStartLoop, phaseRun, phaseRunLoop:
		s.phase = phaseStop
		s.tracef("Stop: %v", s.stopCommands)
		return s.runner.Run(s.stopCommands, command.RunnerReset)
	}
	return nil
}

// Poll advances the machine one step.
func (s *Scheduler) Poll() error {
	switch s.phase {
	case phaseIdle:
		return nil

	case phaseStart:
		s.phase = phaseStartLoop
		return nil

	case phaseStartLoop:
		done, err := s.runner.Poll()
		if err != nil {
			return err
		}
		if done {
			s.runIdx = 0
			s.phase = phaseRun
		}
		return nil

	case phaseRun:
		if len(s.runCommands) == 0 {
			s.phase = phaseRunLoop
			return nil
		}
		s.tracef("Run: %v", s.runCommands[s.runIdx])
		if err := s.runner.Run(s.runCommands[s.runIdx], command.RunnerRun); err != nil {
			return err
		}
		s.phase = phaseRunLoop
		return nil

	case phaseRunLoop:
		done, err := s.runner.Poll()
		if err != nil {
			return err
		}
		if done {
			if len(s.runCommands) > 0 {
				s.runIdx = (s.runIdx + 1) % len(s.runCommands)
			}
			s.phase = phaseRun
		}
		return nil

	case phaseStop:
		s.phase = phaseStopLoop
		return nil

	case phaseStopLoop:
		done, err := s.runner.Poll()
		if err != nil {
			return err
		}
		if done {
			s.phase = phaseIdle
		}
		return nil
	}
	return nil
}

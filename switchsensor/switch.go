// Package switchsensor debounces a single digital input into a stable
// on/off status.
package switchsensor

import (
	"errors"

	"github.com/villagekit/robokit-go/hal"
	"github.com/villagekit/robokit-go/tick"
)

// Status is the debounced state of a switch.
type Status int

const (
	Off Status = iota
	On
)

// Polarity maps raw pin level to logical status.
type Polarity int

const (
	ActiveHigh Polarity = iota
	ActiveLow
)

// DebounceTicks is the debounce window: a raw level is accepted once it has
// held for more than DebounceTicks ticks.
const DebounceTicks tick.Ticks = 2

var (
	ErrPinRead     = errors.New("switchsensor: pin read failed")
	ErrTimerStart  = errors.New("switchsensor: timer start failed")
	ErrTimerWait   = errors.New("switchsensor: timer wait failed")
	ErrTimerCancel = errors.New("switchsensor: timer cancel failed")
)

type debounceState int

const (
	stateSettled debounceState = iota
	stateDebouncing
)

// Switch polls a pin and reports status changes once they've held steady
// for DebounceTicks.
type Switch struct {
	pin      hal.InputPin
	timer    hal.Timer
	polarity Polarity

	current Status
	state   debounceState
	pending Status
}

// New constructs a Switch starting in Off.
func New(pin hal.InputPin, timer hal.Timer, polarity Polarity) *Switch {
	return &Switch{pin: pin, timer: timer, polarity: polarity, current: Off}
}

// Status returns the last-settled debounced status.
func (s *Switch) Status() Status { return s.current }

func (s *Switch) read() (Status, error) {
	high, err := s.pin.IsHigh()
	if err != nil {
		return Off, ErrPinRead
	}
	on := high
	if s.polarity == ActiveLow {
		on = !high
	}
	if on {
		return On, nil
	}
	return Off, nil
}

// Update is the poll method: call it every loop iteration. It returns a
// non-nil Status pointer exactly when the debounced value just changed.
func (s *Switch) Update() (changed *Status, err error) {
	raw, err := s.read()
	if err != nil {
		return nil, err
	}

	switch s.state {
	case stateSettled:
		if raw == s.current {
			return nil, nil
		}
		if err := s.timer.Start(DebounceTicks); err != nil {
			return nil, ErrTimerStart
		}
		s.pending = raw
		s.state = stateDebouncing
		return nil, nil

	case stateDebouncing:
		raw2, err := s.read()
		if err != nil {
			return nil, err
		}
		if raw2 != s.pending {
			// bounced back before settling; re-arm against the new raw value.
			if err := s.timer.Cancel(); err != nil {
				return nil, ErrTimerCancel
			}
			if raw2 == s.current {
				s.state = stateSettled
				return nil, nil
			}
			if err := s.timer.Start(DebounceTicks); err != nil {
				return nil, ErrTimerStart
			}
			s.pending = raw2
			return nil, nil
		}

		done, err := s.timer.Wait()
		if err != nil {
			return nil, ErrTimerWait
		}
		if !done {
			return nil, nil
		}

		s.current = s.pending
		s.state = stateSettled
		v := s.current
		return &v, nil
	}
	return nil, nil
}

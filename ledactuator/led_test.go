package ledactuator

import (
	"testing"

	"github.com/villagekit/robokit-go/command"
	"github.com/villagekit/robokit-go/platform"
	"github.com/villagekit/robokit-go/tick"
)

func TestSetIsImmediate(t *testing.T) {
	super := tick.NewSuperTimer(nil)
	pin := &platform.FakePin{}
	d := New(pin, platform.NewHWTimer(super))

	if err := d.Run(command.LedSet(true)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	done, err := d.Poll()
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if !done {
		t.Fatalf("Set should settle immediately")
	}
	if !d.IsOn() {
		t.Fatalf("IsOn() = false, want true")
	}
}

func TestBlinkTogglesThenSettles(t *testing.T) {
	super := tick.NewSuperTimer(nil)
	pin := &platform.FakePin{}
	d := New(pin, platform.NewHWTimer(super))

	if err := d.Run(command.LedBlink(3)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	done, err := d.Poll() // blinkStart: flips the LED, arms the timer
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if done {
		t.Fatalf("blink should not settle on the first poll")
	}
	if !d.IsOn() {
		t.Fatalf("expected LED on after blink start")
	}

	for i := 0; i < 10 && !done; i++ {
		super.Tick()
		done, err = d.Poll()
		if err != nil {
			t.Fatalf("Poll: %v", err)
		}
	}
	if !done {
		t.Fatalf("blink did not settle")
	}
}

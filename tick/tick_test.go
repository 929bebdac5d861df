package tick

import "testing"

type fakeCounter struct{ n Ticks }

func (f *fakeCounter) Count() Ticks { return f.n }

func TestSubTimerWaitWrapSafe(t *testing.T) {
	fc := &fakeCounter{n: 0xFFFFFFF0}
	super := NewSuperTimer(fc)
	super.Tick()

	sub := super.Sub()
	sub.Start(20)

	fc.n = 0xFFFFFFF0 + 10 // not wrapped yet
	super.Tick()
	if sub.Wait() {
		t.Fatalf("expected not yet elapsed before wrap")
	}

	fc.n = 5 // counter wrapped past zero
	super.Tick()
	if !sub.Wait() {
		t.Fatalf("expected elapsed after wrap, got not elapsed")
	}
}

func TestSubTimerWaitExactDurationNotYetDone(t *testing.T) {
	fc := &fakeCounter{n: 0}
	super := NewSuperTimer(fc)
	super.Tick()

	sub := super.Sub()
	sub.Start(20)

	fc.n = 20 // elapsed == duration, not past it
	super.Tick()
	if sub.Wait() {
		t.Fatalf("expected not done when elapsed equals duration")
	}

	fc.n = 21 // elapsed just past duration
	super.Tick()
	if !sub.Wait() {
		t.Fatalf("expected done once elapsed exceeds duration")
	}
}

func TestSubTimerCancelStopsWait(t *testing.T) {
	fc := &fakeCounter{}
	super := NewSuperTimer(fc)
	sub := super.Sub()
	sub.Start(5)
	sub.Cancel()

	fc.n = 100
	super.Tick()
	if sub.Wait() {
		t.Fatalf("cancelled timer should never report done")
	}
}

func TestSoftwareSuperTimerAdvancesByOne(t *testing.T) {
	super := NewSuperTimer(nil)
	if got := super.Tick(); got != 1 {
		t.Fatalf("Tick() = %d, want 1", got)
	}
	if got := super.Tick(); got != 2 {
		t.Fatalf("Tick() = %d, want 2", got)
	}
}

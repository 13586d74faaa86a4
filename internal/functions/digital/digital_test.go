package digital

import (
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/hal/sim"
	"github.com/nerrad567/gray-logic-node/internal/tag"
)

func env() (function.Env, *sim.Board, *sim.Clock) {
	board := sim.NewBoard()
	clock := sim.NewClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	return function.Env{Board: board, Clock: clock}, board, clock
}

func set(t *testing.T, f function.Function, name string, v any) {
	t.Helper()
	if !function.SetTag(f, function.TagIndex(f, name), v, tag.Write) {
		t.Fatalf("setting %s = %v failed", name, v)
	}
}

func TestOutFollowsValue(t *testing.T) {
	e, board, clock := env()
	s := function.NewSetup(map[string]any{"type": TypeOut, "name": "relay", "pinOutput": 7.0})
	f, err := NewOut(s, e)
	if err != nil {
		t.Fatalf("NewOut() error = %v", err)
	}
	if s.Log()["done"] != "relay (OutputPin:7)" {
		t.Errorf("log = %v", s.Log())
	}
	pin := board.SimPin(7)
	if !pin.IsOutput() || pin.Get() {
		t.Fatal("pin not configured as low output")
	}

	set(t, f, "Value", true)
	f.Update(clock.Now())
	if !pin.Get() {
		t.Error("pin low after Value = true")
	}
	set(t, f, "Value", "false")
	f.Update(clock.Now())
	if pin.Get() {
		t.Error("pin high after Value = false")
	}
}

func TestOutAutoOff(t *testing.T) {
	e, board, clock := env()
	f, err := NewOut(function.NewSetup(map[string]any{"name": "pump", "pinOutput": 2.0}), e)
	if err != nil {
		t.Fatalf("NewOut() error = %v", err)
	}
	o := f.(*Out)
	set(t, o, "DelayAutoOff", 2)
	set(t, o, "Value", true)

	for i := 1; i <= 3; i++ {
		clock.Advance(30 * time.Second)
		o.Update(clock.Now())
		if !o.Value {
			t.Fatalf("switched off after %d s", i*30)
		}
	}
	if o.DelayCounter != 1 {
		t.Errorf("DelayCounter = %d, want 1", o.DelayCounter)
	}

	clock.Advance(30 * time.Second)
	o.Update(clock.Now())
	if o.Value || board.SimPin(2).Get() {
		t.Error("still on after 2 minutes")
	}

	clock.Advance(time.Second)
	o.Update(clock.Now())
	if o.DelayCounter != 0 {
		t.Errorf("DelayCounter = %d after off, want 0", o.DelayCounter)
	}
}

func TestOutInvalidSetup(t *testing.T) {
	e, _, _ := env()
	s := function.NewSetup(map[string]any{"name": "x", "pinOutput": "seven"})
	if _, err := NewOut(s, e); err == nil {
		t.Fatal("NewOut() accepted a string pin")
	}
	if s.Log()["pinOutput"] == nil {
		t.Errorf("log = %v, want pinOutput entry", s.Log())
	}
}

func TestInInputMode(t *testing.T) {
	e, board, clock := env()
	s := function.NewSetup(map[string]any{"name": "door", "pin": 3.0, "pullup": "up", "mode": "input"})
	f, err := NewIn(s, e)
	if err != nil {
		t.Fatalf("NewIn() error = %v", err)
	}
	if s.Log()["done"] != "door (InputPin:3 ,Pullup:up ,Mode:input)" {
		t.Errorf("log = %v", s.Log())
	}
	in := f.(*In)

	in.Update(clock.Now())
	if !in.Level {
		t.Error("pulled-up input reads low")
	}
	board.SimPin(3).Drive(false)
	in.Update(clock.Now())
	if in.Level {
		t.Error("input reads high after driving low")
	}
	if got, _ := function.GetTag(in, function.TagIndex(in, "Value"), tag.Read); got != false {
		t.Errorf("Value tag = %v", got)
	}
}

func newCounter(t *testing.T) (*In, *sim.Pin, *sim.Clock) {
	t.Helper()
	e, board, clock := env()
	f, err := NewIn(function.NewSetup(map[string]any{"name": "meter", "pin": 5.0, "pullup": "down", "mode": "count"}), e)
	if err != nil {
		t.Fatalf("NewIn() error = %v", err)
	}
	return f.(*In), board.SimPin(5), clock
}

func TestInCountsDebouncedEdges(t *testing.T) {
	in, pin, clock := newCounter(t)

	clock.Advance(200 * time.Millisecond)
	pin.Drive(true)
	clock.Advance(10 * time.Millisecond)
	pin.Drive(false)
	clock.Advance(10 * time.Millisecond)
	pin.Drive(true) // bounce
	clock.Advance(200 * time.Millisecond)
	pin.Drive(false)
	clock.Advance(200 * time.Millisecond)
	pin.Drive(true)

	in.Update(clock.Now())
	if in.Count != 2 {
		t.Errorf("Count = %d, want 2", in.Count)
	}
}

func TestInDebounceTimeTag(t *testing.T) {
	in, pin, clock := newCounter(t)
	set(t, in, "DebounceTime", 0)

	for range 3 {
		clock.Advance(time.Millisecond)
		pin.Drive(true)
		clock.Advance(time.Millisecond)
		pin.Drive(false)
	}
	in.Update(clock.Now())
	if in.Count != 3 {
		t.Errorf("Count = %d, want 3", in.Count)
	}
}

func TestInCloseStopsCounting(t *testing.T) {
	in, pin, clock := newCounter(t)
	if err := in.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	clock.Advance(time.Second)
	pin.Drive(true)
	in.Update(clock.Now())
	if in.Count != 0 {
		t.Errorf("Count = %d after Close", in.Count)
	}
}

package feeder

import (
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/hal/sim"
	"github.com/nerrad567/gray-logic-node/internal/tag"
)

type rig struct {
	board *sim.Board
	clock *sim.Clock
	f     *Feeder
}

func newRig(t *testing.T, start time.Time) *rig {
	t.Helper()
	board := sim.NewBoard()
	clock := sim.NewClock(start)
	s := function.NewSetup(map[string]any{"name": "fish", "pinEnable": 4.0, "pinStep": 5.0, "pinDir": 6.0})
	f, err := New(s, function.Env{Board: board, Clock: clock})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Log()["done"] != "fish (EnablePin:4, StepPin: 5, DirPin: 6)" {
		t.Errorf("log = %v", s.Log())
	}
	fd := f.(*Feeder)
	fd.StepsPerRotation = 200
	fd.FeedingRotations = 2
	fd.MaxSpeed = 1000
	return &rig{board: board, clock: clock, f: fd}
}

func (r *rig) enabled() bool { return !r.board.SimPin(4).Get() }

func (r *rig) step() {
	r.clock.Advance(100 * time.Millisecond)
	r.f.Update(r.clock.Now())
}

var noon = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestFeedCommand(t *testing.T) {
	r := newRig(t, noon)
	if r.enabled() {
		t.Fatal("driver enabled at start")
	}

	i := function.TagIndex(r.f, "CmdDoFeed")
	if !function.SetTag(r.f, i, true, tag.Write) {
		t.Fatal("setting CmdDoFeed failed")
	}
	r.step()
	if !r.f.Feeding || !r.enabled() || r.f.DoFeed {
		t.Fatalf("Feeding/enabled/DoFeed = %v/%v/%v", r.f.Feeding, r.enabled(), r.f.DoFeed)
	}
	if r.f.DistanceToGo != 300 || r.f.Speed != 1000 {
		t.Errorf("DistanceToGo/Speed = %d/%v, want 300/1000", r.f.DistanceToGo, r.f.Speed)
	}

	for range 3 {
		r.step()
	}
	if r.f.Feeding || r.enabled() {
		t.Error("still feeding after 400 steps")
	}
	if r.f.motor.pos != 400 || r.f.DistanceToGo != 0 || r.f.Speed != 0 {
		t.Errorf("pos/DistanceToGo/Speed = %d/%d/%v", r.f.motor.pos, r.f.DistanceToGo, r.f.Speed)
	}
	if !r.board.SimPin(6).Get() {
		t.Error("direction pin low for a forward move")
	}
}

func TestAccelerationProfile(t *testing.T) {
	r := newRig(t, noon)
	r.f.Acceleration = 2000
	r.f.DoFeed = true

	var peak float32
	steps := 0
	for r.f.DoFeed || r.f.Feeding {
		r.step()
		peak = max(peak, r.f.Speed)
		steps++
		if steps > 100 {
			t.Fatalf("no arrival, DistanceToGo = %d", r.f.DistanceToGo)
		}
	}
	if r.f.motor.pos != 400 {
		t.Errorf("pos = %d, want 400", r.f.motor.pos)
	}
	if peak > r.f.MaxSpeed {
		t.Errorf("peak speed %v above MaxSpeed", peak)
	}
	if steps <= 4 {
		t.Errorf("arrived in %d updates, acceleration ignored", steps)
	}
}

func TestAutoFeedOncePerMinute(t *testing.T) {
	r := newRig(t, time.Date(2024, 5, 1, 7, 59, 59, 0, time.UTC))
	r.f.FeedingHour, r.f.FeedingMinute = 8, 0

	r.step()
	if r.f.Feeding {
		t.Fatal("fed before 08:00")
	}
	for range 20 {
		r.step()
	}
	if r.f.motor.pos != 400 {
		t.Fatalf("pos = %d after auto feed, want 400", r.f.motor.pos)
	}
	// Still inside 08:00 but already fed.
	for range 10 {
		r.step()
	}
	if r.f.motor.pos != 400 {
		t.Errorf("fed twice in one minute: pos = %d", r.f.motor.pos)
	}
}

func TestAutoFeedNeedsSetClock(t *testing.T) {
	r := newRig(t, time.Date(1970, 1, 1, 8, 0, 0, 0, time.UTC))
	r.f.FeedingHour, r.f.FeedingMinute = 8, 0
	r.step()
	if r.f.Feeding {
		t.Error("fed with an unset clock")
	}
}

func TestRunConst(t *testing.T) {
	r := newRig(t, noon)
	r.f.ConstSpeed = -50
	r.f.RunConst = true

	r.step()
	r.step()
	if r.f.motor.pos != -10 || r.f.Speed != -50 {
		t.Errorf("pos/Speed = %d/%v, want -10/-50", r.f.motor.pos, r.f.Speed)
	}
	if !r.enabled() || r.board.SimPin(6).Get() {
		t.Error("want driver enabled and direction reverse")
	}

	// A feed command ends constant rotation.
	function.SetTag(r.f, function.TagIndex(r.f, "CmdDoFeed"), true, tag.Write)
	if r.f.RunConst {
		t.Fatal("RunConst still set after feed command")
	}
	r.step()
	if !r.f.Feeding || r.f.DistanceToGo != 300 {
		t.Errorf("Feeding/DistanceToGo = %v/%d", r.f.Feeding, r.f.DistanceToGo)
	}
}

func TestClose(t *testing.T) {
	r := newRig(t, noon)
	r.f.RunConst = true
	r.f.ConstSpeed = 10
	r.step()
	if err := r.f.Close(); err != nil {
		t.Fatal(err)
	}
	if r.enabled() {
		t.Error("driver enabled after Close")
	}
}

// Package feeder implements a stepper-driven feeder that doses a fixed
// number of rotations at a daily time or on command, or turns
// continuously at a constant speed.
package feeder

import (
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/hal"
	"github.com/nerrad567/gray-logic-node/internal/tag"
)

// Type is the setup type name.
const Type = "feeder"

// Feeder is a dosing feeder on a step/direction driver.
type Feeder struct {
	function.Base

	clock   hal.Clock
	motor   stepper
	last    uint32
	autoRan bool

	FeedingHour      int16
	FeedingMinute    int16
	StepsPerRotation float32
	FeedingRotations float32
	Acceleration     float32
	MaxSpeed         float32
	ConstSpeed       float32
	Feeding          bool
	DistanceToGo     int32
	RunConst         bool
	Speed            float32
	DoFeed           bool
}

// New builds a Feeder from a record with "pinEnable", "pinStep" and "pinDir".
func New(s *function.Setup, env function.Env) (function.Function, error) {
	name := s.Name()
	pe := s.UInt8("pinEnable")
	ps := s.UInt8("pinStep")
	pd := s.UInt8("pinDir")
	if !s.OK() {
		return nil, function.ErrInvalidSetup
	}

	var pins [3]hal.Pin
	for i, n := range []uint8{pe, ps, pd} {
		p, err := env.Board.Pin(int(n))
		if err != nil {
			return nil, fmt.Errorf("stepper pin %d: %w", n, err)
		}
		// Enable is active low: start disabled.
		if err := p.ConfigureOutput(i == 0); err != nil {
			return nil, fmt.Errorf("configuring stepper pin %d: %w", n, err)
		}
		pins[i] = p
	}

	f := NewFeeder(name, pins[0], pins[1], pins[2], env.Clock)
	s.Done("%s (EnablePin:%d, StepPin: %d, DirPin: %d)", name, pe, ps, pd)
	return f, nil
}

// NewFeeder returns a Feeder with auto-feed disabled (hour and minute -1).
func NewFeeder(name string, enable, step, dir hal.Pin, clock hal.Clock) *Feeder {
	f := &Feeder{
		Base:          function.NewBase(name, ""),
		clock:         clock,
		motor:         stepper{step: step, dir: dir, enable: enable},
		last:          clock.Micros(),
		FeedingHour:   -1,
		FeedingMinute: -1,
	}
	f.motor.setEnabled(false)

	cfg := tag.ReadWrite | tag.Save
	f.AddTags(
		tag.New("FeedingHour", "Feeding hour", "-1 disables", cfg, tag.Config, tag.Int16{P: &f.FeedingHour}, tag.WithUnit("h")),
		tag.New("FeedingMinute", "Feeding minute", "", cfg, tag.Config, tag.Int16{P: &f.FeedingMinute}, tag.WithUnit("m")),
		tag.New("SteppsPerRotation", "Steps per rotation", "", cfg, tag.Config, tag.Float{P: &f.StepsPerRotation}, tag.WithUnit("st/rot")),
		tag.New("FeedingRotations", "Rotations per feeding", "", cfg, tag.Config, tag.Float{P: &f.FeedingRotations}, tag.WithUnit("rot")),
		tag.New("Acceleration", "Acceleration", "", cfg, tag.Config, tag.Float{P: &f.Acceleration}, tag.WithUnit("st/s2")),
		tag.New("MaxSpeed", "Maximum speed", "", cfg, tag.Config, tag.Float{P: &f.MaxSpeed}, tag.WithUnit("st/s")),
		tag.New("ConstSpeed", "Constant speed", "", cfg, tag.Config, tag.Float{P: &f.ConstSpeed}, tag.WithUnit("st/s")),

		tag.New("Feeding", "Feeding", "", tag.ReadWrite, tag.Data, tag.Bool{P: &f.Feeding}, tag.WithLabels("ON", "OFF")),
		tag.New("DistanceToGo", "Remaining steps", "", tag.Read, tag.Data, tag.Int32{P: &f.DistanceToGo}, tag.WithUnit("st")),
		tag.New("RunConst", "Constant rotation", "", tag.ReadWrite, tag.Data, tag.Bool{P: &f.RunConst}, tag.WithLabels("ON", "OFF")),
		tag.New("Speed", "Speed", "", tag.Read, tag.Data, tag.Float{P: &f.Speed}, tag.WithUnit("st/s")),
		tag.New("CmdDoFeed", "Feed now", "", tag.ReadWrite, tag.Cmd, tag.Bool{P: &f.DoFeed},
			tag.WithLabels("Active", "Start"), tag.WithDisplay(tag.TypeBoolCmd), tag.WithOnSet(f.onFeedCommand)),
	)
	return f
}

// onFeedCommand makes a feed request end constant rotation.
func (f *Feeder) onFeedCommand() {
	if f.DoFeed {
		f.RunConst = false
	}
}

// Update runs the motor for the time since the last call. The daily
// feed fires once when the wall clock enters the configured minute,
// and only once the clock has been set (year after 2000).
func (f *Feeder) Update(now time.Time) {
	us := f.clock.Micros()
	dt := float64(us-f.last) / 1e6
	f.last = us

	auto := int(f.FeedingHour) == now.Hour() && int(f.FeedingMinute) == now.Minute() && now.Year() > 2000

	if f.RunConst {
		f.motor.setEnabled(true)
		f.motor.runSpeed(dt, float64(f.ConstSpeed))
		f.DoFeed = false
	} else {
		if (auto && !f.autoRan) || f.DoFeed {
			f.motor.move(int64(f.StepsPerRotation * f.FeedingRotations))
			f.motor.setEnabled(true)
			f.Feeding = true
			f.DoFeed = false
		}
		f.motor.run(dt, float64(f.Acceleration), float64(f.MaxSpeed))
		if f.motor.distanceToGo() == 0 {
			f.motor.setEnabled(false)
			f.Feeding = false
		}
	}

	f.autoRan = auto
	f.DistanceToGo = int32(f.motor.distanceToGo())
	f.Speed = float32(f.motor.speed)
}

// Close disables the driver.
func (f *Feeder) Close() error {
	f.motor.setEnabled(false)
	return nil
}

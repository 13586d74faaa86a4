package feeder

import (
	"math"

	"github.com/nerrad567/gray-logic-node/internal/hal"
)

// minSpeed keeps a decelerating move from stalling short of its target.
const minSpeed = 1.0

// stepper drives a step/direction driver with a trapezoidal profile.
// It never blocks: each call emits the steps due for the elapsed time.
type stepper struct {
	step   hal.Pin
	dir    hal.Pin
	enable hal.Pin

	pos    int64
	target int64
	speed  float64 // steps/s, signed
	frac   float64
}

func (s *stepper) move(rel int64) { s.target = s.pos + rel }

func (s *stepper) distanceToGo() int64 { return s.target - s.pos }

// setEnabled drives the active-low enable input.
func (s *stepper) setEnabled(on bool) { s.enable.Set(!on) }

// run moves towards target, accelerating up to maxSpeed and braking in
// time to stop on it. A non-positive acceleration switches speed
// instantly.
func (s *stepper) run(dt, accel, maxSpeed float64) {
	remaining := s.distanceToGo()
	if remaining == 0 {
		s.speed, s.frac = 0, 0
		return
	}
	dir := 1.0
	if remaining < 0 {
		dir = -1
	}
	v := math.Abs(s.speed)
	if s.speed*dir < 0 {
		v = 0
	}

	switch {
	case accel <= 0:
		v = maxSpeed
	case float64(abs(remaining)) <= v*v/(2*accel):
		v = max(v-accel*dt, minSpeed)
	default:
		v = min(v+accel*dt, maxSpeed)
	}
	s.speed = v * dir
	s.emit(v*dt, abs(remaining))
	if s.pos == s.target {
		s.speed, s.frac = 0, 0
	}
}

// runSpeed turns at a constant signed speed with no target.
func (s *stepper) runSpeed(dt, speed float64) {
	s.speed = speed
	s.emit(math.Abs(speed)*dt, math.MaxInt64)
	s.target = s.pos
}

// emit adds distance (steps, fractional) to the accumulator and pulses
// the whole steps, at most limit of them.
func (s *stepper) emit(distance float64, limit int64) {
	s.frac += distance
	n := int64(s.frac)
	if n > limit {
		n = limit
	}
	s.frac -= float64(n)
	if n == 0 {
		return
	}

	forward := s.speed >= 0
	s.dir.Set(forward)
	for range n {
		s.step.Set(true)
		s.step.Set(false)
	}
	if forward {
		s.pos += n
	} else {
		s.pos -= n
	}
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

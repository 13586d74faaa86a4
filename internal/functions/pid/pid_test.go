package pid

import (
	"math"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/hal/sim"
)

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-3 }

func newController() (*Controller, *sim.Clock) {
	clock := sim.NewClock(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	return NewController("heat", "°C", "%", clock), clock
}

func step(c *Controller, clock *sim.Clock) {
	clock.Advance(time.Second)
	c.Update(clock.Now())
}

func TestProportional(t *testing.T) {
	c, clock := newController()
	c.Ti = 0
	c.ProcessVar, c.Setpoint = 40, 50

	step(c, clock)
	if !near(c.Value, 10) {
		t.Errorf("Value = %v, want 10", c.Value)
	}

	c.OutputMin, c.OutputMax = 20, 40
	step(c, clock)
	if !near(c.Value, 22) {
		t.Errorf("Value = %v in 20..40, want 22", c.Value)
	}
}

func TestOutputClamp(t *testing.T) {
	c, clock := newController()
	c.Ti = 0
	c.P = 2
	c.Setpoint = 100
	step(c, clock)
	if c.Value != 100 {
		t.Errorf("Value = %v, want clamped to 100", c.Value)
	}

	c.Setpoint, c.ProcessVar = 0, 100
	step(c, clock)
	if c.Value != 0 {
		t.Errorf("Value = %v, want clamped to 0", c.Value)
	}
}

func TestIntegralAntiWindup(t *testing.T) {
	c, clock := newController()
	c.P = 0
	c.ProcessVar, c.Setpoint = 40, 50

	step(c, clock)
	step(c, clock)
	if !near(c.Value, 20) {
		t.Fatalf("Value = %v after 2 s, want 20", c.Value)
	}

	for range 50 {
		step(c, clock)
	}
	if c.Value != 100 {
		t.Fatalf("Value = %v, want saturated", c.Value)
	}

	// With the integral held at the limit the output leaves saturation
	// on the first step with a negative error.
	c.ProcessVar = 60
	step(c, clock)
	if !near(c.Value, 90) {
		t.Errorf("Value = %v after error reversal, want 90", c.Value)
	}
}

func TestManualModes(t *testing.T) {
	c, clock := newController()
	c.Ti = 0
	c.ProcessVar, c.Setpoint = 50, 50
	c.ManualSetpointMode = true
	c.ManualSetpoint = 70

	step(c, clock)
	if !near(c.Value, 20) {
		t.Errorf("Value = %v with manual setpoint, want 20", c.Value)
	}

	c.ManualOutputMode = true
	c.Value = 33
	step(c, clock)
	if !near(c.Value, 33) {
		t.Errorf("Value = %v in manual output mode, want 33", c.Value)
	}
}

func TestDerivativeWithoutElapsedTime(t *testing.T) {
	c, clock := newController()
	c.Td = 1
	c.ProcessVar = 30
	c.Update(clock.Now())
	c.Update(clock.Now())
	if math.IsNaN(float64(c.Value)) || math.IsInf(float64(c.Value), 0) {
		t.Errorf("Value = %v", c.Value)
	}
}

func TestNewFromSetup(t *testing.T) {
	clock := sim.NewClock(time.Now())
	s := function.NewSetup(map[string]any{"name": "pid", "inUnit": "°C", "outUnit": "%"})
	f, err := New(s, function.Env{Clock: clock})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Log()["done"] != "pid(Process:°C Output:%)" {
		t.Errorf("log = %v", s.Log())
	}
	if got := len(f.Tags()); got != 14 {
		t.Errorf("tag count = %d, want 14", got)
	}
	unit := f.Tags()[function.TagIndex(f, "ProcessVar")].Unit
	if unit != "°C" {
		t.Errorf("ProcessVar unit = %q", unit)
	}
}

// Package pid implements a PID controller Function with manual modes
// for setpoint and output and an integral clamp against windup.
//
// The controller works on values normalized to 0..1: the process
// variable and setpoint against SetpointMin..SetpointMax, the output
// against OutputMin..OutputMax.
package pid

import (
	"time"

	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/hal"
	"github.com/nerrad567/gray-logic-node/internal/tag"
)

// Type is the setup type name.
const Type = "pidController"

// Controller is a PID controller.
type Controller struct {
	function.Base

	clock hal.Clock

	P           float32
	Ti          float32
	Td          float32
	TdLag       float32
	SetpointMin float32
	SetpointMax float32
	OutputMin   float32
	OutputMax   float32

	ProcessVar         float32
	Setpoint           float32
	ManualSetpointMode bool
	ManualSetpoint     float32
	ManualOutputMode   bool
	Value              float32

	proportional   float32
	integral       float32
	derivative     float32
	lastProcessVar float32
	lastMillis     uint32
}

// New builds a Controller from a record with "inUnit" and "outUnit".
func New(s *function.Setup, env function.Env) (function.Function, error) {
	name := s.Name()
	in := s.String("inUnit")
	out := s.String("outUnit")
	if !s.OK() {
		return nil, function.ErrInvalidSetup
	}
	c := NewController(name, in, out, env.Clock)
	s.Done("%s(Process:%s Output:%s)", name, in, out)
	return c, nil
}

// NewController returns a controller with P=1, Ti=1 and both ranges 0..100.
func NewController(name, inUnit, outUnit string, clock hal.Clock) *Controller {
	c := &Controller{
		Base:        function.NewBase(name, ""),
		clock:       clock,
		P:           1,
		Ti:          1,
		TdLag:       1,
		SetpointMax: 100,
		OutputMax:   100,
		lastMillis:  clock.Millis(),
	}
	cfg := tag.ReadWrite | tag.Save
	c.AddTags(
		tag.New("P", "Proportional gain", "", cfg, tag.Config, tag.Float{P: &c.P}),
		tag.New("Ti", "Integral time", "", cfg, tag.Config, tag.Float{P: &c.Ti}, tag.WithUnit("s")),
		tag.New("Td", "Derivative time", "", cfg, tag.Config, tag.Float{P: &c.Td}, tag.WithUnit("s")),
		tag.New("TdLag", "Derivative decay", "", cfg, tag.Config, tag.Float{P: &c.TdLag}, tag.WithUnit("s")),
		tag.New("SetpointMin", "Minimum setpoint", "", cfg, tag.Config, tag.Float{P: &c.SetpointMin}, tag.WithUnit(inUnit)),
		tag.New("SetpointMax", "Maximum setpoint", "", cfg, tag.Config, tag.Float{P: &c.SetpointMax}, tag.WithUnit(inUnit)),
		tag.New("OutputMin", "Minimum output", "", cfg, tag.Config, tag.Float{P: &c.OutputMin}, tag.WithUnit(outUnit)),
		tag.New("OutputMax", "Maximum output", "", cfg, tag.Config, tag.Float{P: &c.OutputMax}, tag.WithUnit(outUnit)),

		tag.New("ProcessVar", "Process value", "", tag.ReadWrite, tag.Data, tag.Float{P: &c.ProcessVar}, tag.WithUnit(inUnit)),
		tag.New("Setpoint", "Setpoint", "", cfg, tag.Data, tag.Float{P: &c.Setpoint}, tag.WithUnit(inUnit)),
		tag.New("ManualSetpointMode", "Manual setpoint", "", cfg, tag.Data, tag.Bool{P: &c.ManualSetpointMode},
			tag.WithLabels("MANUAL", "AUTO")),
		tag.New("ManualSetpoint", "Manual setpoint value", "", cfg, tag.Data, tag.Float{P: &c.ManualSetpoint}, tag.WithUnit(inUnit)),
		tag.New("ManualOutputMode", "Manual output", "", cfg, tag.Data, tag.Bool{P: &c.ManualOutputMode},
			tag.WithLabels("MANUAL", "AUTO")),
		tag.New("Value", "Output", "Writable in manual output mode", tag.ReadWrite, tag.Data, tag.Float{P: &c.Value},
			tag.WithUnit(outUnit)),
	)
	return c
}

// Update runs one controller step over the time since the last one.
func (c *Controller) Update(time.Time) {
	now := c.clock.Millis()
	dt := float32(now-c.lastMillis) / 1000
	c.lastMillis = now

	setpoint := c.Setpoint
	if c.ManualSetpointMode {
		setpoint = c.ManualSetpoint
	}
	sp := normalize(setpoint, c.SetpointMin, c.SetpointMax)
	pv := normalize(c.ProcessVar, c.SetpointMin, c.SetpointMax)
	e := sp - pv

	c.proportional = c.P * e

	if c.Td > 0 && dt > 0 {
		d := c.Td * (pv - c.lastProcessVar) / dt
		if c.TdLag > 0 {
			c.derivative += (d - c.derivative) * (dt / c.TdLag)
		} else {
			c.derivative = d
		}
	}

	var out float32
	if c.ManualOutputMode {
		out = normalize(c.Value, c.OutputMin, c.OutputMax)
	} else {
		if c.Ti > 0 {
			c.integral += e * dt / c.Ti
		} else {
			c.integral = 0
		}
		out = c.proportional + c.integral - c.derivative
	}

	// Clamp; the integral is reset to the value that just reaches the limit.
	switch {
	case out > 1:
		out = 1
		if c.Ti > 0 {
			c.integral = 1 - c.proportional + c.derivative
		}
	case out < 0:
		out = 0
		if c.Ti > 0 {
			c.integral = 0 - c.proportional + c.derivative
		}
	}

	c.Value = out*(c.OutputMax-c.OutputMin) + c.OutputMin
	c.lastProcessVar = pv
}

func normalize(v, lo, hi float32) float32 {
	if hi == lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}

// Package digital implements the GPIO Functions: an output with an
// optional auto-off delay and a debounced input that either mirrors the
// pin level or counts rising edges from an interrupt.
package digital

import (
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/hal"
	"github.com/nerrad567/gray-logic-node/internal/tag"
)

// TypeOut is the setup type name of Out.
const TypeOut = "digitalOut"

const millisPerMinute = 60000

// Out drives one output pin. With DelayAutoOff > 0 the output switches
// itself off after that many minutes on.
type Out struct {
	function.Base

	pin   hal.Pin
	clock hal.Clock

	DelayAutoOff uint16
	Value        bool
	DelayCounter uint16

	lastMillis  uint32
	delayMillis uint32
}

// NewOut builds an Out from a setup record with "pinOutput".
func NewOut(s *function.Setup, env function.Env) (function.Function, error) {
	name := s.Name()
	n := s.UInt8("pinOutput")
	if !s.OK() {
		return nil, function.ErrInvalidSetup
	}

	pin, err := env.Board.Pin(int(n))
	if err != nil {
		return nil, fmt.Errorf("output pin %d: %w", n, err)
	}
	if err := pin.ConfigureOutput(false); err != nil {
		return nil, fmt.Errorf("configuring output pin %d: %w", n, err)
	}

	o := &Out{Base: function.NewBase(name, ""), pin: pin, clock: env.Clock}
	o.lastMillis = o.clock.Millis()
	o.AddTags(
		tag.New("DelayAutoOff", "Auto-off delay", "0 disables auto-off", tag.ReadWrite|tag.Save, tag.Config,
			tag.UInt16{P: &o.DelayAutoOff}, tag.WithUnit("Min")),
		tag.New("Value", "Switched on", "", tag.ReadWrite|tag.Save, tag.Data, tag.Bool{P: &o.Value},
			tag.WithLabels("ON", "OFF")),
		tag.New("DelayCounter", "Minutes on", "", tag.Read, tag.Data, tag.UInt16{P: &o.DelayCounter}, tag.WithUnit("Min")),
	)
	s.Done("%s (OutputPin:%d)", name, n)
	return o, nil
}

// Update counts whole minutes while on and writes the pin.
func (o *Out) Update(time.Time) {
	now := o.clock.Millis()
	if o.DelayAutoOff > 0 && o.Value {
		o.delayMillis += now - o.lastMillis
		if o.delayMillis >= millisPerMinute {
			o.DelayCounter++
			o.delayMillis -= millisPerMinute
			if o.DelayCounter >= o.DelayAutoOff {
				o.Value = false
			}
		}
	} else {
		o.DelayCounter = 0
		o.delayMillis = 0
	}
	o.lastMillis = now
	o.pin.Set(o.Value)
}

// Package level implements an analog level sensor with a low-level alarm.
package level

import (
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/hal"
	"github.com/nerrad567/gray-logic-node/internal/tag"
)

// Type is the setup type name.
const Type = "level"

// alarmHysteresis is added to AlarmLevel before the alarm clears.
const alarmHysteresis = 5.0

// Level samples an ADC channel every ReadInterval seconds and filters
// the scaled reading into Value (percent).
type Level struct {
	function.Base

	adc hal.ADC

	RawEmpty     int16
	RawFull      int16
	AlarmLevel   float32
	ReadInterval uint16

	Value    float32
	Alarm    bool
	RawValue int16

	lastSecond int
	elapsed    uint16
}

// New builds a Level from a setup record with "pinInput".
func New(s *function.Setup, env function.Env) (function.Function, error) {
	name := s.Name()
	n := s.UInt8("pinInput")
	if !s.OK() {
		return nil, function.ErrInvalidSetup
	}

	adc, err := env.Board.ADC(int(n))
	if err != nil {
		return nil, fmt.Errorf("analog input %d: %w", n, err)
	}
	l := NewLevel(name, adc)
	s.Done("%s(Pin:%d)", name, n)
	return l, nil
}

// NewLevel returns a Level reading adc, starting at 50 %.
func NewLevel(name string, adc hal.ADC) *Level {
	l := &Level{
		Base:         function.NewBase(name, ""),
		adc:          adc,
		RawEmpty:     0,
		RawFull:      1024,
		ReadInterval: 1,
		Value:        50,
		lastSecond:   -1,
	}
	l.AddTags(
		tag.New("RawEmpty", "Raw value empty", "", tag.ReadWrite|tag.Save, tag.Config, tag.Int16{P: &l.RawEmpty}, tag.WithUnit("#")),
		tag.New("RawFull", "Raw value full", "", tag.ReadWrite|tag.Save, tag.Config, tag.Int16{P: &l.RawFull}, tag.WithUnit("#")),
		tag.New("AlarmLevel", "Alarm level", "", tag.ReadWrite|tag.Save, tag.Config, tag.Float{P: &l.AlarmLevel}, tag.WithUnit("%")),
		tag.New("ReadInterval", "Read interval", "", tag.ReadWrite|tag.Save, tag.Config, tag.UInt16{P: &l.ReadInterval}, tag.WithUnit("s")),
		tag.New("Value", "Level", "", tag.Read, tag.Data, tag.Float{P: &l.Value}, tag.WithUnit("%")),
		tag.New("Alarm", "Alarm", "", tag.Read, tag.Data, tag.Bool{P: &l.Alarm}, tag.WithLabels("ON", "OFF")),
		tag.New("RawValue", "Raw value", "", tag.Read, tag.Data, tag.Int16{P: &l.RawValue}, tag.WithUnit("#")),
	)
	return l
}

// Update counts wall-clock seconds and samples once ReadInterval of
// them have passed.
func (l *Level) Update(now time.Time) {
	if sec := now.Second(); sec != l.lastSecond {
		l.elapsed++
		l.lastSecond = sec
	}
	if l.elapsed < l.ReadInterval {
		return
	}
	l.elapsed = 0
	l.sample()
}

func (l *Level) sample() {
	l.RawValue = int16(min(l.adc.Read(), 0x7fff))
	span := float32(l.RawFull) - float32(l.RawEmpty)
	if span != 0 {
		l.Value = l.Value*0.9 + (float32(l.RawValue)-float32(l.RawEmpty))/span*10
	}

	if l.Alarm {
		if l.Value > l.AlarmLevel+alarmHysteresis {
			l.Alarm = false
		}
	} else if l.Value < l.AlarmLevel {
		l.Alarm = true
	}
}

package schedule

import (
	"time"

	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/tag"
)

// TypeDaySelect is the setup type name of DaySelect.
const TypeDaySelect = "daySelect"

// DaySelect is on when today's bit is set in Days (bit 0 is Sunday).
type DaySelect struct {
	function.Base
	Days  uint16
	Value bool
}

// NewDaySelect builds a DaySelect. The record needs only a name.
func NewDaySelect(s *function.Setup, _ function.Env) (function.Function, error) {
	name := s.Name()
	if !s.OK() {
		return nil, function.ErrInvalidSetup
	}
	d := &DaySelect{Base: function.NewBase(name, "")}
	d.AddTags(
		tag.New("Days", "Days", "0 = Sunday", tag.ReadWrite|tag.Save, tag.Config, tag.UInt16{P: &d.Days},
			tag.WithDisplay(tag.TypeDaySelect)),
		tag.New("Value", "Switched on", "", tag.Read, tag.Data, tag.Bool{P: &d.Value}, tag.WithLabels("ON", "OFF")),
	)
	s.Done("%s", name)
	return d, nil
}

func (d *DaySelect) Update(now time.Time) {
	d.Value = d.Days&(1<<uint(now.Weekday())) != 0
}

package schedule

import (
	"strconv"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/tag"
)

// TypeClockValues is the setup type name of ClockValues.
const TypeClockValues = "clockValues"

// fixedTags is the number of Tags ahead of the clock point Tags.
const fixedTags = 2

// ClockPoint switches Value at Time (seconds of day). With DoRamp the
// value ramps linearly towards the next point.
type ClockPoint struct {
	Time   uint32
	Value  float32
	DoRamp bool
}

// ClockValues outputs the value of the clock point active now.
type ClockValues struct {
	function.Base

	CountClockPoints uint8
	Value            float32
	Points           []ClockPoint
}

// NewClockValues builds a ClockValues from a record with "countClockPoints".
func NewClockValues(s *function.Setup, _ function.Env) (function.Function, error) {
	name := s.Name()
	count := s.UInt8("countClockPoints")
	if !s.OK() {
		return nil, function.ErrInvalidSetup
	}
	c := &ClockValues{Base: function.NewBase(name, ""), CountClockPoints: count}
	c.AddTags(
		tag.New("CountClockPoints", "Number of clock points", "", tag.ReadWrite|tag.Save, tag.Config,
			tag.UInt8{P: &c.CountClockPoints}, tag.WithUnit("#"), tag.WithOnSet(c.rebuild)),
		tag.New("Value", "Current value", "", tag.Read, tag.Data, tag.Float{P: &c.Value}),
	)
	c.rebuild()
	s.Done("%s (CountClockPoints:%d)", name, count)
	return c, nil
}

// rebuild resizes Points to CountClockPoints, keeping existing points,
// and recreates their Tags.
func (c *ClockValues) rebuild() {
	points := make([]ClockPoint, c.CountClockPoints)
	copy(points, c.Points)
	c.Points = points

	c.TruncateTags(fixedTags)
	for i := range c.Points {
		n := strconv.Itoa(i + 1)
		p := &c.Points[i]
		c.AddTags(
			tag.New("Time"+n, "Clock point "+n, "", tag.ReadWrite|tag.Save, tag.Config, tag.UInt32{P: &p.Time},
				tag.WithUnit("s"), tag.WithDisplay(tag.TypeTime)),
			tag.New("Value"+n, "Value "+n, "", tag.ReadWrite|tag.Save, tag.Config, tag.Float{P: &p.Value}),
			tag.New("DoRamp"+n, "Ramp "+n, "", tag.ReadWrite|tag.Save, tag.Config, tag.Bool{P: &p.DoRamp},
				tag.WithLabels("ON", "OFF")),
		)
	}
}

// Update selects the point whose interval contains the current second
// of day. Before the first point the first value applies.
func (c *ClockValues) Update(now time.Time) {
	if len(c.Points) == 0 {
		return
	}
	h, m, s := now.Clock()
	sec := uint32(h*3600 + m*60 + s)
	c.Value = ValueAt(c.Points, sec)
}

// ValueAt returns the scheduled value at sec seconds of day.
func ValueAt(points []ClockPoint, sec uint32) float32 {
	v := points[0].Value
	last := len(points) - 1
	for i, p := range points {
		if sec <= p.Time {
			continue
		}
		if i == last {
			return p.Value
		}
		next := points[i+1]
		if sec > next.Time {
			continue
		}
		if !p.DoRamp {
			return p.Value
		}
		frac := float32(sec-p.Time) / float32(next.Time-p.Time)
		return p.Value + (next.Value-p.Value)*frac
	}
	return v
}

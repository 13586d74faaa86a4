package hal

import "time"

type systemClock struct {
	start time.Time
	loc   *time.Location
}

// SystemClock returns a Clock backed by the process monotonic clock.
// Micros and Millis wrap like their MCU counterparts.
func SystemClock() Clock {
	return SystemClockIn(time.Local)
}

// SystemClockIn is SystemClock with Now reported in loc, the node's
// time zone for schedules.
func SystemClockIn(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return &systemClock{start: time.Now(), loc: loc}
}

func (c *systemClock) Micros() uint32 {
	return uint32(time.Since(c.start).Microseconds())
}

func (c *systemClock) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

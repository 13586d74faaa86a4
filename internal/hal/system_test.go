package hal

import (
	"testing"
	"time"
)

func TestSystemClockIn(t *testing.T) {
	loc := time.FixedZone("node", 2*60*60)
	c := SystemClockIn(loc)

	if got := c.Now().Location(); got != loc {
		t.Errorf("Now() location = %v, want node zone", got)
	}

	before := c.Micros()
	time.Sleep(2 * time.Millisecond)
	if after := c.Micros(); after-before < 2000 {
		t.Errorf("Micros advanced %d, want at least 2000", after-before)
	}
	if c.Millis() < 2 {
		t.Errorf("Millis() = %d, want at least 2", c.Millis())
	}
}

func TestSystemClockInNilLocation(t *testing.T) {
	if got := SystemClockIn(nil).Now().Location(); got != time.Local {
		t.Errorf("Now() location = %v, want Local", got)
	}
}

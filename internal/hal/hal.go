// Package hal defines the hardware surface Functions are built against.
//
// Functions never reach for globals: pins, ADC channels, interrupt
// sources, periodic timers, I²C buses and the clock are handed to them
// through a Board and a Clock at construction. On a device these wrap
// the MCU peripherals; on a workstation and in tests the sim package
// provides an in-memory board.
package hal

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// ErrNoSuchResource is returned when a board cannot supply a pin, channel or bus.
var ErrNoSuchResource = errors.New("hal: no such resource")

// Pull selects the input bias of a pin.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// ParsePull maps the setup spelling ("up", "down", anything else) to a Pull.
func ParsePull(s string) Pull {
	switch s {
	case "up":
		return PullUp
	case "down":
		return PullDown
	default:
		return PullNone
	}
}

// Edge selects which transitions raise an interrupt.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

// String returns the edge name.
func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

// Pin is a digital GPIO.
type Pin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int

	// SetIRQ installs handler for the given edge. The handler runs in
	// interrupt context and must only touch state behind a guard.Cell.
	SetIRQ(edge Edge, handler func()) error
	ClearIRQ() error
}

// ADC is one analog input channel.
type ADC interface {
	Read() uint16
}

// Timer is a periodic hardware timer whose callback runs in interrupt context.
type Timer interface {
	// Restart (re)arms the timer with the given period.
	Restart(period time.Duration)
	Stop()
}

// Clock supplies monotonic counters and wall time.
type Clock interface {
	Micros() uint32
	Millis() uint32
	Now() time.Time
}

// Board hands out peripherals by number.
type Board interface {
	Pin(n int) (Pin, error)
	ADC(n int) (ADC, error)
	NewTimer(callback func()) (Timer, error)
	I2C(bus int) (drivers.I2C, error)
}

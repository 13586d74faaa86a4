// Package valve implements valve2DPosImp, a motor valve with separate
// open and close outputs and a position pulse input.
//
// The valve has no position sensor. It learns its travel at start-up
// (run fully open, then count pulses while running fully closed) and
// afterwards tracks position by counting pulses. PulseCount is normally
// linked from a digitalIn counter. Every change of state passes through
// a WaitTime pause with both outputs off so the motor never reverses
// directly.
package valve

import (
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/hal"
	"github.com/nerrad567/gray-logic-node/internal/tag"
)

// Type is the setup type name.
const Type = "valve2DPosImp"

// State is the valve state machine state.
type State uint8

const (
	InitOpen   State = 0
	InitClose  State = 1
	InPosition State = 2
	Opening    State = 3
	Closing    State = 4
	Waiting    State = 5
	Fault      State = 9
)

func (s State) String() string {
	switch s {
	case InitOpen:
		return "Init open"
	case InitClose:
		return "Init close"
	case InPosition:
		return "In position"
	case Opening:
		return "Opening"
	case Closing:
		return "Closing"
	case Waiting:
		return "Waiting"
	case Fault:
		return "Fault"
	default:
		return "Unknown"
	}
}

// Fault codes.
const (
	FaultInitOpenTimeout  = "InitOpen-Timeout"
	FaultInitCloseNoPulse = "InitClose-NoPulse"
	FaultInitCloseTimeout = "InitClose-Timeout"
	FaultOpenTimeout      = "Open-Timeout"
	FaultCloseTimeout     = "Close-Timeout"
)

// minTravelPulses is the smallest learned travel accepted by init.
const minTravelPulses = 10

// Valve is the two-output pulse-counting valve.
type Valve struct {
	function.Base

	open  hal.Pin
	close hal.Pin
	clock hal.Clock

	NoPulseTimeout    uint16
	PositionPulseHyst uint16
	StepTimeout       uint16
	WaitTime          uint16
	FaultCode         string

	Setpoint      float32
	Position      float32
	InitRequest   bool
	StateCode     string
	PositionPulse int32
	PulseCount    uint16

	state      State
	next       State
	maxPulse   int32
	lastCount  uint16
	sincePulse uint32
	stepTime   uint32
	lastMillis uint32
}

// New builds a Valve from a record with "pinOpen" and "pinClose".
func New(s *function.Setup, env function.Env) (function.Function, error) {
	name := s.Name()
	po := s.UInt8("pinOpen")
	pc := s.UInt8("pinClose")
	if !s.OK() {
		return nil, function.ErrInvalidSetup
	}

	open, err := outputPin(env.Board, po)
	if err != nil {
		return nil, err
	}
	closePin, err := outputPin(env.Board, pc)
	if err != nil {
		return nil, err
	}
	v := NewValve(name, open, closePin, env.Clock)
	s.Done("%s (Valve2DPosImp - Open:%d - Close:%d)", name, po, pc)
	return v, nil
}

func outputPin(b hal.Board, n uint8) (hal.Pin, error) {
	p, err := b.Pin(int(n))
	if err != nil {
		return nil, fmt.Errorf("output pin %d: %w", n, err)
	}
	if err := p.ConfigureOutput(false); err != nil {
		return nil, fmt.Errorf("configuring output pin %d: %w", n, err)
	}
	return p, nil
}

// NewValve returns a valve that starts by learning its travel.
func NewValve(name string, open, closePin hal.Pin, clock hal.Clock) *Valve {
	v := &Valve{
		Base:              function.NewBase(name, ""),
		open:              open,
		close:             closePin,
		clock:             clock,
		NoPulseTimeout:    2000,
		PositionPulseHyst: 5,
		StepTimeout:       3,
		WaitTime:          5000,
		state:             InitOpen,
		next:              InitOpen,
		lastMillis:        clock.Millis(),
	}
	cfg := tag.ReadWrite | tag.Save
	v.AddTags(
		tag.New("NoPulseTimeout", "Pulse timeout", "", cfg, tag.Config, tag.UInt16{P: &v.NoPulseTimeout}, tag.WithUnit("ms")),
		tag.New("PositionPulseHyst", "Position hysteresis", "", cfg, tag.Config, tag.UInt16{P: &v.PositionPulseHyst}),
		tag.New("StepTimeout", "Step timeout", "", cfg, tag.Config, tag.UInt16{P: &v.StepTimeout}, tag.WithUnit("s")),
		tag.New("WaitTime", "Reversal pause", "", cfg, tag.Config, tag.UInt16{P: &v.WaitTime}, tag.WithUnit("ms")),
		tag.New("FaultCode", "Fault code", "", tag.Read, tag.Config, tag.String{P: &v.FaultCode}),

		tag.New("Setpoint", "Setpoint", "", cfg, tag.Data, tag.Float{P: &v.Setpoint}, tag.WithUnit("%")),
		tag.New("Position", "Position", "", tag.Read, tag.Data, tag.Float{P: &v.Position}, tag.WithUnit("%")),
		tag.New("InitRequest", "Request init", "", tag.ReadWrite, tag.Data, tag.Bool{P: &v.InitRequest},
			tag.WithLabels("Run", "Init")),
		tag.New("StateCode", "State", "", tag.Read, tag.Data, tag.String{P: &v.StateCode}),
		tag.New("PositionPulse", "Position pulses", "", tag.Read, tag.Data, tag.Int32{P: &v.PositionPulse}),
		tag.New("PulseCount", "Pulse input", "", tag.ReadWrite, tag.Data, tag.UInt16{P: &v.PulseCount}),
	)
	return v
}

// State returns the current state.
func (v *Valve) State() State { return v.state }

// Update advances the state machine by the time since the last call.
func (v *Valve) Update(time.Time) {
	now := v.clock.Millis()
	dt := now - v.lastMillis
	v.lastMillis = now

	pulses := int32(v.PulseCount - v.lastCount)
	if pulses > 0 {
		v.sincePulse = 0
	} else {
		v.sincePulse += dt
	}
	v.lastCount = v.PulseCount

	v.Setpoint = min(max(v.Setpoint, 0), 100)
	target := int32(v.Setpoint / 100 * float32(v.maxPulse))

	if v.InitRequest {
		v.InitRequest = false
		v.next = InitOpen
		v.FaultCode = ""
	}
	if v.state != v.next {
		switch {
		case v.next == Fault:
			v.stepTime = 0
			v.state = Fault
		case v.state != Waiting:
			v.stepTime = 0
			v.state = Waiting
		}
	}

	noPulse := v.sincePulse > uint32(v.NoPulseTimeout)
	stepExpired := v.stepTime/1000 > uint32(v.StepTimeout)

	switch v.state {
	case Waiting:
		v.drive(false, false)
		if v.stepTime >= uint32(v.WaitTime) {
			v.state = v.next
			v.sincePulse = 0
			v.stepTime = 0
		}

	case InitOpen:
		v.drive(true, false)
		switch {
		case noPulse:
			v.PositionPulse = 0
			v.next = InitClose
		case stepExpired:
			v.fail(FaultInitOpenTimeout)
		}

	case InitClose:
		v.drive(false, true)
		v.PositionPulse += pulses
		switch {
		case noPulse:
			v.maxPulse = v.PositionPulse
			v.PositionPulse = 0
			if v.maxPulse > minTravelPulses {
				v.next = InPosition
			} else {
				v.fail(FaultInitCloseNoPulse)
			}
		case stepExpired:
			v.fail(FaultInitCloseTimeout)
		}

	case InPosition:
		v.drive(false, false)
		hyst := int32(v.PositionPulseHyst)
		switch {
		case target > v.PositionPulse+hyst:
			v.next = Opening
		case target < v.PositionPulse-hyst:
			v.next = Closing
		}

	case Opening:
		v.drive(true, false)
		v.PositionPulse += pulses
		switch {
		case v.PositionPulse >= target:
			v.next = InPosition
		case noPulse && v.Setpoint >= 95:
			// End stop reached early: the valve is open.
			v.maxPulse = v.PositionPulse
			v.next = InPosition
		case noPulse:
			v.fail(FaultOpenTimeout)
		}

	case Closing:
		v.drive(false, true)
		v.PositionPulse -= pulses
		switch {
		case v.PositionPulse <= target:
			v.next = InPosition
		case noPulse && v.Setpoint <= 5:
			v.PositionPulse = 0
			v.next = InPosition
		case noPulse:
			v.fail(FaultCloseTimeout)
		}

	case Fault:
		v.drive(false, false)
	}

	if v.state != v.next {
		v.StateCode = v.state.String() + " -> " + v.next.String()
	} else {
		v.StateCode = v.state.String()
	}
	v.stepTime += dt
	if v.maxPulse > 0 {
		v.Position = float32(v.PositionPulse) / float32(v.maxPulse) * 100
	} else {
		v.Position = 0
	}
}

func (v *Valve) drive(open, closing bool) {
	v.open.Set(open)
	v.close.Set(closing)
}

func (v *Valve) fail(code string) {
	v.next = Fault
	v.FaultCode = code
}

// Close switches both outputs off.
func (v *Valve) Close() error {
	v.drive(false, false)
	return nil
}

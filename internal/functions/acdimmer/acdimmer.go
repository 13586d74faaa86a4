package acdimmer

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/guard"
	"github.com/nerrad567/gray-logic-node/internal/hal"
	"github.com/nerrad567/gray-logic-node/internal/tag"
)

// Type is the setup type name.
const Type = "acDimmer"

const (
	// CalibrationSamples is the number of pulses averaged before dimming starts.
	CalibrationSamples = 100

	// DelayOff keeps an output permanently off.
	DelayOff int32 = -1
	// DelayFullOn keeps an output permanently on.
	DelayFullOn int32 = 0

	// Commands below offThreshold switch off, above onThreshold fully on.
	offThreshold = 0.02
	onThreshold  = 0.98

	// defaultPeriod is the 50 Hz half period shown before calibration.
	defaultPeriod = 10000
)

// Phase is the calibration state.
type Phase uint8

const (
	Uncalibrated Phase = iota
	Calibrating
	Calibrated
)

var phaseLabels = []string{"uncalibrated", "calibrating", "calibrated"}

// String returns the phase label.
func (p Phase) String() string {
	if int(p) < len(phaseLabels) {
		return phaseLabels[p]
	}
	return "unknown"
}

type output struct {
	pin   hal.Pin
	delay int32
}

// shared is the state touched from interrupt context.
type shared struct {
	outputs   []output
	zeroCross uint32

	phase     Phase
	edge      hal.Edge
	period    uint16
	zeroWidth uint16

	lastRise  uint32
	lastFall  uint32
	sawFall   bool
	samples   int
	sumPeriod uint32
	sumZero   uint32

	// calibrated is set by the interrupt when calibration finishes and
	// cleared by Update once it has applied the pending commands.
	calibrated bool
}

// Dimmer is an array of phase-cut outputs sharing one zero-cross input.
type Dimmer struct {
	function.Base

	clock   hal.Clock
	zeroPin hal.Pin
	timer   hal.Timer
	state   *guard.Cell[shared]

	// Tag storage.
	values    []uint8
	delays    []int32
	period    uint16
	zeroWidth uint16
	phase     uint8
}

// New builds a Dimmer from a setup record with "pinZero" and "pinsOutput".
func New(s *function.Setup, env function.Env) (function.Function, error) {
	name := s.Name()
	pinZero := s.UInt8("pinZero")
	pins := s.UInt8Slice("pinsOutput")
	if !s.OK() {
		return nil, function.ErrInvalidSetup
	}

	d, err := NewDimmer(name, env.Board, env.Clock, int(pinZero), pins)
	if err != nil {
		return nil, err
	}
	s.Done("%s (ZeroPin:%d, Output Count: %d)", name, pinZero, len(pins))
	return d, nil
}

// NewDimmer configures the pins and timer and installs the zero-cross
// interrupt. All outputs start off.
func NewDimmer(name string, board hal.Board, clock hal.Clock, pinZero int, pins []uint8) (*Dimmer, error) {
	d := &Dimmer{
		Base:      function.NewBase(name, "AC phase-cut dimmer"),
		clock:     clock,
		values:    make([]uint8, len(pins)),
		delays:    make([]int32, len(pins)),
		period:    defaultPeriod,
		zeroWidth: 0,
	}

	st := shared{outputs: make([]output, len(pins)), period: defaultPeriod}
	for i, n := range pins {
		p, err := board.Pin(int(n))
		if err != nil {
			return nil, fmt.Errorf("output pin %d: %w", n, err)
		}
		if err := p.ConfigureOutput(false); err != nil {
			return nil, fmt.Errorf("configuring output pin %d: %w", n, err)
		}
		st.outputs[i] = output{pin: p, delay: DelayOff}
		d.delays[i] = DelayOff

		num := strconv.Itoa(i + 1)
		d.AddTags(
			tag.New("Delay"+num, "Delay "+num, "", tag.Read, tag.Config, tag.Int32{P: &d.delays[i]}, tag.WithUnit("us")),
			tag.New("Value"+num, "Value "+num, "", tag.ReadWrite|tag.Save, tag.Data, tag.UInt8{P: &d.values[i]},
				tag.WithUnit("%"), tag.WithOnSet(d.Calc)),
		)
	}
	d.AddTags(
		tag.New("ZeroWidth", "Zero pulse width", "", tag.Read, tag.Config, tag.UInt16{P: &d.zeroWidth}, tag.WithUnit("us")),
		tag.New("Period", "Half period", "", tag.Read, tag.Config, tag.UInt16{P: &d.period}, tag.WithUnit("us")),
		tag.New("State", "Calibration", "", tag.Read, tag.Data, tag.Enum{P: &d.phase, Labels: phaseLabels}),
	)
	d.state = guard.New(st)

	zp, err := board.Pin(pinZero)
	if err != nil {
		return nil, fmt.Errorf("zero-cross pin %d: %w", pinZero, err)
	}
	if err := zp.ConfigureInput(hal.PullUp); err != nil {
		return nil, fmt.Errorf("configuring zero-cross pin %d: %w", pinZero, err)
	}
	d.zeroPin = zp

	timer, err := board.NewTimer(d.isrTimer)
	if err != nil {
		return nil, fmt.Errorf("creating output timer: %w", err)
	}
	d.timer = timer

	if err := zp.SetIRQ(hal.EdgeBoth, d.isrZero); err != nil {
		d.release()
		return nil, fmt.Errorf("installing zero-cross interrupt: %w", err)
	}
	return d, nil
}

// Update mirrors the interrupt-owned calibration into the Tags and
// applies the commands once calibration has finished.
func (d *Dimmer) Update(time.Time) {
	var pending bool
	d.state.Do(func(s *shared) {
		d.period = s.period
		d.zeroWidth = s.zeroWidth
		d.phase = uint8(s.phase)
		pending = s.calibrated
		s.calibrated = false
	})
	if pending {
		d.Calc()
	}
}

// Phase returns the current calibration state.
func (d *Dimmer) Phase() Phase {
	var p Phase
	d.state.Do(func(s *shared) { p = s.phase })
	return p
}

// Calc converts every output command into a turn-on delay.
//
//	delay = asin(value)·Period/(π/2) + ZeroWidth/2
//
// Commands below 2 % switch the output off, above 98 % fully on. Calc
// does nothing until calibration has finished.
func (d *Dimmer) Calc() {
	var (
		ok        bool
		period    uint16
		zeroWidth uint16
	)
	d.state.Do(func(s *shared) {
		ok = s.phase == Calibrated
		period, zeroWidth = s.period, s.zeroWidth
	})
	if !ok {
		return
	}

	for i, v := range d.values {
		d.delays[i] = Delay(v, period, zeroWidth)
	}
	d.state.Do(func(s *shared) {
		for i := range s.outputs {
			s.outputs[i].delay = d.delays[i]
		}
	})
}

// Delay returns the turn-on delay in microseconds for a command in
// percent, or DelayOff / DelayFullOn outside the dimming range.
func Delay(percent uint8, period, zeroWidth uint16) int32 {
	v := float64(percent) / 100
	switch {
	case v < offThreshold:
		return DelayOff
	case v > onThreshold:
		return DelayFullOn
	}
	return int32(math.Asin(v)*float64(period)/(math.Pi/2)) + int32(zeroWidth/2)
}

// Close releases the interrupt and timer and switches every output off.
func (d *Dimmer) Close() error {
	err := d.zeroPin.ClearIRQ()
	d.release()
	return err
}

// release stops the timer and drives every output low.
func (d *Dimmer) release() {
	d.timer.Stop()
	d.state.Do(func(s *shared) {
		for i := range s.outputs {
			s.outputs[i].delay = DelayOff
			s.outputs[i].pin.Set(false)
		}
	})
}

// isrZero runs on zero-cross edges.
func (d *Dimmer) isrZero() {
	now := d.clock.Micros()
	high := d.zeroPin.Get()

	var rearm hal.Edge
	d.state.Do(func(s *shared) {
		switch s.phase {
		case Uncalibrated:
			if high {
				s.lastRise = now
				s.phase = Calibrating
			}

		case Calibrating:
			if !high {
				s.lastFall = now
				s.sawFall = true
				return
			}
			if s.sawFall {
				s.sumPeriod += now - s.lastRise
				s.sumZero += s.lastFall - s.lastRise
				s.samples++
			}
			s.lastRise = now
			s.sawFall = false
			if s.samples >= CalibrationSamples {
				finishCalibration(s)
				rearm = s.edge
			}

		case Calibrated:
			s.zeroCross = now
			d.timer.Restart(time.Duration(s.period/100) * time.Microsecond)
			for _, o := range s.outputs {
				o.pin.Set(o.delay == DelayFullOn)
			}
		}
	})

	if rearm != hal.EdgeNone {
		// Setting the IRQ outside the critical section; the pin driver
		// has its own lock.
		_ = d.zeroPin.SetIRQ(rearm, d.isrZero) //nolint:errcheck // Keeps the both-edge handler on failure
	}
}

// finishCalibration averages the samples. A pulse longer than half the
// period means the detector idles low and marks the crossing with its
// falling edge.
func finishCalibration(s *shared) {
	period := s.sumPeriod / uint32(s.samples)
	zero := s.sumZero / uint32(s.samples)
	s.edge = hal.EdgeRising
	if zero > period/2 {
		zero = period - zero
		s.edge = hal.EdgeFalling
	}
	s.period = uint16(min(period, math.MaxUint16))
	s.zeroWidth = uint16(min(zero, math.MaxUint16))
	s.samples, s.sumPeriod, s.sumZero = 0, 0, 0
	s.phase = Calibrated
	s.calibrated = true
}

// isrTimer runs every Period/100 while calibrated. Integer math only.
func (d *Dimmer) isrTimer() {
	now := d.clock.Micros()
	d.state.Do(func(s *shared) {
		elapsed := now - s.zeroCross
		for _, o := range s.outputs {
			switch {
			case o.delay == DelayOff:
				o.pin.Set(false)
			case o.delay == DelayFullOn:
				o.pin.Set(true)
			case elapsed >= uint32(o.delay):
				o.pin.Set(true)
			}
		}
	})
}

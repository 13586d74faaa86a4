package digital

import (
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/guard"
	"github.com/nerrad567/gray-logic-node/internal/hal"
	"github.com/nerrad567/gray-logic-node/internal/tag"
)

// TypeIn is the setup type name of In.
const TypeIn = "digitalIn"

// Input modes.
const (
	ModeInput = "input"
	ModeCount = "count"
)

const defaultDebounceMicros = 100000

// counter is the state shared with the edge interrupt.
type counter struct {
	count      uint16
	debounce   uint32
	lastChange uint32
	stable     bool
}

// In reads one input pin. In count mode an interrupt counts debounced
// rising edges; otherwise Value mirrors the pin level.
type In struct {
	function.Base

	pin   hal.Pin
	clock hal.Clock
	mode  string
	state *guard.Cell[counter]

	DebounceTime uint32
	Count        uint16
	Level        bool
}

// NewIn builds an In from a setup record with "pin", "pullup" and "mode".
func NewIn(s *function.Setup, env function.Env) (function.Function, error) {
	name := s.Name()
	n := s.UInt8("pin")
	pull := s.String("pullup")
	mode := s.String("mode")
	if !s.OK() {
		return nil, function.ErrInvalidSetup
	}

	pin, err := env.Board.Pin(int(n))
	if err != nil {
		return nil, fmt.Errorf("input pin %d: %w", n, err)
	}
	if err := pin.ConfigureInput(hal.ParsePull(pull)); err != nil {
		return nil, fmt.Errorf("configuring input pin %d: %w", n, err)
	}

	in := &In{
		Base:         function.NewBase(name, ""),
		pin:          pin,
		clock:        env.Clock,
		mode:         ModeInput,
		DebounceTime: defaultDebounceMicros,
	}
	in.state = guard.New(counter{debounce: in.DebounceTime, stable: pin.Get()})
	in.AddTag(tag.New("DebounceTime", "Debounce time", "", tag.ReadWrite|tag.Save, tag.Config,
		tag.UInt32{P: &in.DebounceTime}, tag.WithUnit("us"), tag.WithOnSet(in.syncDebounce)))

	if mode == ModeCount {
		in.mode = ModeCount
		in.AddTag(tag.New("Value", "Counter", "", tag.Read, tag.Data, tag.UInt16{P: &in.Count}))
		if err := pin.SetIRQ(hal.EdgeBoth, in.isrEdge); err != nil {
			return nil, fmt.Errorf("installing counter interrupt: %w", err)
		}
	} else {
		in.AddTag(tag.New("Value", "Input", "", tag.Read, tag.Data, tag.Bool{P: &in.Level},
			tag.WithLabels("ON", "OFF")))
	}

	s.Done("%s (InputPin:%d ,Pullup:%s ,Mode:%s)", name, n, pull, mode)
	return in, nil
}

func (in *In) syncDebounce() {
	d := in.DebounceTime
	in.state.Do(func(c *counter) { c.debounce = d })
}

// Update publishes the counter or the pin level.
func (in *In) Update(time.Time) {
	if in.mode == ModeCount {
		in.state.Do(func(c *counter) { in.Count = c.count })
		return
	}
	in.Level = in.pin.Get()
}

// Close removes the counter interrupt.
func (in *In) Close() error {
	if in.mode != ModeCount {
		return nil
	}
	return in.pin.ClearIRQ()
}

// isrEdge counts a rising edge when the previous change is older than
// the debounce time.
func (in *In) isrEdge() {
	now := in.clock.Micros()
	level := in.pin.Get()
	in.state.Do(func(c *counter) {
		if level == c.stable {
			return
		}
		if now-c.lastChange > c.debounce && level {
			c.count++
		}
		c.stable = level
		c.lastChange = now
	})
}

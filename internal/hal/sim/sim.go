// Package sim implements hal.Board and hal.Clock in memory.
//
// Nothing runs by itself: tests advance the clock, drive input levels
// and fire timers explicitly, and interrupt handlers run synchronously
// on the calling goroutine. The node binary uses the same board with
// a real-time pump (see Pump) when no hardware backend is configured.
package sim

import (
	"fmt"
	"sync"
	"time"

	"tinygo.org/x/drivers"

	"github.com/nerrad567/gray-logic-node/internal/hal"
)

// Clock is a manually advanced hal.Clock.
type Clock struct {
	mu     sync.Mutex
	micros uint64
	wall   time.Time
}

// NewClock returns a clock whose wall time starts at start.
func NewClock(start time.Time) *Clock {
	return &Clock{wall: start}
}

// Advance moves both the monotonic counters and the wall time forward.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.micros += uint64(d.Microseconds())
	c.wall = c.wall.Add(d)
	c.mu.Unlock()
}

// Set jumps the wall time without touching the monotonic counters.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.wall = t
	c.mu.Unlock()
}

func (c *Clock) Micros() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return uint32(c.micros)
}

func (c *Clock) Millis() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return uint32(c.micros / 1000)
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wall
}

// Board is an in-memory hal.Board.
type Board struct {
	mu     sync.Mutex
	pins   map[int]*Pin
	adc    map[int]*ADC
	timers []*Timer
	buses  map[int]*I2C
}

// NewBoard returns an empty board. Pins, ADC channels and buses are
// created on first request.
func NewBoard() *Board {
	return &Board{
		pins:  make(map[int]*Pin),
		adc:   make(map[int]*ADC),
		buses: make(map[int]*I2C),
	}
}

// Pin returns pin n, creating it on first use.
func (b *Board) Pin(n int) (hal.Pin, error) {
	return b.SimPin(n), nil
}

// SimPin returns the concrete simulated pin n.
func (b *Board) SimPin(n int) *Pin {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pins[n]
	if !ok {
		p = &Pin{n: n}
		b.pins[n] = p
	}
	return p
}

// ADC returns analog channel n.
func (b *Board) ADC(n int) (hal.ADC, error) {
	return b.SimADC(n), nil
}

// SimADC returns the concrete simulated channel n.
func (b *Board) SimADC(n int) *ADC {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.adc[n]
	if !ok {
		a = &ADC{}
		b.adc[n] = a
	}
	return a
}

// NewTimer registers a timer. It only fires through FireTimers.
func (b *Board) NewTimer(callback func()) (hal.Timer, error) {
	if callback == nil {
		return nil, fmt.Errorf("sim: nil timer callback: %w", hal.ErrNoSuchResource)
	}
	t := &Timer{callback: callback}
	b.mu.Lock()
	b.timers = append(b.timers, t)
	b.mu.Unlock()
	return t, nil
}

// Timers returns the registered timers in creation order.
func (b *Board) Timers() []*Timer {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Timer, len(b.timers))
	copy(out, b.timers)
	return out
}

// FireTimers invokes the callback of every running timer once.
func (b *Board) FireTimers() {
	for _, t := range b.Timers() {
		t.Fire()
	}
}

// I2C returns bus n.
func (b *Board) I2C(bus int) (drivers.I2C, error) {
	return b.SimI2C(bus), nil
}

// SimI2C returns the concrete simulated bus n.
func (b *Board) SimI2C(bus int) *I2C {
	b.mu.Lock()
	defer b.mu.Unlock()
	i, ok := b.buses[bus]
	if !ok {
		i = NewI2C()
		b.buses[bus] = i
	}
	return i
}

// Pin is a simulated GPIO. Drive changes the input level and runs the
// installed interrupt handler when the transition matches its edge.
type Pin struct {
	mu      sync.Mutex
	n       int
	level   bool
	output  bool
	pull    hal.Pull
	edge    hal.Edge
	handler func()
	irqErr  error
}

func (p *Pin) ConfigureInput(pull hal.Pull) error {
	p.mu.Lock()
	p.output = false
	p.pull = pull
	if pull == hal.PullUp {
		p.level = true
	}
	p.mu.Unlock()
	return nil
}

func (p *Pin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.output = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

func (p *Pin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

func (p *Pin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *Pin) Number() int { return p.n }

// IsOutput reports whether the pin was configured as an output.
func (p *Pin) IsOutput() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.output
}

// FailIRQ makes every later SetIRQ with a handler return err. A nil err
// restores normal behaviour.
func (p *Pin) FailIRQ(err error) {
	p.mu.Lock()
	p.irqErr = err
	p.mu.Unlock()
}

// HasIRQ reports whether an interrupt handler is installed.
func (p *Pin) HasIRQ() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handler != nil
}

func (p *Pin) SetIRQ(edge hal.Edge, handler func()) error {
	p.mu.Lock()
	if handler != nil && p.irqErr != nil {
		err := p.irqErr
		p.mu.Unlock()
		return err
	}
	p.edge = edge
	p.handler = handler
	p.mu.Unlock()
	return nil
}

func (p *Pin) ClearIRQ() error {
	return p.SetIRQ(hal.EdgeNone, nil)
}

// Drive sets the input level and delivers the interrupt, if any,
// synchronously on the caller's goroutine.
func (p *Pin) Drive(level bool) {
	p.mu.Lock()
	prev := p.level
	p.level = level
	edge, handler := p.edge, p.handler
	p.mu.Unlock()

	if handler == nil || prev == level {
		return
	}
	rising := !prev && level
	switch {
	case edge == hal.EdgeBoth,
		edge == hal.EdgeRising && rising,
		edge == hal.EdgeFalling && !rising:
		handler()
	}
}

// ADC is a simulated analog channel.
type ADC struct {
	mu sync.Mutex
	v  uint16
}

// Set changes the value returned by Read.
func (a *ADC) Set(v uint16) {
	a.mu.Lock()
	a.v = v
	a.mu.Unlock()
}

func (a *ADC) Read() uint16 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.v
}

// Timer is a simulated periodic timer.
type Timer struct {
	mu       sync.Mutex
	callback func()
	period   time.Duration
	running  bool
	restarts int
	stops    int
}

func (t *Timer) Restart(period time.Duration) {
	t.mu.Lock()
	t.period = period
	t.running = true
	t.restarts++
	t.mu.Unlock()
}

func (t *Timer) Stop() {
	t.mu.Lock()
	t.running = false
	t.stops++
	t.mu.Unlock()
}

// Stops returns how many times Stop was called.
func (t *Timer) Stops() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stops
}

// Period returns the last armed period.
func (t *Timer) Period() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.period
}

// Restarts returns how many times Restart was called.
func (t *Timer) Restarts() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.restarts
}

// Fire runs the callback if the timer is armed.
func (t *Timer) Fire() {
	t.mu.Lock()
	running, cb := t.running, t.callback
	t.mu.Unlock()
	if running {
		cb()
	}
}

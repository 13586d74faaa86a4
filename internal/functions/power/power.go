// Package power implements the ina219 Function: supply-side and
// load-side voltage, current and power from an INA219 on a shared I2C
// bus.
package power

import (
	"time"

	"tinygo.org/x/drivers"

	"github.com/nerrad567/gray-logic-node/internal/drivers/ina219"
	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/hal"
	"github.com/nerrad567/gray-logic-node/internal/tag"
)

// Type is the setup type name.
const Type = "ina219"

// Monitor reads an INA219 every ReadInterval seconds.
type Monitor struct {
	function.Base

	dev    ina219.Device
	clock  hal.Clock
	logger function.Logger

	last    uint32
	elapsed uint32

	ReadInterval uint16
	PowerPlus    float32
	VoltagePlus  float32
	PowerMinus   float32
	VoltageMinus float32
	Current      float32
}

// New builds a Monitor from a record with "refName" (an i2c hardware
// entry) and "addr".
func New(s *function.Setup, env function.Env) (function.Function, error) {
	name := s.Name()
	ref := s.String("refName")
	bus := function.Hardware[drivers.I2C](s, "refName", env.Hardware)
	addr := s.UInt8("addr")
	if !s.OK() {
		return nil, function.ErrInvalidSetup
	}

	m := NewMonitor(name, ina219.New(bus, uint16(addr)), env.Clock, env.Logger)
	if err := m.dev.Configure(); err != nil {
		// The device may appear later; reads keep retrying.
		m.logger.Warn("configuring ina219 failed", "name", name, "addr", addr, "error", err)
	}
	s.Done("%s(Addr:%d, TwoWire: %s)", name, addr, ref)
	return m, nil
}

// NewMonitor returns a Monitor reading dev once per second.
func NewMonitor(name string, dev ina219.Device, clock hal.Clock, logger function.Logger) *Monitor {
	if logger == nil {
		logger = function.NoopLogger{}
	}
	m := &Monitor{
		Base:         function.NewBase(name, ""),
		dev:          dev,
		clock:        clock,
		logger:       logger,
		last:         clock.Millis(),
		ReadInterval: 1,
	}
	m.AddTags(
		tag.New("ReadInterval", "Read interval", "", tag.ReadWrite|tag.Save, tag.Config, tag.UInt16{P: &m.ReadInterval}, tag.WithUnit("s")),
		tag.New("PowerPlus", "Power supply side", "", tag.Read, tag.Data, tag.Float{P: &m.PowerPlus}, tag.WithUnit("W")),
		tag.New("VoltagePlus", "Voltage supply side", "", tag.Read, tag.Data, tag.Float{P: &m.VoltagePlus}, tag.WithUnit("V")),
		tag.New("PowerMinus", "Power load side", "", tag.Read, tag.Data, tag.Float{P: &m.PowerMinus}, tag.WithUnit("W")),
		tag.New("VoltageMinus", "Voltage load side", "", tag.Read, tag.Data, tag.Float{P: &m.VoltageMinus}, tag.WithUnit("V")),
		tag.New("Current", "Current", "", tag.Read, tag.Data, tag.Float{P: &m.Current}, tag.WithUnit("A")),
	)
	return m
}

// Update samples the device once ReadInterval seconds have passed.
func (m *Monitor) Update(time.Time) {
	now := m.clock.Millis()
	m.elapsed += now - m.last
	m.last = now
	if m.elapsed < uint32(m.ReadInterval)*1000 {
		return
	}
	m.elapsed = 0

	s, err := m.dev.Read()
	if err != nil {
		m.logger.Warn("reading ina219 failed", "name", m.Name(), "error", err)
		return
	}
	m.apply(s)
}

func (m *Monitor) apply(s ina219.Sample) {
	bus := float32(s.BusMilliVolts) / 1000
	m.VoltageMinus = bus
	m.VoltagePlus = bus + float32(s.ShuntMicroVolts)/1e6
	m.Current = float32(s.CurrentTenthMA) / 10000
	m.PowerPlus = m.VoltagePlus * m.Current
	m.PowerMinus = m.VoltageMinus * m.Current
}

// Package ina219 provides a driver for the INA219 high-side current and
// bus voltage monitor.
//
// The device is configured for a 32 V bus range, a ±320 mV shunt range
// and 64-sample averaging on both ADCs, with the calibration register
// set for a 0.1 Ω shunt and 0.1 mA per current LSB.
//
// NOTE: I2C.Tx must perform a write followed by a repeated-start read
// when both w and r are provided.
package ina219

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Address is the default I2C address (A0, A1 to GND).
const Address = 0x40

// Registers.
const (
	RegConfig      = 0x00
	RegShunt       = 0x01
	RegBus         = 0x02
	RegPower       = 0x03
	RegCurrent     = 0x04
	RegCalibration = 0x05
)

const (
	// ConfigAvg64 is 32 V range, gain /8, 64-sample averaging on both
	// ADCs, continuous shunt and bus conversion.
	ConfigAvg64 = 0x3F77

	// Calibration for a 0.1 Ω shunt with 0.1 mA/bit.
	Calibration = 4096

	busOverflow = 0x0001
)

// ErrOverflow is returned when the last conversion overflowed.
var ErrOverflow = errors.New("ina219: math overflow")

// Sample is one measurement in fixed-point units.
type Sample struct {
	ShuntMicroVolts int32 // 10 µV/bit on the wire
	BusMilliVolts   int32 // 4 mV/bit on the wire
	CurrentTenthMA  int32 // 0.1 mA/bit
}

// Device wraps an I2C connection to an INA219.
type Device struct {
	bus     drivers.I2C
	Address uint16

	buf [3]byte
}

// New creates a Device on an already configured bus. It does not touch
// the device.
func New(bus drivers.I2C, addr uint16) Device {
	if addr == 0 {
		addr = Address
	}
	return Device{bus: bus, Address: addr}
}

// Configure writes the averaging configuration and the calibration.
func (d *Device) Configure() error {
	if err := d.write(RegConfig, ConfigAvg64); err != nil {
		return err
	}
	return d.write(RegCalibration, Calibration)
}

// Read fetches shunt voltage, bus voltage and current.
func (d *Device) Read() (Sample, error) {
	var s Sample

	shunt, err := d.read(RegShunt)
	if err != nil {
		return s, err
	}
	bus, err := d.read(RegBus)
	if err != nil {
		return s, err
	}
	// A brown-out clears the calibration; rewrite it before each current read.
	if err := d.write(RegCalibration, Calibration); err != nil {
		return s, err
	}
	current, err := d.read(RegCurrent)
	if err != nil {
		return s, err
	}

	s.ShuntMicroVolts = int32(int16(shunt)) * 10
	s.BusMilliVolts = int32(bus>>3) * 4
	s.CurrentTenthMA = int32(int16(current))
	if bus&busOverflow != 0 {
		return s, ErrOverflow
	}
	return s, nil
}

func (d *Device) read(reg uint8) (uint16, error) {
	data := d.buf[:2]
	if err := d.bus.Tx(d.Address, []byte{reg}, data); err != nil {
		return 0, err
	}
	return uint16(data[0])<<8 | uint16(data[1]), nil
}

func (d *Device) write(reg uint8, v uint16) error {
	d.buf[0] = reg
	d.buf[1] = byte(v >> 8)
	d.buf[2] = byte(v)
	return d.bus.Tx(d.Address, d.buf[:], nil)
}

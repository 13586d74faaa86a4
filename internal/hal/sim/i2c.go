package sim

import (
	"fmt"
	"sync"

	"github.com/nerrad567/gray-logic-node/internal/hal"
)

// I2C is a register-map bus for devices with 8-bit register addresses
// and 16-bit big-endian registers (INA219 and friends).
//
// A write of one byte selects the register; a write of three bytes
// stores a value; a read returns the selected register.
type I2C struct {
	mu      sync.Mutex
	devices map[uint16]map[uint8]uint16
	pointer map[uint16]uint8
}

// NewI2C returns an empty bus.
func NewI2C() *I2C {
	return &I2C{
		devices: make(map[uint16]map[uint8]uint16),
		pointer: make(map[uint16]uint8),
	}
}

// SetRegister attaches a device at addr (if needed) and stores val in reg.
func (b *I2C) SetRegister(addr uint16, reg uint8, val uint16) {
	b.mu.Lock()
	defer b.mu.Unlock()
	regs, ok := b.devices[addr]
	if !ok {
		regs = make(map[uint8]uint16)
		b.devices[addr] = regs
	}
	regs[reg] = val
}

// Register returns the stored value of reg on the device at addr.
func (b *I2C) Register(addr uint16, reg uint8) uint16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.devices[addr][reg]
}

// Tx implements drivers.I2C.
func (b *I2C) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs, ok := b.devices[addr]
	if !ok {
		return fmt.Errorf("sim: no device at 0x%02x: %w", addr, hal.ErrNoSuchResource)
	}
	if len(w) >= 1 {
		b.pointer[addr] = w[0]
	}
	if len(w) >= 3 {
		regs[w[0]] = uint16(w[1])<<8 | uint16(w[2])
	}
	if len(r) >= 2 {
		v := regs[b.pointer[addr]]
		r[0] = byte(v >> 8)
		r[1] = byte(v)
	}
	return nil
}

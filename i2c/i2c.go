// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

// Package i2c provides a TLA202x register bus over a periph.io I2C bus.
package i2c

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/warthog618/tla202x"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// Bus is a TLA202x register bus on an I2C bus.
type Bus struct {
	dev *i2c.Dev
	// set if the bus was opened by Open and so must be closed with the Bus.
	closer io.Closer
}

// New creates a Bus for the device at addr on bus.
//
// The caller retains ownership of bus.
func New(bus i2c.Bus, addr uint16) *Bus {
	return &Bus{dev: &i2c.Dev{Bus: bus, Addr: addr}}
}

// Open opens the named I2C bus ("/dev/i2c-1", "I2C1", "1") and returns a
// Bus for the device at addr.
//
// An empty name selects the first available bus.
// A zero addr selects tla202x.DefaultAddr.
func Open(name string, addr uint16) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("i2c: could not initialize host: %w", err)
	}
	bc, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("i2c: could not open bus '%s': %w", name, err)
	}
	if addr == 0 {
		addr = tla202x.DefaultAddr
	}
	b := New(bc, addr)
	b.closer = bc
	return b, nil
}

// SetSpeed sets the clock frequency of the underlying bus.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	return b.dev.Bus.SetSpeed(f)
}

// ReadRegister writes the register pointer and reads back the 16-bit value.
func (b *Bus) ReadRegister(reg tla202x.Register) (uint16, error) {
	var r [2]byte
	if err := b.dev.Tx([]byte{byte(reg)}, r[:]); err != nil {
		return 0, tla202x.ReadError(reg, err)
	}
	return binary.BigEndian.Uint16(r[:]), nil
}

// WriteRegister writes the register pointer followed by the 16-bit value.
func (b *Bus) WriteRegister(reg tla202x.Register, value uint16) error {
	w := []byte{byte(reg), 0, 0}
	binary.BigEndian.PutUint16(w[1:], value)
	n, err := b.dev.Write(w)
	if err != nil {
		return tla202x.WriteError(reg, err)
	}
	if n != len(w) {
		return tla202x.WriteError(reg, io.ErrShortWrite)
	}
	return nil
}

// Close closes the underlying bus if it was opened by Open.
func (b *Bus) Close() error {
	if b.closer == nil {
		return nil
	}
	err := b.closer.Close()
	b.closer = nil
	return err
}

func (b *Bus) String() string {
	return b.dev.String()
}

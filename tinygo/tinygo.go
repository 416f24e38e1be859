// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

// Package tinygo provides TLA202x register buses over the TinyGo driver bus
// interfaces, as implemented by machine.I2C and machine.SPI.
package tinygo

import (
	"encoding/binary"

	"github.com/warthog618/tla202x"
	"github.com/warthog618/tla202x/internal/frame"
	"tinygo.org/x/drivers"
)

// I2C is a TLA202x register bus on a TinyGo I2C bus.
type I2C struct {
	bus  drivers.I2C
	addr uint16
}

// NewI2C creates a bus for the device at addr.
// A zero addr selects tla202x.DefaultAddr.
func NewI2C(bus drivers.I2C, addr uint16) *I2C {
	if addr == 0 {
		addr = tla202x.DefaultAddr
	}
	return &I2C{bus: bus, addr: addr}
}

// ReadRegister implements tla202x.Bus.
func (b *I2C) ReadRegister(reg tla202x.Register) (uint16, error) {
	var r [2]byte
	if err := b.bus.Tx(b.addr, []byte{byte(reg)}, r[:]); err != nil {
		return 0, tla202x.ReadError(reg, err)
	}
	return binary.BigEndian.Uint16(r[:]), nil
}

// WriteRegister implements tla202x.Bus.
func (b *I2C) WriteRegister(reg tla202x.Register, value uint16) error {
	w := []byte{byte(reg), 0, 0}
	binary.BigEndian.PutUint16(w[1:], value)
	if err := b.bus.Tx(b.addr, w, nil); err != nil {
		return tla202x.WriteError(reg, err)
	}
	return nil
}

// Close implements tla202x.Bus.
// The bus is owned by the machine so there is nothing to release.
func (b *I2C) Close() error {
	return nil
}

// SPI is a TLA202x register bus on a TinyGo SPI bus.
//
// The bus must be configured for mode 0, MSB first.
// Chip select is managed by the caller, or by the select hook if set.
type SPI struct {
	bus drivers.SPI
	cs  func(selected bool)
}

// SPIOption configures an SPI.
type SPIOption func(*SPI)

// WithChipSelect sets a hook called to assert and release chip select around
// each transfer.
func WithChipSelect(cs func(selected bool)) SPIOption {
	return func(b *SPI) {
		b.cs = cs
	}
}

// NewSPI creates a bus on an SPI bus.
func NewSPI(bus drivers.SPI, options ...SPIOption) *SPI {
	b := &SPI{bus: bus}
	for _, option := range options {
		option(b)
	}
	return b
}

// ReadRegister implements tla202x.Bus.
func (b *SPI) ReadRegister(reg tla202x.Register) (uint16, error) {
	r := make([]byte, frame.Len)
	if err := b.tx(frame.Read(reg), r); err != nil {
		return 0, tla202x.ReadError(reg, err)
	}
	return frame.Value(r), nil
}

// WriteRegister implements tla202x.Bus.
func (b *SPI) WriteRegister(reg tla202x.Register, value uint16) error {
	if err := b.tx(frame.Write(reg, value), nil); err != nil {
		return tla202x.WriteError(reg, err)
	}
	return nil
}

// Close implements tla202x.Bus.
func (b *SPI) Close() error {
	return nil
}

func (b *SPI) tx(w, r []byte) error {
	if b.cs != nil {
		b.cs(true)
		defer b.cs(false)
	}
	return b.bus.Tx(w, r)
}

// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

// Package spidev provides a TLA202x register bus over a periph.io SPI port,
// such as the Linux spidev driver.
package spidev

import (
	"fmt"
	"io"

	"github.com/warthog618/tla202x"
	"github.com/warthog618/tla202x/internal/frame"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// DefaultFreq is the default SPI clock frequency.
const DefaultFreq = physic.MegaHertz

// Conn is the subset of spi.Conn used by the Bus.
type Conn interface {
	Tx(w, r []byte) error
}

// Bus is a TLA202x register bus on an SPI connection.
type Bus struct {
	c Conn
	// set if the port was opened by Open and so must be closed with the Bus.
	port io.Closer
}

// New creates a Bus on an SPI connection already configured for mode 0,
// 8 bits per word.
//
// The caller retains ownership of the connection.
func New(c Conn) *Bus {
	return &Bus{c: c}
}

// Open opens the named SPI port ("/dev/spidev0.0", "SPI0.0") and connects at
// freq in mode 0.
//
// An empty name selects the first available port.
// A zero freq selects DefaultFreq.
func Open(name string, freq physic.Frequency) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("spidev: could not initialize host: %w", err)
	}
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("spidev: could not open port '%s': %w", name, err)
	}
	if freq == 0 {
		freq = DefaultFreq
	}
	c, err := p.Connect(freq, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("spidev: could not connect to '%s': %w", name, err)
	}
	return &Bus{c: c, port: p}, nil
}

// ReadRegister implements tla202x.Bus.
func (b *Bus) ReadRegister(reg tla202x.Register) (uint16, error) {
	r := make([]byte, frame.Len)
	if err := b.c.Tx(frame.Read(reg), r); err != nil {
		return 0, tla202x.ReadError(reg, err)
	}
	return frame.Value(r), nil
}

// WriteRegister implements tla202x.Bus.
func (b *Bus) WriteRegister(reg tla202x.Register, value uint16) error {
	r := make([]byte, frame.Len)
	if err := b.c.Tx(frame.Write(reg, value), r); err != nil {
		return tla202x.WriteError(reg, err)
	}
	return nil
}

// Close closes the port if it was opened by Open.
func (b *Bus) Close() error {
	if b.port == nil {
		return nil
	}
	err := b.port.Close()
	b.port = nil
	return err
}

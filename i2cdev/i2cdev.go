// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

// Package i2cdev provides a TLA202x register bus using the Linux i2c-dev
// character device directly, without a host driver framework.
package i2cdev

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/warthog618/tla202x"
)

// Bus is a TLA202x register bus on an i2c-dev file.
//
// Each register read is a write of the register pointer followed by a
// separate two byte read, so it is not atomic with respect to other masters
// on the bus.
type Bus struct {
	f io.ReadWriteCloser
}

// New creates a Bus on f, which must already be bound to the device address.
//
// The Bus takes ownership of f.
func New(f io.ReadWriteCloser) *Bus {
	return &Bus{f: f}
}

// ReadRegister implements tla202x.Bus.
func (b *Bus) ReadRegister(reg tla202x.Register) (uint16, error) {
	if err := b.write([]byte{byte(reg)}); err != nil {
		return 0, tla202x.ReadError(reg, err)
	}
	var r [2]byte
	n, err := b.f.Read(r[:])
	if err != nil {
		return 0, tla202x.ReadError(reg, err)
	}
	if n != len(r) {
		return 0, tla202x.ReadError(reg, fmt.Errorf("read %d of %d bytes: %w", n, len(r), io.ErrUnexpectedEOF))
	}
	return binary.BigEndian.Uint16(r[:]), nil
}

// WriteRegister implements tla202x.Bus.
func (b *Bus) WriteRegister(reg tla202x.Register, value uint16) error {
	w := []byte{byte(reg), 0, 0}
	binary.BigEndian.PutUint16(w[1:], value)
	if err := b.write(w); err != nil {
		return tla202x.WriteError(reg, err)
	}
	return nil
}

// Close closes the underlying file.
func (b *Bus) Close() error {
	return b.f.Close()
}

func (b *Bus) write(w []byte) error {
	n, err := b.f.Write(w)
	if err != nil {
		return err
	}
	if n != len(w) {
		return fmt.Errorf("wrote %d of %d bytes: %w", n, len(w), io.ErrShortWrite)
	}
	return nil
}

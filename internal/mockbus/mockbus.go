// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

// Package mockbus provides an in-memory register bus for testing.
package mockbus

import (
	"errors"
	"fmt"

	"github.com/warthog618/tla202x"
)

// ErrInjected is the error returned by the default failure hooks.
var ErrInjected = errors.New("injected failure")

// Op records a single register access.
type Op struct {
	Write bool
	Reg   tla202x.Register
	Value uint16
}

func (op Op) String() string {
	if op.Write {
		return fmt.Sprintf("write %s 0x%04x", op.Reg, op.Value)
	}
	return fmt.Sprintf("read %s", op.Reg)
}

// Bus is a register bus that stores register values in memory.
//
// The ReadFunc and WriteFunc hooks, if set, are called before the access
// and a non-nil error aborts the access.
type Bus struct {
	Regs      map[tla202x.Register]uint16
	Ops       []Op
	Closed    bool
	ReadFunc  func(reg tla202x.Register) error
	WriteFunc func(reg tla202x.Register, value uint16) error
	CloseErr  error
}

// New creates a Bus with the registers in their power on state.
func New() *Bus {
	return &Bus{
		Regs: map[tla202x.Register]uint16{
			tla202x.RegConversion: 0,
			tla202x.RegConfig:     0x8583,
		},
	}
}

// ReadRegister implements tla202x.Bus.
func (b *Bus) ReadRegister(reg tla202x.Register) (uint16, error) {
	b.Ops = append(b.Ops, Op{Reg: reg})
	if b.ReadFunc != nil {
		if err := b.ReadFunc(reg); err != nil {
			return 0, tla202x.ReadError(reg, err)
		}
	}
	return b.Regs[reg], nil
}

// WriteRegister implements tla202x.Bus.
func (b *Bus) WriteRegister(reg tla202x.Register, value uint16) error {
	b.Ops = append(b.Ops, Op{Write: true, Reg: reg, Value: value})
	if b.WriteFunc != nil {
		if err := b.WriteFunc(reg, value); err != nil {
			return tla202x.WriteError(reg, err)
		}
	}
	b.Regs[reg] = value
	return nil
}

// Close implements tla202x.Bus.
func (b *Bus) Close() error {
	b.Closed = true
	return b.CloseErr
}

// Reset clears the recorded operations.
func (b *Bus) Reset() {
	b.Ops = nil
}

// FailRead returns a ReadFunc hook that fails reads of reg.
func FailRead(reg tla202x.Register) func(tla202x.Register) error {
	return func(r tla202x.Register) error {
		if r == reg {
			return ErrInjected
		}
		return nil
	}
}

// FailWrite returns a WriteFunc hook that fails writes to reg.
func FailWrite(reg tla202x.Register) func(tla202x.Register, uint16) error {
	return func(r tla202x.Register, _ uint16) error {
		if r == reg {
			return ErrInjected
		}
		return nil
	}
}

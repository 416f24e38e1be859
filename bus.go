// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

package tla202x

import "fmt"

// Register identifies one of the device registers.
type Register uint8

const (
	// RegConversion holds the result of the last conversion.
	RegConversion Register = 0x00
	// RegConfig holds the configuration fields.
	RegConfig Register = 0x01
)

func (r Register) String() string {
	switch r {
	case RegConversion:
		return "conversion"
	case RegConfig:
		return "config"
	}
	return fmt.Sprintf("0x%02x", uint8(r))
}

// Bus provides whole register access to the device.
//
// Registers are 16 bits wide and transferred big-endian.
// The Device takes ownership of the Bus and closes it when it is itself
// closed or when the Bus is replaced.
type Bus interface {
	ReadRegister(reg Register) (uint16, error)
	WriteRegister(reg Register, value uint16) error
	Close() error
}

// BusError reports a failure at the transport boundary.
type BusError struct {
	// Op is the operation being performed, "read" or "write".
	Op  string
	Reg Register
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("%s %s register: %s", e.Op, e.Reg, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *BusError) Unwrap() error {
	return e.Err
}

// ReadError wraps err as a BusError for a read of reg.
func ReadError(reg Register, err error) error {
	return &BusError{Op: "read", Reg: reg, Err: err}
}

// WriteError wraps err as a BusError for a write to reg.
func WriteError(reg Register, err error) error {
	return &BusError{Op: "write", Reg: reg, Err: err}
}

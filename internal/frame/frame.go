// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

// Package frame encodes register accesses for the SPI transports.
//
// Each access is a single three byte full duplex transfer. The first byte is
// the register address, with the top bit set for reads. For writes it is
// followed by the big-endian value. For reads the value is returned in the
// last two bytes.
package frame

import (
	"encoding/binary"

	"github.com/warthog618/tla202x"
)

// Len is the length of a transfer.
const Len = 3

const readFlag = 0x80

// Read returns the frame to transmit to read reg.
func Read(reg tla202x.Register) []byte {
	return []byte{byte(reg) | readFlag, 0, 0}
}

// Write returns the frame to transmit to write value to reg.
func Write(reg tla202x.Register, value uint16) []byte {
	w := []byte{byte(reg) &^ readFlag, 0, 0}
	binary.BigEndian.PutUint16(w[1:], value)
	return w
}

// Value extracts the register value from the received frame of a read.
func Value(rx []byte) uint16 {
	return binary.BigEndian.Uint16(rx[1:Len])
}

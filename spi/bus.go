// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

package spi

import (
	"github.com/warthog618/tla202x"
	"github.com/warthog618/tla202x/internal/frame"
)

// ReadRegister implements tla202x.Bus.
func (spi *SPI) ReadRegister(reg tla202x.Register) (uint16, error) {
	r := make([]byte, frame.Len)
	if err := spi.Tx(frame.Read(reg), r); err != nil {
		return 0, tla202x.ReadError(reg, err)
	}
	return frame.Value(r), nil
}

// WriteRegister implements tla202x.Bus.
func (spi *SPI) WriteRegister(reg tla202x.Register, value uint16) error {
	if err := spi.Tx(frame.Write(reg, value), nil); err != nil {
		return tla202x.WriteError(reg, err)
	}
	return nil
}

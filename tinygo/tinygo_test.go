// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

package tinygo_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/tla202x"
	"github.com/warthog618/tla202x/tinygo"
	"tinygo.org/x/drivers"
)

// i2cBus mimics machine.I2C with a single TLA202x attached.
type i2cBus struct {
	addr uint16
	ptr  byte
	regs map[byte]uint16
	err  error
}

func newI2CBus(addr uint16) *i2cBus {
	return &i2cBus{addr: addr, regs: map[byte]uint16{0: 0, 1: 0x8583}}
}

func (b *i2cBus) Tx(addr uint16, w, r []byte) error {
	if b.err != nil {
		return b.err
	}
	if addr != b.addr {
		return errors.New("nack")
	}
	if len(w) > 0 {
		b.ptr = w[0]
	}
	if len(w) == 3 {
		b.regs[b.ptr] = uint16(w[1])<<8 | uint16(w[2])
	}
	if len(r) == 2 {
		v := b.regs[b.ptr]
		r[0] = byte(v >> 8)
		r[1] = byte(v)
	}
	return nil
}

// spiBus mimics machine.SPI with a single TLA202x attached.
type spiBus struct {
	regs   map[byte]uint16
	frames [][]byte
	err    error
}

func newSPIBus() *spiBus {
	return &spiBus{regs: map[byte]uint16{0: 0, 1: 0x8583}}
}

func (b *spiBus) Tx(w, r []byte) error {
	if b.err != nil {
		return b.err
	}
	b.frames = append(b.frames, append([]byte(nil), w...))
	reg := w[0] &^ 0x80
	if w[0]&0x80 == 0 {
		b.regs[reg] = uint16(w[1])<<8 | uint16(w[2])
		return nil
	}
	if r != nil {
		v := b.regs[reg]
		r[0] = 0
		r[1] = byte(v >> 8)
		r[2] = byte(v)
	}
	return nil
}

func (b *spiBus) Transfer(w byte) (byte, error) {
	return 0, errors.New("single byte transfers not supported")
}

var (
	_ drivers.I2C = (*i2cBus)(nil)
	_ drivers.SPI = (*spiBus)(nil)
)

func TestI2C(t *testing.T) {
	mb := newI2CBus(0x60)
	d := tla202x.New(tinygo.NewI2C(mb, 0))
	require.Nil(t, d.Init())
	assert.Equal(t, uint16(0xc0e3), mb.regs[1])

	mb.regs[0] = 0xffe0 // -2 counts
	v, err := d.ReadVoltage(0)
	require.Nil(t, err)
	assert.InDelta(t, -0.006, v, 1e-9)
	assert.Nil(t, d.Close())
}

func TestI2CAddr(t *testing.T) {
	mb := newI2CBus(0x48)
	b := tinygo.NewI2C(mb, 0x48)
	v, err := b.ReadRegister(tla202x.RegConfig)
	require.Nil(t, err)
	assert.Equal(t, uint16(0x8583), v)

	b = tinygo.NewI2C(mb, 0)
	_, err = b.ReadRegister(tla202x.RegConfig)
	var be *tla202x.BusError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "read", be.Op)
}

func TestI2CError(t *testing.T) {
	mb := newI2CBus(0x60)
	mb.err = errors.New("bus stuck")
	b := tinygo.NewI2C(mb, 0)
	err := b.WriteRegister(tla202x.RegConfig, 0)
	assert.ErrorIs(t, err, mb.err)
}

func TestSPI(t *testing.T) {
	mb := newSPIBus()
	var cs []bool
	b := tinygo.NewSPI(mb, tinygo.WithChipSelect(func(selected bool) {
		cs = append(cs, selected)
	}))
	d := tla202x.New(b)
	require.Nil(t, d.SetRange(tla202x.Range256mV))
	require.Len(t, mb.frames, 2)
	assert.Equal(t, []byte{0x81, 0, 0}, mb.frames[0])
	assert.Equal(t, []byte{0x01, 0x8b, 0x83}, mb.frames[1])
	assert.Equal(t, []bool{true, false, true, false}, cs)

	mb.regs[0] = 0x0010
	v, err := d.Voltage()
	require.Nil(t, err)
	assert.InDelta(t, 0.000125, v, 1e-12)
	// no mode written so no trigger
	require.Len(t, mb.frames, 3)
	assert.Equal(t, []byte{0x80, 0, 0}, mb.frames[2])
}

func TestSPIError(t *testing.T) {
	mb := newSPIBus()
	mb.err = errors.New("overrun")
	b := tinygo.NewSPI(mb)
	_, err := b.ReadRegister(tla202x.RegConversion)
	assert.ErrorIs(t, err, mb.err)
	var be *tla202x.BusError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, tla202x.RegConversion, be.Reg)
	assert.Nil(t, b.Close())
}

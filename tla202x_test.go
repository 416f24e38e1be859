// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

package tla202x_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/tla202x"
	"github.com/warthog618/tla202x/internal/mockbus"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var initConfig = tla202x.Config{
	Rate:  tla202x.Rate3300,
	Mode:  tla202x.ModeContinuous,
	Mux:   tla202x.MuxAIN0GND,
	Range: tla202x.Range6144mV,
}

func TestInit(t *testing.T) {
	b := mockbus.New()
	d := tla202x.New(b)
	require.Nil(t, d.Init())
	cfg, err := d.Config()
	require.Nil(t, err)
	assert.Equal(t, initConfig, cfg)
	// one read-modify-write per field
	assert.Len(t, b.Ops, 9)
	first := b.Regs[tla202x.RegConfig]

	require.Nil(t, d.Init())
	cfg, err = d.Config()
	require.Nil(t, err)
	assert.Equal(t, initConfig, cfg)
	assert.Equal(t, first, b.Regs[tla202x.RegConfig])
}

func TestInitFailure(t *testing.T) {
	b := mockbus.New()
	d := tla202x.New(b)
	writes := 0
	b.WriteFunc = func(reg tla202x.Register, v uint16) error {
		writes++
		if writes == 2 {
			return mockbus.ErrInjected
		}
		return nil
	}
	err := d.Init()
	assert.ErrorIs(t, err, mockbus.ErrInjected)
	// aborted after the failed mode write, no retry
	assert.Len(t, b.Ops, 4)
	_, err = d.Voltage()
	assert.ErrorIs(t, err, tla202x.ErrNotInitialized)

	// may be retried
	b.WriteFunc = nil
	require.Nil(t, d.Init())
	cfg, err := d.Config()
	require.Nil(t, err)
	assert.Equal(t, initConfig, cfg)
}

func TestOpen(t *testing.T) {
	b := mockbus.New()
	d, err := tla202x.Open(b)
	require.Nil(t, err)
	require.NotNil(t, d)
	cfg, err := d.Config()
	require.Nil(t, err)
	assert.Equal(t, initConfig, cfg)

	b = mockbus.New()
	b.ReadFunc = mockbus.FailRead(tla202x.RegConfig)
	d, err = tla202x.Open(b)
	assert.ErrorIs(t, err, mockbus.ErrInjected)
	assert.Nil(t, d)
	assert.False(t, b.Closed)
}

func TestReset(t *testing.T) {
	b := mockbus.New()
	d := tla202x.New(b)
	require.Nil(t, d.Init())
	require.Nil(t, d.Reset())
	assert.Equal(t, uint16(0x8583), b.Regs[tla202x.RegConfig])
	cfg, err := d.Config()
	require.Nil(t, err)
	assert.Equal(t, tla202x.ModeOneShot, cfg.Mode)
	assert.Equal(t, tla202x.Range2048mV, cfg.Range)
}

func TestSetBus(t *testing.T) {
	b1 := mockbus.New()
	d := tla202x.New(b1)
	require.Nil(t, d.Init())

	b2 := mockbus.New()
	b2.Regs[tla202x.RegConversion] = 0x0640 // 100 counts
	require.Nil(t, d.SetBus(b2))
	assert.True(t, b1.Closed)
	assert.False(t, b2.Closed)

	// cached range survives the transport swap
	v, err := d.Voltage()
	require.Nil(t, err)
	assert.InDelta(t, 0.3, v, 1e-9)
	assert.Len(t, b1.Ops, 9)

	b3 := mockbus.New()
	b2.CloseErr = mockbus.ErrInjected
	assert.ErrorIs(t, d.SetBus(b3), mockbus.ErrInjected)
	_, err = d.Config()
	assert.Nil(t, err)
	assert.Len(t, b3.Ops, 1)
}

func TestClose(t *testing.T) {
	b := mockbus.New()
	d := tla202x.New(b)
	require.Nil(t, d.Close())
	assert.True(t, b.Closed)

	assert.ErrorIs(t, d.Close(), tla202x.ErrClosed)
	assert.ErrorIs(t, d.SetRate(tla202x.Rate128), tla202x.ErrClosed)
	_, err := d.Rate()
	assert.ErrorIs(t, err, tla202x.ErrClosed)
	_, err = d.Config()
	assert.ErrorIs(t, err, tla202x.ErrClosed)
	assert.ErrorIs(t, d.Reset(), tla202x.ErrClosed)
	assert.ErrorIs(t, d.Trigger(), tla202x.ErrClosed)
	_, err = d.Busy()
	assert.ErrorIs(t, err, tla202x.ErrClosed)

	// a closed device can be given a new transport
	b2 := mockbus.New()
	require.Nil(t, d.SetBus(b2))
	require.Nil(t, d.Init())
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	b := mockbus.New()
	d := tla202x.New(b, tla202x.WithLogger(zap.New(core)))
	require.Nil(t, d.Init())
	entries := logs.FilterMessage("set config field").All()
	require.Len(t, entries, 4)
	assert.Equal(t, "rate", entries[0].ContextMap()["field"])
	assert.Equal(t, "range", entries[3].ContextMap()["field"])
	assert.Equal(t, 1, logs.FilterMessage("initialised").Len())
}

func TestBusError(t *testing.T) {
	err := tla202x.ReadError(tla202x.RegConversion, mockbus.ErrInjected)
	assert.Equal(t, "read conversion register: injected failure", err.Error())
	assert.ErrorIs(t, err, mockbus.ErrInjected)
	err = tla202x.WriteError(tla202x.Register(5), mockbus.ErrInjected)
	assert.Equal(t, "write 0x05 register: injected failure", err.Error())
}

func TestSync(t *testing.T) {
	b := mockbus.New()
	d := tla202x.New(b)
	b.Regs[tla202x.RegConversion] = 0x0100 // 16 counts
	require.Nil(t, d.Sync())
	// power on config is one-shot over ±2.048V
	v, err := d.Voltage()
	require.Nil(t, err)
	assert.InDelta(t, 0.016, v, 1e-9)
	// read config, trigger, poll, read conversion
	assert.Len(t, b.Ops, 5)

	b.ReadFunc = mockbus.FailRead(tla202x.RegConfig)
	assert.ErrorIs(t, d.Sync(), mockbus.ErrInjected)
}

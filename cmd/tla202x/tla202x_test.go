// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/tla202x"
	"github.com/warthog618/tla202x/internal/mockbus"
	"github.com/warthog618/tla202x/sensor"
)

func TestParseChannels(t *testing.T) {
	cc, err := parseChannels(nil)
	require.Nil(t, err)
	assert.Equal(t, []tla202x.Channel{0, 1, 2, 3}, cc)

	cc, err = parseChannels([]string{"3", "ain1", "AIN0"})
	require.Nil(t, err)
	assert.Equal(t, []tla202x.Channel{3, 1, 0}, cc)

	_, err = parseChannels([]string{"1", "4"})
	assert.EqualError(t, err, "unknown channel '4'")
	_, err = parseChannels([]string{"AINx"})
	assert.EqualError(t, err, "can't parse channel 'AINx'")
}

func TestParseSetting(t *testing.T) {
	b := mockbus.New()
	d := tla202x.New(b)
	for _, arg := range []string{"rate=920", "mode=continuous", "mux=AIN2-AIN3", "range=0.512"} {
		s, err := parseSetting(arg)
		require.Nil(t, err, arg)
		require.Nil(t, s(d), arg)
	}
	c, err := d.Config()
	require.Nil(t, err)
	assert.Equal(t, tla202x.Config{
		Rate:  tla202x.Rate920,
		Mode:  tla202x.ModeContinuous,
		Mux:   tla202x.MuxAIN2AIN3,
		Range: tla202x.Range512mV,
	}, c)

	s, err := parseSetting("ch=AIN1")
	require.Nil(t, err)
	require.Nil(t, s(d))
	c, err = d.Config()
	require.Nil(t, err)
	assert.Equal(t, tla202x.MuxAIN1GND, c.Mux)

	_, err = parseSetting("rate")
	assert.Error(t, err)
	_, err = parseSetting("gain=2")
	assert.EqualError(t, err, "unknown field 'gain'")
	_, err = parseSetting("rate=100")
	assert.ErrorIs(t, err, tla202x.ErrInvalidRate)
	_, err = parseSetting("mode=burst")
	assert.ErrorIs(t, err, tla202x.ErrInvalidMode)
	_, err = parseSetting("mux=AIN1")
	assert.ErrorIs(t, err, tla202x.ErrInvalidMux)
	_, err = parseSetting("range=3.3")
	assert.ErrorIs(t, err, tla202x.ErrInvalidRange)
}

func TestPrintConfig(t *testing.T) {
	c := tla202x.Config{
		Rate:  tla202x.Rate1600,
		Mode:  tla202x.ModeOneShot,
		Mux:   tla202x.MuxAIN3GND,
		Range: tla202x.Range4096mV,
	}
	var buf bytes.Buffer
	printConfigShort(&buf, c)
	assert.Equal(t, "rate=1600 mode=one-shot mux=AIN3-GND range=±4.096V\n", buf.String())

	buf.Reset()
	printConfig(&buf, c)
	out := buf.String()
	for _, s := range []string{"FIELD", "1600", "one-shot", "AIN3-GND", "±4.096V"} {
		assert.Contains(t, out, s)
	}
}

func TestPrintReadings(t *testing.T) {
	rr := []reading{{ch: 0, volts: 1.5, raw: 500}, {ch: 2, volts: -0.25, raw: -2}}
	var buf bytes.Buffer
	printReadings(&buf, rr, false)
	assert.Equal(t, "AIN0: 1.500000V\nAIN2: -0.250000V\n", buf.String())

	buf.Reset()
	printReadings(&buf, rr, true)
	assert.Equal(t, "AIN0: 500\nAIN2: -2\n", buf.String())

	buf.Reset()
	printReadingsShort(&buf, rr, false)
	assert.Equal(t, "1.500000 -0.250000\n", buf.String())

	buf.Reset()
	printReadingsShort(&buf, rr, true)
	assert.Equal(t, "500 -2\n", buf.String())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("TLA202X_SPIDEV_FREQ", "2MHz")
	c := loadConfig(map[string]interface{}{"bus": "spidev"})
	assert.Equal(t, "spidev", c.MustGet("bus").String())
	assert.Equal(t, "2MHz", c.MustGet("spidev.freq").String())
	assert.EqualValues(t, tla202x.DefaultAddr, c.MustGet("i2c.addr").Uint())
	assert.Equal(t, 500*time.Nanosecond, c.MustGet("spi.tclk").Duration())
	assert.Equal(t, "GPIO17", c.MustGet("spi.csz").String())

	c = loadConfig(map[string]interface{}{"bus": "can"})
	_, err := openBus(c)
	assert.EqualError(t, err, "unknown bus 'can'")

	c = loadConfig(map[string]interface{}{
		"bus":    "spidev",
		"spidev": map[string]interface{}{"freq": "fast"},
	})
	_, err = openBus(c)
	assert.Error(t, err)
}

func TestMonitor(t *testing.T) {
	b := mockbus.New()
	d := tla202x.New(b)
	require.Nil(t, d.Init())
	b.Regs[tla202x.RegConversion] = 0x0100
	mc := clock.NewMock()
	ss := sensor.Channels(d, 10, sensor.WithClock(mc))[1:3]

	var buf bytes.Buffer
	done := make(chan error)
	go func() {
		done <- monitor(&buf, mc, ss, time.Second, 3, make(chan os.Signal))
	}()
	var err error
	for running := true; running; {
		select {
		case err = <-done:
			running = false
		case <-time.After(10 * time.Millisecond):
			mc.Add(time.Second)
		}
	}
	require.Nil(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "event: 11 AIN1  0.048000V "), lines[0])
	assert.True(t, strings.HasPrefix(lines[5], "event: 12 AIN2  0.048000V "), lines[5])
}

func TestMonitorDone(t *testing.T) {
	b := mockbus.New()
	d := tla202x.New(b)
	require.Nil(t, d.Init())
	sigdone := make(chan os.Signal, 1)
	sigdone <- os.Interrupt
	var buf bytes.Buffer
	err := monitor(&buf, clock.NewMock(), sensor.Channels(d, 0), time.Second, 0, sigdone)
	require.Nil(t, err)
	assert.Equal(t, 4, strings.Count(buf.String(), "\n"))
}

func TestMonitorError(t *testing.T) {
	b := mockbus.New()
	d := tla202x.New(b)
	var buf bytes.Buffer
	err := monitor(&buf, clock.NewMock(), sensor.Channels(d, 0), time.Second, 0, nil)
	assert.ErrorIs(t, err, tla202x.ErrNotInitialized)
	assert.Empty(t, buf.String())
}

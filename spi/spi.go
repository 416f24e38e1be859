// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package spi provides a bit bashed SPI bus on GPIO pins, and a TLA202x
// register bus over it.
package spi

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Pin is the subset of gpio.PinIO used to drive the bus.
type Pin interface {
	In(pull gpio.Pull, edge gpio.Edge) error
	Read() gpio.Level
	Out(l gpio.Level) error
}

// ErrBufferLength indicates the read and write buffers of a transfer differ
// in length.
var ErrBufferLength = errors.New("buffer length mismatch")

// SPI represents a device connected via an SPI bus using 4 GPIO lines.
// This is the basis for bit bashed SPI interfaces using GPIO pins.
// It is not related to the SPI device drivers provided by Linux.
//
// The bus operates in mode 0, MSB first.
type SPI struct {
	Mu sync.Mutex
	// time between clock edges (i.e. half the cycle time)
	Tclk time.Duration
	Sclk Pin
	Ssz  Pin
	Mosi Pin
	Miso Pin
}

// New creates a SPI on the given pins.
func New(tclk time.Duration, sclk, ssz, mosi, miso Pin) (*SPI, error) {
	spi := &SPI{
		Tclk: tclk,
		Sclk: sclk,
		Ssz:  ssz,
		Mosi: mosi,
		Miso: miso,
	}
	// hold SPI reset until needed...
	err := multierr.Combine(
		spi.Sclk.Out(gpio.Low),
		spi.Ssz.Out(gpio.High),
		spi.Mosi.Out(gpio.Low),
		spi.Miso.In(gpio.PullNoChange, gpio.NoEdge))
	if err != nil {
		return nil, fmt.Errorf("spi: could not configure pins: %w", err)
	}
	return spi, nil
}

// Open creates a SPI on the named GPIO pins, e.g. "GPIO24".
func Open(tclk time.Duration, sclk, ssz, mosi, miso string) (*SPI, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("spi: could not initialize host: %w", err)
	}
	var pins [4]Pin
	for i, name := range []string{sclk, ssz, mosi, miso} {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("spi: unknown pin '%s'", name)
		}
		pins[i] = p
	}
	return New(tclk, pins[0], pins[1], pins[2], pins[3])
}

// Close disables the output pins used to drive the SPI device.
func (spi *SPI) Close() error {
	spi.Mu.Lock()
	defer spi.Mu.Unlock()
	return multierr.Combine(
		spi.Sclk.In(gpio.PullNoChange, gpio.NoEdge),
		spi.Ssz.In(gpio.PullNoChange, gpio.NoEdge),
		spi.Mosi.In(gpio.PullNoChange, gpio.NoEdge))
}

// Tx performs a full duplex transfer, clocking out w while clocking in r.
// r may be nil if the read data is not required.
func (spi *SPI) Tx(w, r []byte) error {
	if r != nil && len(r) != len(w) {
		return fmt.Errorf("spi: write %d, read %d: %w", len(w), len(r), ErrBufferLength)
	}
	spi.Mu.Lock()
	defer spi.Mu.Unlock()
	err := spi.Sclk.Out(gpio.Low)
	err = multierr.Append(err, spi.Ssz.Out(gpio.Low))
	time.Sleep(spi.Tclk)
	for i, wb := range w {
		var rb byte
		for bit := 7; bit >= 0; bit-- {
			l, cerr := spi.Clock(wb>>uint(bit)&0x01 == 0x01)
			err = multierr.Append(err, cerr)
			rb <<= 1
			if l {
				rb |= 0x01
			}
		}
		if r != nil {
			r[i] = rb
		}
	}
	err = multierr.Append(err, spi.Ssz.Out(gpio.High))
	if err != nil {
		return fmt.Errorf("spi: %w", err)
	}
	return nil
}

// Clock clocks out a data bit to the SPI device on Mosi while clocking in a
// data bit from the device on Miso.
// Assumes clock starts low and ends with the falling edge of the clock.
// Assumes caller already holds the Mu lock.
func (spi *SPI) Clock(l gpio.Level) (gpio.Level, error) {
	err := spi.Mosi.Out(l)
	time.Sleep(spi.Tclk)
	// both ends sample on the rising edge
	err = multierr.Append(err, spi.Sclk.Out(gpio.High))
	b := spi.Miso.Read()
	time.Sleep(spi.Tclk)
	err = multierr.Append(err, spi.Sclk.Out(gpio.Low))
	return b, err
}

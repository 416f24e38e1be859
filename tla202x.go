// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

// Package tla202x provides a driver for the Texas Instruments TLA2021/2022/2024
// family of 12-bit ADCs.
//
// The device is accessed through two 16-bit registers, a configuration
// register holding the data rate, operating mode, input mux and full-scale
// range, and a conversion register holding the left justified result.
// The register transport is provided by a Bus, implementations of which are
// provided for periph.io I2C and SPI, raw Linux i2c-dev, bit bashed SPI on
// GPIO pins, and TinyGo.
//
// Example of use:
//
//	d := tla202x.New(bus)
//	defer d.Close()
//	if err := d.Init(); err != nil {
//		return err
//	}
//	v, err := d.ReadVoltage(2)
//
// A Device is not safe for concurrent use. Callers sharing a device
// between goroutines must serialise access.
package tla202x

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// DefaultAddr is the default I2C address of the device.
const DefaultAddr = 0x60

var (
	// ErrInvalidChannel indicates a channel outside AIN0..AIN3.
	ErrInvalidChannel = errors.New("invalid channel")
	// ErrInvalidRate indicates an undefined data rate.
	ErrInvalidRate = errors.New("invalid data rate")
	// ErrInvalidMode indicates an undefined operating mode.
	ErrInvalidMode = errors.New("invalid mode")
	// ErrInvalidMux indicates an undefined mux setting.
	ErrInvalidMux = errors.New("invalid mux")
	// ErrInvalidRange indicates an undefined full-scale range.
	ErrInvalidRange = errors.New("invalid range")
	// ErrNotInitialized indicates a conversion was requested before the
	// full-scale range was written to the device.
	ErrNotInitialized = errors.New("not initialized")
	// ErrClosed indicates the device is closed.
	ErrClosed = errors.New("closed")
	// ErrTimeout indicates a one-shot conversion did not complete.
	ErrTimeout = errors.New("conversion timed out")
)

// Device is a TLA202x ADC.
type Device struct {
	bus    Bus
	logger *zap.Logger

	// the last range successfully written to the device.
	fsr       Range
	haveRange bool
	// the last mode successfully written to the device.
	mode Mode
}

// Option configures a Device.
type Option func(d *Device)

// WithLogger sets the logger used by the device.
// By default the device does not log.
func WithLogger(l *zap.Logger) Option {
	return func(d *Device) {
		d.logger = l
	}
}

// New creates a Device that takes ownership of the bus.
//
// The device is not initialised. Call Init before reading conversions.
func New(bus Bus, options ...Option) *Device {
	d := &Device{
		bus:    bus,
		logger: zap.NewNop(),
	}
	for _, option := range options {
		option(d)
	}
	return d
}

// Open creates and initialises a Device.
// On failure the bus remains owned by the caller.
func Open(bus Bus, options ...Option) (*Device, error) {
	d := New(bus, options...)
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

// Init sets the device to continuous conversion at the fastest rate,
// of single-ended channel 0, over the widest range.
//
// The first failure aborts the initialisation and is returned.
// The configuration is undefined until Init succeeds, but Init may be retried.
func (d *Device) Init() error {
	if err := d.SetRate(Rate3300); err != nil {
		return err
	}
	if err := d.SetMode(ModeContinuous); err != nil {
		return err
	}
	if err := d.SetMux(MuxAIN0GND); err != nil {
		return err
	}
	if err := d.SetRange(Range6144mV); err != nil {
		return err
	}
	d.logger.Debug("initialised")
	return nil
}

// Reset writes the power on defaults to the configuration register.
//
// This forgets the cached range, so Init or SetRange must be called before
// reading conversions.
func (d *Device) Reset() error {
	bus, err := d.getBus()
	if err != nil {
		return err
	}
	if err = bus.WriteRegister(RegConfig, powerOnConfig); err != nil {
		return err
	}
	d.haveRange = false
	d.mode = Mode(modeField.decode(powerOnConfig))
	d.logger.Debug("reset")
	return nil
}

// Sync adopts the range and mode currently configured in the device.
//
// This allows conversions to be read from a device configured by a previous
// process without reconfiguring it.
func (d *Device) Sync() error {
	bus, err := d.getBus()
	if err != nil {
		return err
	}
	cfg, err := bus.ReadRegister(RegConfig)
	if err != nil {
		return err
	}
	d.fsr = decodeRange(rangeField.decode(cfg))
	d.haveRange = true
	d.mode = Mode(modeField.decode(cfg))
	return nil
}

// SetBus replaces the transport used by the device.
//
// The previous transport is closed. The cached configuration is retained so
// the new transport is expected to address the same device.
func (d *Device) SetBus(bus Bus) error {
	old := d.bus
	d.bus = bus
	if old == nil {
		return nil
	}
	return old.Close()
}

// Close closes the transport.
func (d *Device) Close() error {
	if d.bus == nil {
		return ErrClosed
	}
	err := d.bus.Close()
	d.bus = nil
	return err
}

func (d *Device) getBus() (Bus, error) {
	if d.bus == nil {
		return nil, fmt.Errorf("tla202x: %w", ErrClosed)
	}
	return d.bus, nil
}

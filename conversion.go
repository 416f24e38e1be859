// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

package tla202x

import (
	"fmt"
	"time"
)

// time between polls of the OS bit while waiting for a one-shot conversion.
const convPollInterval = 100 * time.Microsecond

// polls before giving up on a one-shot conversion.
// Well beyond the 8ms conversion time at 128 SPS.
const convPollLimit = 1000

// millivolts per LSB, indexed by Range.
var lsbTable = []float64{3, 2, 1, 0.5, 0.25, 0.125}

// full-scale volts, indexed by Range.
var fullScaleTable = []float64{6.144, 4.096, 2.048, 1.024, 0.512, 0.256}

// Counts converts the raw conversion register to a signed 12-bit count.
//
// The result is left justified in the register, so it is shifted down
// preserving the sign.
func Counts(raw uint16) int16 {
	return int16(raw) >> 4
}

// LSB returns the millivolts represented by one count over the range.
func (r Range) LSB() float64 {
	return lsbTable[decodeRange(uint16(r))]
}

// FullScale returns the magnitude of the full-scale range in volts.
func (r Range) FullScale() float64 {
	return fullScaleTable[decodeRange(uint16(r))]
}

// Volts converts a 12-bit count to volts over the range.
func (r Range) Volts(counts int16) float64 {
	return float64(counts) * r.LSB() / 1000
}

// ReadVoltage selects the single-ended channel ch and returns its voltage.
func (d *Device) ReadVoltage(ch Channel) (float64, error) {
	if err := d.SetChannel(ch); err != nil {
		return 0, err
	}
	return d.Voltage()
}

// Voltage returns the voltage of the currently selected input.
//
// In one-shot mode a conversion is triggered and waited on before the result
// is read. In continuous mode the most recent conversion is returned.
func (d *Device) Voltage() (float64, error) {
	if !d.haveRange {
		return 0, fmt.Errorf("tla202x: %w", ErrNotInitialized)
	}
	c, err := d.ReadRaw()
	if err != nil {
		return 0, err
	}
	return d.fsr.Volts(c), nil
}

// ReadRaw returns the signed 12-bit count of the current conversion.
func (d *Device) ReadRaw() (int16, error) {
	if d.mode == ModeOneShot {
		if err := d.convert(); err != nil {
			return 0, err
		}
	}
	bus, err := d.getBus()
	if err != nil {
		return 0, err
	}
	raw, err := bus.ReadRegister(RegConversion)
	if err != nil {
		return 0, err
	}
	return Counts(raw), nil
}

// Trigger starts a single conversion.
//
// This only has effect in one-shot mode.
func (d *Device) Trigger() error {
	bus, err := d.getBus()
	if err != nil {
		return err
	}
	cfg, err := bus.ReadRegister(RegConfig)
	if err != nil {
		return err
	}
	return bus.WriteRegister(RegConfig, cfg|osBit)
}

// Busy returns true while a one-shot conversion is in progress.
func (d *Device) Busy() (bool, error) {
	bus, err := d.getBus()
	if err != nil {
		return false, err
	}
	cfg, err := bus.ReadRegister(RegConfig)
	if err != nil {
		return false, err
	}
	return cfg&osBit == 0, nil
}

func (d *Device) convert() error {
	if err := d.Trigger(); err != nil {
		return err
	}
	for i := 0; i < convPollLimit; i++ {
		busy, err := d.Busy()
		if err != nil {
			return err
		}
		if !busy {
			return nil
		}
		time.Sleep(convPollInterval)
	}
	return ErrTimeout
}

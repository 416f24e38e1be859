// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

package tla202x

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// DataRate is the conversion rate in continuous mode.
type DataRate uint16

// Data rates, in field code order.
const (
	RateOneShot DataRate = iota
	Rate128
	Rate250
	Rate490
	Rate920
	Rate1600
	Rate2400
	Rate3300
)

// Mode is the operating mode of the device.
type Mode uint16

const (
	// ModeContinuous converts continuously at the configured rate.
	ModeContinuous Mode = iota
	// ModeOneShot converts once per trigger then powers down.
	ModeOneShot
)

// Mux selects the inputs routed to the ADC.
type Mux uint16

// Input multiplexer settings.
// The first four are differential pairs (positive then negative input),
// the remainder single-ended to ground.
const (
	MuxAIN0AIN1 Mux = iota
	MuxAIN0AIN3
	MuxAIN1AIN3
	MuxAIN2AIN3
	MuxAIN0GND
	MuxAIN1GND
	MuxAIN2GND
	MuxAIN3GND
)

// Range is the full-scale range of the programmable gain amplifier.
type Range uint16

// Full-scale ranges, in field code order.
const (
	Range6144mV Range = iota
	Range4096mV
	Range2048mV
	Range1024mV
	Range512mV
	Range256mV
)

// Channel is a single-ended input, AIN0 to AIN3.
type Channel int

// NumChannels is the number of single-ended inputs.
const NumChannels = 4

// Config is the decoded content of the configuration register.
type Config struct {
	Rate  DataRate
	Mode  Mode
	Mux   Mux
	Range Range
}

// field is a span of bits within the configuration register.
type field struct {
	name  string
	shift uint
	width uint
}

func (f field) mask() uint16 {
	return (1<<f.width - 1) << f.shift
}

func (f field) decode(cfg uint16) uint16 {
	return (cfg & f.mask()) >> f.shift
}

func (f field) encode(cfg, v uint16) uint16 {
	return cfg&^f.mask() | (v<<f.shift)&f.mask()
}

var (
	rateField  = field{"rate", 5, 3}
	modeField  = field{"mode", 8, 1}
	rangeField = field{"range", 9, 3}
	muxField   = field{"mux", 12, 3}
)

const (
	// osBit starts a conversion when written and is clear while converting.
	osBit uint16 = 1 << 15

	// powerOnConfig is the configuration register value after power on.
	powerOnConfig uint16 = 0x8583
)

// Valid returns true if the rate is a defined rate.
func (r DataRate) Valid() bool {
	return r <= Rate3300
}

// Valid returns true if the mode is a defined mode.
func (m Mode) Valid() bool {
	return m <= ModeOneShot
}

// Valid returns true if the mux is a defined mux setting.
func (m Mux) Valid() bool {
	return m <= MuxAIN3GND
}

// Valid returns true if the range is a defined range.
func (r Range) Valid() bool {
	return r <= Range256mV
}

// Valid returns true if the channel is one of the single-ended inputs.
func (c Channel) Valid() bool {
	return c >= 0 && c < NumChannels
}

// SingleEnded returns the mux setting that measures ch relative to ground.
func SingleEnded(ch Channel) (Mux, error) {
	if !ch.Valid() {
		return 0, fmt.Errorf("tla202x: channel %d: %w", ch, ErrInvalidChannel)
	}
	return MuxAIN0GND + Mux(ch), nil
}

// Channel returns the single-ended channel selected by the mux, if any.
func (m Mux) Channel() (Channel, bool) {
	if m < MuxAIN0GND || !m.Valid() {
		return 0, false
	}
	return Channel(m - MuxAIN0GND), true
}

var rateNames = []string{"one-shot", "128", "250", "490", "920", "1600", "2400", "3300"}

func (r DataRate) String() string {
	if !r.Valid() {
		return fmt.Sprintf("DataRate(%d)", uint16(r))
	}
	return rateNames[r]
}

// SamplesPerSecond returns the nominal conversion rate, or 0 for RateOneShot.
func (r DataRate) SamplesPerSecond() int {
	if r == RateOneShot || !r.Valid() {
		return 0
	}
	sps, _ := strconv.Atoi(rateNames[r])
	return sps
}

func (m Mode) String() string {
	switch m {
	case ModeContinuous:
		return "continuous"
	case ModeOneShot:
		return "one-shot"
	}
	return fmt.Sprintf("Mode(%d)", uint16(m))
}

var muxNames = []string{
	"AIN0-AIN1", "AIN0-AIN3", "AIN1-AIN3", "AIN2-AIN3",
	"AIN0-GND", "AIN1-GND", "AIN2-GND", "AIN3-GND",
}

func (m Mux) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mux(%d)", uint16(m))
	}
	return muxNames[m]
}

var rangeNames = []string{"6.144V", "4.096V", "2.048V", "1.024V", "0.512V", "0.256V"}

func (r Range) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Range(%d)", uint16(r))
	}
	return "±" + rangeNames[r]
}

// ParseRate parses a rate in samples per second, or "one-shot".
func ParseRate(s string) (DataRate, error) {
	v := strings.TrimSuffix(strings.ToLower(s), "sps")
	for i, n := range rateNames {
		if v == n {
			return DataRate(i), nil
		}
	}
	return 0, fmt.Errorf("tla202x: rate '%s': %w", s, ErrInvalidRate)
}

// ParseMode parses "continuous" or "one-shot".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "continuous", "cont":
		return ModeContinuous, nil
	case "one-shot", "oneshot", "single":
		return ModeOneShot, nil
	}
	return 0, fmt.Errorf("tla202x: mode '%s': %w", s, ErrInvalidMode)
}

// ParseMux parses a mux setting such as "AIN1-GND" or "ain0-ain3".
func ParseMux(s string) (Mux, error) {
	for i, n := range muxNames {
		if strings.EqualFold(s, n) {
			return Mux(i), nil
		}
	}
	return 0, fmt.Errorf("tla202x: mux '%s': %w", s, ErrInvalidMux)
}

// ParseRange parses a full-scale range in volts, such as "2.048" or "±0.256V".
func ParseRange(s string) (Range, error) {
	v := strings.TrimSuffix(strings.TrimPrefix(s, "±"), "V")
	v = strings.TrimSuffix(v, "v")
	for i, n := range rangeNames {
		if v+"V" == n {
			return Range(i), nil
		}
	}
	return 0, fmt.Errorf("tla202x: range '%s': %w", s, ErrInvalidRange)
}

// config performs a read-modify-write of a single field.
func (d *Device) config(f field, v uint16) error {
	bus, err := d.getBus()
	if err != nil {
		return err
	}
	cfg, err := bus.ReadRegister(RegConfig)
	if err != nil {
		return err
	}
	cfg = f.encode(cfg, v)
	if err = bus.WriteRegister(RegConfig, cfg); err != nil {
		return err
	}
	d.logger.Debug("set config field",
		zap.String("field", f.name),
		zap.Uint16("value", v),
		zap.String("config", fmt.Sprintf("0x%04x", cfg)))
	return nil
}

func (d *Device) readField(f field) (uint16, error) {
	bus, err := d.getBus()
	if err != nil {
		return 0, err
	}
	cfg, err := bus.ReadRegister(RegConfig)
	if err != nil {
		return 0, err
	}
	return f.decode(cfg), nil
}

// SetRate sets the data rate.
func (d *Device) SetRate(r DataRate) error {
	if !r.Valid() {
		return fmt.Errorf("tla202x: rate %d: %w", r, ErrInvalidRate)
	}
	return d.config(rateField, uint16(r))
}

// Rate returns the data rate configured in the device.
func (d *Device) Rate() (DataRate, error) {
	v, err := d.readField(rateField)
	return DataRate(v), err
}

// SetMode sets the operating mode.
func (d *Device) SetMode(m Mode) error {
	if !m.Valid() {
		return fmt.Errorf("tla202x: mode %d: %w", m, ErrInvalidMode)
	}
	if err := d.config(modeField, uint16(m)); err != nil {
		return err
	}
	d.mode = m
	return nil
}

// Mode returns the operating mode configured in the device.
func (d *Device) Mode() (Mode, error) {
	v, err := d.readField(modeField)
	return Mode(v), err
}

// SetMux sets the input multiplexer.
func (d *Device) SetMux(m Mux) error {
	if !m.Valid() {
		return fmt.Errorf("tla202x: mux %d: %w", m, ErrInvalidMux)
	}
	return d.config(muxField, uint16(m))
}

// Mux returns the input multiplexer setting configured in the device.
func (d *Device) Mux() (Mux, error) {
	v, err := d.readField(muxField)
	return Mux(v), err
}

// SetChannel selects the single-ended input ch.
func (d *Device) SetChannel(ch Channel) error {
	m, err := SingleEnded(ch)
	if err != nil {
		return err
	}
	return d.config(muxField, uint16(m))
}

// SetRange sets the full-scale range.
//
// The range is remembered for scaling subsequent conversions, but only once
// it has been successfully written to the device.
func (d *Device) SetRange(r Range) error {
	if !r.Valid() {
		return fmt.Errorf("tla202x: range %d: %w", r, ErrInvalidRange)
	}
	if err := d.config(rangeField, uint16(r)); err != nil {
		return err
	}
	d.fsr = r
	d.haveRange = true
	return nil
}

// Range returns the full-scale range configured in the device.
func (d *Device) Range() (Range, error) {
	v, err := d.readField(rangeField)
	return decodeRange(v), err
}

// Config returns all fields of the configuration register from a single read.
func (d *Device) Config() (Config, error) {
	bus, err := d.getBus()
	if err != nil {
		return Config{}, err
	}
	cfg, err := bus.ReadRegister(RegConfig)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Rate:  DataRate(rateField.decode(cfg)),
		Mode:  Mode(modeField.decode(cfg)),
		Mux:   Mux(muxField.decode(cfg)),
		Range: decodeRange(rangeField.decode(cfg)),
	}, nil
}

// codes above Range256mV select the same gain as Range256mV.
func decodeRange(v uint16) Range {
	if r := Range(v); r.Valid() {
		return r
	}
	return Range256mV
}

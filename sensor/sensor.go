// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

// Package sensor presents the single-ended inputs of a TLA202x as voltage
// sensors producing timestamped events.
package sensor

import (
	"fmt"
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/warthog618/tla202x"
	"tinygo.org/x/drivers"
)

// Name is the name reported in the sensor Info.
const Name = "TLA202x"

// Version is the version of the event and info formats.
const Version = 1

// Type identifies the kind of quantity measured by a sensor.
type Type int

// TypeVoltage is the type of a voltage sensor.
const TypeVoltage Type = 19

func (t Type) String() string {
	if t == TypeVoltage {
		return "voltage"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Reader reads the voltage on a single-ended input.
//
// It is implemented by *tla202x.Device.
type Reader interface {
	ReadVoltage(ch tla202x.Channel) (float64, error)
}

// Event is a single voltage reading.
type Event struct {
	Version   int
	SensorID  int32
	Type      Type
	Timestamp time.Time
	// Voltage in volts.
	Voltage float64
}

// Info describes a sensor.
type Info struct {
	Name     string
	Version  int
	SensorID int32
	Type     Type
	// MinDelay is the minimum time between distinct readings, or zero if
	// readings are taken on demand.
	MinDelay time.Duration
	// MinValue, MaxValue and Resolution are in volts.
	MinValue   float64
	MaxValue   float64
	Resolution float64
}

// Sensor is a voltage sensor on one single-ended input.
type Sensor struct {
	r     Reader
	ch    tla202x.Channel
	id    int32
	clock clock.Clock
	fsr   tla202x.Range
	rate  tla202x.DataRate
	// microvolts from the last Update.
	uv int32
}

// Option configures a Sensor.
type Option func(s *Sensor)

// WithClock sets the clock used to timestamp events.
func WithClock(c clock.Clock) Option {
	return func(s *Sensor) {
		s.clock = c
	}
}

// WithRange sets the full-scale range reported in the sensor Info.
// This should match the range configured in the device.
// The default is tla202x.Range6144mV.
func WithRange(r tla202x.Range) Option {
	return func(s *Sensor) {
		s.fsr = r
	}
}

// WithRate sets the data rate reported in the sensor Info.
// This should match the rate configured in the device.
// The default is tla202x.Rate3300.
func WithRate(r tla202x.DataRate) Option {
	return func(s *Sensor) {
		s.rate = r
	}
}

// New creates a Sensor reading channel ch from r.
func New(r Reader, ch tla202x.Channel, id int32, options ...Option) (*Sensor, error) {
	if !ch.Valid() {
		return nil, fmt.Errorf("sensor: channel %d: %w", ch, tla202x.ErrInvalidChannel)
	}
	s := &Sensor{
		r:     r,
		ch:    ch,
		id:    id,
		clock: clock.New(),
		fsr:   tla202x.Range6144mV,
		rate:  tla202x.Rate3300,
	}
	for _, option := range options {
		option(s)
	}
	return s, nil
}

// Channels creates a Sensor for each single-ended input, with IDs starting at
// baseID.
func Channels(r Reader, baseID int32, options ...Option) []*Sensor {
	ss := make([]*Sensor, tla202x.NumChannels)
	for ch := tla202x.Channel(0); ch < tla202x.NumChannels; ch++ {
		// channels are all valid so New cannot fail
		ss[ch], _ = New(r, ch, baseID+int32(ch), options...)
	}
	return ss
}

// Channel returns the input read by the sensor.
func (s *Sensor) Channel() tla202x.Channel {
	return s.ch
}

// Event reads the input and returns the reading as an event.
func (s *Sensor) Event() (Event, error) {
	v, err := s.r.ReadVoltage(s.ch)
	if err != nil {
		return Event{}, fmt.Errorf("sensor %d: %w", s.id, err)
	}
	return Event{
		Version:   Version,
		SensorID:  s.id,
		Type:      TypeVoltage,
		Timestamp: s.clock.Now(),
		Voltage:   v,
	}, nil
}

// Info returns the description of the sensor.
func (s *Sensor) Info() Info {
	var delay time.Duration
	if sps := s.rate.SamplesPerSecond(); sps > 0 {
		delay = time.Second / time.Duration(sps)
	}
	fs := s.fsr.FullScale()
	return Info{
		Name:       Name,
		Version:    Version,
		SensorID:   s.id,
		Type:       TypeVoltage,
		MinDelay:   delay,
		MinValue:   -fs,
		MaxValue:   fs,
		Resolution: s.fsr.LSB() / 1000,
	}
}

// Update implements drivers.Sensor, reading the input if a voltage
// measurement is requested.
func (s *Sensor) Update(which drivers.Measurement) error {
	if which&drivers.Voltage == 0 {
		return nil
	}
	v, err := s.r.ReadVoltage(s.ch)
	if err != nil {
		return fmt.Errorf("sensor %d: %w", s.id, err)
	}
	s.uv = int32(math.Round(v * 1e6))
	return nil
}

// Voltage returns the voltage from the last Update, in microvolts.
func (s *Sensor) Voltage() int32 {
	return s.uv
}

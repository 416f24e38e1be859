// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/warthog618/tla202x"
)

func init() {
	setCmd.SetHelpTemplate(setCmd.HelpTemplate() + extendedSetHelp)
	rootCmd.AddCommand(setCmd)
}

var setCmd = &cobra.Command{
	Use:     "set <field1>=<value1>...",
	Short:   "Set a configuration field or fields",
	Args:    cobra.MinimumNArgs(1),
	RunE:    set,
	Example: "  tla202x set rate=1600 mode=one-shot mux=AIN1-GND range=2.048",
}

var extendedSetHelp = `
Fields:
  rate     128|250|490|920|1600|2400|3300
  mode     continuous|one-shot
  mux      AIN0-AIN1|AIN0-AIN3|AIN1-AIN3|AIN2-AIN3|AIN0-GND|AIN1-GND|AIN2-GND|AIN3-GND
  channel  0-3, equivalent to mux=AINx-GND
  range    6.144|4.096|2.048|1.024|0.512|0.256

Fields are written in the order provided.
`

// setting applies one field to a device.
type setting func(d *tla202x.Device) error

func set(cmd *cobra.Command, args []string) error {
	ss := []setting(nil)
	for _, arg := range args {
		s, err := parseSetting(arg)
		if err != nil {
			return err
		}
		ss = append(ss, s)
	}
	d, err := openDevice()
	if err != nil {
		return err
	}
	defer d.Close()
	for _, s := range ss {
		if err = s(d); err != nil {
			return err
		}
	}
	return nil
}

func parseSetting(arg string) (setting, error) {
	aa := strings.Split(arg, "=")
	if len(aa) != 2 {
		return nil, fmt.Errorf("invalid field<->value mapping: %s", arg)
	}
	v := aa[1]
	switch strings.ToLower(aa[0]) {
	case "rate":
		r, err := tla202x.ParseRate(v)
		if err != nil {
			return nil, err
		}
		return func(d *tla202x.Device) error { return d.SetRate(r) }, nil
	case "mode":
		m, err := tla202x.ParseMode(v)
		if err != nil {
			return nil, err
		}
		return func(d *tla202x.Device) error { return d.SetMode(m) }, nil
	case "mux":
		m, err := tla202x.ParseMux(v)
		if err != nil {
			return nil, err
		}
		return func(d *tla202x.Device) error { return d.SetMux(m) }, nil
	case "channel", "ch":
		c, err := parseChannel(v)
		if err != nil {
			return nil, err
		}
		return func(d *tla202x.Device) error { return d.SetChannel(c) }, nil
	case "range":
		r, err := tla202x.ParseRange(v)
		if err != nil {
			return nil, err
		}
		return func(d *tla202x.Device) error { return d.SetRange(r) }, nil
	}
	return nil, fmt.Errorf("unknown field '%s'", aa[0])
}

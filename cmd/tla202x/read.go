// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/warthog618/tla202x"
)

func init() {
	readCmd.Flags().BoolVarP(&readOpts.Raw, "raw", "r", false, "display the raw 12-bit counts")
	readCmd.Flags().BoolVarP(&readOpts.Short, "short", "s", false, "single line output format")
	readCmd.SetHelpTemplate(readCmd.HelpTemplate() + extendedReadHelp)
	rootCmd.AddCommand(readCmd)
}

var (
	readCmd = &cobra.Command{
		Use:     "read [channel]...",
		Short:   "Read the voltage on a channel or channels",
		Example: "  tla202x read 0 AIN2",
		RunE:    read,
	}
	readOpts = struct {
		Raw   bool
		Short bool
	}{}
)

var extendedReadHelp = `
Channels:
  Channels may be identified by name (AINx) or number (0-3).
  All channels are read if none are specified.

Reading a channel leaves it selected in the mux.
`

type reading struct {
	ch    tla202x.Channel
	volts float64
	raw   int16
}

func read(cmd *cobra.Command, args []string) error {
	cc, err := parseChannels(args)
	if err != nil {
		return err
	}
	d, err := openDevice()
	if err != nil {
		return err
	}
	defer d.Close()
	rr := make([]reading, 0, len(cc))
	for _, ch := range cc {
		r := reading{ch: ch}
		if readOpts.Raw {
			if err = d.SetChannel(ch); err == nil {
				r.raw, err = d.ReadRaw()
			}
		} else {
			r.volts, err = d.ReadVoltage(ch)
		}
		if err != nil {
			return err
		}
		rr = append(rr, r)
	}
	if readOpts.Short {
		printReadingsShort(os.Stdout, rr, readOpts.Raw)
	} else {
		printReadings(os.Stdout, rr, readOpts.Raw)
	}
	return nil
}

func printReadings(w io.Writer, rr []reading, raw bool) {
	for _, r := range rr {
		if raw {
			fmt.Fprintf(w, "AIN%d: %d\n", r.ch, r.raw)
		} else {
			fmt.Fprintf(w, "AIN%d: %.6fV\n", r.ch, r.volts)
		}
	}
}

func printReadingsShort(w io.Writer, rr []reading, raw bool) {
	for i, r := range rr {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		if raw {
			fmt.Fprintf(w, "%d", r.raw)
		} else {
			fmt.Fprintf(w, "%.6f", r.volts)
		}
	}
	fmt.Fprintln(w)
}

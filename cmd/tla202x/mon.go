// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"
	"github.com/warthog618/tla202x/sensor"
)

func init() {
	monCmd.Flags().DurationVarP(&monOpts.Period, "period", "p", time.Second, "time between readings")
	monCmd.Flags().UintVarP(&monOpts.NumEvents, "num-events", "n", 0, "exit after n readings of each channel")
	monCmd.SetHelpTemplate(monCmd.HelpTemplate() + extendedReadHelp)
	rootCmd.AddCommand(monCmd)
}

var (
	monCmd = &cobra.Command{
		Use:   "mon [channel]...",
		Short: "Monitor the voltage on a channel or channels",
		Long:  `Periodically read the voltage on channels and print them to standard output.`,
		RunE:  mon,
	}
	monOpts = struct {
		Period    time.Duration
		NumEvents uint
	}{}

	clk = clock.New()
)

func mon(cmd *cobra.Command, args []string) error {
	if monOpts.Period <= 0 {
		return errors.New("period must be positive")
	}
	cc, err := parseChannels(args)
	if err != nil {
		return err
	}
	d, err := openDevice()
	if err != nil {
		return err
	}
	defer d.Close()
	c, err := d.Config()
	if err != nil {
		return err
	}
	base := int32(cfg.MustGet("sensor.id").Int())
	ss := make([]*sensor.Sensor, len(cc))
	for i, ch := range cc {
		ss[i], err = sensor.New(d, ch, base+int32(ch),
			sensor.WithClock(clk),
			sensor.WithRange(c.Range),
			sensor.WithRate(c.Rate))
		if err != nil {
			return err
		}
	}
	sigdone := make(chan os.Signal, 1)
	signal.Notify(sigdone, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigdone)
	return monitor(os.Stdout, clk, ss, monOpts.Period, monOpts.NumEvents, sigdone)
}

// monitor reads the sensors every period until n rounds have been read, or
// until done.
// A zero n reads until done.
func monitor(w io.Writer, c clock.Clock, ss []*sensor.Sensor, period time.Duration, n uint, done <-chan os.Signal) error {
	t := c.Ticker(period)
	defer t.Stop()
	count := uint(0)
	for {
		for _, s := range ss {
			e, err := s.Event()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "event:%3d AIN%d %9.6fV %s\n",
				e.SensorID, s.Channel(), e.Voltage, e.Timestamp.Format(time.RFC3339Nano))
		}
		count++
		if n > 0 && count >= n {
			return nil
		}
		select {
		case <-t.C:
		case <-done:
			return nil
		}
	}
}

// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"github.com/spf13/cobra"
	"github.com/warthog618/tla202x"
)

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(resetCmd)
}

var (
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Configure the device for continuous conversion of AIN0",
		Long: `Configure the device for continuous conversion at 3300 SPS,
of AIN0 relative to ground, over the ±6.144V range.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDevice((*tla202x.Device).Init)
		},
	}
	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Restore the power on configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDevice((*tla202x.Device).Reset)
		},
	}
)

func withDevice(fn func(d *tla202x.Device) error) error {
	d, err := openDevice()
	if err != nil {
		return err
	}
	defer d.Close()
	return fn(d)
}

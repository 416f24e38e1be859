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

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/warthog618/tla202x"
)

func init() {
	getCmd.Flags().BoolVarP(&getOpts.Short, "short", "s", false, "single line output format")
	rootCmd.AddCommand(getCmd)
}

var (
	getCmd = &cobra.Command{
		Use:   "get",
		Short: "Display the configuration of the device",
		Args:  cobra.NoArgs,
		RunE:  get,
	}
	getOpts = struct {
		Short bool
	}{}
)

func get(cmd *cobra.Command, args []string) error {
	d, err := openDevice()
	if err != nil {
		return err
	}
	defer d.Close()
	c, err := d.Config()
	if err != nil {
		return err
	}
	if getOpts.Short {
		printConfigShort(os.Stdout, c)
	} else {
		printConfig(os.Stdout, c)
	}
	return nil
}

func printConfig(w io.Writer, c tla202x.Config) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Field", "Value", "Code"})
	t.AppendRows([]table.Row{
		{"rate", c.Rate, uint16(c.Rate)},
		{"mode", c.Mode, uint16(c.Mode)},
		{"mux", c.Mux, uint16(c.Mux)},
		{"range", c.Range, uint16(c.Range)},
	})
	t.Render()
}

func printConfigShort(w io.Writer, c tla202x.Config) {
	fmt.Fprintf(w, "rate=%s mode=%s mux=%s range=%s\n", c.Rate, c.Mode, c.Mux, c.Range)
}

// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

// tla202x is a utility to configure and read TLA202x ADCs.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/warthog618/config"
	"github.com/warthog618/tla202x"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootOpts.ConfigFile, "config-file", "c", "", "configuration file")
	pf.StringVarP(&rootOpts.Bus, "bus", "b", "", "bus type [i2c|i2cdev|spidev|spi]")
	pf.Uint16VarP(&rootOpts.Addr, "addr", "a", 0, "I2C address of the device")
	pf.BoolVarP(&rootOpts.Verbose, "verbose", "v", false, "log register accesses")
	rootCmd.SetHelpTemplate(rootCmd.HelpTemplate() + extendedRootHelp)
}

var (
	rootCmd = &cobra.Command{
		Use:               "tla202x",
		Short:             "tla202x is a utility to configure and read TLA202x ADCs",
		PersistentPreRunE: setup,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       version,
	}
	rootOpts = struct {
		ConfigFile string
		Bus        string
		Addr       uint16
		Verbose    bool
	}{}

	cfg    *config.Config
	logger = zap.NewNop()
)

var extendedRootHelp = `
Configuration:
  Settings are taken from flags, then TLA202X_ prefixed environment
  variables, then the configuration file (tla202x.json by default),
  e.g. TLA202X_BUS=spidev TLA202X_SPIDEV_PORT=SPI0.0
`

func main() {
	cmd, err := rootCmd.ExecuteC()
	logger.Sync()
	if err != nil {
		logErr(cmd, err)
		os.Exit(1)
	}
}

func logErr(cmd *cobra.Command, err error) {
	fmt.Fprintf(os.Stderr, "tla202x %s: %s\n", cmd.Name(), err)
}

func setup(cmd *cobra.Command, args []string) error {
	cfg = loadConfig(flagOverrides(cmd))
	l, err := newLogger(rootOpts.Verbose)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	lc := zap.NewDevelopmentConfig()
	lc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		lc.Level.SetLevel(zapcore.DebugLevel)
	}
	return lc.Build()
}

// openDevice opens the configured device.
// The cached range and mode are loaded from the device.
func openDevice() (*tla202x.Device, error) {
	bus, err := openBus(cfg)
	if err != nil {
		return nil, err
	}
	d := tla202x.New(bus, tla202x.WithLogger(logger.Named("tla202x")))
	if err = d.Sync(); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func parseChannels(args []string) ([]tla202x.Channel, error) {
	if len(args) == 0 {
		return []tla202x.Channel{0, 1, 2, 3}, nil
	}
	cc := []tla202x.Channel(nil)
	for _, arg := range args {
		c, err := parseChannel(arg)
		if err != nil {
			return nil, err
		}
		cc = append(cc, c)
	}
	return cc, nil
}

func parseChannel(arg string) (tla202x.Channel, error) {
	s := strings.TrimPrefix(strings.ToUpper(arg), "AIN")
	c, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("can't parse channel '%s'", arg)
	}
	ch := tla202x.Channel(c)
	if !ch.Valid() {
		return 0, fmt.Errorf("unknown channel '%s'", arg)
	}
	return ch, nil
}

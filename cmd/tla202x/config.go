// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warthog618/config"
	"github.com/warthog618/config/blob"
	"github.com/warthog618/config/blob/decoder/json"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
	"github.com/warthog618/tla202x"
	"github.com/warthog618/tla202x/i2c"
	"github.com/warthog618/tla202x/i2cdev"
	"github.com/warthog618/tla202x/spi"
	"github.com/warthog618/tla202x/spidev"
	"periph.io/x/conn/v3/physic"
)

func defaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"bus": "i2c",
		"i2c": map[string]interface{}{
			"bus":  "",
			"addr": tla202x.DefaultAddr,
		},
		"i2cdev": map[string]interface{}{
			"bus": 1,
		},
		"spidev": map[string]interface{}{
			"port": "",
			"freq": "1MHz",
		},
		"spi": map[string]interface{}{
			"tclk": "500ns",
			"sclk": "GPIO24",
			"csz":  "GPIO17",
			"mosi": "GPIO27",
			"miso": "GPIO22",
		},
		"sensor": map[string]interface{}{
			"id": 0,
		},
	}
}

// flagOverrides returns the configuration set explicitly by flags.
func flagOverrides(cmd *cobra.Command) map[string]interface{} {
	m := map[string]interface{}{}
	flags := cmd.Flags()
	if flags.Changed("config-file") {
		m["config"] = map[string]interface{}{"file": rootOpts.ConfigFile}
	}
	if flags.Changed("bus") {
		m["bus"] = rootOpts.Bus
	}
	if flags.Changed("addr") {
		m["i2c"] = map[string]interface{}{"addr": rootOpts.Addr}
	}
	return m
}

func loadConfig(overrides map[string]interface{}) *config.Config {
	def := dict.New(dict.WithMap(defaultConfig()))
	cfg := config.New(
		dict.New(dict.WithMap(overrides)),
		env.New(env.WithEnvPrefix("TLA202X_")),
		config.WithDefault(def))
	cfg.Append(
		blob.NewConfigFile(cfg, "config.file", "tla202x.json", json.NewDecoder()))
	cfg = cfg.GetConfig("", config.WithMust)
	return cfg
}

func openBus(cfg *config.Config) (tla202x.Bus, error) {
	addr := uint16(cfg.MustGet("i2c.addr").Uint())
	switch bus := cfg.MustGet("bus").String(); bus {
	case "i2c":
		b, err := i2c.Open(cfg.MustGet("i2c.bus").String(), addr)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "i2cdev":
		b, err := i2cdev.Open(int(cfg.MustGet("i2cdev.bus").Int()), addr)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "spidev":
		var freq physic.Frequency
		if err := freq.Set(cfg.MustGet("spidev.freq").String()); err != nil {
			return nil, fmt.Errorf("invalid spidev.freq: %w", err)
		}
		b, err := spidev.Open(cfg.MustGet("spidev.port").String(), freq)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "spi":
		b, err := spi.Open(
			cfg.MustGet("spi.tclk").Duration(),
			cfg.MustGet("spi.sclk").String(),
			cfg.MustGet("spi.csz").String(),
			cfg.MustGet("spi.mosi").String(),
			cfg.MustGet("spi.miso").String())
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown bus '%s'", bus)
	}
}

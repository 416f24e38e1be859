// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

package main

import (
	"fmt"

	"github.com/warthog618/config"
	"github.com/warthog618/config/blob"
	"github.com/warthog618/config/blob/decoder/json"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
	"github.com/warthog618/config/pflag"
	"github.com/warthog618/tla202x"
	"github.com/warthog618/tla202x/i2c"
	"go.uber.org/zap"
)

// This example reads all four single-ended channels from a TLA2024 connected
// to the first available I2C bus. The bus and address are defined in
// loadConfig, but can be altered via configuration (env, flag or config file).
func main() {
	cfg := loadConfig()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	bus, err := i2c.Open(
		cfg.MustGet("bus").String(),
		uint16(cfg.MustGet("addr").Uint()))
	if err != nil {
		panic(err)
	}
	adc, err := tla202x.Open(bus, tla202x.WithLogger(logger))
	if err != nil {
		bus.Close()
		panic(err)
	}
	defer adc.Close()
	r, err := tla202x.ParseRange(cfg.MustGet("range").String())
	if err != nil {
		panic(err)
	}
	if err = adc.SetRange(r); err != nil {
		panic(err)
	}
	for ch := tla202x.Channel(0); ch < tla202x.NumChannels; ch++ {
		v, err := adc.ReadVoltage(ch)
		if err != nil {
			logger.Error("read failed", zap.Int("channel", int(ch)), zap.Error(err))
			continue
		}
		fmt.Printf("ch%d=%.4fV\n", ch, v)
	}
}

func loadConfig() *config.Config {
	defaultConfig := map[string]interface{}{
		"bus":   "",
		"addr":  tla202x.DefaultAddr,
		"range": "6.144",
	}
	def := dict.New(dict.WithMap(defaultConfig))
	cfg := config.New(
		pflag.New(pflag.WithFlags(
			[]pflag.Flag{{Short: 'c', Name: "config-file"}})),
		env.New(env.WithEnvPrefix("TLA202X_")),
		config.WithDefault(def))
	cfg.Append(
		blob.NewConfigFile(cfg, "config.file", "tla202x.json", json.NewDecoder()))
	cfg = cfg.GetConfig("", config.WithMust)
	return cfg
}

package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/console.yaml
var defaultConsoleYAML []byte

// DefaultConsoleConfig returns the built-in configuration.
func DefaultConsoleConfig() ConsoleConfig {
	return ConsoleConfig{
		Screen: ScreenConfig{
			Width:    0,
			Height:   0,
			TickRate: 30,
		},
		Audio: AudioConfig{
			Channels: 8,
		},
		Script: ScriptConfig{
			DefaultLanguage: "lua",
			CartsDir:        "~/.cart/carts",
		},
		Storage: StorageConfig{
			DBPath: "~/.cart/runs.db",
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.cart/cart.log",
		},
		Serve: ServeConfig{
			Address:     ":23234",
			HostKeyPath: "",
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// Package config loads the console configuration from YAML.
package config

import "time"

// ConsoleConfig is everything the console needs before a cart boots.
type ConsoleConfig struct {
	Screen  ScreenConfig  `yaml:"screen"`
	Audio   AudioConfig   `yaml:"audio"`
	Script  ScriptConfig  `yaml:"script"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Serve   ServeConfig   `yaml:"serve"`
}

// ScreenConfig sizes the drawing surface. Zero width or height means
// "fit the terminal".
type ScreenConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	TickRate int `yaml:"tick_rate"` // frames per second
}

// AudioConfig controls the channel mixer.
type AudioConfig struct {
	Channels int `yaml:"channels"`
}

// ScriptConfig controls how bare scripts are interpreted.
type ScriptConfig struct {
	DefaultLanguage string `yaml:"default_language"` // used when a manifest omits language
	CartsDir        string `yaml:"carts_dir"`        // extra carts listed by the menu
}

// StorageConfig locates the run history database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig controls the console logger.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // interactive sessions log here instead of stderr
}

// ServeConfig configures the SSH server.
type ServeConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

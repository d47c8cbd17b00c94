package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const consoleFile = "console.yaml"

// LoadConsole loads the console configuration.
// Search order: customPath -> ~/.cart/configs/console.yaml -> ./configs/console.yaml -> embedded default
//
// Files only need to set the keys they change; everything else keeps the
// built-in value.
func LoadConsole(customPath string) (ConsoleConfig, error) {
	cfg := DefaultConsoleConfig()

	if customPath != "" {
		data, err := os.ReadFile(ExpandHome(customPath))
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg.normalize(), nil
	}

	if userCfgPath := userConfigPath(consoleFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg.normalize(), nil
			}
			cfg = DefaultConsoleConfig()
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", consoleFile)); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg.normalize(), nil
		}
		cfg = DefaultConsoleConfig()
	}

	if err := yaml.Unmarshal(defaultConsoleYAML, &cfg); err != nil {
		return DefaultConsoleConfig(), nil
	}
	return cfg.normalize(), nil
}

// normalize replaces nonsensical values with defaults.
func (c ConsoleConfig) normalize() ConsoleConfig {
	def := DefaultConsoleConfig()
	if c.Screen.TickRate <= 0 {
		c.Screen.TickRate = def.Screen.TickRate
	}
	if c.Screen.Width < 0 {
		c.Screen.Width = 0
	}
	if c.Screen.Height < 0 {
		c.Screen.Height = 0
	}
	if c.Audio.Channels <= 0 {
		c.Audio.Channels = def.Audio.Channels
	}
	if c.Script.DefaultLanguage == "" {
		c.Script.DefaultLanguage = def.Script.DefaultLanguage
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = def.Storage.DBPath
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Serve.Address == "" {
		c.Serve.Address = def.Serve.Address
	}
	if c.Serve.IdleTimeout <= 0 {
		c.Serve.IdleTimeout = def.Serve.IdleTimeout
	}
	return c
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cart", "configs", filename)
}

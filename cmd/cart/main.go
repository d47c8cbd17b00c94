// cart is a terminal fantasy console that boots script carts.
//
// Usage:
//
//	cart list                 - List builtin carts and carts in the carts dir
//	cart play <id|path>       - Boot a cart
//	cart menu                 - Pick carts interactively
//	cart check <id|path>      - Boot a cart headless and report on it
//	cart history [id]         - Show recorded runs
//	cart serve                - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>        - Frame rate (default from config: 30)
//	--db <path>         - Run history database (default: ~/.cart/runs.db)
//	--config <path>     - Console config YAML
//	--log-level <lvl>   - debug, info, warn or error
//	--player <name>     - Player name recorded in run history
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-cart/internal/cart"
	"github.com/vovakirdan/tui-cart/internal/config"
	"github.com/vovakirdan/tui-cart/internal/core"
	"github.com/vovakirdan/tui-cart/internal/script"
)

var (
	flagFPS      int
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
	flagPlayer   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cart",
	Short: "Cart - a fantasy console for your terminal",
	Long: `Cart boots small game carts written in Lua, JavaScript or WebAssembly
and runs them in the terminal at a fixed frame rate.

Available commands:
  list     - Show builtin carts and carts found in the carts directory
  play     - Boot a cart by id or path
  menu     - Interactive cart picker
  check    - Boot a cart without a terminal and report on it
  history  - Show recorded runs
  serve    - Start SSH server for remote play

Examples:
  cart list
  cart play hello-lua
  cart play ./carts/pong.yaml
  cart check ./game.js --frames 120
  cart serve`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Frame rate (0 = use config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run history database (empty = use config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to console config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (empty = use config)")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "local", "Player name recorded in run history")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConsole loads the console config and applies command line overrides.
// It exits on an unreadable --config file.
func loadConsole() config.ConsoleConfig {
	cfg, err := config.LoadConsole(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagFPS > 0 {
		cfg.Screen.TickRate = flagFPS
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	cfg.Script.CartsDir = config.ExpandHome(cfg.Script.CartsDir)
	cfg.Serve.HostKeyPath = config.ExpandHome(cfg.Serve.HostKeyPath)

	if cfg.Script.DefaultLanguage != "" {
		lang, langErr := script.Parse(cfg.Script.DefaultLanguage)
		if langErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: ignoring default language: %v\n", langErr)
		} else {
			cart.SetDefaultLanguage(lang)
		}
	}
	return cfg
}

// newLogger builds a console logger writing to w.
func newLogger(w io.Writer, prefix, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           lvl,
	})
}

// fileLogger opens the configured log file for interactive commands, so the
// alt screen stays clean. Logging is dropped when the file cannot be opened.
func fileLogger(cfg config.ConsoleConfig) (*log.Logger, func()) {
	path := config.ExpandHome(cfg.Log.File)
	if path == "" {
		return newLogger(io.Discard, "cart", cfg.Log.Level), func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
		return newLogger(io.Discard, "cart", cfg.Log.Level), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return newLogger(io.Discard, "cart", cfg.Log.Level), func() {}
	}
	return newLogger(f, "cart", cfg.Log.Level), func() { f.Close() }
}

// runtimeConfig sizes the screen from the config, falling back to the
// terminal size.
func runtimeConfig(cfg config.ConsoleConfig) core.RuntimeConfig {
	rc := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rc.ScreenW = w
		rc.ScreenH = h
	}
	if cfg.Screen.Width > 0 {
		rc.ScreenW = cfg.Screen.Width
	}
	if cfg.Screen.Height > 0 {
		rc.ScreenH = cfg.Screen.Height
	}
	rc.TickRate = cfg.Screen.TickRate
	return rc
}

// cartOptions builds game options shared by every command that boots carts.
func cartOptions(cfg config.ConsoleConfig, logger *log.Logger) []cart.Option {
	return []cart.Option{
		cart.WithLogger(logger),
		cart.WithChannels(cfg.Audio.Channels),
	}
}

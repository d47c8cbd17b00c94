package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cart/internal/cart"
	"github.com/vovakirdan/tui-cart/internal/platform/tui"
	"github.com/vovakirdan/tui-cart/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the console with a cart picker",
	Long: `Start the console in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to boot a cart and Tab to browse
the run history. Esc in a cart returns to the menu.

Examples:
  cart menu
  cart menu --fps 60
  cart menu --db ./runs.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg := loadConsole()
	logger, closeLog := fileLogger(cfg)
	defer closeLog()

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run history: %v\n", err)
		store = nil
	}

	runErr := tui.RunSession(tui.SessionConfig{
		Store:    store,
		Runtime:  runtimeConfig(cfg),
		Player:   flagPlayer,
		Items:    tui.MenuItems(cfg.Script.CartsDir, logger),
		Launcher: tui.CartLauncher(logger, cart.WithChannels(cfg.Audio.Channels)),
		Logger:   logger,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

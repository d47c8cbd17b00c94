package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cart/internal/cart"
	"github.com/vovakirdan/tui-cart/internal/platform/tui"
	"github.com/vovakirdan/tui-cart/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play <id|path>",
	Short: "Boot a cart",
	Long: `Boot a builtin cart by id, or a cart file by path (.lua, .js, .wasm or a
.yaml manifest).

Controls:
  Arrows      - Player 1 directions
  Z/N, X/M    - Player 1 A and B
  E/S/D/F     - Player 2 directions
  Tab, A      - Player 2 A and B
  P           - Pause
  R           - Reboot the cart
  Ctrl+S      - Save a screenshot to ~/.cart/screenshots
  Q/Esc       - Quit

Examples:
  cart play hello-lua
  cart play ./carts/snake.lua --fps 60
  cart play ./carts/pong.yaml --player alice`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	cfg := loadConsole()

	c, err := cart.Resolve(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'cart list' to see available carts.")
		os.Exit(1)
	}

	logger, closeLog := fileLogger(cfg)
	defer closeLog()

	game := cart.NewGame(c, cartOptions(cfg, logger)...)
	defer game.Close()

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run history: %v\n", err)
		store = nil
	}

	runErr := tui.Run(game, store, runtimeConfig(cfg), flagPlayer, logger)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running cart: %v\n", runErr)
		os.Exit(1)
	}
	if err := game.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Cart failed to boot: %v\n", err)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cart/internal/cart"
	"github.com/vovakirdan/tui-cart/internal/core"
)

var (
	flagCheckFrames int
	flagCheckDump   bool
	flagCheckStrict bool
)

var checkCmd = &cobra.Command{
	Use:   "check <id|path>",
	Short: "Boot a cart headless and report on it",
	Long: `Boot a cart without a terminal, run a number of frames with no buttons
pressed and print what happened: whether the code loaded, the host functions
it was wired to, hook errors and the sounds left playing.

Exits non-zero when the cart fails to boot, or with --strict when any hook
raised an error.

Examples:
  cart check hello-js
  cart check ./game.lua --frames 300 --strict
  cart check ./game.wasm --dump`,
	Args: cobra.ExactArgs(1),
	Run:  runCheck,
}

func init() {
	checkCmd.Flags().IntVar(&flagCheckFrames, "frames", 30, "Number of frames to run")
	checkCmd.Flags().BoolVar(&flagCheckDump, "dump", false, "Print the last frame")
	checkCmd.Flags().BoolVar(&flagCheckStrict, "strict", false, "Fail when any hook raised an error")
}

func runCheck(_ *cobra.Command, args []string) {
	cfg := loadConsole()
	logger := newLogger(os.Stderr, "cart-check", cfg.Log.Level)

	c, err := cart.Resolve(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rc := core.DefaultConfig()
	rc.TickRate = cfg.Screen.TickRate
	if cfg.Screen.Width > 0 {
		rc.ScreenW = cfg.Screen.Width
	}
	if cfg.Screen.Height > 0 {
		rc.ScreenH = cfg.Screen.Height
	}

	game := cart.NewGame(c, cartOptions(cfg, logger)...)
	defer game.Close()
	game.Reset(rc)

	fmt.Printf("Cart:     %s (%s)\n", c.ID, c.Language)
	if c.Path != "" {
		fmt.Printf("Path:     %s\n", c.Path)
	}

	if b := game.Bridge(); b != nil {
		entries := b.Registry().Entries()
		fmt.Printf("Host API: %d functions\n", len(entries))
		for _, e := range entries {
			fmt.Printf("  0x%02x  %-13s %d args\n", int(e.Op), e.Name, e.Arity)
		}
	}

	if err := game.Err(); err != nil {
		fmt.Printf("Boot:     FAILED\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Boot:     ok\n")

	for range flagCheckFrames {
		game.Step(core.NewInputFrame())
	}

	stats := game.Stats()
	fmt.Printf("Frames:   %d\n", stats.Frames)
	fmt.Printf("Errors:   %d\n", stats.HookErrors)
	for _, v := range game.Voices() {
		fmt.Printf("Playing:  %s %d on channel %d (%s, loops=%d)\n", v.Kind, v.ID, v.Channel, v.Filename, v.Loops)
	}

	if flagCheckDump {
		screen := core.NewScreen(rc.ScreenW, rc.ScreenH)
		game.Render(screen)
		fmt.Println()
		fmt.Println(screen.String())
	}

	if flagCheckStrict && stats.HookErrors > 0 {
		os.Exit(1)
	}
}

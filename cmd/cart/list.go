package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cart/internal/platform/tui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available carts",
	Long:  `Shows the builtin carts followed by every cart found in the configured carts directory.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	cfg := loadConsole()
	logger := newLogger(os.Stderr, "cart", cfg.Log.Level)
	items := tui.MenuItems(cfg.Script.CartsDir, logger)

	if len(items) == 0 {
		fmt.Println("No carts available.")
		return
	}

	fmt.Println("Available carts:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, it := range items {
		if len(it.CartID) > maxIDLen {
			maxIDLen = len(it.CartID)
		}
	}

	fmt.Printf("  %-*s  %-4s  %s\n", maxIDLen, "ID", "Lang", "Title")
	fmt.Printf("  %-*s  %-4s  %s\n", maxIDLen, "--", "----", "-----")

	for _, it := range items {
		title := it.Title
		if it.Path != "" {
			title = fmt.Sprintf("%s (%s)", it.Title, it.Path)
		}
		fmt.Printf("  %-*s  %-4s  %s\n", maxIDLen, it.CartID, it.Language, title)
	}

	fmt.Println()
	fmt.Println("Run 'cart play <id|path>' to boot a cart.")
}

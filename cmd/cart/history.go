package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cart/internal/platform/tui"
	"github.com/vovakirdan/tui-cart/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryTUI   bool
	flagHistoryClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show recorded runs",
	Long: `Display recent runs across all carts, or the runs and totals of one cart.

Examples:
  cart history
  cart history hello-lua --limit 50
  cart history --tui
  cart history hello-lua --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of runs to show")
	historyCmd.Flags().BoolVar(&flagHistoryTUI, "tui", false, "Browse the history interactively")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete the history of the given cart")
}

func runHistory(_ *cobra.Command, args []string) {
	cfg := loadConsole()

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagHistoryTUI {
		rc := runtimeConfig(cfg)
		if err := tui.RunHistory(store, rc.ScreenW, rc.ScreenH); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cartID := ""
	if len(args) == 1 {
		cartID = args[0]
	}

	if flagHistoryClear {
		if cartID == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a cart id")
			os.Exit(1)
		}
		if err := store.ClearRuns(cartID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared history of %s.\n", cartID)
		return
	}

	var runs []storage.Run
	if cartID == "" {
		runs, err = store.RecentRuns(flagHistoryLimit)
		fmt.Println("Recent runs")
	} else {
		runs, err = store.CartRuns(cartID, flagHistoryLimit)
		fmt.Printf("Runs - %s\n", cartID)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	fmt.Printf("  %-16s  %-14s  %-4s  %-10s  %8s  %6s  %s\n", "Date", "Cart", "Lang", "Player", "Frames", "Errors", "Boot")
	fmt.Printf("  %-16s  %-14s  %-4s  %-10s  %8s  %6s  %s\n", "----", "----", "----", "------", "------", "------", "----")
	for _, r := range runs {
		boot := "ok"
		if !r.Loaded {
			boot = "fail"
		}
		fmt.Printf("  %-16s  %-14s  %-4s  %-10s  %8d  %6d  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.CartID, r.Language, r.Player, r.Frames, r.HookErrors, boot)
	}

	if cartID != "" {
		stats, err := store.Stats(cartID)
		if err == nil {
			fmt.Println()
			fmt.Printf("Total: %d runs, %d failed boots, %d frames, %d hook errors\n",
				stats.Runs, stats.FailedLoads, stats.TotalFrames, stats.HookErrors)
		}
	}
}

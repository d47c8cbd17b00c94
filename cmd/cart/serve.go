package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cart/internal/platform/tui"
)

var (
	flagSSHAddr string
	flagHostKey string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the console SSH server",
	Long: `Start an SSH server that lets users connect and boot carts.

Each SSH connection gets its own console: a cart picker, its own subsystems
and its own interpreter. Runs are recorded under the SSH user name.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.cart/host_key

Examples:
  cart serve                           # Listen on the configured address
  cart serve --ssh :2222               # Listen on port 2222
  cart serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (empty = use config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (empty = use config or auto-generate)")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConsole()

	srvCfg := tui.DefaultSSHServerConfig()
	srvCfg.Address = cfg.Serve.Address
	srvCfg.HostKeyPath = cfg.Serve.HostKeyPath
	srvCfg.IdleTimeout = cfg.Serve.IdleTimeout
	srvCfg.DBPath = cfg.Storage.DBPath
	srvCfg.CartsDir = cfg.Script.CartsDir
	srvCfg.TickRate = cfg.Screen.TickRate
	srvCfg.Logger = newLogger(os.Stderr, "cart-ssh", cfg.Log.Level)
	if flagSSHAddr != "" {
		srvCfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		srvCfg.HostKeyPath = flagHostKey
	}

	server, err := tui.NewSSHServer(srvCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting cart SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ascii-tilemap/internal/platform/session"
	"github.com/vovakirdan/ascii-tilemap/internal/platform/spectate"
	"github.com/vovakirdan/ascii-tilemap/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagWSAddr      string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows users to connect and run programs.

Each SSH connection gets its own session with a program picker menu.
Scores are stored per-server (all users share the same leaderboard).

With --ws, every remote session is also streamed to WebSocket spectators:
  ws://<addr>/ws                 all sessions
  ws://<addr>/ws?session=<id>    one session
  http://<addr>/sessions         running sessions as JSON

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.ascii/host_key

Examples:
  ascii serve                           # Listen on :23234 with auto-generated key
  ascii serve --ssh :2222               # Listen on port 2222
  ascii serve --ws :8080                # Also stream sessions to spectators
  ascii serve --host-key ./my_host_key  # Use specific host key
  ascii serve --db postgres://u:p@host/ascii

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "Spectator WebSocket address (disabled if empty)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DSN:         flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    flagFPS,
		TilemapPath: flagTilemap,
		Logger:      logger.WithPrefix("ascii-ssh"),
	}

	if flagWSAddr != "" {
		hub := spectate.NewHub(logger.WithPrefix("spectate"))
		cfg.Observers = []session.Observer{hub}
		go func() {
			if err := hub.Serve(cmd.Context(), flagWSAddr); err != nil {
				logger.Error("spectator server stopped", "error", err)
			}
		}()
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting ascii SSH server on %s\n", cfg.Address)
	if flagWSAddr != "" {
		fmt.Printf("Spectators: ws://%s/ws\n", flagWSAddr)
	}
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}

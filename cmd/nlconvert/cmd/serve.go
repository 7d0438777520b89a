// Package cmd - serve command
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nlconvert/api"
	"nlconvert/internal/config"
	"nlconvert/internal/logging"
)

var serveAddr string

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve conversions over HTTP",
	Long: `Start the HTTP API.

Endpoints:
  GET  /convert?q=1+acre   convert one quantity
  POST /convert            convert {"queries": [...]}
  GET  /units              conversion reference table
  GET  /health
  GET  /version`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}

	cfg := config.Get()
	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := statusWriter(cmd)
	w.Success("nlconvert %s listening on %s", Version, addr)
	w.Debug("%d conversions loaded", len(eng.Help()))
	logging.Info("server starting", zap.String("addr", addr))

	server := api.NewServer(eng, Version, logging.Named("api"))
	if err := server.ListenAndServe(ctx, addr); err != nil {
		logging.Error("server failed", zap.Error(err))
		return err
	}
	logging.Info("server stopped")
	return nil
}

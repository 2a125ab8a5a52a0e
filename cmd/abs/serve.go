package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/abs/internal/server"
)

func serveCmd(c *cli) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the inspection service",
		Long: `Start an HTTP service that scans posted HTML.

Routes:
  POST /scan     HTML body, JSON result (?tags=A,B&source=name)
  GET  /healthz  liveness probe
  GET  /metrics  Prometheus metrics
  GET  /events   WebSocket stream of lifecycle events

Examples:
  abs serve
  abs serve --port=8080
  abs serve --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Serve.Port = port
			}
			if host != "" {
				cfg.Serve.Host = host
			}

			fmt.Fprint(c.stderr, banner)
			c.success("Listening on http://%s", cfg.ServeAddress())

			srv := server.New(server.Options{
				Config: cfg,
				Logger: cfg.NewLogger(c.stderr),
			})

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			err = srv.Start(ctx)
			c.info("Shutting down...")
			return err
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")

	return cmd
}

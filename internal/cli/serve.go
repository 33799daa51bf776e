// internal/cli/serve.go
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"monday-bi-agent/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP query endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Server.Address = serveAddr
		}

		a := newApp(cfg)
		defer a.close()

		a.log.Info("Starting bi-agent", map[string]interface{}{
			"version":     cfg.App.Version,
			"environment": cfg.App.Environment,
		})

		srv := server.New(cfg.Server, a.agent, a.log)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			a.log.Info("Shutdown signal received", map[string]interface{}{
				"signal": sig.String(),
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			a.log.Error("HTTP server shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}
		a.log.Info("Shutdown complete", nil)
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.address)")
}

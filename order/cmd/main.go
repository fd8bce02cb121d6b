package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mbakhodurov/week1/shared/pkg/config"
	"github.com/mbakhodurov/week1/shared/pkg/logging"
	"github.com/mbakhodurov/week1/shared/pkg/telemetry"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "order",
		Short:         "Order and payment orchestration service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CHECKOUT_CONFIG"), "path to YAML config file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(capabilitiesCmd())
	rootCmd.AddCommand(stockCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// setup loads config and opens the shared connections for a command.
func setup(ctx context.Context) (*deps, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.Log, os.Stderr).With("service", "order")
	return openDeps(ctx, cfg, log)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d, err := setup(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := d.Close(); cerr != nil {
					d.log.Error("failed to close connections", "err", cerr)
				}
			}()

			flush, err := telemetry.Setup(d.cfg.Telemetry, os.Stderr)
			if err != nil {
				return err
			}
			defer func() {
				if ferr := flush(context.WithoutCancel(ctx)); ferr != nil {
					d.log.Error("failed to flush telemetry", "err", ferr)
				}
			}()

			h, err := d.handler(ctx)
			if err != nil {
				return err
			}

			server := &http.Server{
				Addr:              d.cfg.HTTP.Addr,
				Handler:           h,
				ReadHeaderTimeout: d.cfg.HTTP.ReadHeaderTimeout,
			}

			errc := make(chan error, 1)
			go func() {
				d.log.Info("HTTP server listening", "addr", d.cfg.HTTP.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			select {
			case err := <-errc:
				if err != nil {
					return fmt.Errorf("http server: %w", err)
				}
			case <-ctx.Done():
			}

			d.log.Info("shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.cfg.HTTP.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			d.log.Info("server stopped")
			return nil
		},
	}
}

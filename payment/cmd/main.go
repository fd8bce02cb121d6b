package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mbakhodurov/week1/payment/pkg/sandbox"
	"github.com/mbakhodurov/week1/shared/pkg/config"
	"github.com/mbakhodurov/week1/shared/pkg/logging"
)

// The sandbox listens on sandbox.addr (CHECKOUT_SANDBOX_ADDR) and serves
// both processor APIs, so pointing card and wallet base URLs at it is enough
// for a local end-to-end run.
func main() {
	cfg, err := config.Load(os.Getenv("CHECKOUT_CONFIG"))
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	log := logging.New(cfg.Log, os.Stdout).With("service", "payment-sandbox")

	addr := cfg.Sandbox.Addr

	server := &http.Server{
		Addr:              addr,
		Handler:           sandbox.New(cfg.Payments.Card.APIKey, log).Routes(),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	go func() {
		log.Info("payment sandbox listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to serve HTTP", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down payment sandbox")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
	log.Info("server stopped")
}

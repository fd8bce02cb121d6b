package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/mbakhodurov/week1/inventory/pkg/service"
	"github.com/mbakhodurov/week1/inventory/pkg/stock"
	"github.com/mbakhodurov/week1/shared/pkg/config"
	"github.com/mbakhodurov/week1/shared/pkg/logging"
	inventory_v1 "github.com/mbakhodurov/week1/shared/pkg/proto/inventory/v1"
	"github.com/mbakhodurov/week1/shared/pkg/sqlitedb"
)

func main() {
	cfg, err := config.Load(os.Getenv("CHECKOUT_CONFIG"))
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	log := logging.New(cfg.Log, os.Stdout).With("service", "inventory")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sqlitedb.Open(ctx, cfg.Database.DSN)
	if err != nil {
		log.Error("failed to open database", "err", err)
		return
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Error("failed to close database", "err", cerr)
		}
	}()

	store, err := stock.NewSQLStore(ctx, db)
	if err != nil {
		log.Error("failed to migrate stock schema", "err", err)
		return
	}

	lis, err := net.Listen("tcp", cfg.Inventory.ListenAddr)
	if err != nil {
		log.Error("failed to listen", "addr", cfg.Inventory.ListenAddr, "err", err)
		return
	}
	defer func() {
		if cerr := lis.Close(); cerr != nil {
			log.Debug("listener closed", "err", cerr)
		}
	}()

	s := grpc.NewServer()
	inventory_v1.RegisterStockServiceServer(s, service.New(store, log))

	hs := health.NewServer()
	hs.SetServingStatus(inventory_v1.StockService_ServiceDesc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(s, hs)

	reflection.Register(s)

	go func() {
		log.Info("gRPC server listening", "addr", cfg.Inventory.ListenAddr)
		if err := s.Serve(lis); err != nil {
			log.Error("failed to serve", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down gRPC server")
	hs.Shutdown()
	s.GracefulStop()
	log.Info("server stopped")
}

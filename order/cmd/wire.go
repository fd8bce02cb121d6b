package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/mbakhodurov/week1/inventory/pkg/stock"
	"github.com/mbakhodurov/week1/order/pkg/api"
	"github.com/mbakhodurov/week1/order/pkg/cache"
	"github.com/mbakhodurov/week1/order/pkg/cart"
	"github.com/mbakhodurov/week1/order/pkg/service"
	"github.com/mbakhodurov/week1/order/pkg/storage"
	"github.com/mbakhodurov/week1/payment/pkg/capabilities"
	"github.com/mbakhodurov/week1/payment/pkg/provider"
	"github.com/mbakhodurov/week1/payment/pkg/webhook"
	"github.com/mbakhodurov/week1/shared/pkg/config"
	"github.com/mbakhodurov/week1/shared/pkg/logging"
	inventory_v1 "github.com/mbakhodurov/week1/shared/pkg/proto/inventory/v1"
	"github.com/mbakhodurov/week1/shared/pkg/sqlitedb"
)

// deps holds the process-wide connections. Optional ones stay nil when not
// configured and every consumer falls back explicitly.
type deps struct {
	cfg   *config.Config
	log   *slog.Logger
	db    *sql.DB
	rdb   redis.UniversalClient
	conn  *grpc.ClientConn
	audit *logging.Auditor
}

func openDeps(ctx context.Context, cfg *config.Config, log *slog.Logger) (*deps, error) {
	d := &deps{cfg: cfg, log: log, audit: logging.NewAuditor(log)}

	db, err := sqlitedb.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	d.db = db

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			_ = d.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		d.rdb = rdb
	} else {
		log.Warn("redis not configured: carts are empty, order cache disabled, capabilities kept in the database")
	}

	if cfg.Inventory.GRPCAddr != "" {
		conn, err := grpc.NewClient(cfg.Inventory.GRPCAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("connect inventory %s: %w", cfg.Inventory.GRPCAddr, err)
		}
		d.conn = conn
	}
	return d, nil
}

func (d *deps) Close() error {
	var errs []error
	if d.conn != nil {
		errs = append(errs, d.conn.Close())
	}
	if d.rdb != nil {
		errs = append(errs, d.rdb.Close())
	}
	if d.db != nil {
		errs = append(errs, d.db.Close())
	}
	return errors.Join(errs...)
}

func (d *deps) registry(ctx context.Context) (*capabilities.Registry, error) {
	var store capabilities.Store
	if d.rdb != nil {
		store = capabilities.NewRedisStore(d.rdb)
	} else {
		s, err := capabilities.NewSQLStore(ctx, d.db)
		if err != nil {
			return nil, err
		}
		store = s
	}
	return capabilities.NewRegistry(store, provider.Names(), d.audit, d.log), nil
}

// stockAdmin reserves and sets stock either remotely or in the local database.
type stockAdmin interface {
	stock.Reserver
	Set(ctx context.Context, productID string, quantity int64) error
	Get(ctx context.Context, productID string) (int64, error)
}

type remoteStock struct {
	*stock.Remote
	client inventory_v1.StockServiceClient
}

func (r remoteStock) Set(ctx context.Context, productID string, quantity int64) error {
	_, err := r.client.SetStock(ctx, &inventory_v1.SetStockRequest{ProductUuid: productID, Quantity: quantity})
	return err
}

func (r remoteStock) Get(ctx context.Context, productID string) (int64, error) {
	resp, err := r.client.GetStock(ctx, &inventory_v1.GetStockRequest{ProductUuid: productID})
	if err != nil {
		return 0, err
	}
	return resp.Quantity, nil
}

func (d *deps) stock(ctx context.Context) (stockAdmin, error) {
	if d.conn != nil {
		client := inventory_v1.NewStockServiceClient(d.conn)
		return remoteStock{Remote: stock.NewRemote(client), client: client}, nil
	}
	return stock.NewSQLStore(ctx, d.db)
}

func (d *deps) providers() *provider.Set {
	p := d.cfg.Payments
	return provider.NewSet(p.ProviderTimeout,
		adapterFor(provider.Card, p.Card, d.log),
		adapterFor(provider.Wallet, p.Wallet, d.log),
	)
}

// adapterFor returns nil for an unconfigured provider; the Set then resolves
// it to an adapter that always reports unavailable.
func adapterFor(name string, pc config.ProviderConfig, log *slog.Logger) provider.Adapter {
	hc := provider.HTTPConfig{BaseURL: pc.BaseURL, APIKey: pc.APIKey, Client: &http.Client{}}
	switch {
	case pc.Simulated:
		log.Info("payment provider simulated", "provider", name)
		return provider.NewSim(name)
	case pc.BaseURL == "":
		log.Warn("payment provider not configured", "provider", name)
		return nil
	case name == provider.Card:
		return provider.NewCardProcessor(hc)
	case name == provider.Wallet:
		return provider.NewWalletProcessor(hc)
	}
	return nil
}

func (d *deps) handler(ctx context.Context) (http.Handler, error) {
	caps, err := d.registry(ctx)
	if err != nil {
		return nil, err
	}
	reserver, err := d.stock(ctx)
	if err != nil {
		return nil, err
	}
	repo, err := storage.NewStorage(ctx, d.db)
	if err != nil {
		return nil, err
	}

	var (
		carts  cart.Reader      = cart.None{}
		orders cache.OrderCache = cache.Nop{}
	)
	if d.rdb != nil {
		carts = cart.NewRedisReader(d.rdb)
		orders = cache.NewRedis(d.rdb, d.log)
	}

	svc := service.New(service.Deps{
		Repo:         repo,
		Stock:        reserver,
		Carts:        carts,
		Capabilities: caps,
		Providers:    d.providers(),
		Cache:        orders,
		Audit:        d.audit,
		Log:          d.log,
	}, service.Config{
		Currency:        d.cfg.Payments.Currency,
		DefaultProvider: d.cfg.Payments.DefaultProvider,
		CacheTTL:        d.cfg.Cache.OrderTTL,
	})

	secrets := map[string]string{
		provider.Card:   d.cfg.Payments.Card.WebhookSecret,
		provider.Wallet: d.cfg.Payments.Wallet.WebhookSecret,
	}
	hooks := webhook.NewIngestor(secrets, svc, repo, d.log)

	return api.New(svc, caps, hooks, d.log, api.Options{
		JWTSecret:       d.cfg.Auth.JWTSecret,
		RateRPS:         d.cfg.RateLimit.RPS,
		RateBurst:       d.cfg.RateLimit.Burst,
		RequestTimeout:  d.cfg.HTTP.RequestTimeout,
		Currency:        d.cfg.Payments.Currency,
		DefaultProvider: d.cfg.Payments.DefaultProvider,
	}).Routes(), nil
}

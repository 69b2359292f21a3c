package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/MikeMC777/ordenes-mesa/internal/audit"
	"github.com/MikeMC777/ordenes-mesa/internal/auth"
	"github.com/MikeMC777/ordenes-mesa/internal/catalog"
	"github.com/MikeMC777/ordenes-mesa/internal/config"
	"github.com/MikeMC777/ordenes-mesa/internal/httpx"
	"github.com/MikeMC777/ordenes-mesa/internal/kv"
	"github.com/MikeMC777/ordenes-mesa/internal/logging"
	"github.com/MikeMC777/ordenes-mesa/internal/order"
	"github.com/MikeMC777/ordenes-mesa/internal/seed"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	logger = logger.With(zap.String("service", serviceName))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.KV.Shared() {
		logger.Warn("KV_BACKEND is process-local; menu-service and admin-service will not share catalog or orders",
			zap.String("backend", cfg.KV.Backend))
	}
	if ac, ephemeral := cfg.Auth.WithEphemeralSecret(); ephemeral {
		logger.Warn("JWT_SECRET is unset or the placeholder; signing with a random per-process secret")
		cfg.Auth = ac
	}

	store, err := kv.Open(ctx, cfg.KV)
	if err != nil {
		logger.Fatal("open store", zap.String("backend", cfg.KV.Backend), zap.Error(err))
	}
	defer store.Close()

	seedOpts := seed.Options{BcryptCost: cfg.Auth.BcryptCost, Logger: logger}
	if _, err := seed.Ensure(ctx, store, seedOpts); err != nil {
		logger.Fatal("seed store", zap.Error(err))
	}

	rec, err := audit.Open(ctx, cfg.Mongo)
	if err != nil {
		logger.Warn("audit trail disabled", zap.Error(err))
		rec = audit.Nop{}
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = rec.Close(closeCtx)
	}()

	a := &app{
		store:  store,
		gate:   auth.NewGate(store, cfg.Auth, logger),
		foods:  catalog.NewManager(store, logger),
		orders: order.NewService(order.NewKVLog(store, logger), nil, logger),
		audit:  rec,
		seed:   seedOpts,
		loc:    cfg.Location(),
		now:    time.Now,
		logger: logger,
	}

	r := httpx.NewEngine(logger, store)
	routes(r, a, cfg.Auth.TokenTTL)

	if err := httpx.Run(ctx, cfg.AdminSvcAddr, r, logger); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}

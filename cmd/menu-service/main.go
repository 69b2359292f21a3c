package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/MikeMC777/ordenes-mesa/internal/catalog"
	"github.com/MikeMC777/ordenes-mesa/internal/config"
	"github.com/MikeMC777/ordenes-mesa/internal/httpx"
	"github.com/MikeMC777/ordenes-mesa/internal/kv"
	"github.com/MikeMC777/ordenes-mesa/internal/logging"
	"github.com/MikeMC777/ordenes-mesa/internal/menu"
	"github.com/MikeMC777/ordenes-mesa/internal/notify"
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
	logger = logger.With(zap.String("service", "menu-service"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.KV.Shared() {
		logger.Warn("KV_BACKEND is process-local; menu-service and admin-service will not share catalog or orders",
			zap.String("backend", cfg.KV.Backend))
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

	var notifier order.Notifier
	tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.KitchenChatID)
	switch {
	case err != nil:
		logger.Warn("kitchen notifier disabled", zap.Error(err))
	case tg != nil:
		notifier = tg
	}

	a := &app{
		store:    store,
		foods:    catalog.NewManager(store, logger),
		sessions: menu.NewRegistry(),
		orders:   order.NewService(order.NewKVLog(store, logger), notifier, logger),
		seed:     seedOpts,
		logger:   logger,
	}

	go sweepSessions(ctx, a.sessions, cfg.SessionMaxIdle, logger)

	r := httpx.NewEngine(logger, store)
	routes(r, a)

	if err := httpx.Run(ctx, cfg.MenuSvcAddr, r, logger); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}

// sweepSessions drops abandoned table sessions until ctx ends.
func sweepSessions(ctx context.Context, reg *menu.Registry, maxIdle time.Duration, logger *zap.Logger) {
	if maxIdle <= 0 {
		return
	}
	t := time.NewTicker(maxIdle / 4)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := reg.Sweep(maxIdle); n > 0 {
				logger.Info("idle sessions dropped", zap.Int("count", n), zap.Int("open", reg.Len()))
			}
		}
	}
}

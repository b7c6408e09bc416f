package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/aliskhannn/calearner-bot/internal/config"
	"github.com/aliskhannn/calearner-bot/internal/delivery/telegram"
	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
	"github.com/aliskhannn/calearner-bot/internal/infra/auth"
	"github.com/aliskhannn/calearner-bot/internal/infra/cache"
	"github.com/aliskhannn/calearner-bot/internal/infra/lessongen"
	"github.com/aliskhannn/calearner-bot/internal/infra/memory"
	"github.com/aliskhannn/calearner-bot/internal/infra/postgres"
	"github.com/aliskhannn/calearner-bot/internal/infra/redis"
	"github.com/aliskhannn/calearner-bot/internal/infra/store"
	"github.com/aliskhannn/calearner-bot/internal/logger"
	"github.com/aliskhannn/calearner-bot/internal/metrics"
	"github.com/aliskhannn/calearner-bot/internal/repository"
	"github.com/aliskhannn/calearner-bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := entities.ParseTimezoneLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("timezone: %w", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(cfg.Metrics.Enabled, reg)
	if cfg.Metrics.Enabled {
		go metrics.Serve(ctx, cfg.Metrics.Addr, reg, lg)
	}

	kv, closeStore, err := openStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.Cache.Enabled {
		kv = cache.NewKVStore(kv, cfg.Cache.SizeMB, int(cfg.Cache.TTL/time.Second), m)
		lg.Info("read cache enabled", zap.Int("size_mb", cfg.Cache.SizeMB))
	}

	authSvc := auth.NewService()
	registry := service.NewRegistry(kv, authSvc, service.SessionDeps{
		Generator: lessongen.NewClient(cfg.LessonGen.URL, cfg.LessonGen.Secret, cfg.LessonGen.Timeout, cfg.LessonGen.Stub),
		Purchases: store.NewService(cfg.Store.DeclinedSKUs, cfg.Store.FailingSKUs),
		Auth:      authSvc,
		Metrics:   m,
		Logger:    lg,
		Location:  loc,
	})

	rollover := service.NewRollover(cfg.Rollover.Spec, loc, lg)
	go rollover.Start(ctx)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(botCommands()...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	bot.Debug = cfg.Env == "local"
	lg.Info("authorized on account",
		zap.String("username", bot.Self.UserName),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("timezone", loc.String()),
	)

	handler := telegram.NewHandler(bot, lg, registry, rollover.Ticks(), cfg.Ads.Text)
	if err := handler.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	lg.Info("shutdown signal received")
	return nil
}

// openStore connects the configured backend. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config, lg *zap.Logger) (repository.KVStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, nil, err
		}

		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}

		kv := postgres.NewKVStore(pool)
		if err := kv.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres schema: %w", err)
		}
		return kv, pool.Close, nil

	case config.DriverRedis:
		kv, err := redis.NewKVStore(ctx, redis.Config{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			KeyPrefix:   cfg.Redis.KeyPrefix,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		return kv, func() {
			if err := kv.Close(); err != nil {
				lg.Warn("failed to close redis", zap.Error(err))
			}
		}, nil

	default:
		lg.Warn("using in-memory storage, state is lost on restart")
		return memory.NewKVStore(), func() {}, nil
	}
}

func botCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Start learning"},
		{Command: "today", Description: "Today's lesson"},
		{Command: "done", Description: "Mark today's lesson as done"},
		{Command: "track", Description: "Switch track"},
		{Command: "custom", Description: "Learn your own topic (/custom Stoicism)"},
		{Command: "stats", Description: "Streaks and history"},
		{Command: "archive", Description: "Completed lessons"},
		{Command: "share", Description: "Share today's lesson"},
		{Command: "premium", Description: "Premium plans"},
		{Command: "theme", Description: "Light or dark style"},
		{Command: "login", Description: "Sign in with email"},
		{Command: "logout", Description: "Sign out"},
		{Command: "reset", Description: "Reset progress"},
		{Command: "help", Description: "Help"},
	}
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ghuser/catalog/pkg/app"
	"github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/pkg/logger"
	"github.com/ghuser/catalog/pkg/telemetry"
	"github.com/ghuser/catalog/services/item/application/subscribers"
	itemEvents "github.com/ghuser/catalog/services/item/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg).With("component", "worker")
	if err := run(cfg, log); err != nil {
		log.Error("worker exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Warn("otel shutdown", "error", err)
		}
	}()

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	// EventBus.Close waits for in-flight handlers.
	defer a.Close() //nolint:errcheck

	switch {
	case a.EventBus == nil:
		return errors.New("worker needs STORE_DRIVER=postgres: events travel through the database")
	case a.Redis == nil:
		return errors.New("worker needs REDIS_URL: it maintains the item cache")
	}

	var wg sync.WaitGroup
	if err := registerSubscribers(ctx, a, &wg); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("shutting down worker...")
	// Subscriptions end with ctx, which closes every error channel.
	wg.Wait()
	log.Info("worker stopped")
	return nil
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application, wg *sync.WaitGroup) error {
	cacheSync := subscribers.NewCacheSync(cache.NewItemCache(a.Redis), a.Logger)

	for _, topic := range itemEvents.Topics() {
		handler, err := cacheSync.Handler(topic)
		if err != nil {
			return err
		}
		errCh, err := a.EventBus.Subscribe(ctx, topic, handler)
		if err != nil {
			return err
		}

		// Drain subscriber errors so the channel never blocks.
		wg.Add(1)
		go func() {
			defer wg.Done()
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
				telemetry.CaptureError(err)
			}
		}()
	}

	a.Logger.Info("event subscribers registered", "topics", itemEvents.Topics())
	return nil
}

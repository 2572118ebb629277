// Package app holds the infrastructure shared by the HTTP server and the
// worker. Services receive an *Application and take what they need.
//
// Logging is trace-aware; prefer the Context variants inside requests:
//
//	app.Logger.InfoContext(ctx, "item created", "item_id", id)
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/pkg/database"
	"github.com/ghuser/catalog/pkg/errhttp"
	"github.com/ghuser/catalog/pkg/events"
	"github.com/ghuser/catalog/pkg/flash"
	"github.com/ghuser/catalog/pkg/httpx"
	"github.com/ghuser/catalog/pkg/logger"
)

// Application is the dependency container. DB and EventBus are nil with
// STORE_DRIVER=memory; Redis is nil when REDIS_URL is empty.
type Application struct {
	Config   *config.Config
	Logger   logger.Logger
	DB       *database.Database
	EventBus *events.EventBus
	Redis    *cache.RedisClient
	Flash    *flash.Flasher
	Errors   *errhttp.Writer
}

// New connects every dependency cfg asks for. On error whatever was opened
// is closed again.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (_ *Application, err error) {
	a := &Application{
		Config: cfg,
		Logger: log,
		Errors: errhttp.NewWriter(log, cfg.IsProduction()),
	}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	if cfg.StoreDriver == config.StoreDriverPostgres {
		if a.DB, err = database.NewPool(ctx, cfg.DatabaseURL, log); err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		a.EventBus, err = events.NewEventBus(a.DB.DB(), events.Options{
			ConsumerGroup: cfg.ServiceName + "-consumer",
			UseForwarder:  cfg.EventForwarder,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("event bus: %w", err)
		}
	}

	authKey, encKey := []byte(cfg.SessionAuthKey), []byte(cfg.SessionEncryptionKey)
	secure := cfg.IsProduction()
	if cfg.RedisURL != "" {
		if a.Redis, err = cache.NewRedisClient(ctx, cfg.RedisURL); err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.Flash = flash.New(flash.NewRedisStore(a.Redis.Client(), authKey, encKey, secure))
	} else {
		a.Flash = flash.New(flash.NewCookieStore(authKey, encKey, secure))
	}

	return a, nil
}

// HealthChecks lists the dependencies that are actually configured.
func (a *Application) HealthChecks() httpx.HealthChecks {
	checks := httpx.HealthChecks{}
	if a.DB != nil {
		checks["database"] = a.DB
	}
	if a.EventBus != nil {
		checks["event_bus"] = a.EventBus
	}
	if a.Redis != nil {
		checks["redis"] = a.Redis
	}
	return checks
}

// Close releases everything New opened, bus before database.
func (a *Application) Close() error {
	var errs []error
	if a.EventBus != nil {
		errs = append(errs, a.EventBus.Close())
	}
	if a.DB != nil {
		a.DB.Close()
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	return errors.Join(errs...)
}

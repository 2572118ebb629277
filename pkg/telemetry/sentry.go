package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/ghuser/catalog/pkg/config"
)

// SetupSentry initialises the Sentry SDK. It is a no-op without a DSN.
func SetupSentry(cfg *config.Config) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          cfg.ServiceName + "@" + cfg.ServiceVersion,
		TracesSampleRate: 0.2,
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

// SentryFlush drains buffered events before exit.
func SentryFlush() {
	sentry.Flush(2 * time.Second)
}

// SentryMiddleware reports panics and re-panics so Recovery still answers.
func SentryMiddleware() func(http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle
}

// CaptureError reports err outside a request, e.g. from the worker.
func CaptureError(err error) {
	if err != nil && sentry.CurrentHub().Client() != nil {
		sentry.CaptureException(err)
	}
}

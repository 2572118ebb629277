package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/pkg/logger"
)

func memoryConfig() *config.Config {
	return &config.Config{
		StoreDriver:          config.StoreDriverMemory,
		Environment:          config.EnvTesting,
		SessionAuthKey:       strings.Repeat("a", 32),
		SessionEncryptionKey: strings.Repeat("b", 32),
	}
}

func TestNew_MemoryWithoutRedis(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), logger.Discard())
	require.NoError(t, err)
	defer a.Close() //nolint:errcheck

	require.Nil(t, a.DB)
	require.Nil(t, a.EventBus)
	require.Nil(t, a.Redis)
	require.NotNil(t, a.Flash)
	require.NotNil(t, a.Errors)
	require.Empty(t, a.HealthChecks())
}

func TestNew_UnreachableRedis(t *testing.T) {
	cfg := memoryConfig()
	cfg.RedisURL = "redis://localhost:19999"
	_, err := New(context.Background(), cfg, logger.Discard())
	require.ErrorContains(t, err, "redis")
}

func TestNew_BadDatabaseURL(t *testing.T) {
	cfg := memoryConfig()
	cfg.StoreDriver = config.StoreDriverPostgres
	cfg.DatabaseURL = "://nope"
	_, err := New(context.Background(), cfg, logger.Discard())
	require.ErrorContains(t, err, "database")
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ghuser/catalog/pkg/app"
	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/pkg/logger"
)

func TestNew_MemoryStoreIsSeeded(t *testing.T) {
	a := &app.Application{
		Config: &config.Config{StoreDriver: config.StoreDriverMemory},
		Logger: logger.Discard(),
	}

	svcs, err := New(a)
	require.NoError(t, err)

	cats, err := svcs.Item.PrepareCreate(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, len(DefaultCategories))
	require.Equal(t, "Electronics", cats[0].Name)
}

func TestNew_PostgresNeedsDatabase(t *testing.T) {
	a := &app.Application{
		Config: &config.Config{StoreDriver: config.StoreDriverPostgres},
		Logger: logger.Discard(),
	}

	_, err := New(a)
	require.ErrorContains(t, err, "needs a database")
}

func TestNew_UnknownDriver(t *testing.T) {
	a := &app.Application{
		Config: &config.Config{StoreDriver: "sqlite"},
		Logger: logger.Discard(),
	}

	_, err := New(a)
	require.Error(t, err)
}

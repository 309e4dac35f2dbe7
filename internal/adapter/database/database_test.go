package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"taskboard/internal/core/telemetry"
	"taskboard/pkg/config"
	"taskboard/pkg/logger"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		cfg.Database.SQLitePath = "file:open_test?mode=memory&cache=shared"

		store, err := Open(ctx, cfg, logger.NewNop(), telemetry.NewNoOpProbe())

		assert.NoError(t, err)
		assert.NoError(t, store.Ping(ctx))
		assert.NoError(t, store.Close())
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		cfg.Database.Driver = "oracle"

		store, err := Open(ctx, cfg, logger.NewNop(), telemetry.NewNoOpProbe())

		assert.Nil(t, store)
		assert.ErrorContains(t, err, "unknown database driver")
	})
}

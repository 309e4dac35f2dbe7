package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_Hit(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}

	ctx := context.Background()
	client, err := NewRedisClient(ctx, url)
	if err != nil {
		t.Skip("Redis not available:", err)
	}
	defer client.Close()

	store := NewRedisStore(client, "test:ratelimit:")
	key := uuid.NewString()
	defer client.Del(ctx, "test:ratelimit:"+key)

	first, err := store.Hit(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Count)
	assert.WithinDuration(t, time.Now().Add(time.Minute), first.ResetAt, 2*time.Second)

	second, err := store.Hit(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Count)
}

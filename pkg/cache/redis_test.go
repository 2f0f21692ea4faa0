package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-course-patterns/pkg/config"
)

func TestAddr(t *testing.T) {
	assert.Equal(t, "cache.local:6380", Addr(config.RedisConfig{Host: "cache.local", Port: 6380}))
}

func TestNewRedisFailsWhenUnreachable(t *testing.T) {
	client, err := NewRedis(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: 1}, 200*time.Millisecond)
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}

package limiter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowBurst(t *testing.T) {
	r := NewRateLimiter(3)
	for i := 0; i < 3; i++ {
		assert.True(t, r.Allow(), "request %d", i)
	}
	assert.False(t, r.Allow())
}

func TestUnlimited(t *testing.T) {
	r := NewRateLimiter(0)
	for i := 0; i < 100; i++ {
		require.True(t, r.Allow())
	}
	require.NoError(t, r.Wait(context.Background()))
}

func TestWaitCancelled(t *testing.T) {
	r := NewRateLimiter(1)
	require.True(t, r.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, r.Wait(ctx))
}

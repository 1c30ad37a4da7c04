package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedis_PingsServer(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewRedis(context.Background(), srv.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, HealthCheck(client)(context.Background()))

	srv.Close()
	assert.Error(t, HealthCheck(client)(context.Background()))
}

func TestNewRedis_Unreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := NewRedis(context.Background(), addr, "", 0)
	assert.Error(t, err)
}

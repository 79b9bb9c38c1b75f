package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := ConnectRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NotNil(t, client)
	defer client.Close()
	assert.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())

	plain := ConnectRedis(context.Background(), mr.Addr())
	require.NotNil(t, plain)
	defer plain.Close()
}

func TestConnectRedis_Disabled(t *testing.T) {
	assert.Nil(t, ConnectRedis(context.Background(), ""))
	assert.Nil(t, ConnectRedis(context.Background(), "redis://%zz"))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()
	assert.Nil(t, ConnectRedis(context.Background(), addr))
}

package session

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialRejectsUnknownScheme(t *testing.T) {
	d := NewDialer()

	for _, raw := range []string{"", "https://example.supabase.co", "mysql://localhost/db", "::not a url"} {
		_, err := d.Dial(context.Background(), &DialInput{URL: raw, Key: "k"})
		assert.True(t, errors.Is(err, ErrUnsupportedScheme), "url %q: %v", raw, err)
		assert.True(t, IsConfiguration(err))
	}
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	remote, err := NewDialer().Dial(context.Background(), &DialInput{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	defer remote.Close()

	assert.Equal(t, "redis", remote.Backend())
	assert.True(t, errors.Is(remote.Probe(context.Background()), ErrMissingTable))
}

func TestDialRedisWithKey(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	remote, err := NewDialer().Dial(context.Background(), &DialInput{URL: "redis://" + mr.Addr(), Key: "s3cret"})
	require.NoError(t, err)
	defer remote.Close()

	require.NoError(t, remote.Provision(context.Background()))
	assert.NoError(t, remote.Probe(context.Background()))
}

func TestDialRedisWithoutKeyIsPermissionDenied(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	_, err := NewDialer().Dial(context.Background(), &DialInput{URL: "redis://" + mr.Addr()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPermissionDenied), "got %v", err)
}

func TestDialRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewDialer().Dial(context.Background(), &DialInput{URL: "redis://" + addr})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrPermissionDenied))
	assert.False(t, IsConfiguration(err))
}

func TestDialRedisHonoursCancelledContext(t *testing.T) {
	mr := miniredis.RunT(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDialer().Dial(ctx, &DialInput{URL: "redis://" + mr.Addr()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

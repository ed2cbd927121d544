package bigcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pr "github.com/unkn0wn-root/cachebox/provider"
)

func newTestProvider(t *testing.T, cfg Config) (*Provider, *time.Time) {
	t.Helper()
	p, err := New(cfg)
	require.NoError(t, err)
	now := time.Unix(1_700_000_000, 0)
	p.now = func() time.Time { return now }
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	return p, &now
}

func TestRoundTripPreservesKind(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestProvider(t, Config{})

	require.NoError(t, p.Set(ctx, "s", "text", 0))
	require.NoError(t, p.Set(ctx, "b", []byte{1, 2, 3}, 0))

	v, ok, err := p.Get(ctx, "s")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "text", v)

	v, ok, err = p.Get(ctx, "b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, v)
}

func TestRejectsStructuredValues(t *testing.T) {
	p, _ := newTestProvider(t, Config{})
	err := p.Set(context.Background(), "k", 42, 0)
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestPerEntryTTL(t *testing.T) {
	ctx := context.Background()
	p, now := newTestProvider(t, Config{})

	require.NoError(t, p.Set(ctx, "short", "x", 5*time.Second))
	require.NoError(t, p.Set(ctx, "forever", "x", 0))

	*now = now.Add(6 * time.Second)

	has, err := p.Has(ctx, "short")
	require.NoError(t, err)
	assert.False(t, has)
	_, ok, _ := p.Get(ctx, "short")
	assert.False(t, ok)

	has, err = p.Has(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, has)

	keys, err := p.Keys(ctx, "*")
	require.NoError(t, err)
	assert.Equal(t, []string{"forever"}, keys)
}

func TestTTLBoundedByLifeWindow(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestProvider(t, Config{LifeWindow: time.Minute})
	assert.Equal(t, time.Minute, p.LifeWindow())

	err := p.Set(ctx, "long", "x", time.Hour)
	assert.ErrorIs(t, err, ErrTTLExceedsLifeWindow)
	has, _ := p.Has(ctx, "long")
	assert.False(t, has, "rejected write must not be stored")

	require.NoError(t, p.Set(ctx, "edge", "x", time.Minute))
	require.NoError(t, p.Set(ctx, "zero", "x", 0))
	require.NoError(t, p.Set(ctx, "dflt", "x", pr.DefaultTTL))
}

func TestKeysPatternAndForeignBytes(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestProvider(t, Config{})

	for _, k := range []string{"ns:example-1", "ns:example-2", "ns:lorem"} {
		require.NoError(t, p.Set(ctx, k, "x", 0))
	}
	// bytes written behind the provider's back are treated as corrupt
	require.NoError(t, p.c.Set("ns:foreign", []byte("raw")))

	got, err := p.Keys(ctx, "ns:example-*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ns:example-1", "ns:example-2"}, got)

	_, err = p.c.Get("ns:foreign")
	assert.Error(t, err, "corrupt frame should have been dropped by Keys")
}

func TestDelAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestProvider(t, Config{})
	require.NoError(t, p.Del(ctx, "never-set"))

	require.NoError(t, p.Set(ctx, "k", "v", 0))
	require.NoError(t, p.Del(ctx, "k"))
	has, _ := p.Has(ctx, "k")
	assert.False(t, has)
}

func TestConfigValidation(t *testing.T) {
	_, err := New(Config{TTL: 48 * time.Hour, LifeWindow: time.Hour})
	var ce *pr.ConfigError
	require.True(t, errors.As(err, &ce), "got %T: %v", err, err)
	assert.True(t, ce.HasField("ttl"))

	p, err := Factory{}.Create(pr.Config{TTL: time.Minute, Host: "ignored"})
	require.NoError(t, err)
	assert.NoError(t, p.(*Provider).Close(context.Background()))
}

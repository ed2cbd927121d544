package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pr "github.com/unkn0wn-root/cachebox/provider"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestMemory(t *testing.T, cfg Config) (*Memory, *fakeClock) {
	t.Helper()
	m, err := New(cfg)
	require.NoError(t, err)
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	m.now = clk.Now
	t.Cleanup(func() { _ = m.Close(context.Background()) })
	return m, clk
}

func TestSetGetHasDel(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory(t, Config{})

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "foo", "bar", 0))
	v, ok, err := m.Get(ctx, "foo")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bar", v)

	has, err := m.Has(ctx, "foo")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, m.Del(ctx, "foo"))
	require.NoError(t, m.Del(ctx, "foo"), "deleting an absent key is a no-op")
	has, err = m.Has(ctx, "foo")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	m, clk := newTestMemory(t, Config{})

	require.NoError(t, m.Set(ctx, "forever", "x", 0))
	clk.Advance(365 * 24 * time.Hour)

	v, ok, err := m.Get(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestPositiveTTLExpires(t *testing.T) {
	ctx := context.Background()
	m, clk := newTestMemory(t, Config{})

	require.NoError(t, m.Set(ctx, "short", "x", 5*time.Second))
	clk.Advance(4 * time.Second)
	has, _ := m.Has(ctx, "short")
	assert.True(t, has)

	clk.Advance(2 * time.Second)
	_, ok, err := m.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok)
	has, _ = m.Has(ctx, "short")
	assert.False(t, has)

	// reading an expired entry removes it
	assert.Equal(t, 0, m.Len())
}

func TestKeysPurgesUnreadExpired(t *testing.T) {
	ctx := context.Background()
	m, clk := newTestMemory(t, Config{})

	require.NoError(t, m.Set(ctx, "short", "x", time.Second))
	require.NoError(t, m.Set(ctx, "long", "x", time.Hour))
	clk.Advance(2 * time.Second)

	// still physically present until a purge
	assert.Equal(t, 2, m.Len())
	keys, err := m.Keys(ctx, "*")
	require.NoError(t, err)
	assert.Equal(t, []string{"long"}, keys)
	assert.Equal(t, 1, m.Len())
}

func TestDefaultTTLFromConfig(t *testing.T) {
	ctx := context.Background()
	m, clk := newTestMemory(t, Config{TTL: time.Second})

	require.NoError(t, m.Set(ctx, "dflt", "x", pr.DefaultTTL))
	require.NoError(t, m.Set(ctx, "explicit-zero", "x", 0))
	clk.Advance(2 * time.Second)

	has, _ := m.Has(ctx, "dflt")
	assert.False(t, has, "default ttl should apply")
	has, _ = m.Has(ctx, "explicit-zero")
	assert.True(t, has, "explicit 0 overrides default ttl")
}

func TestKeysPattern(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory(t, Config{})
	records := []string{"user-1", "user-2", "something", "else"}
	for _, r := range records {
		require.NoError(t, m.Set(ctx, r, "test", 0))
	}

	all, err := m.Keys(ctx, "*")
	require.NoError(t, err)
	assert.ElementsMatch(t, records, all)

	dflt, err := m.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, all, dflt)

	users, err := m.Keys(ctx, "user-*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"user-1", "user-2"}, users)
}

func TestCapacityEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory(t, Config{MaxEntries: 2})

	require.NoError(t, m.Set(ctx, "a", 1, 0))
	require.NoError(t, m.Set(ctx, "b", 2, 0))
	_, _, _ = m.Get(ctx, "a") // a becomes most recent
	require.NoError(t, m.Set(ctx, "c", 3, 0))

	keys, err := m.Keys(ctx, "*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "c"}, keys)
}

func TestInvalidConfig(t *testing.T) {
	_, err := New(Config{TTL: -time.Second, MaxEntries: -1})
	var ce *pr.ConfigError
	require.True(t, errors.As(err, &ce), "got %T: %v", err, err)
	assert.True(t, ce.HasField("ttl"))
	assert.True(t, ce.HasField("maxEntries"))
}

func TestFactoryPrunesUnknownFields(t *testing.T) {
	p, err := Factory{}.Create(pr.Config{Host: "ignored", Port: -5, TTL: time.Minute})
	require.NoError(t, err)
	m := p.(*Memory)
	assert.Equal(t, time.Minute, m.ttl)
	require.NoError(t, m.Close(context.Background()))
}

func TestJanitorPurgesInBackground(t *testing.T) {
	ctx := context.Background()
	m, err := New(Config{CleanupInterval: 10 * time.Millisecond})
	require.NoError(t, err)
	defer m.Close(ctx)

	require.NoError(t, m.Set(ctx, "gone", "x", 20*time.Millisecond))
	require.NoError(t, m.Set(ctx, "kept", "x", 0))

	assert.Eventually(t, func() bool { return m.Len() == 1 }, time.Second, 10*time.Millisecond)
	has, _ := m.Has(ctx, "kept")
	assert.True(t, has)

	require.NoError(t, m.Close(ctx))
	require.NoError(t, m.Close(ctx), "Close is idempotent")
}

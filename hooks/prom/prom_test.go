package promhooks

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg, "app")

	h.ProviderSetRejected("users", "users:1")
	h.ProviderSetRejected("users", "users:2")
	h.DecodeError("cars", "cars:9", errors.New("bad"))
	h.ForeignKey("users", "stray")
	h.ClearFailed("users", 40, 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(h.rejected.WithLabelValues("users")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.decodeErrs.WithLabelValues("cars")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.foreignKeys.WithLabelValues("users")))
	assert.Equal(t, 3.0, testutil.ToFloat64(h.clearFailed.WithLabelValues("users", "100")))

	expected := `
# HELP app_cachebox_set_rejected_total Writes refused by the provider under pressure.
# TYPE app_cachebox_set_rejected_total counter
app_cachebox_set_rejected_total{ns="users"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "app_cachebox_set_rejected_total"))
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg, "")
	assert.Panics(t, func() { New(reg, "") })
}

func TestNilRegisterer(t *testing.T) {
	h := New(nil, "")
	h.ForeignKey("ns", "k")
	assert.Equal(t, 1.0, testutil.ToFloat64(h.foreignKeys.WithLabelValues("ns")))
}

func TestBucket(t *testing.T) {
	assert.Equal(t, "10", bucket(0))
	assert.Equal(t, "100", bucket(11))
	assert.Equal(t, "1000", bucket(1000))
	assert.Equal(t, "+Inf", bucket(1001))
}

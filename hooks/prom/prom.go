// Package promhooks counts cache events with Prometheus.
//
//	h := promhooks.New(prometheus.DefaultRegisterer, "myapp")
//	c, _ := cachebox.New[User](cachebox.Options[User]{Hooks: h})
package promhooks

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/cachebox"
)

type Hooks struct {
	rejected    *prometheus.CounterVec
	decodeErrs  *prometheus.CounterVec
	foreignKeys *prometheus.CounterVec
	clearFailed *prometheus.CounterVec
}

var _ cachebox.Hooks = (*Hooks)(nil)

// New registers the cachebox_* counters on reg under the given metric
// namespace (may be empty). A nil reg skips registration.
// It panics if the counters are already registered on reg.
func New(reg prometheus.Registerer, namespace string) *Hooks {
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cachebox",
			Name:      name,
			Help:      help,
		}, labels)
	}
	h := &Hooks{
		rejected:    counter("set_rejected_total", "Writes refused by the provider under pressure.", "ns"),
		decodeErrs:  counter("decode_errors_total", "Stored values the codec could not decode.", "ns"),
		foreignKeys: counter("foreign_keys_total", "Listed keys without the namespace prefix.", "ns"),
		clearFailed: counter("clear_failed_deletes_total", "Deletes that failed during Clear.", "ns", "attempted"),
	}
	if reg != nil {
		reg.MustRegister(h.rejected, h.decodeErrs, h.foreignKeys, h.clearFailed)
	}
	return h
}

func (h *Hooks) ProviderSetRejected(namespace, _ string) {
	h.rejected.WithLabelValues(namespace).Inc()
}

func (h *Hooks) DecodeError(namespace, _ string, _ error) {
	h.decodeErrs.WithLabelValues(namespace).Inc()
}

func (h *Hooks) ForeignKey(namespace, _ string) {
	h.foreignKeys.WithLabelValues(namespace).Inc()
}

func (h *Hooks) ClearFailed(namespace string, attempted, failed int) {
	h.clearFailed.WithLabelValues(namespace, bucket(attempted)).Add(float64(failed))
}

// bucket keeps the attempted label low-cardinality.
func bucket(n int) string {
	switch {
	case n <= 10:
		return "10"
	case n <= 100:
		return "100"
	case n <= 1000:
		return "1000"
	default:
		return "+Inf"
	}
}

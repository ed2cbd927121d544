// Package asynchook moves hook work off the cache's hot path.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{ForeignKeyEvery: 100})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	c, _ := cachebox.New[User](cachebox.Options[User]{
//	    Namespace: "users",
//	    Hooks:     hooks,
//	})
//
// Events are dropped when the queue is full; Dropped reports how many.
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/cachebox"
)

type Hooks struct {
	inner cachebox.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once

	mu      sync.RWMutex // guards closed against sends on a closed queue
	closed  bool
	dropped atomic.Uint64
}

var _ cachebox.Hooks = (*Hooks)(nil)

func New(inner cachebox.Hooks, workers, qlen int) *Hooks {
	if inner == nil {
		inner = cachebox.NopHooks{}
	}
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events after Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped is the number of events lost to a full queue or a closed hook.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default: // drop
		h.dropped.Add(1)
	}
}

func (h *Hooks) ProviderSetRejected(ns, k string) {
	h.try(func() { h.inner.ProviderSetRejected(ns, k) })
}
func (h *Hooks) DecodeError(ns, k string, err error) {
	h.try(func() { h.inner.DecodeError(ns, k, err) })
}
func (h *Hooks) ForeignKey(ns, k string) { h.try(func() { h.inner.ForeignKey(ns, k) }) }
func (h *Hooks) ClearFailed(ns string, attempted, failed int) {
	h.try(func() { h.inner.ClearFailed(ns, attempted, failed) })
}

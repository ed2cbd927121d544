package asynchook

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unkn0wn-root/cachebox"
)

type recorder struct {
	cachebox.NopHooks
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) ProviderSetRejected(_, k string)  { r.add("rejected:" + k) }
func (r *recorder) DecodeError(_, k string, _ error) { r.add("decode:" + k) }
func (r *recorder) ForeignKey(_, k string)           { r.add("foreign:" + k) }
func (r *recorder) ClearFailed(ns string, _, _ int)  { r.add("clear:" + ns) }

func TestDeliversAllBeforeClose(t *testing.T) {
	rec := &recorder{}
	h := New(rec, 1, 16)

	h.ProviderSetRejected("ns", "ns:a")
	h.DecodeError("ns", "ns:b", errors.New("bad"))
	h.ForeignKey("ns", "stray")
	h.ClearFailed("ns", 3, 1)
	h.Close()

	assert.Equal(t, []string{"rejected:ns:a", "decode:ns:b", "foreign:stray", "clear:ns"}, rec.events)
	assert.Zero(t, h.Dropped())
}

func TestDropsAfterClose(t *testing.T) {
	rec := &recorder{}
	h := New(rec, 2, 4)
	h.Close()
	h.Close() // idempotent

	h.ForeignKey("ns", "late")
	assert.Empty(t, rec.events)
	assert.Equal(t, uint64(1), h.Dropped())
}

func TestDropsWhenQueueFull(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	slow := &blocking{started: started, block: block}
	h := New(slow, 1, 1)

	h.ForeignKey("ns", "first") // picked up by the worker, which then blocks
	<-started
	h.ForeignKey("ns", "queued")  // fills the queue
	h.ForeignKey("ns", "dropped") // no room

	close(block)
	h.Close()
	assert.Equal(t, uint64(1), h.Dropped())
}

type blocking struct {
	cachebox.NopHooks
	once    sync.Once
	started chan struct{}
	block   chan struct{}
}

func (b *blocking) ForeignKey(string, string) {
	b.once.Do(func() { close(b.started) })
	<-b.block
}

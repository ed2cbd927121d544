// Package sloghooks reports cache events through log/slog.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/cachebox"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	ForeignKeyEvery  uint64
	DecodeErrorEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	foreignCtr atomic.Uint64
	decodeCtr  atomic.Uint64
}

var _ cachebox.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) ProviderSetRejected(namespace, storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("cachebox.provider_set_rejected",
		"ns", namespace,
		"key", h.redact(storageKey))
}

func (h *Hooks) DecodeError(namespace, storageKey string, err error) {
	if h.l == nil || !sample(h.opts.DecodeErrorEvery, &h.decodeCtr) {
		return
	}
	h.l.Warn("cachebox.decode_error",
		"ns", namespace,
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) ForeignKey(namespace, storageKey string) {
	if h.l == nil || !sample(h.opts.ForeignKeyEvery, &h.foreignCtr) {
		return
	}
	h.l.Debug("cachebox.foreign_key",
		"ns", namespace,
		"key", h.redact(storageKey))
}

func (h *Hooks) ClearFailed(namespace string, attempted, failed int) {
	if h.l == nil {
		return
	}
	h.l.Error("cachebox.clear_failed",
		"ns", namespace,
		"attempted", attempted,
		"failed", failed)
}

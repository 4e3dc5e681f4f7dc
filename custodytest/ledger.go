package custodytest

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/store"
)

// Ledger is a minimal in-memory ledger for testing handlers. Each call runs
// in its own cache wrap that is written only when both Check and Deliver
// succeed, the way the real ledger applies a transaction.
type Ledger struct {
	t      testing.TB
	DB     custody.CacheableKVStore
	Auth   *CtxAuth
	routes map[string]custody.Handler
}

var _ custody.Registry = (*Ledger)(nil)

// NewLedger returns a ledger with an empty memory store.
func NewLedger(t testing.TB) *Ledger {
	return &Ledger{
		t:      t,
		DB:     store.MemStore(),
		Auth:   &CtxAuth{Key: "ledger"},
		routes: make(map[string]custody.Handler),
	}
}

// Handle registers a handler for the message path.
func (l *Ledger) Handle(m custody.Msg, h custody.Handler) {
	l.routes[m.Path()] = h
}

// Deliver processes the message signed by signer at given height. Signer
// can be nil for unsigned messages.
func (l *Ledger) Deliver(height int64, signer custody.Condition, msg custody.Msg) (*custody.DeliverResult, error) {
	l.t.Helper()

	h, ok := l.routes[msg.Path()]
	if !ok {
		l.t.Fatalf("no handler for %q", msg.Path())
	}
	ctx := custody.WithHeight(context.Background(), height)
	if signer != nil {
		ctx = l.Auth.SetConditions(ctx, signer)
	}
	tx := &Tx{Msg: msg}

	cache := l.DB.CacheWrap()
	if _, err := h.Check(ctx, cache, tx); err != nil {
		cache.Discard()
		return nil, err
	}
	res, err := h.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		l.t.Fatalf("cannot write cache: %s", err)
	}
	return res, nil
}

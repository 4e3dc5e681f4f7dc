package custodytest

import (
	"context"
	"sync/atomic"

	"github.com/iov-one/custody"
)

// Handler is a mock implementation of the custody.Handler interface.
// It returns configured results and counts the calls.
type Handler struct {
	checkCall   int64
	CheckResult custody.CheckResult
	CheckErr    error

	deliverCall   int64
	DeliverResult custody.DeliverResult
	DeliverErr    error
}

var _ custody.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	atomic.AddInt64(&h.checkCall, 1)
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	atomic.AddInt64(&h.deliverCall, 1)
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return int(atomic.LoadInt64(&h.checkCall))
}

func (h *Handler) DeliverCallCount() int {
	return int(atomic.LoadInt64(&h.deliverCall))
}

func (h *Handler) CallCount() int {
	return h.CheckCallCount() + h.DeliverCallCount()
}

// WriteHandler writes Key/Value into the store on every call and then
// returns Err.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ custody.Handler = WriteHandler{}

func (h WriteHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, h.Err
}

func (h WriteHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, h.Err
}

// PanicHandler panics on every call.
type PanicHandler struct {
	Msg string
}

func (h PanicHandler) Check(context.Context, custody.KVStore, custody.Tx) (*custody.CheckResult, error) {
	panic(h.Msg)
}

func (h PanicHandler) Deliver(context.Context, custody.KVStore, custody.Tx) (*custody.DeliverResult, error) {
	panic(h.Msg)
}

package app

import (
	"context"
	"testing"

	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x/utils"
)

func TestChain(t *testing.T) {
	c1 := &custodytest.Decorator{}
	c2 := &custodytest.Decorator{}
	c3 := &custodytest.Decorator{}
	h := &custodytest.Handler{}

	var nilMetrics *utils.Metrics
	stack := ChainDecorators(c1, nilMetrics, c2).Chain(nil, c3).WithHandler(h)

	ctx := context.Background()
	db := store.MemStore()
	tx := &custodytest.Tx{}

	_, err := stack.Check(ctx, db, tx)
	assert.Nil(t, err)
	_, err = stack.Deliver(ctx, db, tx)
	assert.Nil(t, err)
	for _, d := range []*custodytest.Decorator{c1, c2, c3} {
		assert.Equal(t, 2, d.CallCount())
	}
	assert.Equal(t, 2, h.CallCount())
}

func TestChainLeavesBaseUntouched(t *testing.T) {
	shared := &custodytest.Decorator{}
	extra := &custodytest.Decorator{}
	base := ChainDecorators(shared)
	extended := base.Chain(extra).WithHandler(&custodytest.Handler{})
	plain := base.WithHandler(&custodytest.Handler{})

	ctx := context.Background()
	_, err := plain.Deliver(ctx, store.MemStore(), &custodytest.Tx{})
	assert.Nil(t, err)
	assert.Equal(t, 0, extra.DeliverCallCount())

	_, err = extended.Deliver(ctx, store.MemStore(), &custodytest.Tx{})
	assert.Nil(t, err)
	assert.Equal(t, 1, extra.DeliverCallCount())
	assert.Equal(t, 2, shared.DeliverCallCount())
}

func TestChainStopsAtFirstError(t *testing.T) {
	c1 := &custodytest.Decorator{}
	c2 := &custodytest.Decorator{DeliverErr: errors.ErrUnauthorized}
	c3 := &custodytest.Decorator{}
	h := &custodytest.Handler{}

	stack := ChainDecorators(c1, c2, c3).WithHandler(h)
	_, err := stack.Deliver(context.Background(), store.MemStore(), &custodytest.Tx{})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 1, c1.DeliverCallCount())
	assert.Equal(t, 1, c2.DeliverCallCount())
	assert.Equal(t, 0, c3.DeliverCallCount())
	assert.Equal(t, 0, h.DeliverCallCount())
}

func TestChainRecoversPanics(t *testing.T) {
	stack := ChainDecorators(utils.NewRecovery()).WithHandler(custodytest.PanicHandler{Msg: "boom"})
	res, err := stack.Deliver(context.Background(), store.MemStore(), &custodytest.Tx{})
	assert.IsErr(t, errors.ErrPanic, err)
	assert.Nil(t, res)
}

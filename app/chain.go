package app

import (
	"context"
	"reflect"

	"github.com/iov-one/custody"
)

// Decorators is an ordered list of decorators waiting for the handler they
// wrap. The first decorator sees a transaction first.
type Decorators struct {
	chain []custody.Decorator
}

// ChainDecorators starts a decorator list. Nil entries, including typed nil
// pointers such as an absent *utils.Metrics, are dropped, which lets optional
// layers be passed unconditionally:
//
//   app.ChainDecorators(
//     utils.NewRecovery(),
//     utils.NewLogging(),
//     metrics,
//     sigs.NewDecorator(),
//   ).WithHandler(router)
func ChainDecorators(ds ...custody.Decorator) Decorators {
	return Decorators{}.Chain(ds...)
}

// Chain returns a new list with ds appended. The receiver is not modified.
func (d Decorators) Chain(ds ...custody.Decorator) Decorators {
	chain := make([]custody.Decorator, 0, len(d.chain)+len(ds))
	chain = append(chain, d.chain...)
	for _, dec := range ds {
		if !isNilDecorator(dec) {
			chain = append(chain, dec)
		}
	}
	return Decorators{chain: chain}
}

func isNilDecorator(d custody.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the list with the final handler, usually a Router.
func (d Decorators) WithHandler(h custody.Handler) custody.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = layer{decorator: d.chain[i], next: h}
	}
	return h
}

// layer runs one decorator around the rest of the stack.
type layer struct {
	decorator custody.Decorator
	next      custody.Handler
}

var _ custody.Handler = layer{}

func (l layer) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	return l.decorator.Check(ctx, db, tx, l.next)
}

func (l layer) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	return l.decorator.Deliver(ctx, db, tx, l.next)
}

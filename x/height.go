package x

import (
	"context"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// BlockHeight returns the height of the block the current invocation is
// part of. Guards must never be evaluated without a clock, so a context
// without a height is an error.
func BlockHeight(ctx context.Context) (int64, error) {
	height, ok := custody.GetHeight(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrState, "block height not set")
	}
	return height, nil
}

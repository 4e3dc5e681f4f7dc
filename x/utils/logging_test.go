package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewTMLogger(log.NewSyncWriter(&buf))
	ctx := custody.WithLogger(context.Background(), logger)
	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "timelock/lock"}}
	db := store.MemStore()

	ok := &custodytest.Handler{DeliverResult: custody.DeliverResult{Log: "all good"}}
	_, err := NewLogging().Deliver(ctx, db, tx, ok)
	assert.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.Contains(out, "all good"), out)
	assert.True(t, strings.Contains(out, "path=timelock/lock"), out)

	buf.Reset()
	failing := &custodytest.Handler{DeliverErr: errors.ErrNotLocked.New("withdrawn")}
	_, err = NewLogging().Deliver(ctx, db, tx, failing)
	assert.True(t, errors.ErrNotLocked.Is(err))
	out = buf.String()
	assert.True(t, strings.HasPrefix(out, "E"), out)
	assert.True(t, strings.Contains(out, "withdrawn"), out)

	// Successful checks are only visible on debug level.
	buf.Reset()
	filtered := log.NewFilter(logger, log.AllowInfo())
	_, err = NewLogging().Check(custody.WithLogger(context.Background(), filtered), db, tx, ok)
	assert.NoError(t, err)
	assert.Equal(t, "", buf.String())
}

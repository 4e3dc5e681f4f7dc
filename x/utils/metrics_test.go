package utils

import (
	"context"
	"testing"

	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()
	db := store.MemStore()
	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "multisig/vote"}}

	ok := &custodytest.Handler{}
	failing := &custodytest.Handler{DeliverErr: errors.ErrAlreadyVoted.New("twice")}

	for i := 0; i < 3; i++ {
		_, err := m.Deliver(ctx, db, tx, ok)
		require.NoError(t, err)
	}
	_, err = m.Deliver(ctx, db, tx, failing)
	require.True(t, errors.ErrAlreadyVoted.Is(err))

	// Check calls are not counted.
	_, err = m.Check(ctx, db, tx, ok)
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.total.WithLabelValues("multisig/vote", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.total.WithLabelValues("multisig/vote", "105")))

	// A registry accepts the collectors only once.
	_, err = NewMetrics(reg)
	assert.True(t, errors.ErrInput.Is(err))

	_, err = NewMetrics(prometheus.NewRegistry())
	assert.NoError(t, err)
	assert.Equal(t, "ok", resultLabel(nil))
	assert.Equal(t, "3", resultLabel(errors.ErrNotFound))
}

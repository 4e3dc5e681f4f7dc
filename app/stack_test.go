package app

import (
	"testing"

	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store/iavl"
	"github.com/iov-one/custody/x/cash"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	l, err := Application(iavl.NewMemCommitStore(), reg)
	require.NoError(t, err)

	key, other := newKey(t), newKey(t)
	gen := genesis(t, cash.GenesisAccount{Address: key.PublicKey().Address(), Amount: 10})
	require.NoError(t, l.InitChain(gen))

	send := &cash.SendMsg{
		Source:      key.PublicKey().Address(),
		Destination: other.PublicKey().Address(),
		Amount:      coin.Amount(4),
	}
	_, err = deliver(t, l, key, send)
	require.NoError(t, err)

	// Signed by someone else than the owner of the source account.
	_, err = deliver(t, l, other, send)
	require.True(t, errors.ErrUnauthorized.Is(err))

	// Check calls are not measured.
	_, err = l.Check(NewTx(send))
	require.True(t, errors.ErrUnauthorized.Is(err))

	families, err := reg.Gather()
	require.NoError(t, err)
	counts := make(map[string]float64)
	for _, mf := range families {
		if mf.GetName() != "custody_tx_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var result string
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "result" {
					result = lp.GetValue()
				}
			}
			counts[result] += m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{"ok": 1, "2": 1}, counts)

	// A second ledger cannot register the same collectors.
	_, err = Application(iavl.NewMemCommitStore(), reg)
	assert.Error(t, err)
}

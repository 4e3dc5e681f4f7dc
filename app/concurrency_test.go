package app

import (
	"sync/atomic"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/multisig"
	"github.com/iov-one/custody/x/timelock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestConcurrentVotesExecuteOnce(t *testing.T) {
	const size = 8
	keys := make([]crypto.PrivateKey, size)
	members := make([]custody.Address, size)
	for i := range keys {
		keys[i] = newKey(t)
		members[i] = keys[i].PublicKey().Address()
	}
	recipient := newKey(t).PublicKey().Address()
	l := newTestLedger(t, 10, keys...)

	id := []byte("race")
	_, err := deliver(t, l, keys[0], &multisig.StartMsg{VaultID: id, Members: members, VotesRequired: 3})
	require.NoError(t, err)
	_, err = deliver(t, l, keys[0], &multisig.DepositMsg{VaultID: id, Amount: 10})
	require.NoError(t, err)
	_, err = deliver(t, l, keys[1], &multisig.ProposeMsg{VaultID: id, Action: multisig.Action{Recipient: recipient, Amount: 10}})
	require.NoError(t, err)

	// Sign up front, so that all deliveries race for the lock.
	vote := &multisig.VoteMsg{VaultID: id, ProposalID: 0}
	txs := make([][]byte, size)
	for i, k := range keys {
		txs[i] = signedTx(t, l, k, vote)
	}

	var executed, accepted, rejected int32
	var g errgroup.Group
	for _, raw := range txs {
		raw := raw
		g.Go(func() error {
			res, err := l.DeliverRaw(raw)
			switch {
			case err == nil:
				atomic.AddInt32(&accepted, 1)
				if res.Log == "executed" {
					atomic.AddInt32(&executed, 1)
				}
				return nil
			case errors.ErrAlreadyExecuted.Is(err):
				atomic.AddInt32(&rejected, 1)
				return nil
			default:
				return err
			}
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), executed)
	assert.Equal(t, int32(3), accepted)
	assert.Equal(t, int32(size-3), rejected)
	assert.Equal(t, coin.Amount(10), balance(t, l, recipient))
}

func TestConcurrentLocksFirstWins(t *testing.T) {
	const size = 6
	keys := make([]crypto.PrivateKey, size)
	for i := range keys {
		keys[i] = newKey(t)
	}
	l := newTestLedger(t, 5, keys...)
	bene := newKey(t).PublicKey().Address()

	var g errgroup.Group
	var won, lost int32
	for _, k := range keys {
		raw := signedTx(t, l, k, &timelock.LockMsg{WalletID: []byte("contested"), Beneficiary: bene, UnlockHeight: 10, Amount: 5})
		g.Go(func() error {
			_, err := l.DeliverRaw(raw)
			switch {
			case err == nil:
				atomic.AddInt32(&won, 1)
			case errors.ErrAlreadyInitialized.Is(err):
				atomic.AddInt32(&lost, 1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), won)
	assert.Equal(t, int32(size-1), lost)
	assert.Equal(t, coin.Amount(5), balance(t, l, timelock.Condition([]byte("contested")).Address()))

	var total coin.Amount
	for _, k := range keys {
		total += balance(t, l, k.PublicKey().Address())
	}
	assert.Equal(t, coin.Amount(5*(size-1)), total)
}

func TestQueriesRunAlongsideDeliveries(t *testing.T) {
	sender := newKey(t)
	l := newTestLedger(t, 100, sender)
	dest := newKey(t).PublicKey().Address()

	txs := make([][]byte, 20)
	for i := range txs {
		// each of the transactions carries the next sequence
		tx := NewTx(&timelock.LockMsg{WalletID: []byte{'w', byte('a' + i)}, Beneficiary: dest, UnlockHeight: 50, Amount: 1})
		require.NoError(t, tx.Sign(sender, l.ChainID(), int64(i)))
		raw, err := tx.Marshal()
		require.NoError(t, err)
		txs[i] = raw
	}

	var g errgroup.Group
	g.Go(func() error {
		for _, raw := range txs {
			if _, err := l.DeliverRaw(raw); err != nil {
				return err
			}
		}
		return nil
	})
	for i := 0; i < 4; i++ {
		g.Go(func() error {
			for j := 0; j < 20; j++ {
				if _, err := l.Query("/timelocks", custody.PrefixQueryMod, []byte("w")); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	res, err := l.Query("/timelocks", custody.PrefixQueryMod, []byte("w"))
	require.NoError(t, err)
	assert.Len(t, res, 20)
	assert.Equal(t, coin.Amount(80), balance(t, l, sender.PublicKey().Address()))
}

package cash

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

func TestSendHandler(t *testing.T) {
	alice := custodytest.NewCondition()
	bob := custodytest.NewCondition()

	cases := map[string]struct {
		signer      custody.Condition
		funds       coin.Amount
		reserveBob  bool
		msg         custody.Msg
		wantCheck   *errors.Error
		wantDeliver *errors.Error
		wantBob     coin.Amount
	}{
		"missing message": {
			signer:      alice,
			wantCheck:   errors.ErrMsg,
			wantDeliver: errors.ErrMsg,
		},
		"zero amount": {
			signer:      alice,
			msg:         &SendMsg{Source: alice.Address(), Destination: bob.Address()},
			wantCheck:   errors.ErrAmount,
			wantDeliver: errors.ErrAmount,
		},
		"not signed by the source": {
			signer:      bob,
			funds:       100,
			msg:         &SendMsg{Source: alice.Address(), Destination: bob.Address(), Amount: 10},
			wantCheck:   errors.ErrUnauthorized,
			wantDeliver: errors.ErrUnauthorized,
		},
		"sender too poor": {
			signer:      alice,
			funds:       5,
			msg:         &SendMsg{Source: alice.Address(), Destination: bob.Address(), Amount: 10},
			wantDeliver: errors.ErrInsufficientFunds,
		},
		"destination is a custody account": {
			signer:      alice,
			funds:       100,
			reserveBob:  true,
			msg:         &SendMsg{Source: alice.Address(), Destination: bob.Address(), Amount: 10},
			wantCheck:   errors.ErrInput,
			wantDeliver: errors.ErrInput,
		},
		"sender got cash": {
			signer:  alice,
			funds:   100,
			msg:     &SendMsg{Source: alice.Address(), Destination: bob.Address(), Amount: 10},
			wantBob: 10,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController(NewBucket())
			if tc.funds > 0 {
				assert.Nil(t, ctrl.IssueCoins(db, alice.Address(), tc.funds))
			}
			if tc.reserveBob {
				assert.Nil(t, ctrl.Reserve(db, bob.Address(), "timelock"))
			}
			h := NewSendHandler(&custodytest.Auth{Signer: tc.signer}, ctrl)
			tx := &custodytest.Tx{Msg: tc.msg}

			_, err := h.Check(context.Background(), db, tx)
			assertErr(t, tc.wantCheck, err)
			_, err = h.Deliver(context.Background(), db, tx)
			assertErr(t, tc.wantDeliver, err)

			assert.Equal(t, tc.wantBob, balance(t, db, bob.Address()))
		})
	}
}

func assertErr(t testing.TB, want *errors.Error, got error) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	assert.IsErr(t, want, got)
}

func TestSendMsgValidate(t *testing.T) {
	addr := custodytest.NewCondition().Address()
	msg := &SendMsg{Source: addr, Destination: nil, Amount: 0}
	err := msg.Validate()
	assert.FieldError(t, err, "Source", nil)
	assert.FieldError(t, err, "Destination", errors.ErrInput)
	assert.FieldError(t, err, "Amount", errors.ErrAmount)
}

func TestGenesis(t *testing.T) {
	alice := custodytest.NewCondition().Address()
	bob := custodytest.NewCondition().Address()

	genesis := `{"cash": [
		{"address": "` + alice.String() + `", "amount": 50},
		{"address": "` + bob.String() + `", "amount": "12"}
	]}`
	var opts custody.Options
	if err := json.Unmarshal([]byte(genesis), &opts); err != nil {
		t.Fatalf("cannot decode genesis: %s", err)
	}

	db := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))
	assert.Equal(t, coin.Amount(50), balance(t, db, alice))
	assert.Equal(t, coin.Amount(12), balance(t, db, bob))

	bad := custody.Options{"cash": json.RawMessage(`[{"address": "", "amount": 1}]`)}
	assert.IsErr(t, errors.ErrInput, Initializer{}.FromGenesis(bad, store.MemStore()))
}

func TestQueryWallets(t *testing.T) {
	db := store.MemStore()
	alice := custodytest.NewCondition().Address()
	assert.Nil(t, NewController(NewBucket()).IssueCoins(db, alice, 3))

	qr := custody.NewQueryRouter()
	RegisterQuery(qr)

	res, err := qr.Query(db, "/wallets", custody.KeyQueryMod, alice)
	assert.Nil(t, err)
	if len(res) != 1 {
		t.Fatalf("want one result, got %d", len(res))
	}
	var w Wallet
	assert.Nil(t, custody.Unmarshal(res[0].Value, &w))
	assert.Equal(t, coin.Amount(3), w.Amount)
}

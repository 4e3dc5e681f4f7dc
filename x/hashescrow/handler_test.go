package hashescrow

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x/cash"
)

type runner struct {
	*custodytest.Ledger
	t    testing.TB
	db   custody.CacheableKVStore
	bank cash.BaseController
}

func newRunner(t testing.TB) *runner {
	l := custodytest.NewLedger(t)
	r := &runner{
		Ledger: l,
		t:      t,
		db:     l.DB,
		bank:   cash.NewController(cash.NewBucket()),
	}
	RegisterRoutes(l, l.Auth, r.bank)
	return r
}

func (r *runner) deliver(height int64, signer custody.Condition, msg custody.Msg) error {
	r.t.Helper()
	_, err := r.Deliver(height, signer, msg)
	return err
}

func (r *runner) balance(a custody.Address) coin.Amount {
	r.t.Helper()
	amount, err := r.bank.Balance(r.db, a)
	assert.Nil(r.t, err)
	return amount
}

func (r *runner) state(id []byte) EscrowState {
	r.t.Helper()
	e, err := Status(r.db, id)
	assert.Nil(r.t, err)
	return e.State
}

func TestReleaseScenario(t *testing.T) {
	r := newRunner(t)
	depositor := custodytest.NewCondition()
	bene := custodytest.NewCondition()
	anyone := custodytest.NewCondition()
	assert.Nil(t, r.bank.IssueCoins(r.db, depositor.Address(), 40))

	id := []byte("swap-1")
	secret := []byte("correct horse battery staple")
	lock := &LockMsg{
		EscrowID:    id,
		Commitment:  VerifyBlake3.Commit(secret),
		Verifier:    VerifyBlake3,
		Amount:      25,
		Beneficiary: bene.Address(),
	}
	assert.Nil(t, r.deliver(1, depositor, lock))
	assert.Equal(t, EscrowLocked, r.state(id))
	assert.Equal(t, coin.Amount(25), r.balance(Condition(id).Address()))
	assert.Equal(t, coin.Amount(15), r.balance(depositor.Address()))

	assert.IsErr(t, errors.ErrInvalidProof, r.deliver(2, anyone, &ReleaseMsg{EscrowID: id, Proof: []byte("wrong")}))
	assert.IsErr(t, errors.ErrInvalidProof, r.deliver(2, anyone, &ReleaseMsg{EscrowID: id, Proof: lock.Commitment}))
	assert.Equal(t, EscrowLocked, r.state(id))

	// The proof can be presented by anybody, the funds go to the beneficiary.
	assert.Nil(t, r.deliver(3, nil, &ReleaseMsg{EscrowID: id, Proof: secret}))
	assert.Equal(t, coin.Amount(25), r.balance(bene.Address()))
	assert.Equal(t, coin.Amount(0), r.balance(Condition(id).Address()))

	e, err := Status(r.db, id)
	assert.Nil(t, err)
	assert.Equal(t, EscrowReleased, e.State)
	assert.Equal(t, int64(3), e.SettledAt)

	// Terminal.
	assert.IsErr(t, errors.ErrNotLocked, r.deliver(4, anyone, &ReleaseMsg{EscrowID: id, Proof: secret}))
	assert.IsErr(t, errors.ErrNotLocked, r.deliver(4, depositor, &RefundMsg{EscrowID: id}))
	assert.IsErr(t, errors.ErrAlreadyInitialized, r.deliver(4, depositor, lock))
	assert.Equal(t, coin.Amount(25), r.balance(bene.Address()))
	assert.Equal(t, coin.Amount(15), r.balance(depositor.Address()))
}

func TestRefund(t *testing.T) {
	depositor := custodytest.NewCondition()
	other := custodytest.NewCondition()
	secret := []byte("s3cret")

	cases := map[string]struct {
		refundHeight int64
		height       int64
		signer       custody.Condition
		wantErr      *errors.Error
	}{
		"any time without refund height": {
			height: 1,
			signer: depositor,
		},
		"at refund height": {
			refundHeight: 10,
			height:       10,
			signer:       depositor,
		},
		"before refund height": {
			refundHeight: 10,
			height:       9,
			signer:       depositor,
			wantErr:      errors.ErrPrematureCondition,
		},
		"not the depositor": {
			height:  5,
			signer:  other,
			wantErr: errors.ErrUnauthorized,
		},
		"not signed": {
			height:  5,
			wantErr: errors.ErrUnauthorized,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			r := newRunner(t)
			assert.Nil(t, r.bank.IssueCoins(r.db, depositor.Address(), 10))
			id := []byte("refundable")
			lock := &LockMsg{
				EscrowID:     id,
				Commitment:   VerifySHA256.Commit(secret),
				Verifier:     VerifySHA256,
				Amount:       10,
				Beneficiary:  other.Address(),
				RefundHeight: tc.refundHeight,
			}
			assert.Nil(t, r.deliver(1, depositor, lock))

			err := r.deliver(tc.height, tc.signer, &RefundMsg{EscrowID: id})
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				assert.Equal(t, EscrowLocked, r.state(id))
				assert.Equal(t, coin.Amount(0), r.balance(depositor.Address()))
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, EscrowRefunded, r.state(id))
			assert.Equal(t, coin.Amount(10), r.balance(depositor.Address()))
		})
	}
}

func TestReleaseAndRefundAreExclusive(t *testing.T) {
	depositor := custodytest.NewCondition()
	bene := custodytest.NewCondition()
	secret := []byte("exclusive")

	orders := map[string][]custody.Msg{
		"release first": {
			&ReleaseMsg{EscrowID: []byte("x"), Proof: secret},
			&RefundMsg{EscrowID: []byte("x")},
		},
		"refund first": {
			&RefundMsg{EscrowID: []byte("x")},
			&ReleaseMsg{EscrowID: []byte("x"), Proof: secret},
		},
	}
	for testName, msgs := range orders {
		t.Run(testName, func(t *testing.T) {
			r := newRunner(t)
			assert.Nil(t, r.bank.IssueCoins(r.db, depositor.Address(), 7))
			lock := &LockMsg{EscrowID: []byte("x"), Commitment: secret, Verifier: VerifyExact, Amount: 7, Beneficiary: bene.Address()}
			assert.Nil(t, r.deliver(1, depositor, lock))

			assert.Nil(t, r.deliver(2, depositor, msgs[0]))
			assert.IsErr(t, errors.ErrNotLocked, r.deliver(3, depositor, msgs[1]))

			// Whatever happened, the amount was paid out once.
			total := r.balance(depositor.Address()) + r.balance(bene.Address())
			assert.Equal(t, coin.Amount(7), total)
			assert.Equal(t, coin.Amount(0), r.balance(Condition([]byte("x")).Address()))
		})
	}
}

func TestRelockAlwaysFails(t *testing.T) {
	r := newRunner(t)
	depositor := custodytest.NewCondition()
	other := custodytest.NewCondition()
	assert.Nil(t, r.bank.IssueCoins(r.db, depositor.Address(), 50))
	assert.Nil(t, r.bank.IssueCoins(r.db, other.Address(), 50))

	id := []byte("once")
	commitment := VerifySHA256.Commit([]byte("first"))
	assert.Nil(t, r.deliver(1, depositor, &LockMsg{EscrowID: id, Commitment: commitment, Verifier: VerifySHA256, Amount: 10}))

	relocks := []*LockMsg{
		{EscrowID: id, Commitment: commitment, Verifier: VerifySHA256, Amount: 10},
		{EscrowID: id, Commitment: VerifyBlake3.Commit([]byte("second")), Verifier: VerifyBlake3, Amount: 1, Beneficiary: other.Address()},
		// Invalid arguments still report the escrow as taken.
		{EscrowID: id, Commitment: commitment, Verifier: VerifySHA256, Amount: 0},
		{EscrowID: id, Commitment: []byte("short"), Verifier: VerifySHA256, Amount: 10},
		{EscrowID: id, Commitment: commitment, Verifier: VerifySHA256, Amount: 10, RefundHeight: -1},
		{EscrowID: id, Commitment: commitment, Verifier: VerifySHA256, Amount: 10, Beneficiary: custody.Address("bad")},
	}
	for _, msg := range relocks {
		assert.IsErr(t, errors.ErrAlreadyInitialized, r.deliver(2, depositor, msg))
		assert.IsErr(t, errors.ErrAlreadyInitialized, r.deliver(2, other, msg))
	}

	e, err := Status(r.db, id)
	assert.Nil(t, err)
	assert.Equal(t, coin.Amount(10), e.Amount)
	assert.Equal(t, commitment, e.Commitment)
	assert.Equal(t, coin.Amount(10), r.balance(Condition(id).Address()))
	assert.Equal(t, coin.Amount(50), r.balance(other.Address()))

	holder, err := r.bank.Holder(r.db, Condition(id).Address())
	assert.Nil(t, err)
	assert.Equal(t, BucketName, holder)
}

func TestDeferredBinding(t *testing.T) {
	r := newRunner(t)
	depositor := custodytest.NewCondition()
	bene := custodytest.NewCondition()
	assert.Nil(t, r.bank.IssueCoins(r.db, depositor.Address(), 3))

	id := []byte("unbound")
	secret := []byte("later")
	lock := &LockMsg{EscrowID: id, Commitment: VerifySHA256.Commit(secret), Verifier: VerifySHA256, Amount: 3}
	assert.Nil(t, r.deliver(1, depositor, lock))

	release := &ReleaseMsg{EscrowID: id, Proof: secret}
	assert.IsErr(t, errors.ErrState, r.deliver(2, bene, release))

	bind := &BindMsg{EscrowID: id, Beneficiary: bene.Address()}
	assert.IsErr(t, errors.ErrUnauthorized, r.deliver(2, bene, bind))
	assert.Nil(t, r.deliver(2, depositor, bind))
	assert.IsErr(t, errors.ErrState, r.deliver(2, depositor, &BindMsg{EscrowID: id, Beneficiary: depositor.Address()}))

	assert.Nil(t, r.deliver(3, bene, release))
	assert.Equal(t, coin.Amount(3), r.balance(bene.Address()))
	assert.IsErr(t, errors.ErrUnauthorized, r.deliver(4, depositor, &BindMsg{EscrowID: []byte("missing"), Beneficiary: bene.Address()}))
	assert.IsErr(t, errors.ErrNotLocked, r.deliver(4, depositor, bind))
}

func TestLock(t *testing.T) {
	depositor := custodytest.NewCondition()

	cases := map[string]struct {
		msg     *LockMsg
		wantErr *errors.Error
	}{
		"exact commitment": {
			msg: &LockMsg{EscrowID: []byte("e"), Commitment: []byte("tx"), Verifier: VerifyExact, Amount: 1},
		},
		"short hash commitment": {
			msg:     &LockMsg{EscrowID: []byte("e"), Commitment: []byte("tx"), Verifier: VerifySHA256, Amount: 1},
			wantErr: errors.ErrInput,
		},
		"missing commitment": {
			msg:     &LockMsg{EscrowID: []byte("e"), Verifier: VerifyExact, Amount: 1},
			wantErr: errors.ErrEmpty,
		},
		"commitment above configured limit": {
			msg:     &LockMsg{EscrowID: []byte("e"), Commitment: make([]byte, 33), Verifier: VerifyExact, Amount: 1},
			wantErr: errors.ErrInput,
		},
		"insufficient funds": {
			msg:     &LockMsg{EscrowID: []byte("e"), Commitment: []byte("tx"), Verifier: VerifyExact, Amount: 6},
			wantErr: errors.ErrInsufficientFunds,
		},
		"negative refund height": {
			msg:     &LockMsg{EscrowID: []byte("e"), Commitment: []byte("tx"), Verifier: VerifyExact, Amount: 1, RefundHeight: -1},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			r := newRunner(t)
			opts := custody.Options{
				"conf": json.RawMessage(`{"hashescrow": {"max_commitment_length": 32}}`),
			}
			assert.Nil(t, Initializer{}.FromGenesis(opts, r.db))
			assert.Nil(t, r.bank.IssueCoins(r.db, depositor.Address(), 5))

			err := r.deliver(1, depositor, tc.msg)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				assert.Equal(t, EscrowEmpty, r.state(tc.msg.EscrowID))
				assert.Equal(t, coin.Amount(5), r.balance(depositor.Address()))
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, EscrowLocked, r.state(tc.msg.EscrowID))
		})
	}
}

func TestConfigurationValidation(t *testing.T) {
	bad := custody.Options{
		"conf": json.RawMessage(`{"hashescrow": {"max_commitment_length": 8}}`),
	}
	assert.IsErr(t, errors.ErrInput, Initializer{}.FromGenesis(bad, store.MemStore()))
	assert.Nil(t, Initializer{}.FromGenesis(custody.Options{}, store.MemStore()))
}

func TestStatusOfUnknownEscrow(t *testing.T) {
	e, err := Status(store.MemStore(), []byte("never-used"))
	assert.Nil(t, err)
	assert.Equal(t, &Escrow{State: EscrowEmpty}, e)
}

func TestQueryEscrows(t *testing.T) {
	r := newRunner(t)
	depositor := custodytest.NewCondition()
	assert.Nil(t, r.bank.IssueCoins(r.db, depositor.Address(), 2))
	assert.Nil(t, r.deliver(1, depositor, &LockMsg{EscrowID: []byte("q"), Commitment: []byte("c"), Amount: 2}))

	qr := custody.NewQueryRouter()
	RegisterQuery(qr)
	res, err := qr.Query(r.db, "/escrows", "", []byte("q"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))

	var e Escrow
	assert.Nil(t, custody.Unmarshal(res[0].Value, &e))
	assert.Equal(t, depositor.Address(), e.Depositor)
}

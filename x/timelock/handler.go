package timelock

import (
	"context"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/cash"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r custody.Registry, auth x.Authenticator, bank cash.CustodyBank) {
	bucket := NewBucket()
	r.Handle(&LockMsg{}, LockHandler{auth: auth, bucket: bucket, bank: bank})
	r.Handle(&WithdrawMsg{}, WithdrawHandler{auth: auth, bucket: bucket, bank: bank})
	r.Handle(&BestowMsg{}, BestowHandler{auth: auth, bucket: bucket})
}

// LockHandler creates a wallet and deposits the funds into it.
type LockHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	bank   cash.CustodyBank
}

var _ custody.Handler = LockHandler{}

func (h LockHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver stores a locked wallet and moves the funds of the signer to the
// wallet account. The result data is the wallet account address.
func (h LockHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, owner, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	height, _ := custody.GetHeight(ctx)

	w := &Wallet{
		Owner:        owner,
		Beneficiary:  msg.Beneficiary,
		Amount:       msg.Amount,
		UnlockHeight: msg.UnlockHeight,
		State:        WalletLocked,
		Address:      Condition(msg.WalletID).Address(),
		LockedAt:     height,
	}
	if err := h.bank.Reserve(db, w.Address, BucketName); err != nil {
		return nil, err
	}
	if err := h.bank.MoveCoins(db, owner, w.Address, w.Amount); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	if err := h.bucket.Put(db, msg.WalletID, w); err != nil {
		return nil, errors.Wrap(err, "cannot store wallet")
	}

	custody.GetLogger(ctx).Info("wallet locked",
		"wallet", string(msg.WalletID), "amount", w.Amount, "unlock_height", w.UnlockHeight)
	return &custody.DeliverResult{Data: w.Address}, nil
}

func (h LockHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*LockMsg, custody.Address, error) {
	var msg LockMsg
	if err := custody.DecodeMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	height, err := x.BlockHeight(ctx)
	if err != nil {
		return nil, nil, err
	}
	// A locked wallet refuses any lock, whatever its arguments.
	w, err := Status(db, msg.WalletID)
	if err != nil {
		return nil, nil, err
	}
	if err := CanLock(w, height, msg.UnlockHeight); err != nil {
		return nil, nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid message")
	}
	owner, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, owner, nil
}

// WithdrawHandler releases an unlocked wallet to its beneficiary.
type WithdrawHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	bank   cash.CoinMover
}

var _ custody.Handler = WithdrawHandler{}

func (h WithdrawHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h WithdrawHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, w, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	height, _ := custody.GetHeight(ctx)

	if err := h.bank.MoveCoins(db, w.Address, w.Beneficiary, w.Amount); err != nil {
		return nil, errors.Wrap(err, "withdraw")
	}
	w.State = WalletWithdrawn
	w.WithdrawnAt = height
	if err := h.bucket.Put(db, msg.WalletID, w); err != nil {
		return nil, errors.Wrap(err, "cannot store wallet")
	}

	custody.GetLogger(ctx).Info("wallet withdrawn",
		"wallet", string(msg.WalletID), "beneficiary", w.Beneficiary, "amount", w.Amount)
	return &custody.DeliverResult{}, nil
}

func (h WithdrawHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*WithdrawMsg, *Wallet, error) {
	var msg WithdrawMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	height, err := x.BlockHeight(ctx)
	if err != nil {
		return nil, nil, err
	}
	w, err := Status(db, msg.WalletID)
	if err != nil {
		return nil, nil, err
	}
	if err := CanWithdraw(w, caller, height); err != nil {
		return nil, nil, err
	}
	return &msg, w, nil
}

// BestowHandler changes the beneficiary of a locked wallet.
type BestowHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ custody.Handler = BestowHandler{}

func (h BestowHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h BestowHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, w, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	prev := w.Beneficiary
	w.Beneficiary = msg.Beneficiary
	if err := h.bucket.Put(db, msg.WalletID, w); err != nil {
		return nil, errors.Wrap(err, "cannot store wallet")
	}

	custody.GetLogger(ctx).Info("wallet bestowed",
		"wallet", string(msg.WalletID), "from", prev, "to", w.Beneficiary)
	return &custody.DeliverResult{}, nil
}

func (h BestowHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*BestowMsg, *Wallet, error) {
	var msg BestowMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	w, err := Status(db, msg.WalletID)
	if err != nil {
		return nil, nil, err
	}
	if err := CanBestow(w, caller); err != nil {
		return nil, nil, err
	}
	return &msg, w, nil
}

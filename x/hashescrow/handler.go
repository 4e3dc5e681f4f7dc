package hashescrow

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
	r.Handle(&BindMsg{}, BindHandler{auth: auth, bucket: bucket})
	r.Handle(&ReleaseMsg{}, ReleaseHandler{bucket: bucket, bank: bank})
	r.Handle(&RefundMsg{}, RefundHandler{auth: auth, bucket: bucket, bank: bank})
}

// LockHandler creates an escrow and deposits the funds into it.
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

// Deliver stores a locked escrow. The result data is the escrow account
// address.
func (h LockHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, depositor, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	height, _ := custody.GetHeight(ctx)

	e := &Escrow{
		Depositor:    depositor,
		Beneficiary:  msg.Beneficiary,
		Amount:       msg.Amount,
		Commitment:   msg.Commitment,
		Verifier:     msg.Verifier,
		RefundHeight: msg.RefundHeight,
		State:        EscrowLocked,
		Address:      Condition(msg.EscrowID).Address(),
		LockedAt:     height,
	}
	if err := h.bank.Reserve(db, e.Address, BucketName); err != nil {
		return nil, err
	}
	if err := h.bank.MoveCoins(db, depositor, e.Address, e.Amount); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	if err := h.bucket.Put(db, msg.EscrowID, e); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}

	custody.GetLogger(ctx).Info("escrow locked",
		"escrow", string(msg.EscrowID), "amount", e.Amount, "verifier", e.Verifier.String())
	return &custody.DeliverResult{Data: e.Address}, nil
}

func (h LockHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*LockMsg, custody.Address, error) {
	var msg LockMsg
	if err := custody.DecodeMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	// A used escrow refuses any lock, whatever its arguments.
	e, err := Status(db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if err := CanLock(e); err != nil {
		return nil, nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid message")
	}
	depositor, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if err := msg.Verifier.ValidateCommitment(msg.Commitment, conf.MaxCommitmentLength); err != nil {
		return nil, nil, errors.Field("Commitment", err, "")
	}
	return &msg, depositor, nil
}

// BindHandler sets the beneficiary of an escrow.
type BindHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ custody.Handler = BindHandler{}

func (h BindHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h BindHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, e, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	e.Beneficiary = msg.Beneficiary
	if err := h.bucket.Put(db, msg.EscrowID, e); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}

	custody.GetLogger(ctx).Info("escrow bound",
		"escrow", string(msg.EscrowID), "beneficiary", e.Beneficiary)
	return &custody.DeliverResult{}, nil
}

func (h BindHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*BindMsg, *Escrow, error) {
	var msg BindMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	e, err := Status(db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if err := CanBind(e, caller); err != nil {
		return nil, nil, err
	}
	return &msg, e, nil
}

// ReleaseHandler pays the beneficiary to whoever presents a valid proof.
type ReleaseHandler struct {
	bucket orm.ModelBucket
	bank   cash.CoinMover
}

var _ custody.Handler = ReleaseHandler{}

func (h ReleaseHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h ReleaseHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, e, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	height, _ := custody.GetHeight(ctx)

	if err := h.bank.MoveCoins(db, e.Address, e.Beneficiary, e.Amount); err != nil {
		return nil, errors.Wrap(err, "release")
	}
	e.State = EscrowReleased
	e.SettledAt = height
	if err := h.bucket.Put(db, msg.EscrowID, e); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}

	custody.GetLogger(ctx).Info("escrow released",
		"escrow", string(msg.EscrowID), "beneficiary", e.Beneficiary, "amount", e.Amount)
	return &custody.DeliverResult{}, nil
}

func (h ReleaseHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*ReleaseMsg, *Escrow, error) {
	var msg ReleaseMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	e, err := Status(db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if err := CanRelease(e, msg.Proof); err != nil {
		return nil, nil, err
	}
	return &msg, e, nil
}

// RefundHandler returns the funds to the depositor.
type RefundHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	bank   cash.CoinMover
}

var _ custody.Handler = RefundHandler{}

func (h RefundHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h RefundHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, e, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	height, _ := custody.GetHeight(ctx)

	if err := h.bank.MoveCoins(db, e.Address, e.Depositor, e.Amount); err != nil {
		return nil, errors.Wrap(err, "refund")
	}
	e.State = EscrowRefunded
	e.SettledAt = height
	if err := h.bucket.Put(db, msg.EscrowID, e); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}

	custody.GetLogger(ctx).Info("escrow refunded",
		"escrow", string(msg.EscrowID), "depositor", e.Depositor, "amount", e.Amount)
	return &custody.DeliverResult{}, nil
}

func (h RefundHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*RefundMsg, *Escrow, error) {
	var msg RefundMsg
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
	e, err := Status(db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if err := CanRefund(e, caller, height); err != nil {
		return nil, nil, err
	}
	return &msg, e, nil
}

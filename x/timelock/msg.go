package timelock

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
)

func init() {
	custody.RegisterMsg((*LockMsg)(nil), "timelock/lock")
	custody.RegisterMsg((*WithdrawMsg)(nil), "timelock/withdraw")
	custody.RegisterMsg((*BestowMsg)(nil), "timelock/bestow")
}

// LockMsg moves Amount from the signer into the wallet, releasable to
// Beneficiary at UnlockHeight.
type LockMsg struct {
	WalletID     []byte          `json:"wallet_id"`
	Beneficiary  custody.Address `json:"beneficiary"`
	UnlockHeight int64           `json:"unlock_height"`
	Amount       coin.Amount     `json:"amount"`
}

var _ custody.Msg = (*LockMsg)(nil)

func (LockMsg) Path() string {
	return "timelock/lock"
}

func (m *LockMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "WalletID", custody.ValidateID(m.WalletID))
	errs = errors.AppendField(errs, "Beneficiary", m.Beneficiary.Validate())
	errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	if m.UnlockHeight <= 0 {
		errs = errors.Append(errs, errors.Field("UnlockHeight", errors.ErrInput, "must be positive"))
	}
	return errs
}

// WithdrawMsg releases the funds of an unlocked wallet to its beneficiary.
type WithdrawMsg struct {
	WalletID []byte `json:"wallet_id"`
}

var _ custody.Msg = (*WithdrawMsg)(nil)

func (WithdrawMsg) Path() string {
	return "timelock/withdraw"
}

func (m *WithdrawMsg) Validate() error {
	return errors.Field("WalletID", custody.ValidateID(m.WalletID), "")
}

// BestowMsg hands the claim on a locked wallet to a new beneficiary.
type BestowMsg struct {
	WalletID    []byte          `json:"wallet_id"`
	Beneficiary custody.Address `json:"beneficiary"`
}

var _ custody.Msg = (*BestowMsg)(nil)

func (BestowMsg) Path() string {
	return "timelock/bestow"
}

func (m *BestowMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "WalletID", custody.ValidateID(m.WalletID))
	errs = errors.AppendField(errs, "Beneficiary", m.Beneficiary.Validate())
	return errs
}

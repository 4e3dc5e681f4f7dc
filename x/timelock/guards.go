package timelock

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// CanLock returns nil if a wallet in given state can be locked at height
// until unlockHeight.
func CanLock(w *Wallet, height, unlockHeight int64) error {
	if w.State != WalletEmpty {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "wallet is %s", w.State)
	}
	if unlockHeight <= height {
		return errors.Wrapf(errors.ErrPastUnlockHeight, "unlock height %d, current height %d", unlockHeight, height)
	}
	return nil
}

// CanWithdraw returns nil if caller may take the funds out of the wallet
// at given height.
func CanWithdraw(w *Wallet, caller custody.Address, height int64) error {
	if !caller.Equals(w.Beneficiary) || len(caller) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "beneficiary only")
	}
	if height < w.UnlockHeight {
		return errors.Wrapf(errors.ErrPrematureCondition, "unlock height %d, current height %d", w.UnlockHeight, height)
	}
	if w.State != WalletLocked {
		return errors.Wrapf(errors.ErrNotLocked, "wallet is %s", w.State)
	}
	return nil
}

// CanBestow returns nil if caller may hand the claim over to another
// beneficiary.
func CanBestow(w *Wallet, caller custody.Address) error {
	if !caller.Equals(w.Beneficiary) || len(caller) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "beneficiary only")
	}
	if w.State != WalletLocked {
		return errors.Wrapf(errors.ErrNotLocked, "wallet is %s", w.State)
	}
	return nil
}

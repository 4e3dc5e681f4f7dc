package hashescrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// CanLock returns nil if the escrow was never used.
func CanLock(e *Escrow) error {
	if e.State != EscrowEmpty {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "escrow is %s", e.State)
	}
	return nil
}

// CanBind returns nil if caller may set the beneficiary.
func CanBind(e *Escrow, caller custody.Address) error {
	if !caller.Equals(e.Depositor) || len(caller) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "depositor only")
	}
	if e.State != EscrowLocked {
		return errors.Wrapf(errors.ErrNotLocked, "escrow is %s", e.State)
	}
	if len(e.Beneficiary) != 0 {
		return errors.Wrap(errors.ErrState, "beneficiary already bound")
	}
	return nil
}

// CanRelease returns nil if proof opens the escrow. Anyone may present it.
func CanRelease(e *Escrow, proof []byte) error {
	if !e.Verifier.Match(e.Commitment, proof) {
		return errors.Wrapf(errors.ErrInvalidProof, "%s verifier", e.Verifier)
	}
	if e.State != EscrowLocked {
		return errors.Wrapf(errors.ErrNotLocked, "escrow is %s", e.State)
	}
	if len(e.Beneficiary) == 0 {
		return errors.Wrap(errors.ErrState, "no beneficiary bound")
	}
	return nil
}

// CanRefund returns nil if caller may take the funds back at given height.
func CanRefund(e *Escrow, caller custody.Address, height int64) error {
	if !caller.Equals(e.Depositor) || len(caller) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "depositor only")
	}
	if e.State != EscrowLocked {
		return errors.Wrapf(errors.ErrNotLocked, "escrow is %s", e.State)
	}
	if e.RefundHeight > 0 && height < e.RefundHeight {
		return errors.Wrapf(errors.ErrPrematureCondition, "refund height %d, current height %d", e.RefundHeight, height)
	}
	return nil
}

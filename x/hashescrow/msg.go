package hashescrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
)

func init() {
	custody.RegisterMsg((*LockMsg)(nil), "hashescrow/lock")
	custody.RegisterMsg((*BindMsg)(nil), "hashescrow/bind")
	custody.RegisterMsg((*ReleaseMsg)(nil), "hashescrow/release")
	custody.RegisterMsg((*RefundMsg)(nil), "hashescrow/refund")
}

// LockMsg moves Amount from the signer into the escrow. Beneficiary and
// RefundHeight are optional.
type LockMsg struct {
	EscrowID     []byte          `json:"escrow_id"`
	Commitment   []byte          `json:"commitment"`
	Verifier     Verifier        `json:"verifier"`
	Amount       coin.Amount     `json:"amount"`
	Beneficiary  custody.Address `json:"beneficiary,omitempty"`
	RefundHeight int64           `json:"refund_height,omitempty"`
}

var _ custody.Msg = (*LockMsg)(nil)

func (LockMsg) Path() string {
	return "hashescrow/lock"
}

func (m *LockMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "EscrowID", custody.ValidateID(m.EscrowID))
	errs = errors.AppendField(errs, "Commitment", m.Verifier.ValidateCommitment(m.Commitment, ^uint32(0)))
	errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	if len(m.Beneficiary) > 0 {
		errs = errors.AppendField(errs, "Beneficiary", m.Beneficiary.Validate())
	}
	if m.RefundHeight < 0 {
		errs = errors.Append(errs, errors.Field("RefundHeight", errors.ErrInput, "negative"))
	}
	return errs
}

// BindMsg sets the beneficiary of an escrow locked without one.
type BindMsg struct {
	EscrowID    []byte          `json:"escrow_id"`
	Beneficiary custody.Address `json:"beneficiary"`
}

var _ custody.Msg = (*BindMsg)(nil)

func (BindMsg) Path() string {
	return "hashescrow/bind"
}

func (m *BindMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "EscrowID", custody.ValidateID(m.EscrowID))
	errs = errors.AppendField(errs, "Beneficiary", m.Beneficiary.Validate())
	return errs
}

// ReleaseMsg opens the escrow commitment and pays the beneficiary.
type ReleaseMsg struct {
	EscrowID []byte `json:"escrow_id"`
	Proof    []byte `json:"proof"`
}

var _ custody.Msg = (*ReleaseMsg)(nil)

func (ReleaseMsg) Path() string {
	return "hashescrow/release"
}

func (m *ReleaseMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "EscrowID", custody.ValidateID(m.EscrowID))
	if len(m.Proof) == 0 {
		errs = errors.Append(errs, errors.Field("Proof", errors.ErrEmpty, "required"))
	}
	return errs
}

// RefundMsg returns the funds of a locked escrow to the depositor.
type RefundMsg struct {
	EscrowID []byte `json:"escrow_id"`
}

var _ custody.Msg = (*RefundMsg)(nil)

func (RefundMsg) Path() string {
	return "hashescrow/refund"
}

func (m *RefundMsg) Validate() error {
	return errors.Field("EscrowID", custody.ValidateID(m.EscrowID), "")
}

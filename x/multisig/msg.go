package multisig

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
)

func init() {
	custody.RegisterMsg((*StartMsg)(nil), "multisig/start")
	custody.RegisterMsg((*DepositMsg)(nil), "multisig/deposit")
	custody.RegisterMsg((*ProposeMsg)(nil), "multisig/propose")
	custody.RegisterMsg((*VoteMsg)(nil), "multisig/vote")
	custody.RegisterMsg((*ExecuteMsg)(nil), "multisig/execute")
}

// StartMsg initializes a vault.
type StartMsg struct {
	VaultID         []byte            `json:"vault_id"`
	Members         []custody.Address `json:"members"`
	VotesRequired   uint32            `json:"votes_required"`
	Execution       ExecutionMode     `json:"execution"`
	RecordLateVotes bool              `json:"record_late_votes"`
}

var _ custody.Msg = (*StartMsg)(nil)

func (StartMsg) Path() string {
	return "multisig/start"
}

func (m *StartMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "VaultID", custody.ValidateID(m.VaultID))
	if _, err := custody.NewAddressSet(m.Members...); err != nil {
		errs = errors.AppendField(errs, "Members", err)
	}
	if err := validThreshold(m.VotesRequired, len(m.Members)); err != nil {
		errs = errors.AppendField(errs, "VotesRequired", err)
	}
	errs = errors.AppendField(errs, "Execution", m.Execution.Validate())
	return errs
}

// DepositMsg moves funds of the signer into the vault.
type DepositMsg struct {
	VaultID []byte      `json:"vault_id"`
	Amount  coin.Amount `json:"amount"`
}

var _ custody.Msg = (*DepositMsg)(nil)

func (DepositMsg) Path() string {
	return "multisig/deposit"
}

func (m *DepositMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "VaultID", custody.ValidateID(m.VaultID))
	errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	return errs
}

// ProposeMsg creates a proposal to pay out of the vault.
type ProposeMsg struct {
	VaultID []byte `json:"vault_id"`
	Action  Action `json:"action"`
}

var _ custody.Msg = (*ProposeMsg)(nil)

func (ProposeMsg) Path() string {
	return "multisig/propose"
}

func (m *ProposeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "VaultID", custody.ValidateID(m.VaultID))
	errs = errors.AppendField(errs, "Action", m.Action.Validate())
	return errs
}

// VoteMsg approves a proposal on behalf of the signing member.
type VoteMsg struct {
	VaultID    []byte `json:"vault_id"`
	ProposalID uint64 `json:"proposal_id"`
}

var _ custody.Msg = (*VoteMsg)(nil)

func (VoteMsg) Path() string {
	return "multisig/vote"
}

func (m *VoteMsg) Validate() error {
	return errors.Field("VaultID", custody.ValidateID(m.VaultID), "")
}

// ExecuteMsg pays out an approved proposal of an explicitly executed
// vault.
type ExecuteMsg struct {
	VaultID    []byte `json:"vault_id"`
	ProposalID uint64 `json:"proposal_id"`
}

var _ custody.Msg = (*ExecuteMsg)(nil)

func (ExecuteMsg) Path() string {
	return "multisig/execute"
}

func (m *ExecuteMsg) Validate() error {
	return errors.Field("VaultID", custody.ValidateID(m.VaultID), "")
}

package multisig

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// ExecutionMode decides when an approved proposal pays out.
type ExecutionMode int32

const (
	// ExecuteOnQuorum pays out as part of the vote that reaches the
	// required number of votes.
	ExecuteOnQuorum ExecutionMode = iota
	// ExecuteExplicitly only records votes. A member must send an
	// ExecuteMsg once the quorum is reached.
	ExecuteExplicitly
)

func (m ExecutionMode) String() string {
	switch m {
	case ExecuteOnQuorum:
		return "on_quorum"
	case ExecuteExplicitly:
		return "explicit"
	default:
		return "unknown"
	}
}

// ParseExecutionMode returns the mode with given name.
func ParseExecutionMode(name string) (ExecutionMode, error) {
	switch name {
	case "on_quorum", "":
		return ExecuteOnQuorum, nil
	case "explicit":
		return ExecuteExplicitly, nil
	default:
		return 0, errors.ErrInput.Newf("unknown execution mode %q", name)
	}
}

// Validate returns an error for unknown modes.
func (m ExecutionMode) Validate() error {
	switch m {
	case ExecuteOnQuorum, ExecuteExplicitly:
		return nil
	default:
		return errors.ErrInput.Newf("unknown execution mode %d", m)
	}
}

// Vault is a shared account controlled by the votes of its members.
type Vault struct {
	Members         custody.AddressSet `json:"members"`
	VotesRequired   uint32             `json:"votes_required"`
	Balance         coin.Amount        `json:"balance"`
	ProposalCount   uint64             `json:"proposal_count"`
	Execution       ExecutionMode      `json:"execution"`
	RecordLateVotes bool               `json:"record_late_votes"`
	Address         custody.Address    `json:"address"`
	Creator         custody.Address    `json:"creator"`
	StartedAt       int64              `json:"started_at"`
}

var _ orm.Model = (*Vault)(nil)

// Started returns true if the vault was initialized. The zero value is a
// vault that was never started.
func (v *Vault) Started() bool {
	return len(v.Members) > 0
}

// IsMember returns true if given address belongs to the vault members.
func (v *Vault) IsMember(a custody.Address) bool {
	return len(a) > 0 && v.Members.Contains(a)
}

func (v *Vault) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Members", v.Members.Validate())
	if err := validThreshold(v.VotesRequired, v.Members.Len()); err != nil {
		errs = errors.AppendField(errs, "VotesRequired", err)
	}
	errs = errors.AppendField(errs, "Execution", v.Execution.Validate())
	errs = errors.AppendField(errs, "Address", v.Address.Validate())
	errs = errors.AppendField(errs, "Creator", v.Creator.Validate())
	return errs
}

func validThreshold(required uint32, members int) error {
	if required == 0 || int(required) > members {
		return errors.Wrapf(errors.ErrInvalidThreshold, "%d of %d votes", required, members)
	}
	return nil
}

// Action is the payout a proposal makes when executed.
type Action struct {
	Recipient custody.Address `json:"recipient"`
	Amount    coin.Amount     `json:"amount"`
}

func (a Action) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Recipient", a.Recipient.Validate())
	errs = errors.AppendField(errs, "Amount", a.Amount.Validate())
	return errs
}

// Proposal is a payout request of a member, waiting for votes.
type Proposal struct {
	ID         uint64             `json:"id"`
	Proposer   custody.Address    `json:"proposer"`
	Action     Action             `json:"action"`
	Votes      custody.AddressSet `json:"votes"`
	Executed   bool               `json:"executed"`
	CreatedAt  int64              `json:"created_at"`
	ExecutedAt int64              `json:"executed_at,omitempty"`
}

var _ orm.Model = (*Proposal)(nil)

func (p *Proposal) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Proposer", p.Proposer.Validate())
	errs = errors.AppendField(errs, "Action", p.Action.Validate())
	errs = errors.AppendField(errs, "Votes", p.Votes.Validate())
	if !p.Executed && p.ExecutedAt != 0 {
		errs = errors.Append(errs, errors.Field("ExecutedAt", errors.ErrState, "not executed"))
	}
	return errs
}

// Ballot counts the votes a member cast within a vault.
type Ballot struct {
	Votes uint64 `json:"votes"`
}

var _ orm.Model = (*Ballot)(nil)

func (b *Ballot) Validate() error {
	if b.Votes == 0 {
		return errors.Wrap(errors.ErrEmpty, "no votes")
	}
	return nil
}

// Condition returns the condition controlling the custody account of the
// vault with given identifier.
func Condition(id []byte) custody.Condition {
	return custody.NewCondition("multisig", "vault", id)
}

// NewVaultBucket returns a bucket storing vaults by their identifier.
func NewVaultBucket() orm.ModelBucket {
	return orm.NewModelBucket("vault", &Vault{})
}

// NewProposalBucket returns a bucket storing proposals under
// ProposalKey(vaultID, proposalID).
func NewProposalBucket() orm.ModelBucket {
	return orm.NewModelBucket("proposal", &Proposal{})
}

// NewBallotBucket returns a bucket storing ballots under
// BallotKey(vaultID, member).
func NewBallotBucket() orm.ModelBucket {
	return orm.NewModelBucket("ballot", &Ballot{})
}

// ProposalKey is the key of a proposal within the proposal bucket. The
// separator cannot be part of a vault identifier, so the keys of a single
// vault share the prefix ProposalPrefix(vaultID).
func ProposalKey(vaultID []byte, proposalID uint64) []byte {
	return append(ProposalPrefix(vaultID), custody.SequenceID(proposalID)...)
}

// ProposalPrefix is the key prefix shared by all proposals of a vault.
func ProposalPrefix(vaultID []byte) []byte {
	key := make([]byte, 0, len(vaultID)+9)
	key = append(key, vaultID...)
	return append(key, '|')
}

// BallotKey is the key of the ballot of a member within the ballot bucket.
func BallotKey(vaultID []byte, member custody.Address) []byte {
	key := make([]byte, 0, len(vaultID)+1+len(member))
	key = append(key, vaultID...)
	key = append(key, '|')
	return append(key, member...)
}

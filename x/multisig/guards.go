package multisig

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// CanStart returns nil if a vault in given state can be started with given
// members and threshold.
func CanStart(v *Vault, members custody.AddressSet, votesRequired uint32, conf *Configuration) error {
	if err := CanInitialize(v); err != nil {
		return err
	}
	if err := validThreshold(votesRequired, members.Len()); err != nil {
		return err
	}
	if uint32(members.Len()) > conf.MaxMembers {
		return errors.Wrapf(errors.ErrInput, "%d members, at most %d allowed", members.Len(), conf.MaxMembers)
	}
	return nil
}

// CanInitialize returns nil if the vault was never started.
func CanInitialize(v *Vault) error {
	if v.Started() {
		return errors.Wrap(errors.ErrAlreadyInitialized, "vault already started")
	}
	return nil
}

// CanDeposit returns nil if the vault accepts deposits.
func CanDeposit(v *Vault) error {
	if !v.Started() {
		return errors.Wrap(errors.ErrNotFound, "vault not started")
	}
	return nil
}

// CanPropose returns nil if caller may create a proposal.
func CanPropose(v *Vault, caller custody.Address) error {
	if !v.Started() {
		return errors.Wrap(errors.ErrNotFound, "vault not started")
	}
	if !v.IsMember(caller) {
		return errors.Wrap(errors.ErrUnauthorized, "members only")
	}
	return nil
}

// CanVote returns nil if caller may vote on the proposal. A nil proposal
// stands for an identifier that was never assigned.
func CanVote(v *Vault, p *Proposal, caller custody.Address) error {
	if !v.Started() {
		return errors.Wrap(errors.ErrNotFound, "vault not started")
	}
	if !v.IsMember(caller) {
		return errors.Wrap(errors.ErrUnauthorized, "members only")
	}
	if p == nil {
		return errors.ErrUnknownProposal
	}
	if p.Votes.Contains(caller) {
		return errors.Wrapf(errors.ErrAlreadyVoted, "proposal %d", p.ID)
	}
	if p.Executed && !v.RecordLateVotes {
		return errors.Wrapf(errors.ErrAlreadyExecuted, "proposal %d", p.ID)
	}
	return nil
}

// QuorumReached returns true if the proposal gathered enough votes.
func QuorumReached(v *Vault, p *Proposal) bool {
	return uint32(p.Votes.Len()) >= v.VotesRequired
}

// ShouldExecute returns true if the proposal must pay out now, as part of
// the vote that was just recorded.
func ShouldExecute(v *Vault, p *Proposal) bool {
	return v.Execution == ExecuteOnQuorum && !p.Executed && QuorumReached(v, p)
}

// CanExecute returns nil if caller may trigger the payout of the proposal
// of an explicitly executed vault.
func CanExecute(v *Vault, p *Proposal, caller custody.Address) error {
	if !v.Started() {
		return errors.Wrap(errors.ErrNotFound, "vault not started")
	}
	if !v.IsMember(caller) {
		return errors.Wrap(errors.ErrUnauthorized, "members only")
	}
	if v.Execution != ExecuteExplicitly {
		return errors.Wrap(errors.ErrState, "vault executes on quorum")
	}
	if p == nil {
		return errors.ErrUnknownProposal
	}
	if p.Executed {
		return errors.Wrapf(errors.ErrAlreadyExecuted, "proposal %d", p.ID)
	}
	if !QuorumReached(v, p) {
		return errors.Wrapf(errors.ErrThresholdNotMet, "%d of %d votes", p.Votes.Len(), v.VotesRequired)
	}
	return nil
}

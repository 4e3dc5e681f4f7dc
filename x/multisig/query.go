package multisig

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// RegisterQuery registers the vault, proposal and ballot buckets as
// "/vaults", "/proposals" and "/ballots".
func RegisterQuery(qr custody.QueryRouter) {
	NewVaultBucket().Register("/vaults", qr)
	NewProposalBucket().Register("/proposals", qr)
	NewBallotBucket().Register("/ballots", qr)
}

// Status returns the vault with given identifier. A vault that was never
// started is returned as a zero value.
func Status(db custody.ReadOnlyKVStore, id []byte) (*Vault, error) {
	var v Vault
	switch err := NewVaultBucket().One(db, id, &v); {
	case err == nil:
		return &v, nil
	case errors.ErrNotFound.Is(err):
		return &Vault{}, nil
	default:
		return nil, err
	}
}

// loadProposal returns nil without an error if there is no such proposal.
func loadProposal(db custody.ReadOnlyKVStore, vaultID []byte, proposalID uint64) (*Proposal, error) {
	var p Proposal
	switch err := NewProposalBucket().One(db, ProposalKey(vaultID, proposalID), &p); {
	case err == nil:
		return &p, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// GetProposal returns the proposal or ErrUnknownProposal.
func GetProposal(db custody.ReadOnlyKVStore, vaultID []byte, proposalID uint64) (*Proposal, error) {
	p, err := loadProposal(db, vaultID, proposalID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.Wrapf(errors.ErrUnknownProposal, "proposal %d", proposalID)
	}
	return p, nil
}

// VoteCount returns the number of distinct members that voted on the
// proposal. Unknown proposals have no votes.
func VoteCount(db custody.ReadOnlyKVStore, vaultID []byte, proposalID uint64) (int, error) {
	p, err := loadProposal(db, vaultID, proposalID)
	if err != nil || p == nil {
		return 0, err
	}
	return p.Votes.Len(), nil
}

// HasVoted returns true if member voted on the proposal.
func HasVoted(db custody.ReadOnlyKVStore, vaultID []byte, proposalID uint64, member custody.Address) (bool, error) {
	p, err := loadProposal(db, vaultID, proposalID)
	if err != nil || p == nil {
		return false, err
	}
	return p.Votes.Contains(member), nil
}

// VotesCast returns the number of proposals of the vault member voted on.
func VotesCast(db custody.ReadOnlyKVStore, vaultID []byte, member custody.Address) (uint64, error) {
	var b Ballot
	switch err := NewBallotBucket().One(db, BallotKey(vaultID, member), &b); {
	case err == nil:
		return b.Votes, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// Members returns the members of the vault. Empty if never started.
func Members(db custody.ReadOnlyKVStore, vaultID []byte) (custody.AddressSet, error) {
	v, err := Status(db, vaultID)
	if err != nil {
		return nil, err
	}
	return v.Members, nil
}

// Proposals returns all proposals of the vault, ordered by identifier.
func Proposals(db custody.ReadOnlyKVStore, vaultID []byte) ([]*Proposal, error) {
	var (
		res []*Proposal
		p   Proposal
	)
	err := NewProposalBucket().Iterate(db, ProposalPrefix(vaultID), &p, func([]byte) error {
		cp := p
		res = append(res, &cp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

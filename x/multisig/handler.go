package multisig

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
	b := buckets{
		vaults:    NewVaultBucket(),
		proposals: NewProposalBucket(),
		ballots:   NewBallotBucket(),
	}
	r.Handle(&StartMsg{}, StartHandler{auth: auth, b: b, bank: bank})
	r.Handle(&DepositMsg{}, DepositHandler{auth: auth, b: b, bank: bank})
	r.Handle(&ProposeMsg{}, ProposeHandler{auth: auth, b: b})
	r.Handle(&VoteMsg{}, VoteHandler{auth: auth, b: b, bank: bank})
	r.Handle(&ExecuteMsg{}, ExecuteHandler{auth: auth, b: b, bank: bank})
}

type buckets struct {
	vaults    orm.ModelBucket
	proposals orm.ModelBucket
	ballots   orm.ModelBucket
}

// execute pays out the proposal and marks it executed. Both the vault and
// the proposal are stored, and nothing is written when the payout fails.
func (b buckets) execute(ctx context.Context, db custody.KVStore, bank cash.CoinMover, vaultID []byte, v *Vault, p *Proposal) error {
	left, err := v.Balance.Subtract(p.Action.Amount)
	if err != nil {
		return errors.Wrapf(err, "proposal %d", p.ID)
	}
	if err := bank.MoveCoins(db, v.Address, p.Action.Recipient, p.Action.Amount); err != nil {
		return errors.Wrapf(err, "proposal %d", p.ID)
	}
	height, _ := custody.GetHeight(ctx)
	v.Balance = left
	p.Executed = true
	p.ExecutedAt = height
	if err := b.vaults.Put(db, vaultID, v); err != nil {
		return errors.Wrap(err, "cannot store vault")
	}
	if err := b.proposals.Put(db, ProposalKey(vaultID, p.ID), p); err != nil {
		return errors.Wrap(err, "cannot store proposal")
	}

	custody.GetLogger(ctx).Info("proposal executed",
		"vault", string(vaultID), "proposal", p.ID,
		"recipient", p.Action.Recipient, "amount", p.Action.Amount)
	return nil
}

// StartHandler initializes a vault.
type StartHandler struct {
	auth x.Authenticator
	b    buckets
	bank cash.CustodyBank
}

var _ custody.Handler = StartHandler{}

func (h StartHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver stores the new vault. The result data is the vault account
// address.
func (h StartHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, members, creator, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	height, _ := custody.GetHeight(ctx)

	v := &Vault{
		Members:         members,
		VotesRequired:   msg.VotesRequired,
		Execution:       msg.Execution,
		RecordLateVotes: msg.RecordLateVotes,
		Address:         Condition(msg.VaultID).Address(),
		Creator:         creator,
		StartedAt:       height,
	}
	if err := h.bank.Reserve(db, v.Address, "multisig"); err != nil {
		return nil, err
	}
	if err := h.b.vaults.Put(db, msg.VaultID, v); err != nil {
		return nil, errors.Wrap(err, "cannot store vault")
	}

	custody.GetLogger(ctx).Info("vault started",
		"vault", string(msg.VaultID), "members", members.Len(), "votes_required", v.VotesRequired)
	return &custody.DeliverResult{Data: v.Address}, nil
}

func (h StartHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*StartMsg, custody.AddressSet, custody.Address, error) {
	var msg StartMsg
	if err := custody.DecodeMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	// A started vault refuses any start, whatever its arguments.
	v, err := Status(db, msg.VaultID)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := CanInitialize(v); err != nil {
		return nil, nil, nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, nil, nil, errors.Wrap(err, "invalid message")
	}
	creator, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, nil, err
	}
	members, err := custody.NewAddressSet(msg.Members...)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "members")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := CanStart(v, members, msg.VotesRequired, conf); err != nil {
		return nil, nil, nil, err
	}
	return &msg, members, creator, nil
}

// DepositHandler moves funds of the signer into a vault.
type DepositHandler struct {
	auth x.Authenticator
	b    buckets
	bank cash.CoinMover
}

var _ custody.Handler = DepositHandler{}

func (h DepositHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h DepositHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, v, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	total, err := v.Balance.Add(msg.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "vault balance")
	}
	if err := h.bank.MoveCoins(db, caller, v.Address, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	v.Balance = total
	if err := h.b.vaults.Put(db, msg.VaultID, v); err != nil {
		return nil, errors.Wrap(err, "cannot store vault")
	}

	custody.GetLogger(ctx).Info("vault deposit",
		"vault", string(msg.VaultID), "from", caller, "amount", msg.Amount)
	return &custody.DeliverResult{}, nil
}

func (h DepositHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*DepositMsg, *Vault, custody.Address, error) {
	var msg DepositMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, nil, err
	}
	v, err := Status(db, msg.VaultID)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := CanDeposit(v); err != nil {
		return nil, nil, nil, err
	}
	return &msg, v, caller, nil
}

// ProposeHandler creates a new proposal.
type ProposeHandler struct {
	auth x.Authenticator
	b    buckets
}

var _ custody.Handler = ProposeHandler{}

func (h ProposeHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver stores a proposal with no votes. The result data is the
// big-endian encoded proposal identifier.
func (h ProposeHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, v, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	height, _ := custody.GetHeight(ctx)

	p := &Proposal{
		ID:        v.ProposalCount,
		Proposer:  caller,
		Action:    msg.Action,
		CreatedAt: height,
	}
	v.ProposalCount++
	if err := h.b.proposals.Put(db, ProposalKey(msg.VaultID, p.ID), p); err != nil {
		return nil, errors.Wrap(err, "cannot store proposal")
	}
	if err := h.b.vaults.Put(db, msg.VaultID, v); err != nil {
		return nil, errors.Wrap(err, "cannot store vault")
	}

	custody.GetLogger(ctx).Info("proposal created",
		"vault", string(msg.VaultID), "proposal", p.ID, "proposer", caller)
	return &custody.DeliverResult{Data: custody.SequenceID(p.ID)}, nil
}

func (h ProposeHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*ProposeMsg, *Vault, custody.Address, error) {
	var msg ProposeMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, nil, err
	}
	v, err := Status(db, msg.VaultID)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := CanPropose(v, caller); err != nil {
		return nil, nil, nil, err
	}
	return &msg, v, caller, nil
}

// VoteHandler records the vote of a member and executes the proposal once
// the quorum is reached, unless the vault executes explicitly.
type VoteHandler struct {
	auth x.Authenticator
	b    buckets
	bank cash.CoinMover
}

var _ custody.Handler = VoteHandler{}

func (h VoteHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver records the vote. When this vote executes the proposal the
// result log is "executed".
func (h VoteHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, v, p, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	p.Votes.Add(caller)
	executed := ShouldExecute(v, p)
	// The payout runs before anything is written, so a vault that cannot
	// pay leaves no trace of the vote.
	if executed {
		if err := h.b.execute(ctx, db, h.bank, msg.VaultID, v, p); err != nil {
			return nil, err
		}
	} else if err := h.b.proposals.Put(db, ProposalKey(msg.VaultID, p.ID), p); err != nil {
		return nil, errors.Wrap(err, "cannot store proposal")
	}
	if err := h.countBallot(db, msg.VaultID, caller); err != nil {
		return nil, err
	}
	custody.GetLogger(ctx).Debug("vote recorded",
		"vault", string(msg.VaultID), "proposal", p.ID, "member", caller, "votes", p.Votes.Len())

	if !executed {
		return &custody.DeliverResult{}, nil
	}
	return &custody.DeliverResult{Log: "executed"}, nil
}

func (h VoteHandler) countBallot(db custody.KVStore, vaultID []byte, member custody.Address) error {
	var b Ballot
	key := BallotKey(vaultID, member)
	if err := h.b.ballots.One(db, key, &b); err != nil && !errors.ErrNotFound.Is(err) {
		return err
	}
	b.Votes++
	if err := h.b.ballots.Put(db, key, &b); err != nil {
		return errors.Wrap(err, "cannot store ballot")
	}
	return nil
}

func (h VoteHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*VoteMsg, *Vault, *Proposal, custody.Address, error) {
	var msg VoteMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	v, err := Status(db, msg.VaultID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	p, err := loadProposal(db, msg.VaultID, msg.ProposalID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if err := CanVote(v, p, caller); err != nil {
		return nil, nil, nil, nil, err
	}
	return &msg, v, p, caller, nil
}

// ExecuteHandler pays out an approved proposal of an explicitly executed
// vault.
type ExecuteHandler struct {
	auth x.Authenticator
	b    buckets
	bank cash.CoinMover
}

var _ custody.Handler = ExecuteHandler{}

func (h ExecuteHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h ExecuteHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, v, p, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.b.execute(ctx, db, h.bank, msg.VaultID, v, p); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Log: "executed"}, nil
}

func (h ExecuteHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*ExecuteMsg, *Vault, *Proposal, error) {
	var msg ExecuteMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, nil, err
	}
	v, err := Status(db, msg.VaultID)
	if err != nil {
		return nil, nil, nil, err
	}
	p, err := loadProposal(db, msg.VaultID, msg.ProposalID)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := CanExecute(v, p, caller); err != nil {
		return nil, nil, nil, err
	}
	return &msg, v, p, nil
}

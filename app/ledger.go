package app

import (
	"context"
	"sync"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Ledger applies transactions to the state, one at a time, and groups them
// into blocks.
//
// Every transaction runs in its own cache wrap of the block state that is
// written only if the transaction succeeds. Mutating calls hold the write
// lock, so transactions are totally ordered by the time they acquire it.
// Queries take the read lock and see all transactions delivered so far,
// including those of the block that is not committed yet.
type Ledger struct {
	mu sync.RWMutex

	store   *CommitStore
	handler custody.Handler
	queries custody.QueryRouter
	init    custody.Initializer
	logger  log.Logger

	// chainID is empty until the genesis is loaded.
	chainID string
	// height of the block being built.
	height int64
}

// NewLedger loads the latest committed state of the store.
func NewLedger(
	store custody.CommitKVStore,
	handler custody.Handler,
	queries custody.QueryRouter,
	init custody.Initializer,
) (*Ledger, error) {
	cs, err := NewCommitStore(store)
	if err != nil {
		return nil, err
	}
	chainID, err := loadChainID(cs.DeliverStore())
	if err != nil {
		return nil, err
	}
	height, err := loadHeight(cs.DeliverStore())
	if err != nil {
		return nil, err
	}
	return &Ledger{
		store:   cs,
		handler: handler,
		queries: queries,
		init:    init,
		logger:  log.NewNopLogger(),
		chainID: chainID,
		height:  height + 1,
	}, nil
}

// WithLogger sets the logger used by the ledger and passed to the handlers.
func (l *Ledger) WithLogger(logger log.Logger) *Ledger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = logger.With("module", "ledger")
	return l
}

// ChainID returns the chain id loaded from genesis. Empty before genesis.
func (l *Ledger) ChainID() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.chainID
}

// Height returns the height of the block being built. Delivered
// transactions observe this height.
func (l *Ledger) Height() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.height
}

// InitChain loads the genesis state and commits it as block zero. It fails
// with ErrAlreadyInitialized if the ledger already has a chain id.
func (l *Ledger) InitChain(gen *Genesis) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.chainID != "" {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "chain %q", l.chainID)
	}
	if err := gen.Validate(); err != nil {
		return err
	}
	cache := l.store.DeliverStore().CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if l.init != nil {
		if err := l.init.FromGenesis(gen.AppState, cache); err != nil {
			cache.Discard()
			return errors.Wrap(err, "genesis")
		}
	}
	if err := saveHeight(cache, 0); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	if _, err := l.store.Commit(); err != nil {
		return errors.Wrap(err, "commit genesis")
	}
	l.chainID = gen.ChainID
	l.height = 1
	l.logger.Info("genesis loaded", "chain_id", l.chainID)
	return nil
}

// context returns the context of a transaction in the current block.
func (l *Ledger) context(call string, tx custody.Tx) context.Context {
	ctx := context.Background()
	ctx = custody.WithChainID(ctx, l.chainID)
	ctx = custody.WithHeight(ctx, l.height)
	ctx = custody.WithLogger(ctx, l.logger)
	return custody.WithLogInfo(ctx, "call", call, "path", custody.GetPath(tx), "height", l.height)
}

func (l *Ledger) requireGenesis() error {
	if l.chainID == "" {
		return errors.Wrap(errors.ErrState, "genesis not loaded")
	}
	return nil
}

// Check validates the transaction against the current state without
// applying it.
func (l *Ledger) Check(tx custody.Tx) (*custody.CheckResult, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err := l.requireGenesis(); err != nil {
		return nil, err
	}
	cache := l.store.DeliverStore().CacheWrap()
	defer cache.Discard()
	return l.handler.Check(l.context("check_tx", tx), cache, tx)
}

// Deliver applies the transaction to the block being built. On failure
// the state is left unchanged.
func (l *Ledger) Deliver(tx custody.Tx) (*custody.DeliverResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireGenesis(); err != nil {
		return nil, err
	}
	cache := l.store.DeliverStore().CacheWrap()
	res, err := l.handler.Deliver(l.context("deliver_tx", tx), cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write tx")
	}
	return res, nil
}

// DeliverRaw decodes and delivers a serialized transaction.
func (l *Ledger) DeliverRaw(raw []byte) (*custody.DeliverResult, error) {
	tx, err := loadTx(raw)
	if err != nil {
		return nil, err
	}
	return l.Deliver(tx)
}

// loadTx calls the decoder, and capture any panics
func loadTx(raw []byte) (tx *Tx, err error) {
	defer errors.Recover(&err)
	return DecodeTx(raw)
}

// MineBlock commits the current block and starts the next one. It returns
// the commit information of the committed block.
func (l *Ledger) MineBlock() (custody.CommitID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireGenesis(); err != nil {
		return custody.CommitID{}, err
	}
	if err := saveHeight(l.store.DeliverStore(), l.height); err != nil {
		return custody.CommitID{}, err
	}
	id, err := l.store.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	l.logger.Info("block committed", "height", l.height, "version", id.Version, "hash", id.Hash)
	l.height++
	return id, nil
}

// Query reads the state under given path. It has no side effects.
func (l *Ledger) Query(path, mod string, data []byte) ([]custody.Model, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.queries.Query(l.store.DeliverStore(), path, mod, data)
}

// View calls fn with a read only view of the current state. The state must
// not be used after fn returns.
func (l *Ledger) View(fn func(db custody.ReadOnlyKVStore) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return fn(l.store.DeliverStore())
}

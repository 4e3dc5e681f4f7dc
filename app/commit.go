package app

import (
	"encoding/binary"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// CommitStore handles loading from a CommitKVStore and maintains the
// CacheWrap that collects the state of the block being built.
type CommitStore struct {
	committed custody.CommitKVStore
	deliver   custody.KVCacheWrap
}

// NewCommitStore loads the latest version of the store and sets up the
// deliver cache.
func NewCommitStore(store custody.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
	}, nil
}

// CommitInfo returns the current version and hash
func (cs *CommitStore) CommitInfo() (custody.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit will flush deliver to the underlying store and commit it
// to disk. It then regenerates a new deliver cache.
func (cs *CommitStore) Commit() (custody.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return custody.CommitID{}, errors.Wrap(err, "flush block")
	}
	res, err := cs.committed.Commit()
	if err != nil {
		return res, err
	}
	cs.deliver = cs.committed.CacheWrap()
	return res, nil
}

// DeliverStore returns the state of the block being built, including all
// delivered transactions.
func (cs *CommitStore) DeliverStore() custody.CacheableKVStore {
	return cs.deliver
}

//------- ledger metadata ---------

// _l: is a prefix for ledger internal data
var (
	chainIDKey = []byte("_l:chain_id")
	heightKey  = []byte("_l:height")
)

// loadChainID returns the chain id stored if any
func loadChainID(kv custody.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get(chainIDKey)
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv custody.KVStore, chainID string) error {
	if !custody.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	exists, err := kv.Has(chainIDKey)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrAlreadyInitialized, "can't modify chain id after genesis init")
	}
	if err := kv.Set(chainIDKey, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}

// loadHeight returns the height of the last committed block, zero before
// the first one.
func loadHeight(kv custody.ReadOnlyKVStore) (int64, error) {
	v, err := kv.Get(heightKey)
	if err != nil {
		return 0, errors.Wrap(err, "load height")
	}
	if v == nil {
		return 0, nil
	}
	if len(v) != 8 {
		return 0, errors.Wrapf(errors.ErrState, "height of %d bytes", len(v))
	}
	return int64(binary.BigEndian.Uint64(v)), nil
}

func saveHeight(kv custody.KVStore, height int64) error {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, uint64(height))
	if err := kv.Set(heightKey, v); err != nil {
		return errors.Wrap(err, "save height")
	}
	return nil
}

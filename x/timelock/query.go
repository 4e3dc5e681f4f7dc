package timelock

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// RegisterQuery will register this bucket as "/timelocks"
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("/timelocks", qr)
}

// Status returns the wallet with given identifier. A wallet that was never
// locked is returned in WalletEmpty state with all other fields zero.
func Status(db custody.ReadOnlyKVStore, id []byte) (*Wallet, error) {
	var w Wallet
	err := NewBucket().One(db, id, &w)
	switch {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{State: WalletEmpty}, nil
	default:
		return nil, err
	}
}

package hashescrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// RegisterQuery will register this bucket as "/escrows"
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("/escrows", qr)
}

// Status returns the escrow with given identifier. An escrow that was never
// locked is returned in EscrowEmpty state with all other fields zero.
func Status(db custody.ReadOnlyKVStore, id []byte) (*Escrow, error) {
	var e Escrow
	switch err := NewBucket().One(db, id, &e); {
	case err == nil:
		return &e, nil
	case errors.ErrNotFound.Is(err):
		return &Escrow{State: EscrowEmpty}, nil
	default:
		return nil, err
	}
}

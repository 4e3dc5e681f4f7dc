package cash

import (
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the balance of a single account.
type Wallet struct {
	Amount coin.Amount `json:"amount"`
}

var _ orm.Model = (*Wallet)(nil)

// Validate rejects empty wallets, those must be deleted instead.
func (w *Wallet) Validate() error {
	if w.Amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "empty wallet")
	}
	return nil
}

// NewBucket returns a bucket for storing wallets keyed by the account
// address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}

// ReservationBucketName is where the custody accounts are recorded.
const ReservationBucketName = "cash_resv"

// Reservation marks an account as a custody account, whose funds are
// accounted for by the holding extension. Plain transfers cannot credit it.
type Reservation struct {
	Holder string `json:"holder"`
}

var _ orm.Model = (*Reservation)(nil)

func (r *Reservation) Validate() error {
	if r.Holder == "" {
		return errors.Wrap(errors.ErrEmpty, "holder")
	}
	return nil
}

// NewReservationBucket returns a bucket of reservations keyed by the account
// address.
func NewReservationBucket() orm.ModelBucket {
	return orm.NewModelBucket(ReservationBucketName, &Reservation{})
}

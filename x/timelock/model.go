package timelock

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where the wallets are stored.
const BucketName = "timelock"

// WalletState is the lifecycle stage of a wallet.
type WalletState int32

const (
	// WalletEmpty is the state of an identifier that was never locked.
	WalletEmpty WalletState = iota
	WalletLocked
	WalletWithdrawn
)

func (s WalletState) String() string {
	switch s {
	case WalletEmpty:
		return "empty"
	case WalletLocked:
		return "locked"
	case WalletWithdrawn:
		return "withdrawn"
	default:
		return "unknown"
	}
}

// Wallet holds Amount on its custody Address until UnlockHeight.
type Wallet struct {
	Owner        custody.Address `json:"owner"`
	Beneficiary  custody.Address `json:"beneficiary"`
	Amount       coin.Amount     `json:"amount"`
	UnlockHeight int64           `json:"unlock_height"`
	State        WalletState     `json:"state"`
	Address      custody.Address `json:"address"`
	LockedAt     int64           `json:"locked_at"`
	WithdrawnAt  int64           `json:"withdrawn_at,omitempty"`
}

var _ orm.Model = (*Wallet)(nil)

// Validate checks a stored wallet. Empty wallets are never stored.
func (w *Wallet) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", w.Owner.Validate())
	errs = errors.AppendField(errs, "Beneficiary", w.Beneficiary.Validate())
	errs = errors.AppendField(errs, "Address", w.Address.Validate())
	errs = errors.AppendField(errs, "Amount", w.Amount.Validate())
	if w.UnlockHeight <= w.LockedAt {
		errs = errors.Append(errs, errors.Field("UnlockHeight", errors.ErrPastUnlockHeight, "must be after lock height %d", w.LockedAt))
	}
	switch w.State {
	case WalletLocked:
		if w.WithdrawnAt != 0 {
			errs = errors.Append(errs, errors.Field("WithdrawnAt", errors.ErrState, "locked wallet"))
		}
	case WalletWithdrawn:
		if w.WithdrawnAt < w.UnlockHeight {
			errs = errors.Append(errs, errors.Field("WithdrawnAt", errors.ErrState, "before unlock height"))
		}
	default:
		errs = errors.Append(errs, errors.Field("State", errors.ErrState, "cannot store %s wallet", w.State))
	}
	return errs
}

// Condition returns the condition controlling the custody account of the
// wallet with given identifier.
func Condition(id []byte) custody.Condition {
	return custody.NewCondition("timelock", "wallet", id)
}

// NewBucket returns a bucket storing wallets by their identifier.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}

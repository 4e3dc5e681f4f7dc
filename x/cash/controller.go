package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// CoinMover is an interface for moving coins between accounts.
type CoinMover interface {
	// MoveCoins transfers the amount from src to dest. Either both
	// balances change or none does.
	MoveCoins(db custody.KVStore, src, dest custody.Address, amount coin.Amount) error
}

// Balancer reads the balance of an account.
type Balancer interface {
	// Balance returns zero for accounts that were never credited.
	Balance(db custody.ReadOnlyKVStore, addr custody.Address) (coin.Amount, error)
}

// CustodyBank is used by the custody extensions. Every account they keep
// funds on is reserved before the first deposit.
type CustodyBank interface {
	CoinMover
	// Reserve marks addr as a custody account of holder. Reserving again
	// for the same holder is a no-op.
	Reserve(db custody.KVStore, addr custody.Address, holder string) error
}

// Controller is the functionality needed by the cash handlers.
type Controller interface {
	CustodyBank
	Balancer
	IssueCoins(db custody.KVStore, dest custody.Address, amount coin.Amount) error
	// Holder returns the extension holding the custody account addr, or an
	// empty string for a plain account.
	Holder(db custody.ReadOnlyKVStore, addr custody.Address) (string, error)
}

// BaseController is the default implementation of Controller.
type BaseController struct {
	bucket       orm.ModelBucket
	reservations orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller using given bucket for storage.
func NewController(bucket orm.ModelBucket) BaseController {
	return BaseController{bucket: bucket, reservations: NewReservationBucket()}
}

func (c BaseController) Reserve(db custody.KVStore, addr custody.Address, holder string) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "custody account")
	}
	if holder == "" {
		return errors.Wrap(errors.ErrEmpty, "holder")
	}
	switch have, err := c.Holder(db, addr); {
	case err != nil:
		return err
	case have == holder:
		return nil
	case have != "":
		return errors.Wrapf(errors.ErrDuplicate, "account %s held by %s", addr, have)
	}
	return c.reservations.Put(db, addr, &Reservation{Holder: holder})
}

func (c BaseController) Holder(db custody.ReadOnlyKVStore, addr custody.Address) (string, error) {
	var r Reservation
	switch err := c.reservations.One(db, addr, &r); {
	case err == nil:
		return r.Holder, nil
	case errors.ErrNotFound.Is(err):
		return "", nil
	default:
		return "", err
	}
}

// Balance returns the amount held by given account.
func (c BaseController) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (coin.Amount, error) {
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return w.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db custody.KVStore, src, dest custody.Address, amount coin.Amount) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "cannot move")
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "src")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}

	have, err := c.Balance(db, src)
	if err != nil {
		return err
	}
	left, err := have.Subtract(amount)
	if err != nil {
		return errors.Wrapf(err, "account %s", src)
	}
	if src.Equals(dest) {
		return nil
	}
	recv, err := c.Balance(db, dest)
	if err != nil {
		return err
	}
	total, err := recv.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "account %s", dest)
	}

	if err := c.save(db, src, left); err != nil {
		return err
	}
	return c.save(db, dest, total)
}

// IssueCoins creates the given amount of coins on the destination
// account. Fails if it overflows the wallet.
func (c BaseController) IssueCoins(db custody.KVStore, dest custody.Address, amount coin.Amount) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}
	have, err := c.Balance(db, dest)
	if err != nil {
		return err
	}
	total, err := have.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "account %s", dest)
	}
	return c.save(db, dest, total)
}

func (c BaseController) save(db custody.KVStore, addr custody.Address, amount coin.Amount) error {
	if amount.IsZero() {
		err := c.bucket.Delete(db, addr)
		if errors.ErrNotFound.Is(err) {
			return nil
		}
		return err
	}
	return c.bucket.Put(db, addr, &Wallet{Amount: amount})
}

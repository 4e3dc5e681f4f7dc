package app

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/hashescrow"
	"github.com/iov-one/custody/x/multisig"
	"github.com/iov-one/custody/x/sigs"
	"github.com/iov-one/custody/x/timelock"
	"github.com/iov-one/custody/x/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery. Metrics can be nil.
func Chain(metrics *utils.Metrics) Decorators {
	return ChainDecorators(
		utils.NewRecovery(),
		utils.NewLogging(),
		metrics,
		sigs.NewDecorator(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
	)
}

// StackRouter returns a router dispatching to the handlers of all custody
// extensions.
func StackRouter(authFn x.Authenticator) *Router {
	r := NewRouter()
	bank := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, authFn, bank)
	timelock.RegisterRoutes(r, authFn, bank)
	multisig.RegisterRoutes(r, authFn, bank)
	hashescrow.RegisterRoutes(r, authFn, bank)
	return r
}

// QueryRouter returns a query router, allowing access to "/wallets",
// "/auth", "/timelocks", "/vaults", "/proposals", "/ballots" and
// "/escrows".
func QueryRouter() custody.QueryRouter {
	r := custody.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		timelock.RegisterQuery,
		multisig.RegisterQuery,
		hashescrow.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis initializers of all extensions.
func Initializers() custody.Initializer {
	return custody.ChainInitializers(
		cash.Initializer{},
		multisig.Initializer{},
		hashescrow.Initializer{},
	)
}

// Stack wires up a standard router with a standard decorator
// chain.
func Stack(metrics *utils.Metrics) custody.Handler {
	authFn := Authenticator()
	return Chain(metrics).WithHandler(StackRouter(authFn))
}

// Application returns a ledger running all custody extensions on top of
// given store. Transaction metrics are registered with reg, unless it is
// nil.
func Application(store custody.CommitKVStore, reg prometheus.Registerer) (*Ledger, error) {
	var metrics *utils.Metrics
	if reg != nil {
		m, err := utils.NewMetrics(reg)
		if err != nil {
			return nil, err
		}
		metrics = m
	}
	return NewLedger(store, Stack(metrics), QueryRouter(), Initializers())
}

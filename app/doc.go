/*
Package app links together the custody extensions into a ledger.

A Ledger owns the committed state, routes every transaction through the
decorator chain to the handler of its message and groups delivered
transactions into blocks. Genesis loads the chain id, the initial balances
and the configuration of all extensions.
*/
package app

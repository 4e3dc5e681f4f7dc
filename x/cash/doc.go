/*
Package cash keeps the balance of every account on the ledger and provides
the transfer primitive used by all custody extensions.

An account that was never credited simply has no wallet and a zero balance.
A wallet that is drained to zero is removed again, so that there is exactly
one representation of an empty account.
*/
package cash

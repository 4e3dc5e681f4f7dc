/*
Package timelock implements a wallet that holds funds until a block height.

The owner locks an amount for a beneficiary, choosing an unlock height in
the future. Once the ledger reaches that height, the beneficiary can
withdraw the whole amount, exactly once. Until then the beneficiary may
hand the claim over to somebody else. Neither the amount nor the unlock
height can change after locking.

	Empty -> Locked -> Withdrawn
*/
package timelock

/*
Package hashescrow implements an escrow released by a secret.

The depositor locks an amount together with a commitment. Whoever presents
a proof matching the commitment releases the funds to the beneficiary.
The proof is matched by one of the verifiers: the proof equals the
commitment, or the sha256 or blake3 digest of the proof equals the
commitment. The beneficiary can be left out at lock time and bound later
by the depositor, but the escrow cannot be released before it is known.

As long as the escrow is not released, the depositor can take the funds
back, optionally only after a refund height.

	Empty -> Locked -> Released
	            \----> Refunded
*/
package hashescrow

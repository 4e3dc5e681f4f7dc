/*
Package multisig implements a vault shared by a fixed set of members.

A vault is started with its members and the number of votes required to
release funds. Anybody can deposit. Members propose payouts and vote on
them; a proposal that gathers the required number of distinct member votes
pays out exactly once. Depending on the vault execution mode the payout
happens on the vote that reaches the quorum, or on a separate execute call.

Proposals that never reach the quorum stay pending forever.
*/
package multisig

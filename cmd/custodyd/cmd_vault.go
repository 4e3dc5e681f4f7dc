package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/multisig"
	"github.com/spf13/cobra"
)

// VaultCmd groups the multisig vault operations.
func VaultCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Multisig vaults",
	}
	cmd.AddCommand(
		vaultStartCmd(e),
		&cobra.Command{
			Use:   "deposit <vault-id> <amount>",
			Short: "Deposit coins into a vault",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				amount, err := parseAmount(args[1])
				if err != nil {
					return err
				}
				return e.submit(cmd, &multisig.DepositMsg{VaultID: []byte(args[0]), Amount: amount})
			},
		},
		&cobra.Command{
			Use:   "propose <vault-id> <recipient> <amount>",
			Short: "Propose a payout from the vault",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				recipient, err := parseAddress(args[1])
				if err != nil {
					return err
				}
				amount, err := parseAmount(args[2])
				if err != nil {
					return err
				}
				return e.submit(cmd, &multisig.ProposeMsg{
					VaultID: []byte(args[0]),
					Action:  multisig.Action{Recipient: recipient, Amount: amount},
				})
			},
		},
		&cobra.Command{
			Use:   "vote <vault-id> <proposal-id>",
			Short: "Vote for a proposal",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				pid, err := parseProposalID(args[1])
				if err != nil {
					return err
				}
				return e.submit(cmd, &multisig.VoteMsg{VaultID: []byte(args[0]), ProposalID: pid})
			},
		},
		&cobra.Command{
			Use:   "execute <vault-id> <proposal-id>",
			Short: "Execute an approved proposal of an explicit execution vault",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				pid, err := parseProposalID(args[1])
				if err != nil {
					return err
				}
				return e.submit(cmd, &multisig.ExecuteMsg{VaultID: []byte(args[0]), ProposalID: pid})
			},
		},
		vaultStatusCmd(e),
	)
	return cmd
}

func vaultStartCmd(e *env) *cobra.Command {
	var (
		members   []string
		required  uint32
		execution string
		lateVotes bool
	)
	cmd := &cobra.Command{
		Use:   "start <vault-id>",
		Short: "Start a vault with a fixed set of members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addrs := make([]custody.Address, 0, len(members))
			for _, m := range members {
				a, err := parseAddress(strings.TrimSpace(m))
				if err != nil {
					return err
				}
				addrs = append(addrs, a)
			}
			mode, err := multisig.ParseExecutionMode(execution)
			if err != nil {
				return err
			}
			return e.submit(cmd, &multisig.StartMsg{
				VaultID:         []byte(args[0]),
				Members:         addrs,
				VotesRequired:   required,
				Execution:       mode,
				RecordLateVotes: lateVotes,
			})
		},
	}
	fl := cmd.Flags()
	fl.StringSliceVar(&members, "members", nil, "comma separated member addresses")
	fl.Uint32Var(&required, "required", 0, "number of votes required to execute a proposal")
	fl.StringVar(&execution, "execution", "on_quorum", "on_quorum or explicit")
	fl.BoolVar(&lateVotes, "late-votes", false, "record votes cast after a proposal was executed")
	cmd.MarkFlagRequired("members")
	cmd.MarkFlagRequired("required")
	return cmd
}

func vaultStatusCmd(e *env) *cobra.Command {
	var member string
	cmd := &cobra.Command{
		Use:   "status <vault-id> [proposal-id]",
		Short: "Print the vault, or one of its proposals",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := []byte(args[0])
			out := cmd.OutOrStdout()
			if member != "" {
				return printBallot(e, cmd, id, args[1:], member)
			}
			if len(args) == 1 {
				var v *multisig.Vault
				err := e.view(func(db custody.ReadOnlyKVStore) error {
					var err error
					v, err = multisig.Status(db, id)
					return err
				})
				if err != nil {
					return err
				}
				return printJSON(out, v)
			}

			pid, err := parseProposalID(args[1])
			if err != nil {
				return err
			}
			var (
				p     *multisig.Proposal
				votes int
			)
			err = e.view(func(db custody.ReadOnlyKVStore) error {
				var err error
				if p, err = multisig.GetProposal(db, id, pid); err != nil {
					return err
				}
				votes, err = multisig.VoteCount(db, id, pid)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "votes: %d\n", votes)
			return printJSON(out, p)
		},
	}
	cmd.Flags().StringVar(&member, "member", "", "print the votes of this member instead")
	return cmd
}

// printBallot prints whether the member voted on given proposal, or the
// number of proposals the member voted on.
func printBallot(e *env, cmd *cobra.Command, vaultID []byte, args []string, member string) error {
	addr, err := parseAddress(member)
	if err != nil {
		return err
	}
	return e.view(func(db custody.ReadOnlyKVStore) error {
		if len(args) == 0 {
			n, err := multisig.VotesCast(db, vaultID, addr)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "votes cast: %d\n", n)
			return nil
		}
		pid, err := parseProposalID(args[0])
		if err != nil {
			return err
		}
		voted, err := multisig.HasVoted(db, vaultID, pid, addr)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "voted: %t\n", voted)
		return nil
	})
}

func parseProposalID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "proposal id %q", s)
	}
	return id, nil
}

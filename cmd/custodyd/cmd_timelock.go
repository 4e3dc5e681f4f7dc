package main

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/x/timelock"
	"github.com/spf13/cobra"
)

// TimelockCmd groups the time locked wallet operations.
func TimelockCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timelock",
		Short: "Time locked wallets",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "lock <wallet-id> <beneficiary> <unlock-height> <amount>",
			Short: "Lock coins for a beneficiary until given height",
			Args:  cobra.ExactArgs(4),
			RunE: func(cmd *cobra.Command, args []string) error {
				bene, err := parseAddress(args[1])
				if err != nil {
					return err
				}
				height, err := parseHeight(args[2])
				if err != nil {
					return err
				}
				amount, err := parseAmount(args[3])
				if err != nil {
					return err
				}
				return e.submit(cmd, &timelock.LockMsg{
					WalletID:     []byte(args[0]),
					Beneficiary:  bene,
					UnlockHeight: height,
					Amount:       amount,
				})
			},
		},
		&cobra.Command{
			Use:   "withdraw <wallet-id>",
			Short: "Withdraw an unlocked wallet to its beneficiary",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return e.submit(cmd, &timelock.WithdrawMsg{WalletID: []byte(args[0])})
			},
		},
		&cobra.Command{
			Use:   "bestow <wallet-id> <beneficiary>",
			Short: "Hand the wallet over to another beneficiary",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				bene, err := parseAddress(args[1])
				if err != nil {
					return err
				}
				return e.submit(cmd, &timelock.BestowMsg{WalletID: []byte(args[0]), Beneficiary: bene})
			},
		},
		&cobra.Command{
			Use:   "status <wallet-id>",
			Short: "Print the wallet state",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var w *timelock.Wallet
				err := e.view(func(db custody.ReadOnlyKVStore) error {
					var err error
					w, err = timelock.Status(db, []byte(args[0]))
					return err
				})
				if err != nil {
					return err
				}
				return printStatus(cmd.OutOrStdout(), w.State, w)
			},
		},
	)
	return cmd
}

package main

import (
	"fmt"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/hashescrow"
	"github.com/spf13/cobra"
)

// EscrowCmd groups the hash escrow operations.
func EscrowCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "escrow",
		Short: "Hash escrows",
	}
	cmd.AddCommand(
		escrowLockCmd(e),
		&cobra.Command{
			Use:   "bind <escrow-id> <beneficiary>",
			Short: "Set the beneficiary of an escrow locked without one",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				bene, err := parseAddress(args[1])
				if err != nil {
					return err
				}
				return e.submit(cmd, &hashescrow.BindMsg{EscrowID: []byte(args[0]), Beneficiary: bene})
			},
		},
		&cobra.Command{
			Use:   "release <escrow-id> <proof-hex>",
			Short: "Release the escrow to its beneficiary by revealing the proof",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				proof, err := parseHex("proof", args[1])
				if err != nil {
					return err
				}
				return e.submit(cmd, &hashescrow.ReleaseMsg{EscrowID: []byte(args[0]), Proof: proof})
			},
		},
		&cobra.Command{
			Use:   "refund <escrow-id>",
			Short: "Return the escrow to its depositor",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return e.submit(cmd, &hashescrow.RefundMsg{EscrowID: []byte(args[0])})
			},
		},
		&cobra.Command{
			Use:   "status <escrow-id>",
			Short: "Print the escrow state",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var esc *hashescrow.Escrow
				err := e.view(func(db custody.ReadOnlyKVStore) error {
					var err error
					esc, err = hashescrow.Status(db, []byte(args[0]))
					return err
				})
				if err != nil {
					return err
				}
				return printStatus(cmd.OutOrStdout(), esc.State, esc)
			},
		},
		&cobra.Command{
			Use:   "commit <verifier> <proof-hex>",
			Short: "Print the commitment a proof opens",
			Args:  cobra.ExactArgs(2),
			// Pure computation, no configuration needed.
			PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := hashescrow.ParseVerifier(args[0])
				if err != nil {
					return err
				}
				proof, err := parseHex("proof", args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%x\n", v.Commit(proof))
				return nil
			},
		},
	)
	return cmd
}

func escrowLockCmd(e *env) *cobra.Command {
	var (
		verifier     string
		beneficiary  string
		refundHeight int64
	)
	cmd := &cobra.Command{
		Use:   "lock <escrow-id> <commitment-hex> <amount>",
		Short: "Lock coins until the proof opening the commitment is revealed",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := hashescrow.ParseVerifier(verifier)
			if err != nil {
				return err
			}
			commitment, err := parseHex("commitment", args[1])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			var bene custody.Address
			if beneficiary != "" {
				if bene, err = parseAddress(beneficiary); err != nil {
					return err
				}
			}
			if refundHeight < 0 {
				return errors.Wrap(errors.ErrInput, "negative refund height")
			}
			return e.submit(cmd, &hashescrow.LockMsg{
				EscrowID:     []byte(args[0]),
				Commitment:   commitment,
				Verifier:     v,
				Amount:       amount,
				Beneficiary:  bene,
				RefundHeight: refundHeight,
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&verifier, "verifier", "sha256", "exact, sha256 or blake3")
	fl.StringVar(&beneficiary, "beneficiary", "", "beneficiary address, can be bound later")
	fl.Int64Var(&refundHeight, "refund-height", 0, "height from which the depositor may refund, 0 for any time")
	return cmd
}

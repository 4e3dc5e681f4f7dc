package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/spf13/cobra"
)

// InitCmd loads a genesis file into a fresh ledger.
func InitCmd(e *env) *cobra.Command {
	var writeConfig bool
	cmd := &cobra.Command{
		Use:   "init <genesis.json>",
		Short: "Initialize the ledger from a genesis file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := app.LoadGenesis(args[0])
			if err != nil {
				return err
			}
			if e.conf.ChainID != "" && e.conf.ChainID != gen.ChainID {
				return errors.Wrapf(errors.ErrInput, "genesis chain id %q, configured %q", gen.ChainID, e.conf.ChainID)
			}
			l, closeDB, err := e.openLedger()
			if err != nil {
				return err
			}
			defer closeDB()
			if err := l.InitChain(gen); err != nil {
				return err
			}
			if writeConfig {
				conf := e.conf
				conf.ChainID = gen.ChainID
				if err := conf.Save(e.configPath); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "chain %s initialized, next height %d\n", l.ChainID(), l.Height())
			return nil
		},
	}
	cmd.Flags().BoolVar(&writeConfig, "write-config", false, "write the configuration file, pinning the chain id")
	return cmd
}

// KeysCmd manages the private key file.
func KeysCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Private key management",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "new",
			Short: "Generate a new private key",
			Long: `Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path := e.conf.KeyFile
				if _, err := os.Stat(path); !os.IsNotExist(err) {
					// Never overwrite a key, the user must delete it first.
					return errors.Wrapf(errors.ErrInput, "private key file %q already exists, delete this file and try again", path)
				}
				key, err := crypto.GenPrivateKey()
				if err != nil {
					return err
				}
				if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
					return errors.Wrapf(errors.ErrInput, "key directory: %s", err)
				}
				fd, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
				if err != nil {
					return errors.Wrapf(errors.ErrInput, "cannot create private key file: %s", err)
				}
				defer fd.Close()
				if _, err := fd.Write(key); err != nil {
					return errors.Wrapf(errors.ErrInput, "cannot write private key: %s", err)
				}
				if err := fd.Close(); err != nil {
					return errors.Wrapf(errors.ErrInput, "cannot close private key file: %s", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), key.PublicKey().Address())
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the address of the private key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				addr, err := e.ownAddress()
				if err != nil {
					return err
				}
				b32, err := addr.Bech32String()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", addr, b32)
				return nil
			},
		},
	)
	return cmd
}

// BalanceCmd prints the balance of an account.
func BalanceCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address]",
		Short: "Print the balance of an address, by default of the own key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				addr custody.Address
				err  error
			)
			if len(args) == 1 {
				addr, err = parseAddress(args[0])
			} else {
				addr, err = e.ownAddress()
			}
			if err != nil {
				return err
			}
			bank := cash.NewController(cash.NewBucket())
			var amount coin.Amount
			err = e.view(func(db custody.ReadOnlyKVStore) error {
				var err error
				amount, err = bank.Balance(db, addr)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), amount)
			return nil
		},
	}
}

// SendCmd transfers coins from the own account.
func SendCmd(e *env) *cobra.Command {
	var memo string
	cmd := &cobra.Command{
		Use:   "send <destination> <amount>",
		Short: "Send coins to another address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := e.ownAddress()
			if err != nil {
				return err
			}
			dest, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return e.submit(cmd, &cash.SendMsg{
				Source:      src,
				Destination: dest,
				Amount:      amount,
				Memo:        memo,
			})
		},
	}
	cmd.Flags().StringVar(&memo, "memo", "", "optional note attached to the transfer")
	return cmd
}

// MineCmd commits empty blocks.
func MineCmd(e *env) *cobra.Command {
	var until int64
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Commit one empty block, or blocks until given height is committed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeDB, err := e.openLedger()
			if err != nil {
				return err
			}
			defer closeDB()
			if _, err := l.MineBlock(); err != nil {
				return err
			}
			for l.Height() <= until {
				if _, err := l.MineBlock(); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "height: %d\n", l.Height()-1)
			return nil
		},
	}
	cmd.Flags().Int64Var(&until, "until", 0, "mine until this height is committed")
	return cmd
}

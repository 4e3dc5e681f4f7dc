/*
Command custodyd operates a persistent custody ledger kept in a home
directory.

Every command that changes the state signs a transaction with the
configured private key, delivers it and commits the block containing it.
The ledger height therefore grows by one with every such command, or
explicitly with "custodyd mine".
*/
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCmd returns the custodyd command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "custodyd",
		Short:         "Custody ledger: time locked wallets, multisig vaults and hash escrows",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return e.close()
		},
	}

	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".custodyd")
	fl := root.PersistentFlags()
	fl.StringVar(&e.home, "home", defaultHome, "directory to store files under")
	fl.StringVar(&e.configPath, "config", "", "configuration file (default <home>/"+configFile+")")
	fl.StringVar(&e.keyPath, "key", "", "private key file used to sign transactions")
	fl.StringVar(&e.logLevel, "log-level", "", "log level: debug, info, error or none")

	root.AddCommand(
		InitCmd(e),
		KeysCmd(e),
		BalanceCmd(e),
		SendCmd(e),
		MineCmd(e),
		TimelockCmd(e),
		VaultCmd(e),
		EscrowCmd(e),
	)
	return root
}

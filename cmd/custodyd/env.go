package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store/iavl"
	"github.com/iov-one/custody/x/sigs"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/crypto/ed25519"
)

// env is shared by all commands. It is filled by the root command before
// any subcommand runs.
type env struct {
	home       string
	configPath string
	keyPath    string
	logLevel   string

	conf   Config
	logger log.Logger
	logs   io.Closer
}

func (e *env) load(cmd *cobra.Command) error {
	if e.configPath == "" {
		e.configPath = filepath.Join(e.home, configFile)
	}
	e.conf = DefaultConfig(e.home)
	if err := LoadConfig(e.configPath, &e.conf); err != nil {
		return err
	}
	if e.keyPath != "" {
		e.conf.KeyFile = e.keyPath
	}
	if e.logLevel != "" {
		e.conf.Log.Level = e.logLevel
	}
	if err := e.conf.Validate(); err != nil {
		return errors.Wrapf(err, "configuration %s: check %s", e.configPath, strings.Join(errors.Fields(err), ", "))
	}
	logger, closer, err := newLogger(e.conf.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	e.logger, e.logs = logger, closer
	return nil
}

func (e *env) close() error {
	if e.logs == nil {
		return nil
	}
	return e.logs.Close()
}

// openLedger opens the persistent ledger kept in the home directory. The
// returned function must be called to release the database.
func (e *env) openLedger() (*app.Ledger, func(), error) {
	dir := filepath.Join(e.conf.Home, "data")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, errors.Wrapf(errors.ErrDatabase, "data directory: %s", err)
	}
	db, err := iavl.NewCommitStore(dir, "custody")
	if err != nil {
		return nil, nil, err
	}
	l, err := app.Application(db, nil)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	l.WithLogger(e.logger)
	if e.conf.ChainID != "" && l.ChainID() != "" && l.ChainID() != e.conf.ChainID {
		db.Close()
		return nil, nil, errors.Wrapf(errors.ErrInput, "ledger chain id %q, configured %q", l.ChainID(), e.conf.ChainID)
	}
	return l, db.Close, nil
}

func (e *env) loadKey() (crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(e.conf.KeyFile)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot read private key file: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid private key length: %d", len(raw))
	}
	return crypto.PrivateKey(raw), nil
}

// submit signs the message with the configured key, delivers it and
// commits the block containing it.
func (e *env) submit(cmd *cobra.Command, msg custody.Msg) error {
	key, err := e.loadKey()
	if err != nil {
		return err
	}
	l, closeDB, err := e.openLedger()
	if err != nil {
		return err
	}
	defer closeDB()

	if l.ChainID() == "" {
		return errors.Wrap(errors.ErrState, "ledger not initialized, run init first")
	}
	var seq int64
	err = l.View(func(db custody.ReadOnlyKVStore) error {
		var err error
		seq, err = sigs.NextSequence(db, key.PublicKey())
		return err
	})
	if err != nil {
		return err
	}

	tx := app.NewTx(msg)
	if err := tx.Sign(key, l.ChainID(), seq); err != nil {
		return err
	}
	height := l.Height()
	res, err := l.Deliver(tx)
	if err != nil {
		return err
	}
	id, err := l.MineBlock()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "height: %d\n", height)
	fmt.Fprintf(out, "hash: %X\n", id.Hash)
	if res.Log != "" {
		fmt.Fprintf(out, "log: %s\n", res.Log)
	}
	if len(res.Data) != 0 {
		fmt.Fprintf(out, "data: %X\n", res.Data)
	}
	return nil
}

// view calls fn with the current state of the ledger.
func (e *env) view(fn func(db custody.ReadOnlyKVStore) error) error {
	l, closeDB, err := e.openLedger()
	if err != nil {
		return err
	}
	defer closeDB()
	return l.View(fn)
}

// ownAddress returns the address of the configured key.
func (e *env) ownAddress() (custody.Address, error) {
	key, err := e.loadKey()
	if err != nil {
		return nil, err
	}
	return key.PublicKey().Address(), nil
}

// printStatus prints the readable state followed by the full model.
func printStatus(w io.Writer, state fmt.Stringer, v interface{}) error {
	if _, err := fmt.Fprintf(w, "state: %s\n", state); err != nil {
		return err
	}
	return printJSON(w, v)
}

func printJSON(w io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInternal, err.Error())
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}

func parseAmount(s string) (coin.Amount, error) {
	a, err := coin.ParseAmount(s)
	if err != nil {
		return 0, errors.Wrapf(err, "amount %q", s)
	}
	return a, nil
}

func parseHeight(s string) (int64, error) {
	h, err := strconv.ParseInt(s, 10, 64)
	if err != nil || h < 0 {
		return 0, errors.Wrapf(errors.ErrInput, "height %q", s)
	}
	return h, nil
}

func parseAddress(s string) (custody.Address, error) {
	a, err := custody.ParseAddress(s)
	if err != nil {
		return nil, errors.Wrapf(err, "address %q", s)
	}
	if a == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "address")
	}
	return a, nil
}

func parseHex(name, s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "%s: %s", name, err)
	}
	return b, nil
}

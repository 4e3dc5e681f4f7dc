package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/hashescrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// custodyd runs the command line with given home directory and returns the
// standard output.
func custodyd(t testing.TB, home string, args ...string) (string, error) {
	t.Helper()
	return execute(t, append([]string{"--home", home, "--log-level", "none"}, args...)...)
}

// execute runs the command line with exactly given arguments.
func execute(t testing.TB, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(ioutil.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t testing.TB, home string, args ...string) string {
	t.Helper()
	out, err := custodyd(t, home, args...)
	require.NoError(t, err, strings.Join(args, " "))
	return out
}

func tempHome(t testing.TB) (string, func()) {
	t.Helper()
	home, err := ioutil.TempDir("", "custodyd")
	require.NoError(t, err)
	return home, func() { os.RemoveAll(home) }
}

// initLedger creates two keys and a ledger where the first one owns given
// amount. It returns the addresses and the path of the second key.
func initLedger(t testing.TB, home string, amount int) (alice, bob, bobKey string) {
	t.Helper()
	alice = strings.TrimSpace(mustRun(t, home, "keys", "new"))
	bobKey = filepath.Join(home, "bob.priv")
	bob = strings.TrimSpace(mustRun(t, home, "keys", "new", "--key", bobKey))

	genesis := fmt.Sprintf(`{
		"chain_id": "custody-cli",
		"app_state": {
			"cash": [{"address": "%s", "amount": %d}],
			"conf": {"hashescrow": {"max_commitment_length": 64}}
		}
	}`, alice, amount)
	genPath := filepath.Join(home, "genesis.json")
	require.NoError(t, ioutil.WriteFile(genPath, []byte(genesis), 0644))

	out := mustRun(t, home, "init", genPath)
	assert.Equal(t, "chain custody-cli initialized, next height 1\n", out)
	return alice, bob, bobKey
}

func TestTimelockCommands(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()
	alice, bob, bobKey := initLedger(t, home, 100)

	assert.Equal(t, "100\n", mustRun(t, home, "balance"))
	assert.Equal(t, "0\n", mustRun(t, home, "balance", bob))

	out := mustRun(t, home, "timelock", "lock", "w1", bob, "3", "40")
	assert.Contains(t, out, "height: 1\n")

	_, err := custodyd(t, home, "timelock", "withdraw", "w1", "--key", bobKey)
	assert.True(t, errors.ErrPrematureCondition.Is(err), "got %v", err)

	assert.Equal(t, "height: 2\n", mustRun(t, home, "mine", "--until", "2"))

	out = mustRun(t, home, "timelock", "withdraw", "w1", "--key", bobKey)
	assert.Contains(t, out, "height: 3\n")
	assert.Equal(t, "40\n", mustRun(t, home, "balance", bob))
	assert.Equal(t, "60\n", mustRun(t, home, "balance", alice))

	out = mustRun(t, home, "timelock", "status", "w1")
	assert.True(t, strings.HasPrefix(out, "state: withdrawn\n"), out)

	out = mustRun(t, home, "timelock", "status", "never-used")
	assert.True(t, strings.HasPrefix(out, "state: empty\n"), out)
}

func TestVaultCommands(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()
	alice, bob, bobKey := initLedger(t, home, 100)
	carol := strings.TrimSpace(mustRun(t, home, "keys", "new", "--key", filepath.Join(home, "carol.priv")))

	mustRun(t, home, "vault", "start", "v1", "--members", alice+","+bob, "--required", "2")
	_, err := custodyd(t, home, "vault", "start", "v1", "--members", alice, "--required", "1")
	assert.True(t, errors.ErrAlreadyInitialized.Is(err), "got %v", err)

	mustRun(t, home, "vault", "deposit", "v1", "30")
	out := mustRun(t, home, "vault", "propose", "v1", carol, "25")
	assert.Contains(t, out, "data: 0000000000000000\n")

	out = mustRun(t, home, "vault", "vote", "v1", "0")
	assert.NotContains(t, out, "executed")
	assert.Equal(t, "voted: true\n", mustRun(t, home, "vault", "status", "v1", "0", "--member", alice))
	assert.Equal(t, "voted: false\n", mustRun(t, home, "vault", "status", "v1", "0", "--member", bob))

	out = mustRun(t, home, "vault", "vote", "v1", "0", "--key", bobKey)
	assert.Contains(t, out, "log: executed\n")
	assert.Equal(t, "25\n", mustRun(t, home, "balance", carol))
	assert.Equal(t, "votes cast: 1\n", mustRun(t, home, "vault", "status", "v1", "--member", bob))

	out = mustRun(t, home, "vault", "status", "v1", "0")
	assert.True(t, strings.HasPrefix(out, "votes: 2\n"), out)

	_, err = custodyd(t, home, "vault", "status", "v1", "7")
	assert.True(t, errors.ErrUnknownProposal.Is(err), "got %v", err)
}

func TestEscrowCommands(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()
	alice, bob, bobKey := initLedger(t, home, 100)

	proof := hex.EncodeToString([]byte("the secret"))
	commitment := strings.TrimSpace(mustRun(t, home, "escrow", "commit", "blake3", proof))
	assert.Equal(t, hex.EncodeToString(hashescrow.VerifyBlake3.Commit([]byte("the secret"))), commitment)

	mustRun(t, home, "escrow", "lock", "e1", commitment, "10", "--verifier", "blake3")
	assert.Equal(t, "90\n", mustRun(t, home, "balance"))

	_, err := custodyd(t, home, "escrow", "release", "e1", proof, "--key", bobKey)
	assert.True(t, errors.ErrState.Is(err), "unbound escrow: %v", err)

	mustRun(t, home, "escrow", "bind", "e1", bob)
	_, err = custodyd(t, home, "escrow", "release", "e1", hex.EncodeToString([]byte("a guess")), "--key", bobKey)
	assert.True(t, errors.ErrInvalidProof.Is(err), "got %v", err)

	mustRun(t, home, "escrow", "release", "e1", proof, "--key", bobKey)
	assert.Equal(t, "10\n", mustRun(t, home, "balance", bob))

	_, err = custodyd(t, home, "escrow", "refund", "e1")
	assert.True(t, errors.ErrNotLocked.Is(err), "got %v", err)

	out := mustRun(t, home, "escrow", "status", "e1")
	assert.True(t, strings.HasPrefix(out, "state: released\n"), out)
	assert.Equal(t, "90\n", mustRun(t, home, "balance", alice))
}

func TestSendAndConfiguration(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()
	_, bob, _ := initLedger(t, home, 100)

	mustRun(t, home, "send", bob, "7", "--memo", "rent")
	assert.Equal(t, "7\n", mustRun(t, home, "balance", bob))

	_, err := custodyd(t, home, "send", bob, "1000")
	assert.True(t, errors.ErrInsufficientFunds.Is(err), "got %v", err)

	conf := "chain_id = \"another-chain\"\n"
	require.NoError(t, ioutil.WriteFile(filepath.Join(home, configFile), []byte(conf), 0644))
	_, err = custodyd(t, home, "balance")
	assert.True(t, errors.ErrInput.Is(err), "got %v", err)

	// The log level flag takes precedence over the file, so leave it out.
	require.NoError(t, ioutil.WriteFile(filepath.Join(home, configFile), []byte("[log]\nlevel = \"loud\"\n"), 0644))
	_, err = execute(t, "--home", home, "balance")
	assert.True(t, errors.ErrInput.Is(err), "got %v", err)
	assert.Contains(t, err.Error(), "check Log.Level")
	_, err = custodyd(t, home, "balance")
	assert.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(home, configFile)))
	_, err = execute(t, "--home", home, "--log-level", "loud", "balance")
	assert.True(t, errors.ErrInput.Is(err), "got %v", err)
}

func TestCommandsRequireGenesis(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()
	bob := strings.TrimSpace(mustRun(t, home, "keys", "new"))

	_, err := custodyd(t, home, "send", bob, "1")
	assert.True(t, errors.ErrState.Is(err), "got %v", err)

	_, err = custodyd(t, home, "keys", "new")
	assert.True(t, errors.ErrInput.Is(err), "key must not be overwritten: %v", err)
}

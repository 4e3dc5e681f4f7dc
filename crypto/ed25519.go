/*
Package crypto provides the ed25519 keys used to sign transactions.

Keys are plain byte slices so that they serialize directly with the codec
and in key files.
*/
package crypto

import (
	"crypto/rand"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is the extension part of a signature condition.
const ExtensionName = "sigs"

// Signer can sign a message and reveal the matching public key.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() PublicKey
}

// PublicKey is an ed25519 public key.
type PublicKey []byte

// Validate returns an error if the key has not the ed25519 size.
func (p PublicKey) Validate() error {
	if len(p) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "public key length %d", len(p))
	}
	return nil
}

// Verify verifies the signature was created with this message and public key
func (p PublicKey) Verify(message, sig []byte) bool {
	if p.Validate() != nil {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), message, sig)
}

// Condition encodes the public key into a permission
func (p PublicKey) Condition() custody.Condition {
	return custody.NewCondition(ExtensionName, "ed25519", p)
}

// Address returns the account address controlled by this key.
func (p PublicKey) Address() custody.Address {
	return p.Condition().Address()
}

// PrivateKey is an ed25519 private key.
type PrivateKey []byte

var _ Signer = PrivateKey(nil)

// Sign returns a matching signature for this private key
func (k PrivateKey) Sign(message []byte) ([]byte, error) {
	if len(k) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "private key length %d", len(k))
	}
	return ed25519.Sign(ed25519.PrivateKey(k), message), nil
}

// PublicKey returns the corresponding PublicKey
func (k PrivateKey) PublicKey() PublicKey {
	pub := ed25519.PrivateKey(k).Public().(ed25519.PublicKey)
	return PublicKey(pub)
}

// Seed returns the seed the key was derived from.
func (k PrivateKey) Seed() []byte {
	return ed25519.PrivateKey(k).Seed()
}

// GenPrivateKey returns a random new private key.
func GenPrivateKey() (PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, err.Error())
	}
	return PrivateKey(priv), nil
}

// PrivateKeyFromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivateKeyFromSeed(seed []byte) (PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "seed length %d", len(seed))
	}
	return PrivateKey(ed25519.NewKeyFromSeed(seed)), nil
}

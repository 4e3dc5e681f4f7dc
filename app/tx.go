package app

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/sigs"
)

// Tx is the transaction format of the ledger: a single message and the
// signatures authorizing it.
type Tx struct {
	Msg        custody.Msg          `json:"msg"`
	Signatures []*sigs.StdSignature `json:"signatures"`
}

var _ sigs.SignedTx = (*Tx)(nil)

// NewTx returns an unsigned transaction carrying msg.
func NewTx(msg custody.Msg) *Tx {
	return &Tx{Msg: msg}
}

// GetMsg returns the message of the transaction.
func (tx *Tx) GetMsg() (custody.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	return tx.Msg, nil
}

// GetSignatures returns all signatures attached to the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the serialized transaction without the signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	raw, err := custody.Marshal(&unsigned)
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	return raw, nil
}

// Sign appends a signature of the signer with given sequence.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return errors.Wrap(err, "sign")
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

// Marshal serializes the transaction.
func (tx *Tx) Marshal() ([]byte, error) {
	return custody.Marshal(tx)
}

// DecodeTx deserializes a transaction. Messages of unregistered types fail
// to decode.
func DecodeTx(raw []byte) (*Tx, error) {
	var tx Tx
	if err := custody.Unmarshal(raw, &tx); err != nil {
		return nil, errors.Wrap(err, "decode tx")
	}
	return &tx, nil
}

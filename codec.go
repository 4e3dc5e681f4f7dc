package custody

import (
	"github.com/iov-one/custody/errors"
	amino "github.com/tendermint/go-amino"
)

// cdc serializes messages, transactions and persisted models. Every concrete
// message type must be registered with RegisterMsg before use, so that a
// transaction carrying an unknown message fails to decode.
var cdc = amino.NewCodec()

func init() {
	cdc.RegisterInterface((*Msg)(nil), nil)
}

// RegisterMsg registers a concrete message type under given name. The name
// must be unique. Call it from an init function of the package declaring the
// message, passing a nil pointer of the message type.
func RegisterMsg(msg Msg, name string) {
	cdc.RegisterConcrete(msg, name, nil)
}

// Marshal serializes given object using the binary encoding.
func Marshal(o interface{}) ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(o)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return raw, nil
}

// MustMarshal is like Marshal, but panics instead of returning errors. Only
// use when you control the object being passed in.
func MustMarshal(o interface{}) []byte {
	raw, err := Marshal(o)
	if err != nil {
		panic(err)
	}
	return raw
}

// Unmarshal deserializes the binary encoding into given pointer.
func Unmarshal(raw []byte, ptr interface{}) error {
	if err := cdc.UnmarshalBinaryBare(raw, ptr); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// MarshalJSON serializes given object into the amino JSON format, that
// carries the type name of registered interface implementations.
func MarshalJSON(o interface{}) ([]byte, error) {
	raw, err := cdc.MarshalJSONIndent(o, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return raw, nil
}

// UnmarshalJSON is the inverse of MarshalJSON.
func UnmarshalJSON(raw []byte, ptr interface{}) error {
	if err := cdc.UnmarshalJSON(raw, ptr); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

package custody

import (
	"encoding/binary"
	"reflect"

	"github.com/iov-one/custody/errors"
)

// assignMsg copies the message into destination if both are of the same
// type. Destination must be a pointer.
func assignMsg(msg Msg, destination interface{}) error {
	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr || dest.IsNil() {
		return errors.Wrap(errors.ErrType, "destination must be a non nil pointer")
	}
	src := reflect.ValueOf(msg)
	if src.Kind() == reflect.Ptr {
		if src.IsNil() {
			return errors.Wrap(errors.ErrMsg, "nil message")
		}
		src = src.Elem()
	}
	if src.Type() != dest.Elem().Type() {
		return errors.ErrType.Newf("want %s message, got %T", dest.Elem().Type(), msg)
	}
	dest.Elem().Set(src)
	return nil
}

// SequenceID returns the big-endian encoded form of given sequence number.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// ParseSequenceID decodes a big-endian encoded sequence number.
func ParseSequenceID(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, errors.ErrInput.Newf("sequence must be 8 bytes, got %d", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

package custody

import (
	"regexp"

	"github.com/iov-one/custody/errors"
)

// Msg is message for the ledger to take an action
// (Make a state transition). It is just the request, and
// must be validated by the Handlers. All authentication
// information is in the wrapping Tx.
type Msg interface {
	// Return the message path.
	// This is used by the Router to locate the proper Handler.
	// Msg should be created alongside the Handler that corresponds to them.
	//
	// Must be alphanumeric [0-9A-Za-z_\-/]+
	Path() string

	// Validate performs a sanity checks on this message. It returns an
	// error if at least one of the fields is not valid.
	Validate() error
}

// Tx represent the data sent from the user to the ledger.
// It includes the actual message, along with information needed
// to authenticate the sender (cryptographic signatures),
// and anything else needed to pass through middleware.
type Tx interface {
	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message, or (missing) if no message
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg extracts the message represented by given transaction into given
// destination. Before returning message validation method is called.
//
// Use it in handlers the following way:
//
//   var msg LockMsg
//   if err := custody.LoadMsg(tx, &msg); err != nil {
//   	return err
//   }
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := decodeMsg(tx, destination)
	if err != nil {
		return err
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}

// DecodeMsg is LoadMsg without the validation. Handlers that must inspect
// the stored state before judging the arguments call Validate themselves.
func DecodeMsg(tx Tx, destination interface{}) error {
	_, err := decodeMsg(tx, destination)
	return err
}

func decodeMsg(tx Tx, destination interface{}) (Msg, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	return msg, assignMsg(msg, destination)
}

// IsValidID is the RegExp for identifiers of custody instances.
var IsValidID = regexp.MustCompile(`^[a-zA-Z0-9_\-.]{1,64}$`).Match

// ValidateID returns an error if given instance identifier is not
// acceptable.
func ValidateID(id []byte) error {
	if !IsValidID(id) {
		return errors.ErrInput.Newf("invalid identifier %q", id)
	}
	return nil
}

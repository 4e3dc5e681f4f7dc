package custody

import (
	"github.com/iov-one/custody/errors"
)

// DeliverResult captures any non-error result of a delivered transaction
// to make sure people use error for error cases
type DeliverResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
}

// CheckResult captures any non-error result of a checked transaction
type CheckResult struct {
	// Data is a machine-parseable return value
	Data []byte
	// Log is human-readable informational string
	Log string
}

// Receipt is the outcome of a single invocation as reported to the caller.
// A zero Code means success.
type Receipt struct {
	Code uint32 `json:"code"`
	Log  string `json:"log,omitempty"`
	Data []byte `json:"data,omitempty"`
}

// NewReceipt converts the result of a delivery into a receipt, preserving as
// much information as possible. Unless debug is set, panic details are
// redacted.
func NewReceipt(res *DeliverResult, err error, debug bool) Receipt {
	if err != nil {
		if !debug {
			err = errors.Redact(err)
		}
		return Receipt{Code: errors.Code(err), Log: err.Error()}
	}
	if res == nil {
		return Receipt{}
	}
	return Receipt{Data: res.Data, Log: res.Log}
}

// IsOK returns true if the invocation succeeded.
func (r Receipt) IsOK() bool {
	return r.Code == 0
}

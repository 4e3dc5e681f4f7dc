package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attributes err to the named message or model field. Nested fields
// use dot notation, for example Action.Recipient or Members.2. It returns
// nil when err is nil, so validation can be written as a chain of calls:
//
//   errs = errors.AppendField(errs, "VaultID", custody.ValidateID(m.VaultID))
//
// A stack trace is attached to err unless it already carries one.
func Field(name string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: name, desc: description}
}

// AppendField adds the field error, if any, to errs.
func AppendField(errs error, name string, err error) error {
	return Append(errs, Field(name, err, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (err *fieldError) Error() string {
	if err.desc == "" {
		return fmt.Sprintf("field %q: %s", err.field, err.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", err.field, err.desc, err.parent)
}

func (err *fieldError) Cause() error {
	return err.parent
}

func (err *fieldError) Field() string {
	return err.field
}

type fielder interface {
	Field() string
}

// FieldErrors returns every error of err attributed to the named field. The
// search stops at the first match on each branch, so a field wrapped in the
// same field twice is returned once, by its outermost error.
func FieldErrors(err error, name string) []error {
	var found []error
	walkFields(err, func(f fielder, e error) bool {
		if f.Field() != name {
			return false
		}
		found = append(found, e)
		return true
	})
	return found
}

// Fields returns the names of the outermost field errors carried by err, in
// order of appearance and without repetition.
func Fields(err error) []string {
	var names []string
	seen := make(map[string]bool)
	walkFields(err, func(f fielder, _ error) bool {
		if !seen[f.Field()] {
			seen[f.Field()] = true
			names = append(names, f.Field())
		}
		return true
	})
	return names
}

// walkFields calls visit for each field error in the tree of err. A branch
// is not descended any further once visit returns true.
func walkFields(err error, visit func(fielder, error) bool) {
	for !isNilErr(err) {
		if f, ok := err.(fielder); ok && visit(f, err) {
			return
		}
		// Unpack covers all children, Cause must not be followed as well.
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				walkFields(e, visit)
			}
			return
		}
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}

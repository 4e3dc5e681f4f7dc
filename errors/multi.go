package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no non-nil error is given, nil is returned. If exactly one non-nil
// error is given, it is returned unchanged.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
			continue
		}
		res = append(res, e)
	}

	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

// multiErr represents a group of errors. Use Append to create it.
type multiErr []error

func (e multiErr) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	points := make([]string, len(e))
	for i, err := range e {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(e), strings.Join(points, "\n\t"))
}

// Unpack implements unpacker interface.
func (e multiErr) Unpack() []error {
	return e
}

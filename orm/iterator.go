package orm

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// consumeIterator will read all remaining data into an
// array and release the iterator
func consumeIterator(it custody.Iterator) ([]custody.Model, error) {
	defer it.Release()

	var res []custody.Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, custody.Pair(key, value))
	}
}

// prefixRange turns a prefix into a (start, end) range. The start is
// inclusive and the end is exclusive.
//
// An empty or nil prefix returns (nil, nil) which means iterate over
// everything.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	start := prefix
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return start, end[:i+1]
		}
	}
	// All bytes are 0xff, iterate till the end of the keyspace.
	return start, nil
}

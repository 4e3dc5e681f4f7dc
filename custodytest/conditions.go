package custodytest

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/iov-one/custody"
)

var sequence uint64

// NewCondition returns a new and unique condition. Conditions created
// by this function are deterministic only within a single process run, so
// never rely on their exact value.
func NewCondition() custody.Condition {
	n := atomic.AddUint64(&sequence, 1)
	id := make([]byte, 8)
	binary.BigEndian.PutUint64(id, n)
	return custody.NewCondition("custodytest", "seq", id)
}

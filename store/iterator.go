package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/custody/errors"
)

// ascendBtree collects all cached items within [start, end) in ascending
// order. Nil start or end means no limit on that side.
func ascendBtree(bt *btree.BTree, start, end []byte) []keyer {
	var items []keyer
	collect := func(item btree.Item) bool {
		items = append(items, item.(keyer))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// descendBtree collects all cached items within [start, end) in descending
// order.
func descendBtree(bt *btree.BTree, start, end []byte) []keyer {
	items := ascendBtree(bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// mergeIterator combines the cached items of a btree with the iterator of
// the parent store. Cached items shadow parent values with the same key and
// deleted items hide them.
type mergeIterator struct {
	items   []keyer
	idx     int
	reverse bool

	parent Iterator
	// the next unread element of the parent
	pKey, pValue []byte
	pDone        bool
	pErr         error
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []keyer, parent Iterator, reverse bool) *mergeIterator {
	it := &mergeIterator{
		items:   items,
		reverse: reverse,
		parent:  parent,
	}
	it.advanceParent()
	return it
}

func (m *mergeIterator) advanceParent() {
	if m.parent == nil {
		m.pDone = true
		return
	}
	key, value, err := m.parent.Next()
	switch {
	case errors.ErrIteratorDone.Is(err):
		m.pDone = true
		m.pKey, m.pValue = nil, nil
	case err != nil:
		m.pErr = err
	default:
		m.pKey, m.pValue = key, value
	}
}

// Next returns the next element in iteration order, or ErrIteratorDone.
func (m *mergeIterator) Next() ([]byte, []byte, error) {
	for {
		if m.pErr != nil {
			return nil, nil, m.pErr
		}
		hasOwn := m.idx < len(m.items)
		if !hasOwn && m.pDone {
			return nil, nil, errors.Wrap(errors.ErrIteratorDone, "merge iterator")
		}

		if !hasOwn {
			key, value := m.pKey, m.pValue
			m.advanceParent()
			return key, value, nil
		}

		item := m.items[m.idx]
		if !m.pDone {
			cmp := bytes.Compare(m.pKey, item.Key())
			if m.reverse {
				cmp = -cmp
			}
			if cmp < 0 {
				key, value := m.pKey, m.pValue
				m.advanceParent()
				return key, value, nil
			}
			if cmp == 0 {
				// Cached item shadows the parent one.
				m.advanceParent()
			}
		}

		m.idx++
		if set, ok := item.(setItem); ok {
			return set.Key(), set.value, nil
		}
		// deleted item, skip it
	}
}

// Release releases the Iterator.
func (m *mergeIterator) Release() {
	if m.parent != nil {
		m.parent.Release()
	}
	m.items = nil
}

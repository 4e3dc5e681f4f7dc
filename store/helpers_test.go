package store

import (
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSliceIterator makes sure the basic slice iterator works.
func TestSliceIterator(t *testing.T) {
	const size = 10

	ks := randKeys(size, 8)
	vs := randKeys(size, 40)

	models := make([]Model, size)
	for i := 0; i < size; i++ {
		models[i].Key = ks[i]
		models[i].Value = vs[i]
	}

	it := NewSliceIterator(models)
	for i := 0; i < size; i++ {
		key, value, err := it.Next()
		require.NoError(t, err)
		assert.Equal(t, ks[i], key)
		assert.Equal(t, vs[i], value)
	}
	_, _, err := it.Next()
	assert.True(t, errors.ErrIteratorDone.Is(err))

	it = NewSliceIterator(models)
	it.Release()
	_, _, err = it.Next()
	assert.True(t, errors.ErrIteratorDone.Is(err), "released iterator must be exhausted")
}

func TestNonAtomicBatch(t *testing.T) {
	db := MemStore()
	b := NewNonAtomicBatch(db)
	require.NoError(t, b.Set([]byte("a"), []byte("1")))
	require.NoError(t, b.Set([]byte("b"), []byte("2")))
	require.NoError(t, b.Delete([]byte("a")))
	assert.Equal(t, 3, b.Len())

	has, err := db.Has([]byte("b"))
	require.NoError(t, err)
	assert.False(t, has, "batch must not write before Write is called")

	require.NoError(t, b.Write())
	assert.Equal(t, 0, b.Len())

	got, err := db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
	has, err = db.Has([]byte("a"))
	require.NoError(t, err)
	assert.False(t, has)
}

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBTreeCacheGetSet(t *testing.T) {
	base := MemStore()

	k, v := []byte("french"), []byte("fry")

	// nothing there
	got, err := base.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)
	has, err := base.Has(k)
	require.NoError(t, err)
	assert.False(t, has)

	// set and get
	require.NoError(t, base.Set(k, v))
	got, err = base.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)
	has, err = base.Has(k)
	require.NoError(t, err)
	assert.True(t, has)

	// delete and gone
	require.NoError(t, base.Delete(k))
	got, err = base.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)
	has, err = base.Has(k)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBTreeCacheWrapWrite(t *testing.T) {
	base := MemStore()
	k, v := []byte("france"), []byte("paris")
	k2, v2 := []byte("spain"), []byte("madrid")

	require.NoError(t, base.Set(k, v))

	cache := base.CacheWrap()

	// cache sees both its writes and the parent's data
	require.NoError(t, cache.Set(k2, v2))
	got, err := cache.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)
	got, err = cache.Get(k2)
	require.NoError(t, err)
	assert.Equal(t, v2, got)

	// parent doesn't see the cache write yet
	got, err = base.Get(k2)
	require.NoError(t, err)
	assert.Nil(t, got)

	// after Write the parent has it
	require.NoError(t, cache.Write())
	got, err = base.Get(k2)
	require.NoError(t, err)
	assert.Equal(t, v2, got)
}

func TestBTreeCacheWrapDiscard(t *testing.T) {
	base := MemStore()
	k, v := []byte("italy"), []byte("rome")

	cache := base.CacheWrap()
	require.NoError(t, cache.Set(k, v))
	cache.Discard()

	got, err := base.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBTreeCacheWrapDelete(t *testing.T) {
	base := MemStore()
	k, v := []byte("greece"), []byte("athens")

	require.NoError(t, base.Set(k, v))

	cache := base.CacheWrap()
	require.NoError(t, cache.Delete(k))

	// deletion shadows the backing store inside the cache
	has, err := cache.Has(k)
	require.NoError(t, err)
	assert.False(t, has)

	// but parent unaffected until write
	has, err = base.Has(k)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, cache.Write())
	has, err = base.Has(k)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestLogableStore(t *testing.T) {
	kv, ops := LogableStore()

	require.NoError(t, kv.Set([]byte("a"), []byte("1")))
	require.NoError(t, kv.Set([]byte("b"), []byte("2")))
	require.NoError(t, kv.Delete([]byte("a")))

	log := ops.ShowOps()
	require.Len(t, log, 3)
	assert.True(t, log[0].IsSetOp())
	assert.True(t, log[1].IsSetOp())
	assert.False(t, log[2].IsSetOp())
	assert.Equal(t, []byte("a"), log[2].Key())
}

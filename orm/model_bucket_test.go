package orm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/middleman-net/middleman/errors"
	"github.com/middleman-net/middleman/store"
)

// Counter is a minimal model used to exercise the buckets.
type Counter struct {
	Count int64 `json:"count"`
}

var _ Model = (*Counter)(nil)

func (c *Counter) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

func (c *Counter) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, c)
}

func (c *Counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrState, "negative counter")
	}
	return nil
}

func counterBucket() ModelBucket {
	proto := NewSimpleObj(nil, &Counter{})
	return NewModelBucket(NewBucket("cnts", proto))
}

func TestModelBucket(t *testing.T) {
	db := store.MemStore()
	b := counterBucket()

	err := b.Put(db, []byte("c1"), &Counter{Count: 1})
	require.NoError(t, err)

	var c1 Counter
	require.NoError(t, b.One(db, []byte("c1"), &c1))
	assert.Equal(t, int64(1), c1.Count)

	has, err := b.Has(db, []byte("c1"))
	require.NoError(t, err)
	assert.True(t, has)

	has, err = b.Has(db, []byte("unknown"))
	require.NoError(t, err)
	assert.False(t, has)

	var missing Counter
	err = b.One(db, []byte("unknown"), &missing)
	assert.True(t, errors.ErrNotFound.Is(err))

	require.NoError(t, b.Delete(db, []byte("c1")))
	err = b.Delete(db, []byte("c1"))
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestModelBucketPutInvalid(t *testing.T) {
	db := store.MemStore()
	b := counterBucket()

	err := b.Put(db, []byte("c1"), &Counter{Count: -5})
	assert.True(t, errors.ErrState.Is(err))

	has, err := b.Has(db, []byte("c1"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBucketPrefix(t *testing.T) {
	proto := NewSimpleObj(nil, &Counter{})
	a := NewBucket("aaa", proto)
	b := NewBucket("bbb", proto)
	db := store.MemStore()

	require.NoError(t, a.Save(db, NewSimpleObj([]byte("k"), &Counter{Count: 7})))

	// same raw key in another bucket is invisible
	obj, err := b.Get(db, []byte("k"))
	require.NoError(t, err)
	assert.Nil(t, obj)

	obj, err = a.Get(db, []byte("k"))
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.Equal(t, int64(7), obj.Value().(*Counter).Count)
}

package app

import (
	"context"
	"testing"

	"github.com/middleman-net/middleman/errors"
	"github.com/middleman-net/middleman/middlemantest"
	"github.com/middleman-net/middleman/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterSuccess(t *testing.T) {
	r := NewRouter()
	h := &middlemantest.Handler{}
	r.Handle("test/good", h)

	db := store.MemStore()
	tx := &middlemantest.Tx{Msg: &middlemantest.Msg{RoutePath: "test/good"}}

	_, err := r.Check(context.Background(), db, tx)
	require.NoError(t, err)
	_, err = r.Deliver(context.Background(), db, tx)
	require.NoError(t, err)
	assert.Equal(t, 2, h.CallCount())
}

func TestRouterNoRoute(t *testing.T) {
	r := NewRouter()
	db := store.MemStore()
	tx := &middlemantest.Tx{Msg: &middlemantest.Msg{RoutePath: "test/missing"}}

	_, err := r.Check(context.Background(), db, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Deliver(context.Background(), db, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestRouterRegistrationPanics(t *testing.T) {
	r := NewRouter()
	h := &middlemantest.Handler{}

	assert.Panics(t, func() { r.Handle("no spaces allowed", h) })

	r.Handle("test/dupe", h)
	assert.Panics(t, func() { r.Handle("test/dupe", h) })
}

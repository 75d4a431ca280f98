package store

import (
	"github.com/middleman-net/middleman"
)

// Re-export the store interfaces from the root package, so implementations
// in this package can refer to them locally.
type (
	ReadOnlyKVStore  = middleman.ReadOnlyKVStore
	KVStore          = middleman.KVStore
	CacheableKVStore = middleman.CacheableKVStore
	KVCacheWrap      = middleman.KVCacheWrap
)

// Batch can write multiple operations to an underlying store. All writes
// performed on a cache wrap are collected in a batch and applied on Write.
type Batch interface {
	Set(key, value []byte) error
	Delete(key []byte) error
	Write() error
}

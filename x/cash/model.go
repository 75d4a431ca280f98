package cash

import (
	"encoding/json"

	"github.com/middleman-net/middleman"
	"github.com/middleman-net/middleman/coin"
	"github.com/middleman-net/middleman/errors"
	"github.com/middleman-net/middleman/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

//---- Set

// Set is the value stored in a wallet, the collection of
// coins held under one address.
type Set struct {
	Coins coin.Coins `json:"coins"`
}

var _ orm.Model = (*Set)(nil)

// Marshal serializes the set
func (s *Set) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal loads serialized state into the set
func (s *Set) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, s)
}

// Validate requires that all coins are in alphabetical order
func (s *Set) Validate() error {
	return s.Coins.Validate()
}

// Copy makes a new set with the same coins
func (s *Set) Copy() *Set {
	return &Set{
		Coins: s.Coins.Clone(),
	}
}

//--- Wallet (Set object, wallet + key)

// Wallet is the actual object that we want to pass around
// in our code. It contains a set of coins, as well as the
// address. It is connected to the Bucket to easily manipulate
// state.
type Wallet struct {
	key   []byte
	value *Set
}

var _ orm.Object = (*Wallet)(nil)

// NewWallet creates an empty wallet with this address
func NewWallet(key middleman.Address, coins ...*coin.Coin) *Wallet {
	res := &Wallet{key, new(Set)}
	if coins != nil {
		err := res.Concat(coins)
		if err != nil {
			panic(err)
		}
	}
	return res
}

// Value gets the value stored in the object
func (w Wallet) Value() middleman.Persistent {
	return w.value
}

// Key returns the key to store the object under
func (w Wallet) Key() []byte {
	return w.key
}

// Validate makes sure the fields aren't empty.
// And delegates to the value validator if present
func (w Wallet) Validate() error {
	if len(w.key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "missing key")
	}
	return w.value.Validate()
}

// SetKey may be used to update a simple obj key
func (w *Wallet) SetKey(key []byte) {
	w.key = key
}

// Clone will make a copy of this object
func (w *Wallet) Clone() orm.Object {
	res := &Wallet{
		value: w.value.Copy(),
	}
	// only copy key if non-nil
	if len(w.key) > 0 {
		res.key = append([]byte(nil), w.key...)
	}
	return res
}

// Coins returns the coins stored in the wallet
func (w Wallet) Coins() coin.Coins {
	return w.value.Coins
}

// Add modifies the wallet to add Coin c
func (w *Wallet) Add(c coin.Coin) error {
	cs, err := w.Coins().Add(c)
	if err != nil {
		return err
	}
	w.value.Coins = cs
	return nil
}

// Subtract modifies the wallet to remove Coin c
func (w *Wallet) Subtract(c coin.Coin) error {
	return w.Add(c.Negative())
}

// Concat combines the coins to make sure they are sorted
// and rounded off, with no duplicates or 0 values.
func (w *Wallet) Concat(coins coin.Coins) error {
	joint, err := w.Coins().Combine(coins)
	if err != nil {
		return err
	}
	w.value.Coins = joint
	return nil
}

//--- cash.Bucket - type-safe bucket

// WalletBucket is what we expect to access wallets from the
// controller. This is the minimal interface needed by the
// cash controller.
type WalletBucket interface {
	GetOrCreate(db middleman.KVStore, key middleman.Address) (orm.Object, error)
	Get(db middleman.ReadOnlyKVStore, key []byte) (orm.Object, error)
	Save(db middleman.KVStore, obj orm.Object) error
}

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

var _ WalletBucket = Bucket{}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewWallet(nil)),
	}
}

// GetOrCreate returns the wallet under this address, or
// a fresh empty one if nothing is stored yet
func (b Bucket) GetOrCreate(db middleman.KVStore, key middleman.Address) (orm.Object, error) {
	obj, err := b.Get(db, key)
	if err == nil && obj == nil {
		obj = NewWallet(key)
	}
	return obj, err
}

// Save saves the wallet, or deletes an emptied one
func (b Bucket) Save(db middleman.KVStore, obj orm.Object) error {
	wallet, ok := obj.(*Wallet)
	if !ok {
		return errors.Wrapf(errors.ErrType, "expected wallet, got %T", obj)
	}
	// an empty wallet takes no space in the store
	if wallet.Coins().IsEmpty() {
		return b.Bucket.Delete(db, obj.Key())
	}
	return b.Bucket.Save(db, obj)
}

// AsCoins will safely extract the coins from any object
// returned from the wallet bucket
func AsCoins(obj orm.Object) coin.Coins {
	if obj == nil {
		return nil
	}
	wallet, ok := obj.(*Wallet)
	if !ok {
		return nil
	}
	return wallet.Coins()
}

// AsWallet converts a generic object into the wallet type
func AsWallet(obj orm.Object) *Wallet {
	if obj == nil {
		return nil
	}
	return obj.(*Wallet)
}

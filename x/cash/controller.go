package cash

import (
	"github.com/middleman-net/middleman"
	"github.com/middleman-net/middleman/coin"
	"github.com/middleman-net/middleman/errors"
)

// Controller is the functionality needed by
// cash.Handler and cash.Decorator. BaseController
// should work plenty fine, but you can add other logic
// if so desired
type Controller interface {
	CoinMover
	CoinMinter
	Balance(middleman.ReadOnlyKVStore, middleman.Address) (coin.Coins, error)
}

// CoinMover is a minimal interface for moving coins between accounts
type CoinMover interface {
	// MoveCoins removes funds from the source account and adds them to
	// the destination account. This operation is atomic.
	MoveCoins(store middleman.KVStore, src middleman.Address, dest middleman.Address, amount coin.Coin) error
}

// CoinMinter is an interface for creating new coins out of thin air,
// to initialize accounts
type CoinMinter interface {
	// CoinMint increase the number of funds on given account by a
	// specified amount.
	CoinMint(middleman.KVStore, middleman.Address, coin.Coin) error
}

// BaseController implements Controller interface, using WalletBucket as the
// storage engine. Wallet ensures coins are properly stored.
type BaseController struct {
	bucket WalletBucket
}

var _ Controller = BaseController{}

// NewController returns a base controller implementation.
func NewController(bucket WalletBucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount of funds stored under given account address.
func (c BaseController) Balance(store middleman.ReadOnlyKVStore, src middleman.Address) (coin.Coins, error) {
	state, err := c.bucket.Get(store, src)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get account state")
	}
	if state == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "no account")
	}
	return AsCoins(state), nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(store middleman.KVStore,
	src middleman.Address, dest middleman.Address, amount coin.Coin) error {

	if amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "zero value")
	}
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive %q", amount.String())
	}

	// load sender, validate funds
	sender, err := c.bucket.Get(store, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrEmpty, "empty account %s", src)
	}
	if !AsCoins(sender).Contains(amount) {
		return errors.Wrap(errors.ErrAmount, "funds")
	}

	// load/create recipient
	recipient, err := c.bucket.GetOrCreate(store, dest)
	if err != nil {
		return err
	}

	// update amounts
	if err := AsWallet(sender).Subtract(amount); err != nil {
		return err
	}
	if err := AsWallet(recipient).Add(amount); err != nil {
		return err
	}

	// save them and return
	if err := c.bucket.Save(store, sender); err != nil {
		return err
	}
	return c.bucket.Save(store, recipient)
}

// CoinMint attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
//
// Note the amount may also be negative:
// "the lord giveth and the lord taketh away"
func (c BaseController) CoinMint(store middleman.KVStore,
	dest middleman.Address, amount coin.Coin) error {

	recipient, err := c.bucket.GetOrCreate(store, dest)
	if err != nil {
		return err
	}
	if err := AsWallet(recipient).Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(store, recipient)
}

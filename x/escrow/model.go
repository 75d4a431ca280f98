package escrow

import (
	"github.com/middleman-net/middleman"
	"github.com/middleman-net/middleman/coin"
	"github.com/middleman-net/middleman/errors"
	"github.com/middleman-net/middleman/orm"
)

var _ orm.Model = (*Escrow)(nil)

// Validate ensures the escrow is in a consistent state
func (e *Escrow) Validate() error {
	if err := e.Buyer.Validate(); err != nil {
		return errors.Wrap(err, "buyer")
	}
	if err := e.Seller.Validate(); err != nil {
		return errors.Wrap(err, "seller")
	}
	if err := e.Arbiter.Validate(); err != nil {
		return errors.Wrap(err, "arbiter")
	}
	if e.Amount == nil {
		return errors.Wrap(errors.ErrEmpty, "amount")
	}
	if err := e.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	switch {
	case e.State.IsTerminal():
		// the terminal payout zeroed the custodied value
		if !e.Amount.IsZero() {
			return errors.Wrap(errors.ErrState, "terminal escrow with funds")
		}
	case e.State == StateCreated || e.State == StateFunded || e.State == StateDisputed:
		if !e.Amount.IsPositive() {
			return errors.Wrap(errors.ErrAmount, "non-positive deposit")
		}
	default:
		return errors.Wrapf(errors.ErrState, "invalid state %d", e.State)
	}
	if e.Timeout <= 0 {
		return errors.Wrap(errors.ErrInput, "timeout is required")
	}
	if err := e.Timeout.Validate(); err != nil {
		return errors.Wrap(err, "invalid timeout value")
	}
	// AcceptedAt is set on Created->Funded and never reset
	switch e.State {
	case StateCreated, StateCanceled:
		if e.AcceptedAt != 0 {
			return errors.Wrap(errors.ErrState, "accepted before funding")
		}
	default:
		if e.AcceptedAt == 0 {
			return errors.Wrap(errors.ErrState, "missing acceptance time")
		}
	}
	if len(e.Memo) > maxMemoSize {
		return errors.Wrapf(errors.ErrInput, "memo %s", e.Memo)
	}
	if err := e.Address.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	return nil
}

// Condition calculates the custody account condition of an escrow
// given the key
func Condition(key []byte) middleman.Condition {
	return middleman.NewCondition("escrow", "seq", key)
}

// NewEscrow assembles a fresh record in StateCreated
func NewEscrow(
	id []byte,
	buyer middleman.Address,
	seller middleman.Address,
	arbiter middleman.Address,
	amount coin.Coin,
	timeout middleman.UnixDuration,
	memo string,
) *Escrow {
	return &Escrow{
		Buyer:   buyer,
		Seller:  seller,
		Arbiter: arbiter,
		Amount:  &amount,
		Timeout: timeout,
		State:   StateCreated,
		Address: Condition(id).Address(),
		Memo:    memo,
	}
}

// BucketName is where the escrow records are stored
const BucketName = "esc"

// NewBucket returns the model bucket storing escrow records keyed by
// their 8 byte id
func NewBucket() orm.ModelBucket {
	proto := orm.NewSimpleObj(nil, &Escrow{})
	return orm.NewModelBucket(orm.NewBucket(BucketName, proto))
}

var escrowSeq = orm.NewSequence("escrow", "id")

// custody account index, so that incoming cash sends can be screened

var custodyPrefix = []byte("_i.escacct:")

func custodyKey(addr middleman.Address) []byte {
	return append(custodyPrefix, addr...)
}

// markCustodyAccount records that addr is the custody account of the
// escrow with the given id
func markCustodyAccount(db middleman.KVStore, addr middleman.Address, id []byte) error {
	return db.Set(custodyKey(addr), id)
}

// CustodyAccountID returns the id of the escrow owning this custody
// account, or nil if the address is no escrow account
func CustodyAccountID(db middleman.ReadOnlyKVStore, addr middleman.Address) ([]byte, error) {
	return db.Get(custodyKey(addr))
}

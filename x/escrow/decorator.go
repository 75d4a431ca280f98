package escrow

import (
	"github.com/middleman-net/middleman"
	"github.com/middleman-net/middleman/errors"
	"github.com/middleman-net/middleman/x/cash"
)

// RejectDeposits refuses cash sends into escrow custody accounts.
// Custody accounts are funded through escrow creation only, so any
// other deposit would be stuck until payout sweeps the whole balance.
type RejectDeposits struct{}

var _ middleman.Decorator = RejectDeposits{}

// NewRejectDeposits builds the decorator. It keeps no state, the
// custody index lives in the store.
func NewRejectDeposits() RejectDeposits {
	return RejectDeposits{}
}

// Check screens the transaction before passing it on.
func (d RejectDeposits) Check(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx, next middleman.Checker) (*middleman.CheckResult, error) {
	if err := d.screen(db, tx); err != nil {
		return nil, err
	}
	return next.Check(ctx, db, tx)
}

// Deliver screens the transaction before passing it on.
func (d RejectDeposits) Deliver(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx, next middleman.Deliverer) (*middleman.DeliverResult, error) {
	if err := d.screen(db, tx); err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

func (d RejectDeposits) screen(db middleman.KVStore, tx middleman.Tx) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}
	send, ok := msg.(*cash.SendMsg)
	if !ok {
		return nil
	}
	id, err := CustodyAccountID(db, send.Destination)
	if err != nil {
		return errors.Wrap(err, "custody index")
	}
	if id != nil {
		return errors.Wrapf(errors.ErrState, "destination is the custody account of escrow %X", id)
	}
	return nil
}

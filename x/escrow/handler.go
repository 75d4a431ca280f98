package escrow

import (
	"fmt"

	"github.com/middleman-net/middleman"
	"github.com/middleman-net/middleman/coin"
	"github.com/middleman-net/middleman/errors"
	"github.com/middleman-net/middleman/orm"
	"github.com/middleman-net/middleman/x"
	"github.com/middleman-net/middleman/x/cash"
)

const (
	// pay escrow cost up-front
	createEscrowCost  int64 = 300
	returnEscrowCost  int64 = 0
	updateEscrowCost  int64 = 50
	releaseEscrowCost int64 = 0
)

// RegisterRoutes will instantiate and register all handlers in this package
func RegisterRoutes(r middleman.Registry, auth x.Authenticator, control cash.Controller) {
	bucket := NewBucket()
	r.Handle(pathCreateMsg, CreateEscrowHandler{auth, bucket, control})
	r.Handle(pathAcceptMsg, AcceptEscrowHandler{auth, bucket})
	r.Handle(pathCancelMsg, CancelEscrowHandler{auth, bucket, control})
	r.Handle(pathReleaseMsg, ReleaseEscrowHandler{auth, bucket, control})
	r.Handle(pathRefundMsg, RefundEscrowHandler{auth, bucket, control})
	r.Handle(pathDisputeMsg, DisputeEscrowHandler{auth, bucket})
	r.Handle(pathArbiterReleaseMsg, ArbiterReleaseHandler{auth, bucket, control})
	r.Handle(pathArbiterRefundMsg, ArbiterRefundHandler{auth, bucket, control})
}

//---- shared pieces

// loadEscrow loads the escrow by its 8 byte id
func loadEscrow(bucket orm.ModelBucket, db middleman.ReadOnlyKVStore, id []byte) (*Escrow, error) {
	var esc Escrow
	if err := bucket.One(db, id, &esc); err != nil {
		return nil, errors.Wrapf(err, "escrow %X", id)
	}
	return &esc, nil
}

// blockNow returns the current block time, failing if the context
// carries no clock.
func blockNow(ctx middleman.Context) (middleman.UnixTime, error) {
	now, ok := middleman.BlockTime(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrState, "block time not present in context")
	}
	return middleman.AsUnixTime(now), nil
}

// payout moves the whole deposit out of the custody account and closes
// the escrow in the given terminal state. The escrow record is written
// before the coins move, so a failed transfer aborts the whole
// operation with nothing persisted.
func payout(db middleman.KVStore,
	bucket orm.ModelBucket,
	control cash.CoinMover,
	id []byte,
	esc *Escrow,
	dest middleman.Address,
	final State,
) error {
	amount := *esc.Amount
	esc.State = final
	esc.Amount = &coin.Coin{Ticker: amount.Ticker}
	if err := bucket.Put(db, id, esc); err != nil {
		return errors.Wrap(err, "close escrow")
	}
	if err := control.MoveCoins(db, esc.Address, dest, amount); err != nil {
		return errors.Wrapf(ErrTransfer, "%v", err)
	}
	return nil
}

func escrowTags(path string, id []byte, principals ...middleman.Address) []middleman.KVPair {
	tags := []middleman.KVPair{
		middleman.Pair("action", path),
		middleman.Pair("escrow", fmt.Sprintf("%X", id)),
	}
	for _, p := range principals {
		tags = append(tags, middleman.Pair("principal", p.String()))
	}
	return tags
}

//---- create

// CreateEscrowHandler will set up a new escrow and custody the deposit
type CreateEscrowHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	cash   cash.Controller
}

var _ middleman.Handler = CreateEscrowHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h CreateEscrowHandler) Check(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &middleman.CheckResult{GasAllocated: createEscrowCost}, nil
}

// Deliver moves the deposit from the buyer to the custody account if
// all conditions are met.
func (h CreateEscrowHandler) Deliver(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.DeliverResult, error) {
	msg, buyer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// the id counter only advances once the request is known good
	id, err := escrowSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire id")
	}

	esc := NewEscrow(id, buyer, msg.Seller, msg.Arbiter, *msg.Amount, msg.Timeout, msg.Memo)
	if err := h.bucket.Put(db, id, esc); err != nil {
		return nil, err
	}
	if err := markCustodyAccount(db, esc.Address, id); err != nil {
		return nil, errors.Wrap(err, "custody index")
	}

	// custody the deposit
	if err := h.cash.MoveCoins(db, buyer, esc.Address, *msg.Amount); err != nil {
		return nil, errors.Wrap(err, "cannot fund escrow")
	}
	return &middleman.DeliverResult{
		Data: id,
		Tags: escrowTags(pathCreateMsg, id, buyer, msg.Seller, msg.Arbiter),
	}, nil
}

// validate does all common pre-processing between Check and Deliver.
// It returns the buyer alongside the message, resolving a missing
// buyer to the main signer.
func (h CreateEscrowHandler) validate(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*CreateMsg, middleman.Address, error) {
	var msg CreateMsg
	if err := middleman.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if msg.Timeout < conf.MinTimeout {
		return nil, nil, errors.Wrapf(errors.ErrInput, "timeout below minimum %s", conf.MinTimeout)
	}
	if msg.Timeout > conf.MaxTimeout {
		return nil, nil, errors.Wrapf(errors.ErrInput, "timeout above maximum %s", conf.MaxTimeout)
	}

	buyer := msg.Buyer
	if buyer == nil {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		buyer = signer.Address()
	} else if !h.auth.HasAddress(ctx, buyer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "buyer has not signed")
	}
	return &msg, buyer, nil
}

//---- accept

// AcceptEscrowHandler lets the seller join, which starts the timeout
// clock.
type AcceptEscrowHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ middleman.Handler = AcceptEscrowHandler{}

func (h AcceptEscrowHandler) Check(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &middleman.CheckResult{GasAllocated: updateEscrowCost}, nil
}

func (h AcceptEscrowHandler) Deliver(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.DeliverResult, error) {
	id, esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}

	esc.State = StateFunded
	esc.AcceptedAt = now
	if err := h.bucket.Put(db, id, esc); err != nil {
		return nil, err
	}
	return &middleman.DeliverResult{Tags: escrowTags(pathAcceptMsg, id, esc.Seller)}, nil
}

func (h AcceptEscrowHandler) validate(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) ([]byte, *Escrow, error) {
	var msg AcceptMsg
	if err := middleman.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	esc, err := loadEscrow(h.bucket, db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, esc.Seller) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the seller can accept")
	}
	if esc.State != StateCreated {
		return nil, nil, errors.Wrapf(errors.ErrState, "cannot accept from %s", esc.State)
	}
	return msg.EscrowID, esc, nil
}

//---- cancel

// CancelEscrowHandler lets the buyer withdraw before the seller
// accepted.
type CancelEscrowHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	cash   cash.Controller
}

var _ middleman.Handler = CancelEscrowHandler{}

func (h CancelEscrowHandler) Check(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &middleman.CheckResult{GasAllocated: returnEscrowCost}, nil
}

func (h CancelEscrowHandler) Deliver(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.DeliverResult, error) {
	id, esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := payout(db, h.bucket, h.cash, id, esc, esc.Buyer, StateCanceled); err != nil {
		return nil, err
	}
	return &middleman.DeliverResult{Tags: escrowTags(pathCancelMsg, id, esc.Buyer)}, nil
}

func (h CancelEscrowHandler) validate(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) ([]byte, *Escrow, error) {
	var msg CancelMsg
	if err := middleman.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	esc, err := loadEscrow(h.bucket, db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, esc.Buyer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the buyer can cancel")
	}
	if esc.State != StateCreated {
		return nil, nil, errors.Wrapf(errors.ErrState, "cannot cancel from %s", esc.State)
	}
	return msg.EscrowID, esc, nil
}

//---- release

// ReleaseEscrowHandler pays the deposit out to the seller on the
// buyer's request.
type ReleaseEscrowHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	cash   cash.Controller
}

var _ middleman.Handler = ReleaseEscrowHandler{}

func (h ReleaseEscrowHandler) Check(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &middleman.CheckResult{GasAllocated: releaseEscrowCost}, nil
}

func (h ReleaseEscrowHandler) Deliver(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.DeliverResult, error) {
	id, esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := payout(db, h.bucket, h.cash, id, esc, esc.Seller, StateReleased); err != nil {
		return nil, err
	}
	return &middleman.DeliverResult{Tags: escrowTags(pathReleaseMsg, id, esc.Buyer, esc.Seller)}, nil
}

func (h ReleaseEscrowHandler) validate(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) ([]byte, *Escrow, error) {
	var msg ReleaseMsg
	if err := middleman.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	esc, err := loadEscrow(h.bucket, db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, esc.Buyer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the buyer can release")
	}
	if esc.State != StateFunded {
		return nil, nil, errors.Wrapf(errors.ErrState, "cannot release from %s", esc.State)
	}
	return msg.EscrowID, esc, nil
}

//---- refund

// RefundEscrowHandler returns the deposit to the buyer once the
// timeout elapsed without resolution.
type RefundEscrowHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	cash   cash.Controller
}

var _ middleman.Handler = RefundEscrowHandler{}

func (h RefundEscrowHandler) Check(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &middleman.CheckResult{GasAllocated: returnEscrowCost}, nil
}

func (h RefundEscrowHandler) Deliver(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.DeliverResult, error) {
	id, esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := payout(db, h.bucket, h.cash, id, esc, esc.Buyer, StateRefunded); err != nil {
		return nil, err
	}
	return &middleman.DeliverResult{Tags: escrowTags(pathRefundMsg, id, esc.Buyer)}, nil
}

func (h RefundEscrowHandler) validate(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) ([]byte, *Escrow, error) {
	var msg RefundMsg
	if err := middleman.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	esc, err := loadEscrow(h.bucket, db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, esc.Buyer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the buyer can refund")
	}
	if esc.State != StateFunded {
		return nil, nil, errors.Wrapf(errors.ErrState, "cannot refund from %s", esc.State)
	}
	deadline := esc.AcceptedAt.Add(esc.Timeout)
	if !middleman.IsExpired(ctx, deadline) {
		return nil, nil, errors.Wrapf(ErrNotExpired, "deadline %s", deadline)
	}
	return msg.EscrowID, esc, nil
}

//---- dispute

// DisputeEscrowHandler freezes the escrow until the arbiter rules.
type DisputeEscrowHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ middleman.Handler = DisputeEscrowHandler{}

func (h DisputeEscrowHandler) Check(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &middleman.CheckResult{GasAllocated: updateEscrowCost}, nil
}

func (h DisputeEscrowHandler) Deliver(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.DeliverResult, error) {
	id, esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	esc.State = StateDisputed
	if err := h.bucket.Put(db, id, esc); err != nil {
		return nil, err
	}
	return &middleman.DeliverResult{Tags: escrowTags(pathDisputeMsg, id, esc.Buyer, esc.Seller)}, nil
}

func (h DisputeEscrowHandler) validate(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) ([]byte, *Escrow, error) {
	var msg DisputeMsg
	if err := middleman.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	esc, err := loadEscrow(h.bucket, db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, esc.Buyer) && !h.auth.HasAddress(ctx, esc.Seller) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only a trading party can dispute")
	}
	if esc.State != StateFunded {
		return nil, nil, errors.Wrapf(errors.ErrState, "cannot dispute from %s", esc.State)
	}
	return msg.EscrowID, esc, nil
}

//---- arbiter rulings

// ArbiterReleaseHandler resolves a dispute in favor of the seller.
type ArbiterReleaseHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	cash   cash.Controller
}

var _ middleman.Handler = ArbiterReleaseHandler{}

func (h ArbiterReleaseHandler) Check(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &middleman.CheckResult{GasAllocated: releaseEscrowCost}, nil
}

func (h ArbiterReleaseHandler) Deliver(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.DeliverResult, error) {
	id, esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := payout(db, h.bucket, h.cash, id, esc, esc.Seller, StateReleased); err != nil {
		return nil, err
	}
	return &middleman.DeliverResult{Tags: escrowTags(pathArbiterReleaseMsg, id, esc.Arbiter, esc.Seller)}, nil
}

func (h ArbiterReleaseHandler) validate(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) ([]byte, *Escrow, error) {
	var msg ArbiterReleaseMsg
	if err := middleman.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	return validateRuling(ctx, h.auth, h.bucket, db, msg.EscrowID)
}

// ArbiterRefundHandler resolves a dispute in favor of the buyer.
type ArbiterRefundHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	cash   cash.Controller
}

var _ middleman.Handler = ArbiterRefundHandler{}

func (h ArbiterRefundHandler) Check(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &middleman.CheckResult{GasAllocated: releaseEscrowCost}, nil
}

func (h ArbiterRefundHandler) Deliver(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.DeliverResult, error) {
	id, esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := payout(db, h.bucket, h.cash, id, esc, esc.Buyer, StateRefunded); err != nil {
		return nil, err
	}
	return &middleman.DeliverResult{Tags: escrowTags(pathArbiterRefundMsg, id, esc.Arbiter, esc.Buyer)}, nil
}

func (h ArbiterRefundHandler) validate(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) ([]byte, *Escrow, error) {
	var msg ArbiterRefundMsg
	if err := middleman.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	return validateRuling(ctx, h.auth, h.bucket, db, msg.EscrowID)
}

// validateRuling holds the guards shared by both arbiter verdicts.
func validateRuling(ctx middleman.Context, auth x.Authenticator, bucket orm.ModelBucket, db middleman.ReadOnlyKVStore, id []byte) ([]byte, *Escrow, error) {
	esc, err := loadEscrow(bucket, db, id)
	if err != nil {
		return nil, nil, err
	}
	if !auth.HasAddress(ctx, esc.Arbiter) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the arbiter can rule")
	}
	if esc.State != StateDisputed {
		return nil, nil, errors.Wrapf(errors.ErrState, "cannot rule from %s", esc.State)
	}
	return id, esc, nil
}

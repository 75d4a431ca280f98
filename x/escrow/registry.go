package escrow

import (
	"context"
	"sync"
	"time"

	"github.com/middleman-net/middleman"
	"github.com/middleman-net/middleman/app"
	"github.com/middleman-net/middleman/errors"
	"github.com/middleman-net/middleman/orm"
	"github.com/middleman-net/middleman/x/cash"
)

// Sink receives the notification tags of every successful operation.
type Sink interface {
	Notify(tags []middleman.KVPair)
}

// Registry is the embeddable front of the escrow extension. It owns
// the backing store and runs every operation on a private cache wrap,
// so each call is all-or-nothing. A single mutex admits one operation
// at a time.
type Registry struct {
	mu     sync.Mutex
	db     middleman.CacheableKVStore
	router middleman.Handler
	bucket orm.ModelBucket
	sink   Sink
}

// NewRegistry wires the handlers of this package onto the given store.
// The sink may be nil.
func NewRegistry(db middleman.CacheableKVStore, control cash.Controller, sink Sink) *Registry {
	r := app.NewRouter()
	RegisterRoutes(r, condAuth{}, control)
	return &Registry{
		db:     db,
		router: r,
		bucket: NewBucket(),
		sink:   sink,
	}
}

// Create opens an escrow funded by the signer (or the explicit buyer)
// and returns the allocated escrow id.
func (r *Registry) Create(signer middleman.Condition, now time.Time, msg *CreateMsg) ([]byte, error) {
	res, err := r.apply(signer, now, msg)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// Accept joins the signer as seller and starts the timeout clock.
func (r *Registry) Accept(signer middleman.Condition, now time.Time, escrowID []byte) error {
	_, err := r.apply(signer, now, &AcceptMsg{escrowOpMsg{EscrowID: escrowID}})
	return err
}

// Cancel withdraws an escrow the seller has not accepted.
func (r *Registry) Cancel(signer middleman.Condition, now time.Time, escrowID []byte) error {
	_, err := r.apply(signer, now, &CancelMsg{escrowOpMsg{EscrowID: escrowID}})
	return err
}

// Release pays the deposit out to the seller.
func (r *Registry) Release(signer middleman.Condition, now time.Time, escrowID []byte) error {
	_, err := r.apply(signer, now, &ReleaseMsg{escrowOpMsg{EscrowID: escrowID}})
	return err
}

// Refund returns the deposit to the buyer after the timeout elapsed.
func (r *Registry) Refund(signer middleman.Condition, now time.Time, escrowID []byte) error {
	_, err := r.apply(signer, now, &RefundMsg{escrowOpMsg{EscrowID: escrowID}})
	return err
}

// Dispute escalates the escrow to the arbiter.
func (r *Registry) Dispute(signer middleman.Condition, now time.Time, escrowID []byte) error {
	_, err := r.apply(signer, now, &DisputeMsg{escrowOpMsg{EscrowID: escrowID}})
	return err
}

// ArbiterRelease resolves a dispute in favor of the seller.
func (r *Registry) ArbiterRelease(signer middleman.Condition, now time.Time, escrowID []byte) error {
	_, err := r.apply(signer, now, &ArbiterReleaseMsg{escrowOpMsg{EscrowID: escrowID}})
	return err
}

// ArbiterRefund resolves a dispute in favor of the buyer.
func (r *Registry) ArbiterRefund(signer middleman.Condition, now time.Time, escrowID []byte) error {
	_, err := r.apply(signer, now, &ArbiterRefundMsg{escrowOpMsg{EscrowID: escrowID}})
	return err
}

// Get returns a copy of the stored escrow record.
func (r *Registry) Get(escrowID []byte) (*Escrow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return loadEscrow(r.bucket, r.db, escrowID)
}

// apply runs one message through the router on a fresh cache wrap.
// The wrap is written only on success, otherwise discarded.
func (r *Registry) apply(signer middleman.Condition, now time.Time, msg middleman.Msg) (*middleman.DeliverResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx := withSigners(context.Background(), signer)
	ctx = middleman.WithBlockTime(ctx, now)

	cache := r.db.CacheWrap()
	res, err := r.router.Deliver(ctx, cache, &opTx{msg: msg})
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write cache")
	}
	if r.sink != nil {
		r.sink.Notify(res.Tags)
	}
	return res, nil
}

//---- signer plumbing

type signerKey struct{}

func withSigners(ctx middleman.Context, signers ...middleman.Condition) middleman.Context {
	return context.WithValue(ctx, signerKey{}, signers)
}

// condAuth authenticates from the conditions the Registry placed in
// the context.
type condAuth struct{}

func (condAuth) GetConditions(ctx middleman.Context) []middleman.Condition {
	val, _ := ctx.Value(signerKey{}).([]middleman.Condition)
	return val
}

func (a condAuth) HasAddress(ctx middleman.Context, addr middleman.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// opTx is the in-process transaction the Registry feeds the router. It
// never crosses a wire, so it does not serialize.
type opTx struct {
	msg middleman.Msg
}

var _ middleman.Tx = (*opTx)(nil)

func (tx *opTx) GetMsg() (middleman.Msg, error) { return tx.msg, nil }

func (tx *opTx) Marshal() ([]byte, error) {
	return nil, errors.Wrap(errors.ErrHuman, "operation tx does not serialize")
}

func (tx *opTx) Unmarshal([]byte) error {
	return errors.Wrap(errors.ErrHuman, "operation tx does not serialize")
}

package escrow

import (
	"testing"
	"time"

	"github.com/middleman-net/middleman"
	"github.com/middleman-net/middleman/coin"
	"github.com/middleman-net/middleman/errors"
	"github.com/middleman-net/middleman/gconf"
	"github.com/middleman-net/middleman/middlemantest"
	"github.com/middleman-net/middleman/store"
	"github.com/middleman-net/middleman/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink collects every notification batch it receives.
type recordingSink struct {
	batches [][]middleman.KVPair
}

func (s *recordingSink) Notify(tags []middleman.KVPair) {
	s.batches = append(s.batches, tags)
}

type registryFix struct {
	db      middleman.CacheableKVStore
	reg     *Registry
	control cash.BaseController
	sink    *recordingSink

	buyer   middleman.Condition
	seller  middleman.Condition
	arbiter middleman.Condition
}

func newRegistryFix(t *testing.T) *registryFix {
	t.Helper()
	f := &registryFix{
		db:      store.MemStore(),
		sink:    &recordingSink{},
		buyer:   middlemantest.NewCondition(),
		seller:  middlemantest.NewCondition(),
		arbiter: middlemantest.NewCondition(),
	}
	f.control = cash.NewController(cash.NewBucket())
	f.reg = NewRegistry(f.db, f.control, f.sink)

	conf := Configuration{MinTimeout: 3 * day, MaxTimeout: 30 * day}
	require.NoError(t, gconf.Save(f.db, "escrow", &conf))
	require.NoError(t, f.control.CoinMint(f.db, f.buyer.Address(), coin.NewCoin(1000, 0, "IOV")))
	return f
}

func (f *registryFix) createMsg() *CreateMsg {
	return NewCreateMsg(nil, f.seller.Address(), f.arbiter.Address(), coin.NewCoin(100, 0, "IOV"), week, "")
}

func TestRegistryLifecycle(t *testing.T) {
	f := newRegistryFix(t)

	id, err := f.reg.Create(f.buyer, epoch, f.createMsg())
	require.NoError(t, err)
	require.Len(t, id, 8)

	esc, err := f.reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StateCreated, esc.State)

	accepted := epoch.Add(time.Hour)
	require.NoError(t, f.reg.Accept(f.seller, accepted, id))
	require.NoError(t, f.reg.Release(f.buyer, accepted, id))

	esc, err = f.reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StateReleased, esc.State)
	assert.True(t, esc.Amount.IsZero())

	coins, err := f.control.Balance(f.db, f.seller.Address())
	require.NoError(t, err)
	want := coin.NewCoin(100, 0, "IOV")
	assert.True(t, coin.Coins{&want}.Equals(coins))

	// one notification batch per successful operation
	require.Len(t, f.sink.batches, 3)
	assert.Equal(t, []byte("action"), f.sink.batches[0][0].Key)
	assert.Equal(t, []byte("escrow/create"), f.sink.batches[0][0].Value)
}

func TestRegistryRefundAndDispute(t *testing.T) {
	f := newRegistryFix(t)

	id, err := f.reg.Create(f.buyer, epoch, f.createMsg())
	require.NoError(t, err)
	require.NoError(t, f.reg.Accept(f.seller, epoch, id))
	require.NoError(t, f.reg.Dispute(f.seller, epoch, id))

	// a dispute blocks the refund even past the deadline
	expired := epoch.Add(2 * week.Duration())
	err = f.reg.Refund(f.buyer, expired, id)
	assert.True(t, errors.ErrState.Is(err))

	require.NoError(t, f.reg.ArbiterRefund(f.arbiter, expired, id))
	esc, err := f.reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StateRefunded, esc.State)
}

func TestRegistryGetUnknown(t *testing.T) {
	f := newRegistryFix(t)
	_, err := f.reg.Get([]byte{0, 0, 0, 0, 0, 0, 0, 9})
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestRegistryFailedOperationLeavesNoTrace(t *testing.T) {
	f := newRegistryFix(t)

	id, err := f.reg.Create(f.buyer, epoch, f.createMsg())
	require.NoError(t, err)
	require.NoError(t, f.reg.Accept(f.seller, epoch, id))
	f.sink.batches = nil

	// drain the custody account behind the registry's back so the
	// payout transfer must fail
	leak := middlemantest.NewCondition().Address()
	require.NoError(t, f.control.MoveCoins(f.db, Condition(id).Address(), leak, coin.NewCoin(100, 0, "IOV")))

	err = f.reg.Release(f.buyer, epoch, id)
	assert.True(t, ErrTransfer.Is(err))

	// the record is untouched, nothing was notified
	esc, err := f.reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StateFunded, esc.State)
	assert.False(t, esc.Amount.IsZero())
	assert.Nil(t, f.sink.batches)
}

func TestRegistryCancel(t *testing.T) {
	f := newRegistryFix(t)

	id, err := f.reg.Create(f.buyer, epoch, f.createMsg())
	require.NoError(t, err)
	require.NoError(t, f.reg.Cancel(f.buyer, epoch, id))

	esc, err := f.reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StateCanceled, esc.State)

	coins, err := f.control.Balance(f.db, f.buyer.Address())
	require.NoError(t, err)
	want := coin.NewCoin(1000, 0, "IOV")
	assert.True(t, coin.Coins{&want}.Equals(coins))
}

func TestRegistryArbiterRelease(t *testing.T) {
	f := newRegistryFix(t)

	id, err := f.reg.Create(f.buyer, epoch, f.createMsg())
	require.NoError(t, err)
	require.NoError(t, f.reg.Accept(f.seller, epoch, id))
	require.NoError(t, f.reg.Dispute(f.buyer, epoch, id))

	err = f.reg.ArbiterRelease(f.seller, epoch, id)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	require.NoError(t, f.reg.ArbiterRelease(f.arbiter, epoch, id))
	esc, err := f.reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StateReleased, esc.State)
}

package cash

import (
	stdctx "context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/middleman-net/middleman"
	"github.com/middleman-net/middleman/coin"
	"github.com/middleman-net/middleman/errors"
	"github.com/middleman-net/middleman/middlemantest"
	"github.com/middleman-net/middleman/orm"
	"github.com/middleman-net/middleman/store"
)

func TestSend(t *testing.T) {
	foo := coin.NewCoin(100, 0, "FOO")
	some := coin.NewCoin(300, 0, "SOME")

	perm := middlemantest.NewCondition()
	perm2 := middlemantest.NewCondition()

	cases := map[string]struct {
		signers       []middleman.Condition
		initState     []orm.Object
		msg           middleman.Msg
		expectCheck   *errors.Error
		expectDeliver *errors.Error
	}{
		"nil message": {
			msg:           nil,
			expectCheck:   errors.ErrState,
			expectDeliver: errors.ErrState,
		},
		"empty message": {
			msg:           &SendMsg{},
			expectCheck:   errors.ErrAmount,
			expectDeliver: errors.ErrAmount,
		},
		"unauthorized": {
			msg: &SendMsg{
				Source:      perm.Address(),
				Destination: perm2.Address(),
				Amount:      &foo,
			},
			expectCheck:   errors.ErrUnauthorized,
			expectDeliver: errors.ErrUnauthorized,
		},
		"source has no account": {
			signers: []middleman.Condition{perm},
			msg: &SendMsg{
				Source:      perm.Address(),
				Destination: perm2.Address(),
				Amount:      &foo,
			},
			expectDeliver: errors.ErrEmpty,
		},
		"source has no coin": {
			signers:   []middleman.Condition{perm},
			initState: []orm.Object{NewWallet(perm.Address(), &some)},
			msg: &SendMsg{
				Source:      perm.Address(),
				Destination: perm2.Address(),
				Amount:      &foo,
			},
			expectDeliver: errors.ErrAmount,
		},
		"happy path": {
			signers:   []middleman.Condition{perm},
			initState: []orm.Object{NewWallet(perm.Address(), &foo)},
			msg: &SendMsg{
				Source:      perm.Address(),
				Destination: perm2.Address(),
				Amount:      &foo,
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			auth := &middlemantest.Auth{Signers: tc.signers}
			controller := NewController(NewBucket())
			h := NewSendHandler(auth, controller)

			kv := store.MemStore()
			bucket := NewBucket()
			for _, wallet := range tc.initState {
				require.NoError(t, bucket.Save(kv, wallet))
			}

			tx := &middlemantest.Tx{Msg: tc.msg}
			ctx := stdctx.Background()

			_, err := h.Check(ctx, kv, tx)
			if tc.expectCheck != nil {
				assert.True(t, tc.expectCheck.Is(err), "unexpected check error: %+v", err)
			} else {
				assert.NoError(t, err)
			}

			_, err = h.Deliver(ctx, kv, tx)
			if tc.expectDeliver != nil {
				assert.True(t, tc.expectDeliver.Is(err), "unexpected deliver error: %+v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

package escrow

import (
	"encoding/json"
	"testing"

	"github.com/middleman-net/middleman"
	"github.com/middleman-net/middleman/coin"
	"github.com/middleman-net/middleman/errors"
	"github.com/middleman-net/middleman/middlemantest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateJSON(t *testing.T) {
	raw, err := json.Marshal(StateFunded)
	require.NoError(t, err)
	assert.Equal(t, `"funded"`, string(raw))

	var s State
	require.NoError(t, json.Unmarshal([]byte(`"disputed"`), &s))
	assert.Equal(t, StateDisputed, s)

	assert.Error(t, json.Unmarshal([]byte(`"sideways"`), &s))
}

func TestStateIsTerminal(t *testing.T) {
	assert.False(t, StateCreated.IsTerminal())
	assert.False(t, StateFunded.IsTerminal())
	assert.False(t, StateDisputed.IsTerminal())
	assert.True(t, StateReleased.IsTerminal())
	assert.True(t, StateRefunded.IsTerminal())
	assert.True(t, StateCanceled.IsTerminal())
}

func TestEscrowValidate(t *testing.T) {
	id := []byte{0, 0, 0, 0, 0, 0, 0, 1}
	proto := func() *Escrow {
		return NewEscrow(
			id,
			middlemantest.NewCondition().Address(),
			middlemantest.NewCondition().Address(),
			middlemantest.NewCondition().Address(),
			coin.NewCoin(5, 0, "IOV"),
			week,
			"rental deposit",
		)
	}

	cases := map[string]struct {
		mod     func(*Escrow)
		wantErr *errors.Error
	}{
		"fresh escrow":   {mod: func(*Escrow) {}},
		"missing buyer":  {mod: func(e *Escrow) { e.Buyer = nil }, wantErr: errors.ErrInput},
		"missing seller": {mod: func(e *Escrow) { e.Seller = nil }, wantErr: errors.ErrInput},
		"missing amount": {mod: func(e *Escrow) { e.Amount = nil }, wantErr: errors.ErrEmpty},
		"zero amount while active": {
			mod:     func(e *Escrow) { c := coin.NewCoin(0, 0, "IOV"); e.Amount = &c },
			wantErr: errors.ErrAmount,
		},
		"funded needs accepted at": {
			mod:     func(e *Escrow) { e.State = StateFunded },
			wantErr: errors.ErrState,
		},
		"funded with accepted at": {
			mod: func(e *Escrow) {
				e.State = StateFunded
				e.AcceptedAt = middleman.AsUnixTime(epoch)
			},
		},
		"released keeps no funds": {
			mod: func(e *Escrow) {
				e.State = StateReleased
				e.AcceptedAt = middleman.AsUnixTime(epoch)
			},
			wantErr: errors.ErrState,
		},
		"released after payout": {
			mod: func(e *Escrow) {
				e.State = StateReleased
				e.AcceptedAt = middleman.AsUnixTime(epoch)
				e.Amount = &coin.Coin{Ticker: "IOV"}
			},
		},
		"canceled after payout": {
			mod: func(e *Escrow) {
				e.State = StateCanceled
				e.Amount = &coin.Coin{Ticker: "IOV"}
			},
		},
		"zero timeout": {
			mod:     func(e *Escrow) { e.Timeout = 0 },
			wantErr: errors.ErrInput,
		},
		"invalid state": {
			mod:     func(e *Escrow) { e.State = StateInvalid },
			wantErr: errors.ErrState,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			esc := proto()
			tc.mod(esc)
			err := esc.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
			}
		})
	}
}

func TestEscrowSerialization(t *testing.T) {
	id := []byte{0, 0, 0, 0, 0, 0, 0, 7}
	esc := NewEscrow(
		id,
		middlemantest.NewCondition().Address(),
		middlemantest.NewCondition().Address(),
		middlemantest.NewCondition().Address(),
		coin.NewCoin(5, 0, "IOV"),
		week,
		"rental deposit",
	)
	raw, err := esc.Marshal()
	require.NoError(t, err)

	var loaded Escrow
	require.NoError(t, loaded.Unmarshal(raw))
	assert.Equal(t, *esc, loaded)
}

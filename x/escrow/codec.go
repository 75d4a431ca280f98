package escrow

import (
	"encoding/json"

	"github.com/middleman-net/middleman"
	"github.com/middleman-net/middleman/coin"
	"github.com/middleman-net/middleman/errors"
)

// State is the phase of the escrow lifecycle. Transitions form a
// strict DAG, the three terminal states allow no further change.
type State int32

const (
	// StateInvalid is the zero value, it never represents a stored escrow
	StateInvalid State = iota
	// StateCreated means the deposit is custodied, waiting for the seller
	StateCreated
	// StateFunded means the seller accepted, the timeout clock is running
	StateFunded
	// StateDisputed means a trading party escalated to the arbiter
	StateDisputed
	// StateReleased means the deposit was paid out to the seller
	StateReleased
	// StateRefunded means the deposit was paid back to the buyer
	StateRefunded
	// StateCanceled means the buyer withdrew before the seller accepted
	StateCanceled
)

var stateNames = map[State]string{
	StateCreated:  "created",
	StateFunded:   "funded",
	StateDisputed: "disputed",
	StateReleased: "released",
	StateRefunded: "refunded",
	StateCanceled: "canceled",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "invalid"
}

// IsTerminal returns true for the states that allow no further
// transitions.
func (s State) IsTerminal() bool {
	switch s {
	case StateReleased, StateRefunded, StateCanceled:
		return true
	}
	return false
}

// MarshalJSON serializes the state under its name
func (s State) MarshalJSON() ([]byte, error) {
	name, ok := stateNames[s]
	if !ok {
		return nil, errors.Wrapf(errors.ErrState, "unknown state %d", s)
	}
	return json.Marshal(name)
}

// UnmarshalJSON loads the state from its name
func (s *State) UnmarshalJSON(raw []byte) error {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return err
	}
	for state, n := range stateNames {
		if n == name {
			*s = state
			return nil
		}
	}
	return errors.Wrapf(errors.ErrState, "unknown state %q", name)
}

// Escrow is one buyer/seller/arbiter agreement over a single custodied
// deposit.
type Escrow struct {
	Buyer   middleman.Address `json:"buyer"`
	Seller  middleman.Address `json:"seller"`
	Arbiter middleman.Address `json:"arbiter"`
	// Amount is the custodied value. It is zeroed exactly once, by the
	// terminal payout.
	Amount *coin.Coin `json:"amount"`
	// Timeout is the refund fallback duration, fixed at creation and
	// measured from AcceptedAt.
	Timeout middleman.UnixDuration `json:"timeout"`
	// AcceptedAt is set once, on the transition into StateFunded.
	AcceptedAt middleman.UnixTime `json:"accepted_at,omitempty"`
	State      State              `json:"state"`
	// Address of the cash account holding this escrow's deposit.
	Address middleman.Address `json:"address"`
	Memo    string            `json:"memo,omitempty"`
}

// Marshal serializes the escrow
func (e *Escrow) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Unmarshal loads serialized state into the escrow
func (e *Escrow) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, e)
}

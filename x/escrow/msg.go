package escrow

import (
	"encoding/json"

	"github.com/middleman-net/middleman"
	"github.com/middleman-net/middleman/coin"
	"github.com/middleman-net/middleman/errors"
)

const (
	pathCreateMsg         = "escrow/create"
	pathAcceptMsg         = "escrow/accept"
	pathCancelMsg         = "escrow/cancel"
	pathReleaseMsg        = "escrow/release"
	pathRefundMsg         = "escrow/refund"
	pathDisputeMsg        = "escrow/dispute"
	pathArbiterReleaseMsg = "escrow/arbiter_release"
	pathArbiterRefundMsg  = "escrow/arbiter_refund"

	maxMemoSize int = 128
)

var _ middleman.Msg = (*CreateMsg)(nil)
var _ middleman.Msg = (*AcceptMsg)(nil)
var _ middleman.Msg = (*CancelMsg)(nil)
var _ middleman.Msg = (*ReleaseMsg)(nil)
var _ middleman.Msg = (*RefundMsg)(nil)
var _ middleman.Msg = (*DisputeMsg)(nil)
var _ middleman.Msg = (*ArbiterReleaseMsg)(nil)
var _ middleman.Msg = (*ArbiterRefundMsg)(nil)

// CreateMsg opens a new escrow and custodies the deposit.
type CreateMsg struct {
	// Buyer is optional, it defaults to the main signer
	Buyer   middleman.Address      `json:"buyer,omitempty"`
	Seller  middleman.Address      `json:"seller"`
	Arbiter middleman.Address      `json:"arbiter"`
	Amount  *coin.Coin             `json:"amount"`
	Timeout middleman.UnixDuration `json:"timeout"`
	Memo    string                 `json:"memo,omitempty"`
}

// NewCreateMsg is a helper to quickly build a create escrow message
func NewCreateMsg(
	buyer middleman.Address,
	seller middleman.Address,
	arbiter middleman.Address,
	amount coin.Coin,
	timeout middleman.UnixDuration,
	memo string,
) *CreateMsg {
	return &CreateMsg{
		Buyer:   buyer,
		Seller:  seller,
		Arbiter: arbiter,
		Amount:  &amount,
		Timeout: timeout,
		Memo:    memo,
	}
}

// escrowOpMsg is the shared shape of every message addressing an
// existing escrow by id.
type escrowOpMsg struct {
	EscrowID []byte `json:"escrow_id"`
}

// AcceptMsg is the seller joining the agreement, activating the
// timeout clock.
type AcceptMsg struct {
	escrowOpMsg
}

// CancelMsg is the buyer withdrawing an escrow the seller has not
// accepted yet.
type CancelMsg struct {
	escrowOpMsg
}

// ReleaseMsg is the buyer paying the deposit out to the seller.
type ReleaseMsg struct {
	escrowOpMsg
}

// RefundMsg is the buyer reclaiming the deposit after the timeout
// elapsed.
type RefundMsg struct {
	escrowOpMsg
}

// DisputeMsg is a trading party escalating the escrow to the arbiter.
type DisputeMsg struct {
	escrowOpMsg
}

// ArbiterReleaseMsg is the arbiter resolving a dispute in favor of the
// seller.
type ArbiterReleaseMsg struct {
	escrowOpMsg
}

// ArbiterRefundMsg is the arbiter resolving a dispute in favor of the
// buyer.
type ArbiterRefundMsg struct {
	escrowOpMsg
}

//--------- Path routing --------

// Path fulfills middleman.Msg interface to allow routing
func (CreateMsg) Path() string {
	return pathCreateMsg
}

// Path fulfills middleman.Msg interface to allow routing
func (AcceptMsg) Path() string {
	return pathAcceptMsg
}

// Path fulfills middleman.Msg interface to allow routing
func (CancelMsg) Path() string {
	return pathCancelMsg
}

// Path fulfills middleman.Msg interface to allow routing
func (ReleaseMsg) Path() string {
	return pathReleaseMsg
}

// Path fulfills middleman.Msg interface to allow routing
func (RefundMsg) Path() string {
	return pathRefundMsg
}

// Path fulfills middleman.Msg interface to allow routing
func (DisputeMsg) Path() string {
	return pathDisputeMsg
}

// Path fulfills middleman.Msg interface to allow routing
func (ArbiterReleaseMsg) Path() string {
	return pathArbiterReleaseMsg
}

// Path fulfills middleman.Msg interface to allow routing
func (ArbiterRefundMsg) Path() string {
	return pathArbiterRefundMsg
}

//--------- Serialization --------

func (m *CreateMsg) Marshal() ([]byte, error)     { return json.Marshal(m) }
func (m *CreateMsg) Unmarshal(raw []byte) error   { return json.Unmarshal(raw, m) }
func (m *escrowOpMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *escrowOpMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

//--------- Validation --------

// Validate makes sure that this is sensible
func (m *CreateMsg) Validate() error {
	if m.Seller == nil {
		return errors.Wrap(errors.ErrEmpty, "seller")
	}
	if m.Arbiter == nil {
		return errors.Wrap(errors.ErrEmpty, "arbiter")
	}
	if m.Timeout <= 0 {
		// Zero timeout can never expire, which makes no sense. Most
		// likely the value was not provided and a zero value remained.
		return errors.Wrap(errors.ErrInput, "timeout is required")
	}
	if err := m.Timeout.Validate(); err != nil {
		return errors.Wrap(err, "invalid timeout value")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrapf(errors.ErrInput, "memo %s", m.Memo)
	}
	if err := validateAmount(m.Amount); err != nil {
		return err
	}
	return validateAddresses(m.Buyer, m.Seller, m.Arbiter)
}

// Validate makes sure the id is well formed
func (m *escrowOpMsg) Validate() error {
	return validateEscrowID(m.EscrowID)
}

// validateAddresses returns an error if any address doesn't validate
// nil is considered valid here
func validateAddresses(addrs ...middleman.Address) error {
	for _, a := range addrs {
		if a != nil {
			if err := a.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateAmount(amount *coin.Coin) error {
	// we enforce this is positive
	if amount == nil || !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive deposit: %v", amount)
	}
	// then make sure it is a properly formatted coin
	return amount.Validate()
}

func validateEscrowID(id []byte) error {
	if len(id) != 8 {
		return errors.Wrapf(errors.ErrInput, "escrow id: %X", id)
	}
	return nil
}

package cash

import (
	"encoding/json"

	"github.com/middleman-net/middleman"
	"github.com/middleman-net/middleman/coin"
	"github.com/middleman-net/middleman/errors"
)

// Ensure we implement the Msg interface
var _ middleman.Msg = (*SendMsg)(nil)

const (
	sendTxCost int64 = 100

	maxMemoSize int = 128
	maxRefSize  int = 64
)

// SendMsg moves the amount from the source wallet to the
// destination wallet.
type SendMsg struct {
	Source      middleman.Address `json:"source"`
	Destination middleman.Address `json:"destination"`
	Amount      *coin.Coin        `json:"amount"`
	// Memo is a free form human readable message
	Memo string `json:"memo,omitempty"`
	// Ref is a reference to a related transaction
	Ref []byte `json:"ref,omitempty"`
}

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Marshal serializes the message
func (s *SendMsg) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal loads serialized state into the message
func (s *SendMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, s)
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	var err error
	if coin.IsEmpty(s.Amount) || !s.Amount.IsPositive() {
		err = errors.Wrapf(errors.ErrAmount, "non-positive SendMsg: %#v", s.Amount)
	} else {
		err = errors.Append(err, errors.Wrap(s.Amount.Validate(), "amount"))
	}
	err = errors.Append(err, errors.Wrap(s.Source.Validate(), "source"))
	err = errors.Append(err, errors.Wrap(s.Destination.Validate(), "destination"))
	if len(s.Memo) > maxMemoSize {
		err = errors.Append(err, errors.Wrap(errors.ErrState, "memo too long"))
	}
	if len(s.Ref) > maxRefSize {
		err = errors.Append(err, errors.Wrap(errors.ErrState, "ref too long"))
	}

	return err
}

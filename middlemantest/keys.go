package middlemantest

import (
	"github.com/middleman-net/middleman"
	"github.com/middleman-net/middleman/crypto"
)

// NewKey returns a random private key.
func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the condition of a freshly generated key.
func NewCondition() middleman.Condition {
	return NewKey().PublicKey().Condition()
}

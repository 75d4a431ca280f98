package coin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineCoins(t *testing.T) {
	cs, err := CombineCoins(
		NewCoin(1, 0, "IOV"),
		NewCoin(2, 0, "ETH"),
		NewCoin(3, 0, "IOV"),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, cs.Count())
	assert.True(t, cs.Contains(NewCoin(4, 0, "IOV")))
	assert.True(t, cs.Contains(NewCoin(2, 0, "ETH")))
	assert.False(t, cs.Contains(NewCoin(5, 0, "IOV")))
	require.NoError(t, cs.Validate())
}

func TestCoinsAddSubtract(t *testing.T) {
	var cs Coins

	cs, err := cs.Add(NewCoin(5, 0, "IOV"))
	require.NoError(t, err)
	assert.True(t, cs.IsPositive())

	// subtract to zero removes the currency
	cs, err = cs.Subtract(NewCoin(5, 0, "IOV"))
	require.NoError(t, err)
	assert.True(t, cs.IsEmpty())

	// subtract below zero is allowed, but not positive
	cs, err = cs.Subtract(NewCoin(1, 0, "IOV"))
	require.NoError(t, err)
	assert.False(t, cs.IsPositive())
	assert.False(t, cs.IsNonNegative())
}

func TestCoinsCombine(t *testing.T) {
	a, err := CombineCoins(NewCoin(1, 0, "IOV"))
	require.NoError(t, err)
	b, err := CombineCoins(NewCoin(2, 0, "ETH"), NewCoin(1, 0, "IOV"))
	require.NoError(t, err)

	sum, err := a.Combine(b)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Count())
	assert.True(t, sum.Contains(NewCoin(2, 0, "IOV")))

	// the inputs are untouched
	assert.True(t, a.Contains(NewCoin(1, 0, "IOV")))
	assert.Equal(t, 1, a.Count())
}

func TestCoinsValidate(t *testing.T) {
	cases := map[string]struct {
		coins   Coins
		wantErr bool
	}{
		"valid":      {coins: Coins{NewCoinp(1, 0, "ETH"), NewCoinp(2, 0, "IOV")}},
		"empty":      {coins: nil},
		"not sorted": {coins: Coins{NewCoinp(1, 0, "IOV"), NewCoinp(2, 0, "ETH")}, wantErr: true},
		"zero coin":  {coins: Coins{NewCoinp(0, 0, "IOV")}, wantErr: true},
		"bad ticker": {coins: Coins{NewCoinp(1, 0, "x")}, wantErr: true},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.coins.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

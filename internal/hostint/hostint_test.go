package hostint

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHostInt(t *testing.T) {
	assert.Equal(t, "0", ToHostInt(nil))
	assert.Equal(t, "0", ToHostInt(big.NewInt(0)))
	assert.Equal(t, "42", ToHostInt(big.NewInt(42)))
	assert.Equal(t, "-7", ToHostInt(big.NewInt(-7)))

	huge, ok := new(big.Int).SetString("123456789012345678901234567890123456789", 10)
	require.True(t, ok)
	assert.Equal(t, "123456789012345678901234567890123456789", ToHostInt(huge))
}

func TestFromHostInt(t *testing.T) {
	n, err := FromHostInt("123456789012345678901234567890123456789")
	require.NoError(t, err)
	assert.Equal(t, 0, n.Cmp(mustBig("123456789012345678901234567890123456789")))

	n, err = FromHostInt("-5")
	require.NoError(t, err)
	assert.Equal(t, 0, n.Cmp(big.NewInt(-5)))
}

func TestFromHostInt_RejectsGarbage(t *testing.T) {
	_, err := FromHostInt("not-a-number")
	assert.Error(t, err)

	_, err = FromHostInt("12.5")
	assert.Error(t, err)

	_, err = FromHostInt("")
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1", "-1", "999999999999999999999999999999"} {
		n, err := FromHostInt(s)
		require.NoError(t, err)
		assert.Equal(t, s, ToHostInt(n))
	}
}

func mustBig(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad literal: " + s)
	}
	return n
}

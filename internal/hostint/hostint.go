// Package hostint marshals the arbitrary-precision integers internal/dfa
// ranks and unranks into the narrowest boundary a host runtime needs to
// cross: a base-10 string. JSON numbers lose precision above 2^53, and a
// rank for even a modest-length, modest-alphabet language can run to
// hundreds of digits, so big.Int values never cross an API boundary as a
// JSON number - only as this package's decimal strings.
package hostint

import (
	"fmt"
	"math/big"
)

// ToHostInt renders n as a base-10 string. A nil n renders as "0", the
// same way a zero-valued *big.Int would.
func ToHostInt(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.Text(10)
}

// FromHostInt parses a base-10 string produced by ToHostInt (or any
// decimal integer literal, optionally signed) back into a *big.Int.
func FromHostInt(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("hostint: %q is not a base-10 integer", s)
	}
	return n, nil
}

package common

import "math/big"

// GeneratorG returns the canonical Paillier base g = N+1 for modulus n.
func GeneratorG(n *big.Int) *big.Int {
	return new(big.Int).Add(n, big.NewInt(1))
}

// CubeOf returns x^3 as a plain integer (no modular reduction), used by
// the range proof's s1 <= q^3 size bound (spec.md §4.C/D invariant (i)).
func CubeOf(x *big.Int) *big.Int {
	return new(big.Int).Exp(x, big.NewInt(3), nil)
}

// ModInverse returns x^-1 mod m, or nil if x is not invertible.
func ModInverse(x, m *big.Int) *big.Int {
	return new(big.Int).ModInverse(x, m)
}

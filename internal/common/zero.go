package common

import "math/big"

// ZeroBigInt overwrites x's backing words in place. math/big.Int does
// not expose a destructor, so every `*Randomness` struct's Kill() method
// calls this on each secret field instead of just dropping the
// reference, per spec.md §5/§9's witness-zeroization requirement.
func ZeroBigInt(x *big.Int) {
	if x == nil {
		return
	}
	words := x.Bits()
	for i := range words {
		words[i] = 0
	}
	x.SetInt64(0)
}

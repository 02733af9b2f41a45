package common

import (
	"math/big"

	"github.com/smallyunet/go-mta-zkp/pkg/mpc"
)

// SampleUnit draws a uniform element of Z*_modulus (coprime to modulus)
// via rejection sampling over rng.Int(modulus). Every MtA and proof
// routine that needs Paillier randomness (r, r') goes through this
// rather than sampling [0, modulus) directly, since a non-unit sample
// would make EncryptWithRandomness reject or silently weaken the
// ciphertext.
func SampleUnit(rng mpc.RNG, modulus *big.Int) (*big.Int, error) {
	one := big.NewInt(1)
	for {
		x, err := rng.Int(modulus)
		if err != nil {
			return nil, err
		}
		if x.Sign() == 0 {
			continue
		}
		if new(big.Int).GCD(nil, nil, x, modulus).Cmp(one) == 0 {
			return x, nil
		}
	}
}

// Package paillier is a reference backend for the Paillier capability
// interfaces in pkg/mpc. It is not a production key-generation service -
// per spec.md §1, Paillier key generation is an external collaborator
// consumed through a narrow interface. This package exists so the core
// MtA and proof components have something concrete to link and test
// against; any other implementation satisfying pkg/mpc's
// PaillierEncrypter/PaillierDecrypter/PaillierHomomorphic interfaces
// drops in without touching pkg/mta, pkg/rangeproof, pkg/zkproof or
// pkg/zkwc.
package paillier

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyunet/go-mta-zkp/internal/common"
)

var one = big.NewInt(1)

// PublicKey represents a Paillier public key (N, g=N+1).
type PublicKey struct {
	Nval  *big.Int // modulus N = p*q
	N2val *big.Int // N^2, cached
}

// PrivateKey represents a Paillier private key (lambda, mu).
type PrivateKey struct {
	PublicKey
	Lambda *big.Int // lcm(p-1, q-1)
	Mu     *big.Int // lambda^-1 mod N
}

// GenerateKey generates a Paillier key pair with the given bit length
// for the modulus N. Used only by tests and benchmarks; production
// deployments supply their own Paillier backend.
func GenerateKey(random io.Reader, bits int) (*PrivateKey, error) {
	if bits < 1024 {
		return nil, errors.New("paillier: bits must be at least 1024")
	}

	p, err := rand.Prime(random, bits/2)
	if err != nil {
		return nil, err
	}
	q, err := rand.Prime(random, bits/2)
	if err != nil {
		return nil, err
	}
	for p.Cmp(q) == 0 {
		q, err = rand.Prime(random, bits/2)
		if err != nil {
			return nil, err
		}
	}

	n := new(big.Int).Mul(p, q)
	n2 := new(big.Int).Mul(n, n)

	pMinus1 := new(big.Int).Sub(p, one)
	qMinus1 := new(big.Int).Sub(q, one)
	gcd := new(big.Int).GCD(nil, nil, pMinus1, qMinus1)
	lambda := new(big.Int).Mul(pMinus1, qMinus1)
	lambda.Div(lambda, gcd)

	mu := new(big.Int).ModInverse(lambda, n)
	if mu == nil {
		return nil, errors.New("paillier: failed to compute modular inverse for mu")
	}

	common.Logger.Debugf("paillier: generated %d-bit key", n.BitLen())

	return &PrivateKey{
		PublicKey: PublicKey{Nval: n, N2val: n2},
		Lambda:    lambda,
		Mu:        mu,
	}, nil
}

// N returns the public modulus.
func (pk *PublicKey) N() *big.Int { return pk.Nval }

// NSquare returns N^2.
func (pk *PublicKey) NSquare() *big.Int { return pk.N2val }

// EncryptWithRandomness computes c = (1+N)^m * r^N mod N^2.
// m must lie in [0, N) and r must be a unit mod N.
func (pk *PublicKey) EncryptWithRandomness(m, r *big.Int) (*big.Int, error) {
	if m.Sign() < 0 || m.Cmp(pk.Nval) >= 0 {
		return nil, errors.New("paillier: message m must be in range [0, N)")
	}
	if r.Sign() <= 0 || r.Cmp(pk.Nval) >= 0 {
		return nil, errors.New("paillier: randomness r must be in range [1, N)")
	}

	// gm = 1 + N*m (exact, since m < N implies N*m < N^2)
	gm := new(big.Int).Mul(pk.Nval, m)
	gm.Add(gm, one)

	rn := new(big.Int).Exp(r, pk.Nval, pk.N2val)

	c := new(big.Int).Mul(gm, rn)
	c.Mod(c, pk.N2val)
	return c, nil
}

// HomomorphicAdd returns a ciphertext of m1+m2 given ciphertexts of
// m1, m2: c1*c2 mod N^2.
func (pk *PublicKey) HomomorphicAdd(c1, c2 *big.Int) *big.Int {
	c := new(big.Int).Mul(c1, c2)
	c.Mod(c, pk.N2val)
	return c
}

// HomomorphicMulPlain returns a ciphertext of m*k given a ciphertext of
// m and a plaintext scalar k: c^k mod N^2.
func (pk *PublicKey) HomomorphicMulPlain(c, k *big.Int) *big.Int {
	return new(big.Int).Exp(c, k, pk.N2val)
}

// ValidateCiphertext checks that c lies in the ciphertext ring [0, N^2)
// and is coprime to N^2, per the Z*_M membership invariant (spec.md §3).
func (pk *PublicKey) ValidateCiphertext(c *big.Int) error {
	return common.RequireCoprime("ciphertext", c, pk.N2val)
}

// Decrypt recovers the plaintext m from ciphertext c.
// m = L(c^lambda mod N^2) * mu mod N, where L(x) = (x-1)/N.
func (priv *PrivateKey) Decrypt(c *big.Int) (*big.Int, error) {
	if c.Sign() < 0 || c.Cmp(priv.N2val) >= 0 {
		return nil, errors.New("paillier: ciphertext c must be in range [0, N^2)")
	}

	u := new(big.Int).Exp(c, priv.Lambda, priv.N2val)
	l := new(big.Int).Sub(u, one)
	l.Div(l, priv.Nval)

	m := new(big.Int).Mul(l, priv.Mu)
	m.Mod(m, priv.Nval)
	return m, nil
}

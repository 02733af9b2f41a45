// Package pedersen implements the ring-Pedersen commitment scheme used
// by the range and receiver ZK proofs: a Blum-Williams modulus Ntilde
// together with generators H1, H2 such that H1 = H2^alpha0 mod Ntilde
// for a secret alpha0 known only to the party that generated the
// parameters (the verifier). The prover only ever sees (Ntilde, H1, H2)
// and never alpha0.
package pedersen

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyunet/go-mta-zkp/internal/common"
)

// Params is the public ring-Pedersen commitment parameter set a prover
// consumes: (Ntilde, H1, H2). It satisfies pkg/mpc.RingPedersenCommitter.
type Params struct {
	Ntilde *big.Int
	H1Val  *big.Int
	H2Val  *big.Int
}

// Modulus returns Ntilde.
func (p *Params) Modulus() *big.Int { return p.Ntilde }

// H1 returns the first generator.
func (p *Params) H1() *big.Int { return p.H1Val }

// H2 returns the second generator.
func (p *Params) H2() *big.Int { return p.H2Val }

// Commit computes H1^x * H2^y mod Ntilde.
func (p *Params) Commit(x, y *big.Int) *big.Int {
	m := new(big.Int).Exp(p.H1Val, x, p.Ntilde)
	t := new(big.Int).Exp(p.H2Val, y, p.Ntilde)
	m.Mul(m, t)
	m.Mod(m, p.Ntilde)
	return m
}

// Validate checks H1 and H2 are units mod Ntilde, per the Z*_Ntilde
// membership invariant (spec.md §3, invariant 1).
func (p *Params) Validate() error {
	if err := common.RequireCoprime("h1", p.H1Val, p.Ntilde); err != nil {
		return err
	}
	if err := common.RequireCoprime("h2", p.H2Val, p.Ntilde); err != nil {
		return err
	}
	return nil
}

// PrivateParams additionally holds the secret trapdoor alpha0 with
// H1 = H2^alpha0 mod Ntilde, known only to the verifier that generated
// the parameters. It is not required to verify proofs (the prover-side
// Params suffice) but is useful for test fixtures that need to assert
// the discrete-log relation holds.
type PrivateParams struct {
	Params
	Alpha0 *big.Int
	Pt, Qt *big.Int // the two safe primes behind Ntilde = Pt*Qt
}

// Generate produces a fresh ring-Pedersen parameter set with a modulus
// of the given bit length (|Ntilde|, e.g. 2048). Like paillier.GenerateKey
// this is a reference generator for tests and benchmarks, not a
// production key-ceremony implementation.
func Generate(random io.Reader, bits int) (*PrivateParams, error) {
	if bits < 1024 {
		return nil, errors.New("pedersen: bits must be at least 1024")
	}

	pt, err := safePrime(random, bits/2)
	if err != nil {
		return nil, err
	}
	qt, err := safePrime(random, bits/2)
	if err != nil {
		return nil, err
	}
	for pt.Cmp(qt) == 0 {
		qt, err = safePrime(random, bits/2)
		if err != nil {
			return nil, err
		}
	}

	ntilde := new(big.Int).Mul(pt, qt)

	phi := new(big.Int).Mul(
		new(big.Int).Sub(pt, big.NewInt(1)),
		new(big.Int).Sub(qt, big.NewInt(1)),
	)

	h2, err := rand.Int(random, ntilde)
	if err != nil {
		return nil, err
	}
	for new(big.Int).GCD(nil, nil, h2, ntilde).Cmp(big.NewInt(1)) != 0 {
		h2, err = rand.Int(random, ntilde)
		if err != nil {
			return nil, err
		}
	}

	alpha0, err := rand.Int(random, phi)
	if err != nil {
		return nil, err
	}
	h1 := new(big.Int).Exp(h2, alpha0, ntilde)

	common.Logger.Debugf("pedersen: generated %d-bit ring-Pedersen modulus", ntilde.BitLen())

	return &PrivateParams{
		Params: Params{Ntilde: ntilde, H1Val: h1, H2Val: h2},
		Alpha0: alpha0,
		Pt:     pt,
		Qt:     qt,
	}, nil
}

// safePrime returns a prime p such that (p-1)/2 is also prime, so that
// Ntilde = Pt*Qt is a Blum-Williams modulus built from safe primes.
func safePrime(random io.Reader, bits int) (*big.Int, error) {
	for {
		q, err := rand.Prime(random, bits-1)
		if err != nil {
			return nil, err
		}
		p := new(big.Int).Lsh(q, 1)
		p.Add(p, big.NewInt(1))
		if p.ProbablyPrime(20) {
			return p, nil
		}
	}
}

// Package mta implements the multiplicative-to-additive share
// conversion (spec.md §4.B): two parties holding secret scalars a, b
// jointly compute additive shares alpha, beta with
// alpha + beta = a*b (mod q), via a single round over a Paillier
// ciphertext. The range proof and receiver ZK proofs that make this
// round safe against a malicious party live in sibling packages
// (pkg/rangeproof, pkg/zkproof, pkg/zkwc); this package only implements
// the arithmetic of client1/server/client2/sum.
package mta

import (
	"math/big"

	"github.com/smallyunet/go-mta-zkp/internal/common"
	"github.com/smallyunet/go-mta-zkp/pkg/mpc"
)

// ClientRandomness is the secret witness retained by the sender after
// Client1: the Paillier randomness r used to encrypt a. It is read once
// by the range proof's Prove and then wiped.
type ClientRandomness struct {
	R *big.Int
}

// Kill zeroes R in place (spec.md §5 witness-zeroization requirement).
func (cr *ClientRandomness) Kill() {
	if cr == nil {
		return
	}
	common.ZeroBigInt(cr.R)
	cr.R = nil
}

// ServerRandomness is the secret witness retained by the receiver after
// Server: the blinding z and the Paillier randomness r' used to encrypt
// it. Read once by the receiver ZK proof's Prove and then wiped.
type ServerRandomness struct {
	Z      *big.Int
	RPrime *big.Int
}

// Kill zeroes Z and RPrime in place.
func (sr *ServerRandomness) Kill() {
	if sr == nil {
		return
	}
	common.ZeroBigInt(sr.Z)
	common.ZeroBigInt(sr.RPrime)
	sr.Z, sr.RPrime = nil, nil
}

// Client1WithRNG samples r uniformly from Z*_N and returns
// CA = Enc(a; r) = g^a * r^N mod N^2, along with the randomness r the
// caller must retain for the range proof and wipe afterward.
func Client1WithRNG(rng mpc.RNG, pub mpc.PaillierEncrypter, a *big.Int) (*big.Int, *ClientRandomness, error) {
	r, err := common.SampleUnit(rng, pub.N())
	if err != nil {
		return nil, nil, err
	}
	return client1(pub, a, r)
}

// Client1WithMaterial is the deterministic counterpart of Client1WithRNG,
// taking a pre-supplied r instead of sampling one. Used by tests and the
// seeded scenarios in spec.md §8.
func Client1WithMaterial(pub mpc.PaillierEncrypter, a, r *big.Int) (*big.Int, *ClientRandomness, error) {
	return client1(pub, a, r)
}

func client1(pub mpc.PaillierEncrypter, a, r *big.Int) (*big.Int, *ClientRandomness, error) {
	ca, err := pub.EncryptWithRandomness(a, r)
	if err != nil {
		return nil, nil, err
	}
	return ca, &ClientRandomness{R: new(big.Int).Set(r)}, nil
}

// ServerWithRNG samples z uniformly from [0, q) and r' uniformly from
// Z*_N, and computes CB = CA^b * Enc(z; r') mod N^2 and
// beta = (-z) mod q. It returns CB, beta, and the randomness (z, r')
// the caller must retain for the receiver ZK proof and wipe afterward.
func ServerWithRNG(rng mpc.RNG, pub mpc.PaillierHomomorphic, q, b, ca *big.Int) (*big.Int, *big.Int, *ServerRandomness, error) {
	z, err := rng.Int(q)
	if err != nil {
		return nil, nil, nil, err
	}
	rPrime, err := common.SampleUnit(rng, pub.N())
	if err != nil {
		return nil, nil, nil, err
	}
	return server(pub, q, b, ca, z, rPrime)
}

// ServerWithMaterial is the deterministic counterpart of ServerWithRNG,
// taking pre-supplied z and r' instead of sampling them.
func ServerWithMaterial(pub mpc.PaillierHomomorphic, q, b, ca, z, rPrime *big.Int) (*big.Int, *big.Int, *ServerRandomness, error) {
	return server(pub, q, b, ca, z, rPrime)
}

func server(pub mpc.PaillierHomomorphic, q, b, ca, z, rPrime *big.Int) (*big.Int, *big.Int, *ServerRandomness, error) {
	encZ, err := pub.EncryptWithRandomness(z, rPrime)
	if err != nil {
		return nil, nil, nil, err
	}

	caToB := pub.HomomorphicMulPlain(ca, b)
	cb := pub.HomomorphicAdd(caToB, encZ)

	beta := new(big.Int).Neg(z)
	beta.Mod(beta, q)

	randomness := &ServerRandomness{Z: new(big.Int).Set(z), RPrime: new(big.Int).Set(rPrime)}
	return cb, beta, randomness, nil
}

// Client2 decrypts CB under the sender's Paillier private key and
// reduces the result mod q to recover alpha.
func Client2(priv mpc.PaillierDecrypter, q, cb *big.Int) (*big.Int, error) {
	m, err := priv.Decrypt(cb)
	if err != nil {
		return nil, err
	}
	alpha := new(big.Int).Mod(m, q)
	return alpha, nil
}

// Sum returns (a*b + alpha + beta) mod q, the closure property a
// correct MtA round must satisfy: alpha + beta = a*b (mod q).
func Sum(q, a, b, alpha, beta *big.Int) *big.Int {
	result := new(big.Int).Mul(a, b)
	result.Add(result, alpha)
	result.Add(result, beta)
	result.Mod(result, q)
	return result
}

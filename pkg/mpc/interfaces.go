// Package mpc defines the capability contracts the core MtA and
// zero-knowledge proof components consume. Paillier, the ring-Pedersen
// commitment scheme, secp256k1 arithmetic, hashing, and randomness are
// treated as external collaborators: the proof and share-conversion
// logic in pkg/mta, pkg/rangeproof, pkg/zkproof and pkg/zkwc depends
// only on these interfaces, never on a concrete backend directly.
package mpc

import "math/big"

// PaillierEncrypter encrypts plaintexts under a Paillier public key.
type PaillierEncrypter interface {
	// N returns the public modulus.
	N() *big.Int
	// NSquare returns N^2, the ciphertext ring modulus.
	NSquare() *big.Int
	// EncryptWithRandomness computes Enc(m; r) = (1+N)^m * r^N mod N^2.
	// m must lie in [0, N) and r must be coprime to N.
	EncryptWithRandomness(m, r *big.Int) (*big.Int, error)
}

// PaillierDecrypter decrypts ciphertexts under a Paillier private key.
type PaillierDecrypter interface {
	PaillierEncrypter
	// Decrypt recovers the plaintext m from ciphertext c.
	Decrypt(c *big.Int) (*big.Int, error)
}

// PaillierHomomorphic exposes the homomorphic operations the MtA
// protocol needs on top of plain encryption.
type PaillierHomomorphic interface {
	PaillierEncrypter
	// HomomorphicAdd returns a ciphertext of m1+m2 given ciphertexts of m1, m2.
	HomomorphicAdd(c1, c2 *big.Int) *big.Int
	// HomomorphicMulPlain returns a ciphertext of m*k given a ciphertext of m
	// and a plaintext scalar k.
	HomomorphicMulPlain(c, k *big.Int) *big.Int
}

// RingPedersenCommitter implements Pedersen-style commitments modulo a
// Blum-Williams modulus Ntilde, with generators H1 = H2^alpha0 for a
// secret alpha0 known only to the party that generated the parameters.
type RingPedersenCommitter interface {
	// Modulus returns Ntilde.
	Modulus() *big.Int
	// H1 returns the first generator.
	H1() *big.Int
	// H2 returns the second generator.
	H2() *big.Int
	// Commit computes H1^x * H2^y mod Ntilde.
	Commit(x, y *big.Int) *big.Int
}

// Point is an opaque handle to a secp256k1 point, which may be the
// identity (for example the result of ScalarMul by the group order).
// Concrete backends decide the representation; callers only move Points
// between Curve methods.
type Point interface {
	// IsIdentity reports whether this is the point at infinity.
	IsIdentity() bool
}

// Curve is the secp256k1 capability consumed by the ZKWC component for
// its discrete-log binding.
type Curve interface {
	// Order returns q, the order of the base point.
	Order() *big.Int
	// BasePoint returns the curve generator G.
	BasePoint() Point
	// ScalarMul computes k*P. Passing BasePoint() as P computes k*G.
	ScalarMul(p Point, k *big.Int) Point
	// Add returns p+q.
	Add(p, q Point) Point
	// Sub returns p-q.
	Sub(p, q Point) Point
	// Equal reports whether p and q are the same point.
	Equal(p, q Point) bool
	// ToBytesCompressed serializes a non-identity point to 33 bytes.
	ToBytesCompressed(p Point) ([]byte, error)
	// FromBytes parses a 33-byte compressed point, verifying it is on
	// the curve and not the identity. Returns ErrInvalidECP otherwise.
	FromBytes(b []byte) (Point, error)
}

// Hasher is the streaming hash capability used for Fiat-Shamir
// transcripts. A concrete backend wraps crypto/sha256.
type Hasher interface {
	Write(p []byte) (n int, err error)
	Sum() []byte
	Reset()
}

// RNG is a cryptographically secure source of uniform integers in
// [0, bound), used by every "_with_rng" entry point.
type RNG interface {
	Int(bound *big.Int) (*big.Int, error)
}

// Package zkwc implements the Receiver ZK Proof with Check (ZKWC,
// spec.md §4.E): the same statement as pkg/zkproof, additionally binding
// the receiver's share x to a public elliptic-curve point X = x*G so a
// verifier that already knows X can catch a receiver using a different
// share in the Paillier computation than the one it committed to
// elsewhere. Per spec.md §9 design notes, ZKWC is represented as
// composition (ZK + U), not a subtype: Commitment embeds zkproof.Commitment
// by value and Proof is reused unchanged.
package zkwc

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyunet/go-mta-zkp/internal/common"
	"github.com/smallyunet/go-mta-zkp/internal/crypto/fiatshamir"
	"github.com/smallyunet/go-mta-zkp/internal/crypto/octet"
	"github.com/smallyunet/go-mta-zkp/pkg/mpc"
	"github.com/smallyunet/go-mta-zkp/pkg/zkproof"
)

// Commitment is the ZK commitment plus the DLOG-binding point U = alpha*G.
type Commitment struct {
	zkproof.Commitment
	U mpc.Point
}

// Proof is identical to the ZK proof.
type Proof = zkproof.Proof

// ToOctets serializes the commitment to its canonical fixed-width wire
// form: the embedded ZK commitment's bytes followed by U's compressed
// point encoding (spec.md §3 Lifecycle, §6's 33-byte compressed-point
// width).
func (c *Commitment) ToOctets(curve mpc.Curve) ([]byte, error) {
	base, err := c.Commitment.ToOctets()
	if err != nil {
		return nil, errors.Wrap(err, "zkwc: Commitment.ToOctets")
	}
	u, err := curve.ToBytesCompressed(c.U)
	if err != nil {
		return nil, errors.Wrap(err, "zkwc: Commitment.ToOctets u")
	}
	return append(base, u...), nil
}

// CommitmentFromOctets parses a Commitment from its canonical wire form.
// U's decompression rejects off-curve or identity encodings with
// mpc.ErrInvalidECP (spec.md §4.E, §8).
func CommitmentFromOctets(curve mpc.Curve, b []byte) (*Commitment, error) {
	want := zkproof.CommitmentOctetLen + octet.CompressedPoint
	if err := common.RequireLen("zkwc.Commitment", b, want); err != nil {
		return nil, errors.Wrap(err, "zkwc: Commitment.FromOctets")
	}
	zkC, err := zkproof.CommitmentFromOctets(b[:zkproof.CommitmentOctetLen])
	if err != nil {
		return nil, errors.Wrap(err, "zkwc: Commitment.FromOctets")
	}
	u, err := curve.FromBytes(b[zkproof.CommitmentOctetLen:])
	if err != nil {
		return nil, errors.Wrap(err, "zkwc: Commitment.FromOctets u")
	}
	return &Commitment{Commitment: *zkC, U: u}, nil
}

// CommitWithRNG samples fresh randomness as zkproof.CommitWithRNG does,
// and additionally computes U = alpha*G on curve.
func CommitWithRNG(rng mpc.RNG, pub mpc.PaillierEncrypter, pp mpc.RingPedersenCommitter, curve mpc.Curve, q, ca, x, y *big.Int) (*Commitment, *zkproof.Randomness, error) {
	zkC, randomness, err := zkproof.CommitWithRNG(rng, pub, pp, q, ca, x, y)
	if err != nil {
		return nil, nil, err
	}
	u := curve.ScalarMul(curve.BasePoint(), randomness.Alpha)
	return &Commitment{Commitment: *zkC, U: u}, randomness, nil
}

// CommitWithMaterial is the deterministic counterpart of CommitWithRNG.
func CommitWithMaterial(pub mpc.PaillierEncrypter, pp mpc.RingPedersenCommitter, curve mpc.Curve, ca, x, y, alpha, beta, gamma, rho, rho1, sigma, tau *big.Int) (*Commitment, *zkproof.Randomness, error) {
	zkC, randomness, err := zkproof.CommitWithMaterial(pub, pp, ca, x, y, alpha, beta, gamma, rho, rho1, sigma, tau)
	if err != nil {
		return nil, nil, err
	}
	u := curve.ScalarMul(curve.BasePoint(), alpha)
	return &Commitment{Commitment: *zkC, U: u}, randomness, nil
}

// Challenge derives e = H(g || Ntilde || h1 || h2 || q || CA || CB || U || z || z1 || t || v || w) mod q,
// U inserted between CB and z relative to pkg/zkproof's transcript
// (spec.md §4.E).
func Challenge(pub mpc.PaillierEncrypter, pp mpc.RingPedersenCommitter, curve mpc.Curve, q, ca, cb *big.Int, c *Commitment) (*big.Int, error) {
	g := new(big.Int).Add(pub.N(), big.NewInt(1))

	uBytes, err := curve.ToBytesCompressed(c.U)
	if err != nil {
		return nil, err
	}

	return fiatshamir.Challenge(q,
		fiatshamir.F(g, octet.FS2048),
		fiatshamir.F(pp.Modulus(), octet.FS2048),
		fiatshamir.F(pp.H1(), octet.FS2048),
		fiatshamir.F(pp.H2(), octet.FS2048),
		fiatshamir.F(q, octet.Scalar),
		fiatshamir.F(ca, octet.FS4096),
		fiatshamir.F(cb, octet.FS4096),
		fiatshamir.B(uBytes),
		fiatshamir.F(c.Z, octet.FS2048),
		fiatshamir.F(c.Z1, octet.FS2048),
		fiatshamir.F(c.T, octet.FS2048),
		fiatshamir.F(c.V, octet.FS4096),
		fiatshamir.F(c.W, octet.FS2048),
	)
}

// Prove is identical to zkproof.Prove; re-exported so callers need only
// import pkg/zkwc for a full ZKWC round.
func Prove(pub mpc.PaillierEncrypter, x, y, r *big.Int, randomness *zkproof.Randomness, e *big.Int) *Proof {
	return zkproof.Prove(pub, x, y, r, randomness, e)
}

// Verify checks the four ZK conditions plus the DLOG binding (v):
// U ≡ s1*G - e*X. x is the public curve point X = x*G the verifier
// already holds for the receiver's share.
func Verify(pub mpc.PaillierEncrypter, pp mpc.RingPedersenCommitter, curve mpc.Curve, q, ca, cb *big.Int, x mpc.Point, c *Commitment, proof *Proof, e *big.Int) mpc.Code {
	if c.U == nil || c.U.IsIdentity() {
		common.Logger.Debugf("%s", mpc.NewBlame("zkwc.Verify", "u missing or identity", nil))
		return mpc.InvalidECP
	}

	code := zkproof.Verify(pub, pp, q, ca, cb, &c.Commitment, proof, e)
	if code != mpc.OK {
		return code
	}

	lhs := curve.ScalarMul(curve.BasePoint(), proof.S1)
	eX := curve.ScalarMul(x, e)
	rhs := curve.Sub(lhs, eX)

	if !curve.Equal(c.U, rhs) {
		common.Logger.Debugf("%s", mpc.NewBlame("zkwc.Verify", "dlog binding check", nil))
		return mpc.Fail
	}
	return mpc.OK
}

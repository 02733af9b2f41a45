// Package rangeproof implements the Range Proof (RP, spec.md §4.C): the
// sender of an MtA round proves its Paillier ciphertext CT = Enc(m; r)
// encrypts a plaintext m bounded well below N, without revealing m or r.
// This is what stops a malicious sender from smuggling a plaintext large
// enough to leak the receiver's share through Paillier wrap-around.
package rangeproof

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyunet/go-mta-zkp/internal/common"
	"github.com/smallyunet/go-mta-zkp/internal/crypto/fiatshamir"
	"github.com/smallyunet/go-mta-zkp/internal/crypto/octet"
	"github.com/smallyunet/go-mta-zkp/pkg/mpc"
)

// Commitment is the prover's first message: z, w in Z*_Ntilde and u in
// Z*_N2 (spec.md §3).
type Commitment struct {
	Z *big.Int
	U *big.Int
	W *big.Int
}

// Randomness is the secret witness sampled during Commit, read once by
// Prove and then wiped.
type Randomness struct {
	Alpha *big.Int
	Beta  *big.Int
	Gamma *big.Int
	Rho   *big.Int
}

// Kill zeroes every field in place.
func (r *Randomness) Kill() {
	if r == nil {
		return
	}
	common.ZeroBigInt(r.Alpha)
	common.ZeroBigInt(r.Beta)
	common.ZeroBigInt(r.Gamma)
	common.ZeroBigInt(r.Rho)
	r.Alpha, r.Beta, r.Gamma, r.Rho = nil, nil, nil, nil
}

// Proof is the prover's response: s in Z*_N, s1 bounded by q^3, s2 sized
// |Ntilde|+|q|^3 bits (spec.md §3, §6).
type Proof struct {
	S  *big.Int
	S1 *big.Int
	S2 *big.Int
}

// CommitmentOctetLen is the fixed byte length of a serialized Commitment:
// Z (FS2048) + U (FS4096) + W (FS2048), per spec.md §6's byte-width table.
const CommitmentOctetLen = octet.FS2048 + octet.FS4096 + octet.FS2048

// ProofOctetLen is the fixed byte length of a serialized Proof:
// S (FS2048) + S1 (FS2048) + S2 (WideWitness).
const ProofOctetLen = octet.FS2048 + octet.FS2048 + octet.WideWitness

// ToOctets serializes the commitment to its canonical fixed-width wire
// form (spec.md §3 Lifecycle: "Commitments and proofs are serialized to
// byte strings for transport").
func (c *Commitment) ToOctets() ([]byte, error) {
	z, err := octet.ToFixed(c.Z, octet.FS2048)
	if err != nil {
		return nil, errors.Wrap(err, "rangeproof: Commitment.ToOctets z")
	}
	u, err := octet.ToFixed(c.U, octet.FS4096)
	if err != nil {
		return nil, errors.Wrap(err, "rangeproof: Commitment.ToOctets u")
	}
	w, err := octet.ToFixed(c.W, octet.FS2048)
	if err != nil {
		return nil, errors.Wrap(err, "rangeproof: Commitment.ToOctets w")
	}
	out := make([]byte, 0, CommitmentOctetLen)
	out = append(out, z...)
	out = append(out, u...)
	out = append(out, w...)
	return out, nil
}

// CommitmentFromOctets parses a Commitment from its canonical wire form.
// Ingest is length-strict: any length other than CommitmentOctetLen fails
// (spec.md §8: "ingestion of truncated or oversized inputs fails").
func CommitmentFromOctets(b []byte) (*Commitment, error) {
	if err := common.RequireLen("rangeproof.Commitment", b, CommitmentOctetLen); err != nil {
		return nil, errors.Wrap(err, "rangeproof: Commitment.FromOctets")
	}
	z, err := octet.FromFixed(b[:octet.FS2048], octet.FS2048)
	if err != nil {
		return nil, errors.Wrap(err, "rangeproof: Commitment.FromOctets z")
	}
	u, err := octet.FromFixed(b[octet.FS2048:octet.FS2048+octet.FS4096], octet.FS4096)
	if err != nil {
		return nil, errors.Wrap(err, "rangeproof: Commitment.FromOctets u")
	}
	w, err := octet.FromFixed(b[octet.FS2048+octet.FS4096:], octet.FS2048)
	if err != nil {
		return nil, errors.Wrap(err, "rangeproof: Commitment.FromOctets w")
	}
	return &Commitment{Z: z, U: u, W: w}, nil
}

// ToOctets serializes the proof to its canonical fixed-width wire form.
func (p *Proof) ToOctets() ([]byte, error) {
	s, err := octet.ToFixed(p.S, octet.FS2048)
	if err != nil {
		return nil, errors.Wrap(err, "rangeproof: Proof.ToOctets s")
	}
	s1, err := octet.ToFixed(p.S1, octet.FS2048)
	if err != nil {
		return nil, errors.Wrap(err, "rangeproof: Proof.ToOctets s1")
	}
	s2, err := octet.ToFixed(p.S2, octet.WideWitness)
	if err != nil {
		return nil, errors.Wrap(err, "rangeproof: Proof.ToOctets s2")
	}
	out := make([]byte, 0, ProofOctetLen)
	out = append(out, s...)
	out = append(out, s1...)
	out = append(out, s2...)
	return out, nil
}

// ProofFromOctets parses a Proof from its canonical wire form.
func ProofFromOctets(b []byte) (*Proof, error) {
	if err := common.RequireLen("rangeproof.Proof", b, ProofOctetLen); err != nil {
		return nil, errors.Wrap(err, "rangeproof: Proof.FromOctets")
	}
	s, err := octet.FromFixed(b[:octet.FS2048], octet.FS2048)
	if err != nil {
		return nil, errors.Wrap(err, "rangeproof: Proof.FromOctets s")
	}
	s1, err := octet.FromFixed(b[octet.FS2048:2*octet.FS2048], octet.FS2048)
	if err != nil {
		return nil, errors.Wrap(err, "rangeproof: Proof.FromOctets s1")
	}
	s2, err := octet.FromFixed(b[2*octet.FS2048:], octet.WideWitness)
	if err != nil {
		return nil, errors.Wrap(err, "rangeproof: Proof.FromOctets s2")
	}
	return &Proof{S: s, S1: s1, S2: s2}, nil
}

// CommitWithRNG samples fresh randomness (alpha, beta, gamma, rho) and
// computes the commitment for plaintext m under ciphertext randomness r
// (not yet consumed - r is only needed at Prove time).
func CommitWithRNG(rng mpc.RNG, pub mpc.PaillierEncrypter, pp mpc.RingPedersenCommitter, q, m *big.Int) (*Commitment, *Randomness, error) {
	q3 := common.CubeOf(q)
	qNtilde := new(big.Int).Mul(q, pp.Modulus())
	q3Ntilde := new(big.Int).Mul(q3, pp.Modulus())

	alpha, err := rng.Int(q3)
	if err != nil {
		return nil, nil, err
	}
	beta, err := common.SampleUnit(rng, pub.N())
	if err != nil {
		return nil, nil, err
	}
	gamma, err := rng.Int(q3Ntilde)
	if err != nil {
		return nil, nil, err
	}
	rho, err := rng.Int(qNtilde)
	if err != nil {
		return nil, nil, err
	}

	return commit(pub, pp, m, alpha, beta, gamma, rho)
}

// CommitWithMaterial is the deterministic counterpart of CommitWithRNG,
// taking pre-supplied randomness instead of sampling it.
func CommitWithMaterial(pub mpc.PaillierEncrypter, pp mpc.RingPedersenCommitter, m, alpha, beta, gamma, rho *big.Int) (*Commitment, *Randomness, error) {
	return commit(pub, pp, m, alpha, beta, gamma, rho)
}

func commit(pub mpc.PaillierEncrypter, pp mpc.RingPedersenCommitter, m, alpha, beta, gamma, rho *big.Int) (*Commitment, *Randomness, error) {
	z := pp.Commit(m, rho)
	u := uValue(pub, alpha, beta)
	w := pp.Commit(alpha, gamma)

	return &Commitment{Z: z, U: u, W: w}, &Randomness{Alpha: alpha, Beta: beta, Gamma: gamma, Rho: rho}, nil
}

// uValue computes g^exp * base^N mod N^2 directly (rather than through
// PaillierEncrypter.EncryptWithRandomness, which requires its message
// argument to lie in [0, N): the commitment exponent alpha ranges over
// [0, q^3), a different and unenforced bound).
func uValue(pub mpc.PaillierEncrypter, exp, base *big.Int) *big.Int {
	n2 := pub.NSquare()
	g := common.GeneratorG(pub.N())

	gExp := new(big.Int).Exp(g, exp, n2)
	baseN := new(big.Int).Exp(base, pub.N(), n2)

	out := new(big.Int).Mul(gExp, baseN)
	out.Mod(out, n2)
	return out
}

// Challenge derives e = H(g || Ntilde || h1 || h2 || q || CT || z || u || w) mod q,
// the canonical Fiat-Shamir transcript for RP (spec.md §4.C).
func Challenge(pub mpc.PaillierEncrypter, pp mpc.RingPedersenCommitter, q, ct *big.Int, c *Commitment) (*big.Int, error) {
	g := common.GeneratorG(pub.N())
	return fiatshamir.Challenge(q,
		fiatshamir.F(g, octet.FS2048),
		fiatshamir.F(pp.Modulus(), octet.FS2048),
		fiatshamir.F(pp.H1(), octet.FS2048),
		fiatshamir.F(pp.H2(), octet.FS2048),
		fiatshamir.F(q, octet.Scalar),
		fiatshamir.F(ct, octet.FS4096),
		fiatshamir.F(c.Z, octet.FS2048),
		fiatshamir.F(c.U, octet.FS4096),
		fiatshamir.F(c.W, octet.FS2048),
	)
}

// Prove computes (s, s1, s2) from the witness (m, r) and the commitment
// randomness, then wipes the randomness.
func Prove(pub mpc.PaillierEncrypter, m, r *big.Int, randomness *Randomness, e *big.Int) *Proof {
	defer randomness.Kill()

	s := new(big.Int).Exp(r, e, pub.N())
	s.Mul(s, randomness.Beta)
	s.Mod(s, pub.N())

	s1 := new(big.Int).Mul(e, m)
	s1.Add(s1, randomness.Alpha)

	s2 := new(big.Int).Mul(e, randomness.Rho)
	s2.Add(s2, randomness.Gamma)

	return &Proof{S: s, S1: s1, S2: s2}
}

// Verify checks the three RP acceptance conditions (spec.md §4.C) and
// returns a single code, never revealing which condition failed.
func Verify(pub mpc.PaillierEncrypter, pp mpc.RingPedersenCommitter, q, ct *big.Int, c *Commitment, proof *Proof, e *big.Int) mpc.Code {
	if err := ingestOK(pub, pp, ct, c, proof); err != nil {
		common.Logger.Debugf("%s", mpc.NewBlame("rangeproof.Verify", "ingest", err))
		return mpc.Fail
	}

	q3 := common.CubeOf(q)
	if proof.S1.Cmp(q3) > 0 {
		common.Logger.Debugf("%s", mpc.NewBlame("rangeproof.Verify", "s1 bound", nil))
		return mpc.Fail
	}

	ntilde := pp.Modulus()
	zToE := new(big.Int).Exp(c.Z, e, ntilde)
	zToEInv := common.ModInverse(zToE, ntilde)
	if zToEInv == nil {
		common.Logger.Debugf("%s", mpc.NewBlame("rangeproof.Verify", "z not invertible", nil))
		return mpc.Fail
	}
	lhsW := pp.Commit(proof.S1, proof.S2)
	lhsW.Mul(lhsW, zToEInv)
	lhsW.Mod(lhsW, ntilde)
	if lhsW.Cmp(c.W) != 0 {
		common.Logger.Debugf("%s", mpc.NewBlame("rangeproof.Verify", "w equation", nil))
		return mpc.Fail
	}

	n2 := pub.NSquare()
	ctToE := new(big.Int).Exp(ct, e, n2)
	ctToEInv := common.ModInverse(ctToE, n2)
	if ctToEInv == nil {
		common.Logger.Debugf("%s", mpc.NewBlame("rangeproof.Verify", "ct not invertible", nil))
		return mpc.Fail
	}
	g := common.GeneratorG(pub.N())
	lhsU := new(big.Int).Exp(g, proof.S1, n2)
	sN := new(big.Int).Exp(proof.S, pub.N(), n2)
	lhsU.Mul(lhsU, sN)
	lhsU.Mul(lhsU, ctToEInv)
	lhsU.Mod(lhsU, n2)
	if lhsU.Cmp(c.U) != 0 {
		common.Logger.Debugf("%s", mpc.NewBlame("rangeproof.Verify", "u equation", nil))
		return mpc.Fail
	}

	common.Logger.Debugf("rangeproof: verify OK")
	return mpc.OK
}

// ingestOK runs the membership checks spec.md §3 invariant 1 requires
// on every ingested ring element before the verification equations run.
func ingestOK(pub mpc.PaillierEncrypter, pp mpc.RingPedersenCommitter, ct *big.Int, c *Commitment, proof *Proof) error {
	v := &common.Validator{}
	v.Check(common.RequireCoprime("ct", ct, pub.NSquare()))
	v.Check(common.RequireCoprime("z", c.Z, pp.Modulus()))
	v.Check(common.RequireCoprime("w", c.W, pp.Modulus()))
	v.Check(common.RequireCoprime("u", c.U, pub.NSquare()))
	v.Check(common.RequireCoprime("s", proof.S, pub.N()))
	if err := v.Err(); err != nil {
		return errors.Wrap(err, "rangeproof: ingest")
	}
	return nil
}

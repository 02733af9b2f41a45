// Package zkproof implements the Receiver ZK Proof (ZK, spec.md §4.D):
// after computing its homomorphic reply CB from the sender's ciphertext
// CA, the receiver proves CB was derived correctly from a small share x
// and blinding y, without revealing either.
package zkproof

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyunet/go-mta-zkp/internal/common"
	"github.com/smallyunet/go-mta-zkp/internal/crypto/fiatshamir"
	"github.com/smallyunet/go-mta-zkp/internal/crypto/octet"
	"github.com/smallyunet/go-mta-zkp/pkg/mpc"
)

// Commitment is the receiver's first message (spec.md §3).
type Commitment struct {
	Z  *big.Int
	Z1 *big.Int
	T  *big.Int
	V  *big.Int
	W  *big.Int
}

// Randomness is the secret witness sampled during Commit.
type Randomness struct {
	Alpha *big.Int
	Beta  *big.Int
	Gamma *big.Int
	Rho   *big.Int
	Rho1  *big.Int
	Sigma *big.Int
	Tau   *big.Int
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
	common.ZeroBigInt(r.Rho1)
	common.ZeroBigInt(r.Sigma)
	common.ZeroBigInt(r.Tau)
	r.Alpha, r.Beta, r.Gamma = nil, nil, nil
	r.Rho, r.Rho1, r.Sigma, r.Tau = nil, nil, nil, nil
}

// Proof is the receiver's response.
type Proof struct {
	S  *big.Int
	S1 *big.Int
	S2 *big.Int
	T1 *big.Int
	T2 *big.Int
}

// CommitmentOctetLen is the fixed byte length of a serialized Commitment:
// Z, Z1, T (FS2048 each) + V (FS4096) + W (FS2048), per spec.md §6.
const CommitmentOctetLen = octet.FS2048 + octet.FS2048 + octet.FS2048 + octet.FS4096 + octet.FS2048

// ProofOctetLen is the fixed byte length of a serialized Proof:
// S, S1, T1 (FS2048 each) + S2, T2 (WideWitness each).
const ProofOctetLen = octet.FS2048 + octet.FS2048 + octet.WideWitness + octet.FS2048 + octet.WideWitness

// ToOctets serializes the commitment to its canonical fixed-width wire
// form (spec.md §3 Lifecycle).
func (c *Commitment) ToOctets() ([]byte, error) {
	fields := []struct {
		v *big.Int
		w int
		n string
	}{
		{c.Z, octet.FS2048, "z"},
		{c.Z1, octet.FS2048, "z1"},
		{c.T, octet.FS2048, "t"},
		{c.V, octet.FS4096, "v"},
		{c.W, octet.FS2048, "w"},
	}
	out := make([]byte, 0, CommitmentOctetLen)
	for _, f := range fields {
		b, err := octet.ToFixed(f.v, f.w)
		if err != nil {
			return nil, errors.Wrapf(err, "zkproof: Commitment.ToOctets %s", f.n)
		}
		out = append(out, b...)
	}
	return out, nil
}

// CommitmentFromOctets parses a Commitment from its canonical wire form.
// Ingest is length-strict (spec.md §8).
func CommitmentFromOctets(b []byte) (*Commitment, error) {
	if err := common.RequireLen("zkproof.Commitment", b, CommitmentOctetLen); err != nil {
		return nil, errors.Wrap(err, "zkproof: Commitment.FromOctets")
	}
	off := 0
	next := func(width int) []byte {
		chunk := b[off : off+width]
		off += width
		return chunk
	}
	z, err := octet.FromFixed(next(octet.FS2048), octet.FS2048)
	if err != nil {
		return nil, errors.Wrap(err, "zkproof: Commitment.FromOctets z")
	}
	z1, err := octet.FromFixed(next(octet.FS2048), octet.FS2048)
	if err != nil {
		return nil, errors.Wrap(err, "zkproof: Commitment.FromOctets z1")
	}
	t, err := octet.FromFixed(next(octet.FS2048), octet.FS2048)
	if err != nil {
		return nil, errors.Wrap(err, "zkproof: Commitment.FromOctets t")
	}
	v, err := octet.FromFixed(next(octet.FS4096), octet.FS4096)
	if err != nil {
		return nil, errors.Wrap(err, "zkproof: Commitment.FromOctets v")
	}
	w, err := octet.FromFixed(next(octet.FS2048), octet.FS2048)
	if err != nil {
		return nil, errors.Wrap(err, "zkproof: Commitment.FromOctets w")
	}
	return &Commitment{Z: z, Z1: z1, T: t, V: v, W: w}, nil
}

// ToOctets serializes the proof to its canonical fixed-width wire form.
func (p *Proof) ToOctets() ([]byte, error) {
	fields := []struct {
		v *big.Int
		w int
		n string
	}{
		{p.S, octet.FS2048, "s"},
		{p.S1, octet.FS2048, "s1"},
		{p.S2, octet.WideWitness, "s2"},
		{p.T1, octet.FS2048, "t1"},
		{p.T2, octet.WideWitness, "t2"},
	}
	out := make([]byte, 0, ProofOctetLen)
	for _, f := range fields {
		b, err := octet.ToFixed(f.v, f.w)
		if err != nil {
			return nil, errors.Wrapf(err, "zkproof: Proof.ToOctets %s", f.n)
		}
		out = append(out, b...)
	}
	return out, nil
}

// ProofFromOctets parses a Proof from its canonical wire form.
func ProofFromOctets(b []byte) (*Proof, error) {
	if err := common.RequireLen("zkproof.Proof", b, ProofOctetLen); err != nil {
		return nil, errors.Wrap(err, "zkproof: Proof.FromOctets")
	}
	off := 0
	next := func(width int) []byte {
		chunk := b[off : off+width]
		off += width
		return chunk
	}
	s, err := octet.FromFixed(next(octet.FS2048), octet.FS2048)
	if err != nil {
		return nil, errors.Wrap(err, "zkproof: Proof.FromOctets s")
	}
	s1, err := octet.FromFixed(next(octet.FS2048), octet.FS2048)
	if err != nil {
		return nil, errors.Wrap(err, "zkproof: Proof.FromOctets s1")
	}
	s2, err := octet.FromFixed(next(octet.WideWitness), octet.WideWitness)
	if err != nil {
		return nil, errors.Wrap(err, "zkproof: Proof.FromOctets s2")
	}
	t1, err := octet.FromFixed(next(octet.FS2048), octet.FS2048)
	if err != nil {
		return nil, errors.Wrap(err, "zkproof: Proof.FromOctets t1")
	}
	t2, err := octet.FromFixed(next(octet.WideWitness), octet.WideWitness)
	if err != nil {
		return nil, errors.Wrap(err, "zkproof: Proof.FromOctets t2")
	}
	return &Proof{S: s, S1: s1, S2: s2, T1: t1, T2: t2}, nil
}

// CommitWithRNG samples fresh randomness for witness (x, y) and computes
// the ZK commitment. ca is the sender's ciphertext the commitment's v
// term is built over.
func CommitWithRNG(rng mpc.RNG, pub mpc.PaillierEncrypter, pp mpc.RingPedersenCommitter, q, ca, x, y *big.Int) (*Commitment, *Randomness, error) {
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
	gamma, err := common.SampleUnit(rng, pub.N())
	if err != nil {
		return nil, nil, err
	}
	rho, err := rng.Int(qNtilde)
	if err != nil {
		return nil, nil, err
	}
	rho1, err := rng.Int(q3Ntilde)
	if err != nil {
		return nil, nil, err
	}
	sigma, err := rng.Int(qNtilde)
	if err != nil {
		return nil, nil, err
	}
	tau, err := rng.Int(qNtilde)
	if err != nil {
		return nil, nil, err
	}

	return commit(pub, pp, ca, x, y, alpha, beta, gamma, rho, rho1, sigma, tau)
}

// CommitWithMaterial is the deterministic counterpart of CommitWithRNG.
func CommitWithMaterial(pub mpc.PaillierEncrypter, pp mpc.RingPedersenCommitter, ca, x, y, alpha, beta, gamma, rho, rho1, sigma, tau *big.Int) (*Commitment, *Randomness, error) {
	return commit(pub, pp, ca, x, y, alpha, beta, gamma, rho, rho1, sigma, tau)
}

func commit(pub mpc.PaillierEncrypter, pp mpc.RingPedersenCommitter, ca, x, y, alpha, beta, gamma, rho, rho1, sigma, tau *big.Int) (*Commitment, *Randomness, error) {
	z := pp.Commit(x, rho)
	z1 := pp.Commit(alpha, rho1)
	t := pp.Commit(y, sigma)
	w := pp.Commit(gamma, tau)
	v := vValue(pub, ca, alpha, gamma, beta)

	return &Commitment{Z: z, Z1: z1, T: t, V: v, W: w},
		&Randomness{Alpha: alpha, Beta: beta, Gamma: gamma, Rho: rho, Rho1: rho1, Sigma: sigma, Tau: tau},
		nil
}

// vValue computes ca^aExp * g^gExp * base^N mod N^2.
func vValue(pub mpc.PaillierEncrypter, ca, aExp, gExp, base *big.Int) *big.Int {
	n2 := pub.NSquare()
	g := common.GeneratorG(pub.N())

	caA := new(big.Int).Exp(ca, aExp, n2)
	gG := new(big.Int).Exp(g, gExp, n2)
	baseN := new(big.Int).Exp(base, pub.N(), n2)

	out := new(big.Int).Mul(caA, gG)
	out.Mul(out, baseN)
	out.Mod(out, n2)
	return out
}

// Challenge derives e = H(g || Ntilde || h1 || h2 || q || CA || CB || z || z1 || t || v || w) mod q.
func Challenge(pub mpc.PaillierEncrypter, pp mpc.RingPedersenCommitter, q, ca, cb *big.Int, c *Commitment) (*big.Int, error) {
	g := common.GeneratorG(pub.N())
	return fiatshamir.Challenge(q,
		fiatshamir.F(g, octet.FS2048),
		fiatshamir.F(pp.Modulus(), octet.FS2048),
		fiatshamir.F(pp.H1(), octet.FS2048),
		fiatshamir.F(pp.H2(), octet.FS2048),
		fiatshamir.F(q, octet.Scalar),
		fiatshamir.F(ca, octet.FS4096),
		fiatshamir.F(cb, octet.FS4096),
		fiatshamir.F(c.Z, octet.FS2048),
		fiatshamir.F(c.Z1, octet.FS2048),
		fiatshamir.F(c.T, octet.FS2048),
		fiatshamir.F(c.V, octet.FS4096),
		fiatshamir.F(c.W, octet.FS2048),
	)
}

// Prove computes (s, s1, s2, t1, t2) from the witness (x, y, r) and the
// commitment randomness, then wipes the randomness.
func Prove(pub mpc.PaillierEncrypter, x, y, r *big.Int, randomness *Randomness, e *big.Int) *Proof {
	defer randomness.Kill()

	s := new(big.Int).Exp(r, e, pub.N())
	s.Mul(s, randomness.Beta)
	s.Mod(s, pub.N())

	s1 := new(big.Int).Mul(e, x)
	s1.Add(s1, randomness.Alpha)

	s2 := new(big.Int).Mul(e, randomness.Rho)
	s2.Add(s2, randomness.Rho1)

	t1 := new(big.Int).Mul(e, y)
	t1.Add(t1, randomness.Gamma)

	t2 := new(big.Int).Mul(e, randomness.Sigma)
	t2.Add(t2, randomness.Tau)

	return &Proof{S: s, S1: s1, S2: s2, T1: t1, T2: t2}
}

// Verify checks the four ZK acceptance conditions (spec.md §4.D).
func Verify(pub mpc.PaillierEncrypter, pp mpc.RingPedersenCommitter, q, ca, cb *big.Int, c *Commitment, proof *Proof, e *big.Int) mpc.Code {
	if err := ingestOK(pub, pp, ca, cb, c, proof); err != nil {
		common.Logger.Debugf("%s", mpc.NewBlame("zkproof.Verify", "ingest", err))
		return mpc.Fail
	}

	q3 := common.CubeOf(q)
	if proof.S1.Cmp(q3) > 0 {
		common.Logger.Debugf("%s", mpc.NewBlame("zkproof.Verify", "s1 bound", nil))
		return mpc.Fail
	}

	ntilde := pp.Modulus()

	zToE := new(big.Int).Exp(c.Z, e, ntilde)
	zToEInv := common.ModInverse(zToE, ntilde)
	if zToEInv == nil {
		common.Logger.Debugf("%s", mpc.NewBlame("zkproof.Verify", "z not invertible", nil))
		return mpc.Fail
	}
	lhsZ1 := pp.Commit(proof.S1, proof.S2)
	lhsZ1.Mul(lhsZ1, zToEInv)
	lhsZ1.Mod(lhsZ1, ntilde)
	if lhsZ1.Cmp(c.Z1) != 0 {
		common.Logger.Debugf("%s", mpc.NewBlame("zkproof.Verify", "z1 equation", nil))
		return mpc.Fail
	}

	tToE := new(big.Int).Exp(c.T, e, ntilde)
	tToEInv := common.ModInverse(tToE, ntilde)
	if tToEInv == nil {
		common.Logger.Debugf("%s", mpc.NewBlame("zkproof.Verify", "t not invertible", nil))
		return mpc.Fail
	}
	lhsW := pp.Commit(proof.T1, proof.T2)
	lhsW.Mul(lhsW, tToEInv)
	lhsW.Mod(lhsW, ntilde)
	if lhsW.Cmp(c.W) != 0 {
		common.Logger.Debugf("%s", mpc.NewBlame("zkproof.Verify", "w equation", nil))
		return mpc.Fail
	}

	n2 := pub.NSquare()
	cbToE := new(big.Int).Exp(cb, e, n2)
	cbToEInv := common.ModInverse(cbToE, n2)
	if cbToEInv == nil {
		common.Logger.Debugf("%s", mpc.NewBlame("zkproof.Verify", "cb not invertible", nil))
		return mpc.Fail
	}
	g := common.GeneratorG(pub.N())
	lhsV := new(big.Int).Exp(ca, proof.S1, n2)
	sN := new(big.Int).Exp(proof.S, pub.N(), n2)
	gT1 := new(big.Int).Exp(g, proof.T1, n2)
	lhsV.Mul(lhsV, sN)
	lhsV.Mul(lhsV, gT1)
	lhsV.Mul(lhsV, cbToEInv)
	lhsV.Mod(lhsV, n2)
	if lhsV.Cmp(c.V) != 0 {
		common.Logger.Debugf("%s", mpc.NewBlame("zkproof.Verify", "v equation", nil))
		return mpc.Fail
	}

	common.Logger.Debugf("zkproof: verify OK")
	return mpc.OK
}

func ingestOK(pub mpc.PaillierEncrypter, pp mpc.RingPedersenCommitter, ca, cb *big.Int, c *Commitment, proof *Proof) error {
	v := &common.Validator{}
	v.Check(common.RequireCoprime("ca", ca, pub.NSquare()))
	v.Check(common.RequireCoprime("cb", cb, pub.NSquare()))
	v.Check(common.RequireCoprime("z", c.Z, pp.Modulus()))
	v.Check(common.RequireCoprime("z1", c.Z1, pp.Modulus()))
	v.Check(common.RequireCoprime("t", c.T, pp.Modulus()))
	v.Check(common.RequireCoprime("w", c.W, pp.Modulus()))
	v.Check(common.RequireCoprime("v", c.V, pub.NSquare()))
	v.Check(common.RequireCoprime("s", proof.S, pub.N()))
	if err := v.Err(); err != nil {
		return errors.Wrap(err, "zkproof: ingest")
	}
	return nil
}

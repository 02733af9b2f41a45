package zkproof

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyunet/go-mta-zkp/internal/common"
	"github.com/smallyunet/go-mta-zkp/internal/crypto/csrng"
	"github.com/smallyunet/go-mta-zkp/internal/crypto/paillier"
	"github.com/smallyunet/go-mta-zkp/internal/crypto/pedersen"
)

func setup(t *testing.T) (*paillier.PrivateKey, *pedersen.PrivateParams, *big.Int) {
	t.Helper()
	priv, err := paillier.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)
	pp, err := pedersen.Generate(rand.Reader, 1024)
	require.NoError(t, err)
	q := secp256k1.S256().N
	return priv, pp, q
}

// TestHonestPath reproduces spec.md §8 seeded scenario 4: x=2, y=3,
// CA = Enc(7; r_A), CB = CA^2 * g^3 * r^N; commit/prove/verify OK.
func TestHonestPath(t *testing.T) {
	priv, pp, q := setup(t)

	rA, err := rand.Int(rand.Reader, priv.Nval)
	require.NoError(t, err)
	ca, err := priv.EncryptWithRandomness(big.NewInt(7), rA)
	require.NoError(t, err)

	x := big.NewInt(2)
	y := big.NewInt(3)
	r, err := rand.Int(rand.Reader, priv.Nval)
	require.NoError(t, err)

	g := common.GeneratorG(priv.Nval)
	n2 := priv.N2val
	caX := new(big.Int).Exp(ca, x, n2)
	gY := new(big.Int).Exp(g, y, n2)
	rN := new(big.Int).Exp(r, priv.Nval, n2)
	cb := new(big.Int).Mul(caX, gY)
	cb.Mul(cb, rN)
	cb.Mod(cb, n2)

	rng := csrng.New()
	commitment, randomness, err := CommitWithRNG(rng, &priv.PublicKey, &pp.Params, q, ca, x, y)
	require.NoError(t, err)

	e, err := Challenge(&priv.PublicKey, &pp.Params, q, ca, cb, commitment)
	require.NoError(t, err)

	proof := Prove(&priv.PublicKey, x, y, r, randomness, e)
	assert.Nil(t, randomness.Alpha)

	code := Verify(&priv.PublicKey, &pp.Params, q, ca, cb, commitment, proof, e)
	assert.Equal(t, 0, int(code))
}

// TestOctetRoundTrip exercises spec.md §8's mandatory octet round-trip
// property for the ZK commitment and proof.
func TestOctetRoundTrip(t *testing.T) {
	priv, pp, q := setup(t)

	rA, err := rand.Int(rand.Reader, priv.Nval)
	require.NoError(t, err)
	ca, err := priv.EncryptWithRandomness(big.NewInt(7), rA)
	require.NoError(t, err)

	x := big.NewInt(2)
	y := big.NewInt(3)
	r, err := rand.Int(rand.Reader, priv.Nval)
	require.NoError(t, err)

	g := common.GeneratorG(priv.Nval)
	n2 := priv.N2val
	caX := new(big.Int).Exp(ca, x, n2)
	gY := new(big.Int).Exp(g, y, n2)
	rN := new(big.Int).Exp(r, priv.Nval, n2)
	cb := new(big.Int).Mul(caX, gY)
	cb.Mul(cb, rN)
	cb.Mod(cb, n2)

	rng := csrng.New()
	commitment, randomness, err := CommitWithRNG(rng, &priv.PublicKey, &pp.Params, q, ca, x, y)
	require.NoError(t, err)
	e, err := Challenge(&priv.PublicKey, &pp.Params, q, ca, cb, commitment)
	require.NoError(t, err)
	proof := Prove(&priv.PublicKey, x, y, r, randomness, e)

	cBytes, err := commitment.ToOctets()
	require.NoError(t, err)
	assert.Len(t, cBytes, CommitmentOctetLen)
	decodedC, err := CommitmentFromOctets(cBytes)
	require.NoError(t, err)
	assert.Equal(t, 0, commitment.Z.Cmp(decodedC.Z))
	assert.Equal(t, 0, commitment.Z1.Cmp(decodedC.Z1))
	assert.Equal(t, 0, commitment.T.Cmp(decodedC.T))
	assert.Equal(t, 0, commitment.V.Cmp(decodedC.V))
	assert.Equal(t, 0, commitment.W.Cmp(decodedC.W))

	_, err = CommitmentFromOctets(cBytes[:len(cBytes)-1])
	assert.Error(t, err)

	pBytes, err := proof.ToOctets()
	require.NoError(t, err)
	assert.Len(t, pBytes, ProofOctetLen)
	decodedP, err := ProofFromOctets(pBytes)
	require.NoError(t, err)
	assert.Equal(t, 0, proof.S.Cmp(decodedP.S))
	assert.Equal(t, 0, proof.S1.Cmp(decodedP.S1))
	assert.Equal(t, 0, proof.S2.Cmp(decodedP.S2))
	assert.Equal(t, 0, proof.T1.Cmp(decodedP.T1))
	assert.Equal(t, 0, proof.T2.Cmp(decodedP.T2))

	_, err = ProofFromOctets(append(pBytes, 0x00))
	assert.Error(t, err)
}

func TestTamperedProofFails(t *testing.T) {
	priv, pp, q := setup(t)

	rA, err := rand.Int(rand.Reader, priv.Nval)
	require.NoError(t, err)
	ca, err := priv.EncryptWithRandomness(big.NewInt(7), rA)
	require.NoError(t, err)

	x := big.NewInt(2)
	y := big.NewInt(3)
	r, err := rand.Int(rand.Reader, priv.Nval)
	require.NoError(t, err)

	g := common.GeneratorG(priv.Nval)
	n2 := priv.N2val
	caX := new(big.Int).Exp(ca, x, n2)
	gY := new(big.Int).Exp(g, y, n2)
	rN := new(big.Int).Exp(r, priv.Nval, n2)
	cb := new(big.Int).Mul(caX, gY)
	cb.Mul(cb, rN)
	cb.Mod(cb, n2)

	rng := csrng.New()
	commitment, randomness, err := CommitWithRNG(rng, &priv.PublicKey, &pp.Params, q, ca, x, y)
	require.NoError(t, err)

	e, err := Challenge(&priv.PublicKey, &pp.Params, q, ca, cb, commitment)
	require.NoError(t, err)

	proof := Prove(&priv.PublicKey, x, y, r, randomness, e)
	proof.T1 = new(big.Int).Add(proof.T1, big.NewInt(1))

	code := Verify(&priv.PublicKey, &pp.Params, q, ca, cb, commitment, proof, e)
	assert.Equal(t, 61, int(code))
}

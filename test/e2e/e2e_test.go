package e2e

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smallyunet/go-mta-zkp/internal/crypto/csrng"
	"github.com/smallyunet/go-mta-zkp/internal/crypto/curve"
	"github.com/smallyunet/go-mta-zkp/internal/crypto/octet"
	"github.com/smallyunet/go-mta-zkp/internal/crypto/paillier"
	"github.com/smallyunet/go-mta-zkp/internal/crypto/pedersen"
	"github.com/smallyunet/go-mta-zkp/pkg/mpc"
	"github.com/smallyunet/go-mta-zkp/pkg/mta"
	"github.com/smallyunet/go-mta-zkp/pkg/rangeproof"
	"github.com/smallyunet/go-mta-zkp/pkg/zkwc"
)

// testLogger builds a per-test zap development logger tagged with the
// test name.
func testLogger(t *testing.T) *zap.SugaredLogger {
	t.Helper()
	cfg := zap.NewDevelopmentConfig()
	logger, err := cfg.Build()
	require.NoError(t, err)
	return logger.With(zap.String("test", t.Name())).Sugar()
}

// TestFullMtARound exercises one complete MtA round end to end: range
// proof over the sender's ciphertext, receiver ZK-with-check proof over
// the reply, decryption, and the alpha+beta = a*b (mod q) closure
// property (spec.md §8).
func TestFullMtARound(t *testing.T) {
	log := testLogger(t)
	rng := csrng.New()
	c := curve.New()
	q := secp256k1.S256().N

	senderKey, err := paillier.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)
	receiverPP, err := pedersen.Generate(rand.Reader, 1024)
	require.NoError(t, err)

	a, err := rng.Int(q)
	require.NoError(t, err)
	b, err := rng.Int(q)
	require.NoError(t, err)

	ca, clientRand, err := mta.Client1WithRNG(rng, &senderKey.PublicKey, a)
	require.NoError(t, err)
	defer clientRand.Kill()

	rpCommitment, rpRandomness, err := rangeproof.CommitWithRNG(rng, &senderKey.PublicKey, &receiverPP.Params, q, a)
	require.NoError(t, err)
	rpChallenge, err := rangeproof.Challenge(&senderKey.PublicKey, &receiverPP.Params, q, ca, rpCommitment)
	require.NoError(t, err)
	rpProof := rangeproof.Prove(&senderKey.PublicKey, a, clientRand.R, rpRandomness, rpChallenge)

	rpVerdict := rangeproof.Verify(&senderKey.PublicKey, &receiverPP.Params, q, ca, rpCommitment, rpProof, rpChallenge)
	require.Equal(t, mpc.OK, rpVerdict)

	cb, beta, serverRand, err := mta.ServerWithRNG(rng, &senderKey.PublicKey, q, b, ca)
	require.NoError(t, err)
	defer serverRand.Kill()

	x := c.ScalarMul(c.BasePoint(), b)
	zkwcCommitment, zkwcRandomness, err := zkwc.CommitWithRNG(rng, &senderKey.PublicKey, &receiverPP.Params, c, q, ca, b, serverRand.Z)
	require.NoError(t, err)
	zkwcChallenge, err := zkwc.Challenge(&senderKey.PublicKey, &receiverPP.Params, c, q, ca, cb, zkwcCommitment)
	require.NoError(t, err)
	zkwcProof := zkwc.Prove(&senderKey.PublicKey, b, serverRand.Z, serverRand.RPrime, zkwcRandomness, zkwcChallenge)

	zkwcVerdict := zkwc.Verify(&senderKey.PublicKey, &receiverPP.Params, c, q, ca, cb, x, zkwcCommitment, zkwcProof, zkwcChallenge)
	require.Equal(t, mpc.OK, zkwcVerdict)

	alpha, err := mta.Client2(senderKey, q, cb)
	require.NoError(t, err)

	closure := new(big.Int).Add(alpha, beta)
	closure.Mod(closure, q)

	product := new(big.Int).Mul(a, b)
	product.Mod(product, q)

	log.Infow("mta round closed", "alpha", alpha.String(), "beta", beta.String())
	assert.Equal(t, 0, closure.Cmp(product))
}

// TestMaliciousSenderLargePlaintextFailsRangeProof exercises the
// adversarial path: a sender that tries to smuggle a plaintext far
// outside the declared range is caught by the range proof rather than
// silently corrupting the receiver's share.
func TestMaliciousSenderLargePlaintextFailsRangeProof(t *testing.T) {
	rng := csrng.New()
	q := secp256k1.S256().N

	senderKey, err := paillier.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)
	receiverPP, err := pedersen.Generate(rand.Reader, 1024)
	require.NoError(t, err)

	hugePlaintext := new(big.Int).Lsh(big.NewInt(1), 1000) // far above q^3, still below N

	ca, clientRand, err := mta.Client1WithRNG(rng, &senderKey.PublicKey, hugePlaintext)
	require.NoError(t, err)
	defer clientRand.Kill()

	rpCommitment, rpRandomness, err := rangeproof.CommitWithRNG(rng, &senderKey.PublicKey, &receiverPP.Params, q, hugePlaintext)
	require.NoError(t, err)
	rpChallenge, err := rangeproof.Challenge(&senderKey.PublicKey, &receiverPP.Params, q, ca, rpCommitment)
	require.NoError(t, err)
	rpProof := rangeproof.Prove(&senderKey.PublicKey, hugePlaintext, clientRand.R, rpRandomness, rpChallenge)

	verdict := rangeproof.Verify(&senderKey.PublicKey, &receiverPP.Params, q, ca, rpCommitment, rpProof, rpChallenge)
	assert.Equal(t, mpc.Fail, verdict)
}

// TestOctetRoundTripInvariant exercises spec.md §8's octet round-trip
// requirement on a Paillier ciphertext: encode it at FS4096, decode and
// compare, and check that a truncated encoding is rejected.
func TestOctetRoundTripInvariant(t *testing.T) {
	senderKey, err := paillier.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	m := big.NewInt(424242)
	r, err := rand.Int(rand.Reader, senderKey.Nval)
	require.NoError(t, err)
	ct, err := senderKey.EncryptWithRandomness(m, r)
	require.NoError(t, err)

	encoded, err := octet.ToFixed(ct, octet.FS4096)
	require.NoError(t, err)
	assert.Len(t, encoded, octet.FS4096)

	decoded, err := octet.FromFixed(encoded, octet.FS4096)
	require.NoError(t, err)
	assert.Equal(t, 0, ct.Cmp(decoded))

	_, err = octet.FromFixed(encoded[1:], octet.FS4096)
	assert.Error(t, err)
}

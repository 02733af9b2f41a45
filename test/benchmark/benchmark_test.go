package benchmark

import (
	"crypto/rand"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/smallyunet/go-mta-zkp/internal/crypto/csrng"
	"github.com/smallyunet/go-mta-zkp/internal/crypto/curve"
	"github.com/smallyunet/go-mta-zkp/internal/crypto/paillier"
	"github.com/smallyunet/go-mta-zkp/internal/crypto/pedersen"
	"github.com/smallyunet/go-mta-zkp/pkg/mta"
	"github.com/smallyunet/go-mta-zkp/pkg/rangeproof"
	"github.com/smallyunet/go-mta-zkp/pkg/zkwc"
)

func setupBench(b *testing.B) (*paillier.PrivateKey, *pedersen.PrivateParams) {
	b.Helper()
	senderKey, err := paillier.GenerateKey(rand.Reader, 1024)
	if err != nil {
		b.Fatal(err)
	}
	receiverPP, err := pedersen.Generate(rand.Reader, 1024)
	if err != nil {
		b.Fatal(err)
	}
	return senderKey, receiverPP
}

// BenchmarkMtAClient1 benchmarks the sender's ciphertext computation.
func BenchmarkMtAClient1(b *testing.B) {
	senderKey, _ := setupBench(b)
	rng := csrng.New()
	q := secp256k1.S256().N
	a, err := rng.Int(q)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, clientRand, err := mta.Client1WithRNG(rng, &senderKey.PublicKey, a)
		if err != nil {
			b.Fatal(err)
		}
		clientRand.Kill()
	}
}

// BenchmarkRangeProofProveVerify benchmarks a full RP commit/prove/verify round.
func BenchmarkRangeProofProveVerify(b *testing.B) {
	senderKey, receiverPP := setupBench(b)
	rng := csrng.New()
	q := secp256k1.S256().N
	a, err := rng.Int(q)
	if err != nil {
		b.Fatal(err)
	}
	ca, clientRand, err := mta.Client1WithRNG(rng, &senderKey.PublicKey, a)
	if err != nil {
		b.Fatal(err)
	}
	defer clientRand.Kill()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		commitment, randomness, err := rangeproof.CommitWithRNG(rng, &senderKey.PublicKey, &receiverPP.Params, q, a)
		if err != nil {
			b.Fatal(err)
		}
		e, err := rangeproof.Challenge(&senderKey.PublicKey, &receiverPP.Params, q, ca, commitment)
		if err != nil {
			b.Fatal(err)
		}
		proof := rangeproof.Prove(&senderKey.PublicKey, a, clientRand.R, randomness, e)
		if code := rangeproof.Verify(&senderKey.PublicKey, &receiverPP.Params, q, ca, commitment, proof, e); code != 0 {
			b.Fatal("range proof did not verify")
		}
	}
}

// BenchmarkZKWCProveVerify benchmarks a full ZKWC commit/prove/verify round.
func BenchmarkZKWCProveVerify(b *testing.B) {
	senderKey, receiverPP := setupBench(b)
	rng := csrng.New()
	c := curve.New()
	q := secp256k1.S256().N

	a, err := rng.Int(q)
	if err != nil {
		b.Fatal(err)
	}
	bShare, err := rng.Int(q)
	if err != nil {
		b.Fatal(err)
	}

	ca, clientRand, err := mta.Client1WithRNG(rng, &senderKey.PublicKey, a)
	if err != nil {
		b.Fatal(err)
	}
	defer clientRand.Kill()

	cb, _, serverRand, err := mta.ServerWithRNG(rng, &senderKey.PublicKey, q, bShare, ca)
	if err != nil {
		b.Fatal(err)
	}
	defer serverRand.Kill()

	x := c.ScalarMul(c.BasePoint(), bShare)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		commitment, randomness, err := zkwc.CommitWithRNG(rng, &senderKey.PublicKey, &receiverPP.Params, c, q, ca, bShare, serverRand.Z)
		if err != nil {
			b.Fatal(err)
		}
		e, err := zkwc.Challenge(&senderKey.PublicKey, &receiverPP.Params, c, q, ca, cb, commitment)
		if err != nil {
			b.Fatal(err)
		}
		proof := zkwc.Prove(&senderKey.PublicKey, bShare, serverRand.Z, serverRand.RPrime, randomness, e)
		if code := zkwc.Verify(&senderKey.PublicKey, &receiverPP.Params, c, q, ca, cb, x, commitment, proof, e); code != 0 {
			b.Fatal("zkwc proof did not verify")
		}
	}
}

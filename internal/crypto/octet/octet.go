// Package octet implements fixed-width, big-endian marshalling of the
// multi-precision integers used throughout the MtA and range-proof
// components (spec component A). Ingest is length-strict; egress is
// always zero-padded on the left to the declared width.
package octet

import (
	"math/big"

	"github.com/pkg/errors"
)

// Canonical fixed widths, in bytes, for the element classes named in
// spec.md §4.A / §6.
const (
	// FS2048 is the width of elements modulo N or Ntilde (~2048-bit moduli).
	FS2048 = 256
	// FS4096 is the width of elements modulo N^2 (~4096-bit ring).
	FS4096 = 512
	// HFS2048 is the width of a half-size witness component.
	HFS2048 = 128
	// WideWitness is the width of the s2/t2 proof components: FS2048 + HFS2048
	// bytes (spec.md §6: "s2, t2 | 384 (FS_2048 + HFS_2048)").
	WideWitness = FS2048 + HFS2048
	// Scalar is the width of curve scalars and the Fiat-Shamir challenge.
	Scalar = 32
	// CompressedPoint is the width of a compressed secp256k1 point.
	CompressedPoint = 33
)

// ToFixed serializes x as a big-endian byte string of exactly width
// bytes, zero-padded on the left. It returns an error if x does not fit
// (x must be non-negative and less than 256^width).
func ToFixed(x *big.Int, width int) ([]byte, error) {
	if x == nil {
		return nil, errors.New("octet: nil value")
	}
	if x.Sign() < 0 {
		return nil, errors.New("octet: negative value cannot be serialized")
	}
	raw := x.Bytes()
	if len(raw) > width {
		return nil, errors.Errorf("octet: value needs %d bytes, exceeds fixed width %d", len(raw), width)
	}
	out := make([]byte, width)
	copy(out[width-len(raw):], raw)
	return out, nil
}

// FromFixed parses a big-endian byte string of exactly the declared
// width into an integer. Ingest is length-strict: any other length is
// an error, per the fixed-width invariant in spec.md §3.
func FromFixed(b []byte, width int) (*big.Int, error) {
	if len(b) != width {
		return nil, errors.Errorf("octet: expected %d bytes, got %d", width, len(b))
	}
	return new(big.Int).SetBytes(b), nil
}

// TruncateAndAdd implements the source library's OCT_truncate: given
// byte strings x and y of possibly different lengths, it returns
// x' = (top len(x) bytes of y) + x, i.e. the leading len(x) bytes of y
// prepended to x. It is a pure byte-folding primitive with no semantic
// meaning of its own; historically used to fold an ECDSA ephemeral-key
// inversion output into a fixed width, a use this module does not
// implement (ECDSA signing plumbing is out of scope).
func TruncateAndAdd(x, y []byte) []byte {
	n := len(x)
	prefix := make([]byte, n)
	if len(y) >= n {
		copy(prefix, y[:n])
	} else {
		copy(prefix[n-len(y):], y)
	}
	out := make([]byte, 0, n+len(x))
	out = append(out, prefix...)
	out = append(out, x...)
	return out
}

// Package curve is the secp256k1 backend satisfying pkg/mpc.Curve. Only
// the receiver ZK proof with check (component E) needs elliptic-curve
// arithmetic; everything else in this module works purely over Z_N,
// Z_N2 and Z_Ntilde.
package curve

import (
	"math/big"

	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/smallyunet/go-mta-zkp/pkg/mpc"
)

// Point wraps a secp256k1 Jacobian point.
type Point struct {
	jac secp256k1.JacobianPoint
}

// IsIdentity reports whether this is the point at infinity. Parsed or
// computed points are normalized to affine form, where infinity is
// conventionally represented as (0, 0) since no valid curve point has
// X = Y = 0.
func (p *Point) IsIdentity() bool {
	var affine secp256k1.JacobianPoint
	affine.Set(&p.jac)
	affine.ToAffine()
	return affine.X.IsZero() && affine.Y.IsZero()
}

// Secp256k1 implements pkg/mpc.Curve over the secp256k1 group.
type Secp256k1 struct{}

// New returns a Secp256k1 curve backend.
func New() *Secp256k1 { return &Secp256k1{} }

// Order returns q, the order of the secp256k1 base point.
func (c *Secp256k1) Order() *big.Int {
	return secp256k1.S256().N
}

// BasePoint returns the curve generator G.
func (c *Secp256k1) BasePoint() mpc.Point {
	one := scalarFromBigInt(big.NewInt(1), c.Order())
	var g secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(one, &g)
	return &Point{jac: g}
}

// ScalarMul computes k*P.
func (c *Secp256k1) ScalarMul(p mpc.Point, k *big.Int) mpc.Point {
	pt := p.(*Point)
	s := scalarFromBigInt(k, c.Order())
	var res secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(s, &pt.jac, &res)
	return &Point{jac: res}
}

// Add returns p+q.
func (c *Secp256k1) Add(p, q mpc.Point) mpc.Point {
	pp := p.(*Point)
	qq := q.(*Point)
	var res secp256k1.JacobianPoint
	secp256k1.AddNonConst(&pp.jac, &qq.jac, &res)
	return &Point{jac: res}
}

// Sub returns p-q, computed as p + (q_order-1)*q to avoid relying on
// direct field negation of the Jacobian Y coordinate.
func (c *Secp256k1) Sub(p, q mpc.Point) mpc.Point {
	negOne := new(big.Int).Sub(c.Order(), big.NewInt(1))
	negQ := c.ScalarMul(q, negOne)
	return c.Add(p, negQ)
}

// Equal reports whether p and q are the same point.
func (c *Secp256k1) Equal(p, q mpc.Point) bool {
	pp := p.(*Point)
	qq := q.(*Point)

	var pa, qa secp256k1.JacobianPoint
	pa.Set(&pp.jac)
	qa.Set(&qq.jac)
	pa.ToAffine()
	qa.ToAffine()

	return pa.X.Equals(&qa.X) && pa.Y.Equals(&qa.Y)
}

// ToBytesCompressed serializes a non-identity point to 33 bytes.
func (c *Secp256k1) ToBytesCompressed(p mpc.Point) ([]byte, error) {
	pt := p.(*Point)
	if pt.IsIdentity() {
		return nil, mpc.ErrInvalidECP
	}

	var affine secp256k1.JacobianPoint
	affine.Set(&pt.jac)
	affine.ToAffine()

	pub := secp256k1.NewPublicKey(&affine.X, &affine.Y)
	return pub.SerializeCompressed(), nil
}

// FromBytes parses a 33-byte compressed point, verifying it is on the
// curve and not the identity (spec.md §3 invariant 4).
func (c *Secp256k1) FromBytes(b []byte) (mpc.Point, error) {
	if len(b) != 33 {
		return nil, mpc.ErrInvalidECP
	}

	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, mpc.ErrInvalidECP
	}

	var jac secp256k1.JacobianPoint
	pub.AsJacobian(&jac)

	pt := &Point{jac: jac}
	if pt.IsIdentity() {
		return nil, mpc.ErrInvalidECP
	}
	return pt, nil
}

// scalarFromBigInt reduces k mod order and encodes it as a ModNScalar.
func scalarFromBigInt(k *big.Int, order *big.Int) *secp256k1.ModNScalar {
	reduced := new(big.Int).Mod(k, order)
	buf := make([]byte, 32)
	b := reduced.Bytes()
	copy(buf[32-len(b):], b)

	s := new(secp256k1.ModNScalar)
	s.SetByteSlice(buf)
	return s
}

package common

import (
	"math/big"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Validator accumulates independent ingest checks (fixed-width length,
// range, coprimality) so a decode path can run every check and report
// the full set, rather than stopping at the first failure. The public
// Verify APIs built on top of this still collapse everything to a
// single mpc.Code; the aggregated detail is for internal diagnostics
// and tests only.
type Validator struct {
	err *multierror.Error
}

// Check appends err to the accumulated errors if it is non-nil.
func (v *Validator) Check(err error) {
	if err != nil {
		v.err = multierror.Append(v.err, err)
	}
}

// Checkf is a convenience wrapper that builds an error from a condition.
func (v *Validator) Checkf(ok bool, format string, args ...interface{}) {
	if !ok {
		v.err = multierror.Append(v.err, errors.Errorf(format, args...))
	}
}

// Err returns the aggregated error, or nil if every check passed.
func (v *Validator) Err() error {
	return v.err.ErrorOrNil()
}

// RequireLen returns an error if b does not have exactly n bytes. Used
// by every fixed-width octet ingest path (spec invariant: serialized
// elements are fixed-width and length-strict on ingest).
func RequireLen(field string, b []byte, n int) error {
	if len(b) != n {
		return errors.Errorf("%s: expected %d bytes, got %d", field, n, len(b))
	}
	return nil
}

// RequireCoprime returns an error unless gcd(x, m) == 1, i.e. x is a
// unit mod m. Used to enforce the Z*_M membership invariant on every
// ingested ring element.
func RequireCoprime(field string, x, m *big.Int) error {
	if x.Sign() <= 0 || x.Cmp(m) >= 0 {
		return errors.Errorf("%s: out of range [1, modulus)", field)
	}
	g := new(big.Int).GCD(nil, nil, x, m)
	if g.Cmp(big.NewInt(1)) != 0 {
		return errors.Errorf("%s: not coprime to modulus", field)
	}
	return nil
}

package mpc

import "github.com/pkg/errors"

// Code is the three-valued result a verifier emits. Callers branch only
// on this value; it is the only thing that crosses the trust boundary.
// Internal detail about which equation failed is never part of Code.
type Code int

const (
	// OK means the proof or ciphertext verified successfully.
	OK Code = 0
	// Fail means a verification equation failed, a size bound was
	// exceeded, or a commitment/proof field failed a membership check.
	Fail Code = 61
	// InvalidECP means a compressed elliptic-curve point failed to
	// decompress or was off-curve or the identity.
	InvalidECP Code = 62
)

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case Fail:
		return "FAIL"
	case InvalidECP:
		return "INVALID_ECP"
	default:
		return "UNKNOWN"
	}
}

// ErrInvalidECP is returned by Curve.FromBytes when a compressed point
// fails to decompress, is off-curve, or is the identity element.
var ErrInvalidECP = errors.New("mpc: invalid elliptic curve point")

// Blame records which internal validation step produced a Fail/InvalidECP
// verdict. It is deliberately never returned to a Verify caller (that API
// returns only Code) - it exists so library-internal diagnostics and logs
// can say what happened without the verifier's public surface leaking it.
type Blame struct {
	Step   string
	Reason string
	Err    error
}

func (b *Blame) Error() string {
	if b.Err != nil {
		return errors.Wrapf(b.Err, "mpc: %s: %s", b.Step, b.Reason).Error()
	}
	return "mpc: " + b.Step + ": " + b.Reason
}

func (b *Blame) Unwrap() error {
	return b.Err
}

// NewBlame constructs an internal-only validation failure record.
func NewBlame(step, reason string, err error) *Blame {
	return &Blame{Step: step, Reason: reason, Err: err}
}

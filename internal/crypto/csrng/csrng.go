// Package csrng is the concrete cryptographically secure RNG capability
// satisfying pkg/mpc.RNG. It is a thin wrapper over crypto/rand, the
// "RNG as a standalone product" spec.md §1 excludes from the core's
// scope but which a linkable module still needs one instance of.
package csrng

import (
	"crypto/rand"
	"math/big"

	"github.com/smallyunet/go-mta-zkp/pkg/mpc"
)

// Reader implements pkg/mpc.RNG over crypto/rand.Reader.
type Reader struct{}

// New returns the default secure RNG backend.
func New() *Reader { return &Reader{} }

// Int returns a uniform integer in [0, bound).
func (r *Reader) Int(bound *big.Int) (*big.Int, error) {
	return rand.Int(rand.Reader, bound)
}

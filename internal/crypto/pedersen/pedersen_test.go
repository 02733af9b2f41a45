package pedersen

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSatisfiesDlogRelation(t *testing.T) {
	pp, err := Generate(rand.Reader, 1024)
	require.NoError(t, err)

	h1 := new(big.Int).Exp(pp.H2Val, pp.Alpha0, pp.Ntilde)
	assert.Equal(t, 0, h1.Cmp(pp.H1Val))

	assert.NoError(t, pp.Validate())
}

func TestCommitIsDeterministicInInputs(t *testing.T) {
	pp, err := Generate(rand.Reader, 1024)
	require.NoError(t, err)

	x := big.NewInt(42)
	y := big.NewInt(7)

	c1 := pp.Commit(x, y)
	c2 := pp.Commit(x, y)
	assert.Equal(t, 0, c1.Cmp(c2))

	c3 := pp.Commit(big.NewInt(43), y)
	assert.NotEqual(t, 0, c1.Cmp(c3))
}

func TestValidateRejectsNonUnitGenerators(t *testing.T) {
	pp, err := Generate(rand.Reader, 1024)
	require.NoError(t, err)

	bad := Params{Ntilde: pp.Ntilde, H1Val: big.NewInt(0), H2Val: pp.H2Val}
	assert.Error(t, bad.Validate())
}

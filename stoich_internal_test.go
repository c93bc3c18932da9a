package crn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gocrn/expr"
)

func TestDividingSpecies(t *testing.T) {
	cases := []struct {
		in      string
		species []string
		want    []string
	}{
		{"A^2*E*k", []string{"E", "A", "B"}, []string{"E", "A"}},
		{"A", []string{"A"}, []string{"A"}},
		{"A^3", []string{"A"}, []string{"A"}},
		{"k/A", []string{"A"}, nil},
		{"(A + K)*E", []string{"A", "E"}, []string{"E"}},
		{"k", []string{"A"}, nil},
	}
	for _, tc := range cases {
		got := dividingSpecies(expr.MustParse(tc.in), tc.species)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestPassBudgetExceeded(t *testing.T) {
	saved := passBudget
	passBudget = func(expr.Expr) (int, error) { return 0, nil }
	t.Cleanup(func() { passBudget = saved })

	r, err := ParseReaction("r", "A", "B", "k*A^3")
	require.NoError(t, err)
	err = r.InferMassActionStoichiometry("A")
	assert.ErrorIs(t, err, ErrNonTerminatingDecomposition)

	r, err = ParseReaction("c", "A + 2E", "B + 2E", "k*A/(A + K)")
	require.NoError(t, err)
	err = r.CancelDenominatorStoichiometry("E")
	assert.ErrorIs(t, err, ErrNonTerminatingDecomposition)
}

func TestDecrement_Underflow(t *testing.T) {
	r, err := ParseReaction("r", "A + E", "B", "k*A*E")
	require.NoError(t, err)

	err = r.decrement("E", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStoichiometryUnderflow))

	var se *StoichiometryError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "r", se.ReactionID)
	assert.Equal(t, "E", se.Species)
	assert.Equal(t, SideProduct, se.Side)
	assert.Equal(t, 0, se.Have)

	assert.Equal(t, "A + E", r.reactant.String(), "failed decrement must not mutate")
}

func TestRederive_KeepsInvariant(t *testing.T) {
	r, err := ParseReaction("r", "A", "B", "k*A^2")
	require.NoError(t, err)
	r.reactant.Increment("A", 1)
	r.rederive()
	assert.Equal(t, "k", r.kinetic.String())
}

package crn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	crn "github.com/njchilds90/gocrn"
)

func TestParseComplex(t *testing.T) {
	cases := []struct {
		in   string
		want crn.Complex
	}{
		{"2A + B", crn.Complex{"A": 2, "B": 1}},
		{"A + A", crn.Complex{"A": 2}},
		{"3 * E_1", crn.Complex{"E_1": 3}},
		{"2 S", crn.Complex{"S": 2}},
		{"", crn.Complex{}},
		{"0", crn.Complex{}},
	}
	for _, tc := range cases {
		c, err := crn.ParseComplex(tc.in)
		require.NoError(t, err, tc.in)
		assert.True(t, c.Equal(tc.want), "%q: got %v", tc.in, c)
	}
}

func TestParseComplex_Errors(t *testing.T) {
	for _, in := range []string{"A +", "2", "A-B", "1A1 + !"} {
		_, err := crn.ParseComplex(in)
		assert.ErrorIs(t, err, crn.ErrInvalidComplex, in)
	}
}

func TestComplex_String(t *testing.T) {
	assert.Equal(t, "2A + B", crn.Complex{"B": 1, "A": 2}.String())
	assert.Equal(t, "", crn.Complex{}.String())
	assert.Equal(t, "A", crn.Complex{"A": 1, "Z": 0}.String())
}

func TestComplex_Arithmetic(t *testing.T) {
	a := crn.Complex{"A": 2, "B": 1}
	b := crn.Complex{"A": 1, "C": 3}

	assert.True(t, a.Add(b).Equal(crn.Complex{"A": 3, "B": 1, "C": 3}))
	assert.True(t, a.Sub(b).Equal(crn.Complex{"A": 1, "B": 1}))
	assert.True(t, b.Sub(a).Equal(crn.Complex{"C": 3}))
	assert.True(t, a.Intersect(b).Equal(crn.Complex{"A": 1}))
	assert.Equal(t, 2, a.Get("A"))
	assert.True(t, a.Has("B"))
	assert.False(t, a.Has("C"))

	// operands untouched
	assert.True(t, a.Equal(crn.Complex{"A": 2, "B": 1}))
}

func TestComplex_IncrementDecrement(t *testing.T) {
	c := crn.Complex{"A": 1}
	c.Increment("A", 2)
	c.Increment("B", 1)
	assert.Equal(t, "3A + B", c.String())

	require.NoError(t, c.Decrement("B", 1))
	assert.False(t, c.Has("B"))
	_, present := c["B"]
	assert.False(t, present)

	err := c.Decrement("A", 4)
	assert.ErrorIs(t, err, crn.ErrStoichiometryUnderflow)
	assert.Equal(t, 3, c.Get("A"))
}

func TestComplex_MA(t *testing.T) {
	assert.Equal(t, "A^2*B", crn.Complex{"A": 2, "B": 1}.MA().String())
	assert.Equal(t, "1", crn.Complex{}.MA().String())
}

func TestComplex_ExprAndSpecies(t *testing.T) {
	c := crn.Complex{"B": 1, "A": 2}
	assert.Equal(t, "2*A + B", c.Expr().String())
	assert.Equal(t, []string{"A", "B"}, c.Species())

	d := c.Clone()
	d["A"] = 7
	assert.Equal(t, 2, c["A"])
}

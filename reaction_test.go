package crn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	crn "github.com/njchilds90/gocrn"
	"github.com/njchilds90/gocrn/expr"
)

func mustReaction(t *testing.T, id, reactant, product, rate string) *crn.Reaction {
	t.Helper()
	r, err := crn.ParseReaction(id, reactant, product, rate)
	require.NoError(t, err)
	return r
}

func mustComplex(t *testing.T, s string) crn.Complex {
	t.Helper()
	c, err := crn.ParseComplex(s)
	require.NoError(t, err)
	return c
}

// assertConsistent checks cancel(k*ma(reactant) - rate) == 0.
func assertConsistent(t *testing.T, r *crn.Reaction) {
	t.Helper()
	require.True(t, r.HasRate())
	d, err := expr.Cancel(expr.SubOf(expr.MulOf(r.KineticParam(), r.Reactant().MA()), r.Rate()))
	require.NoError(t, err)
	assert.True(t, expr.IsZero(d), "%s: k*ma - rate = %s", r.ID(), d)
}

func assertSameRate(t *testing.T, want string, got expr.Expr) {
	t.Helper()
	d, err := expr.Cancel(expr.SubOf(expr.MustParse(want), got))
	require.NoError(t, err)
	assert.True(t, expr.IsZero(d), "want %s, got %s", want, got)
}

// ============================================================
// Construction
// ============================================================

func TestNewReaction_KineticParam(t *testing.T) {
	r := mustReaction(t, "r1", "A", "B", "k*A")
	assert.Equal(t, "k", r.KineticParam().String())
	assert.Equal(t, "r1: A ->(k) B", r.Format(false, 3))
	assert.Equal(t, "r1: A ->(k) B", r.String())
	assertConsistent(t, r)
}

func TestNewReaction_RationalRate(t *testing.T) {
	r := mustReaction(t, "r1", "A + E", "B + E", "k*A*E/(K + A)")
	assert.Equal(t, "k/(A + K)", r.KineticParam().String())
	assert.Equal(t, "r1: A + E ->(k/(A + K)) B + E", r.String())
	assertConsistent(t, r)
}

func TestNewReactionFromKineticParam(t *testing.T) {
	reactant := crn.Complex{"A": 2}
	r, err := crn.NewReactionFromKineticParam("r", reactant, crn.Complex{"B": 1}, expr.MustParse("k/(1 + B)"))
	require.NoError(t, err)
	assertSameRate(t, "k*A^2/(1 + B)", r.Rate())
	assert.Equal(t, "k/(B + 1)", r.KineticParam().String())
	assertConsistent(t, r)

	q, err := crn.NewReaction("r", reactant, crn.Complex{"B": 1}, r.Rate())
	require.NoError(t, err)
	assert.True(t, q.Equal(r))
}

func TestNewReaction_InvalidRate(t *testing.T) {
	_, err := crn.NewReaction("r", crn.Complex{"A": 1}, crn.Complex{}, expr.PowOf(expr.S("A"), expr.S("n")))
	assert.ErrorIs(t, err, crn.ErrInvalidRate)
	assert.ErrorIs(t, err, expr.ErrNotRational)

	_, err = crn.ParseReaction("r", "A", "B", "k*(A")
	assert.ErrorIs(t, err, crn.ErrInvalidRate)
	assert.ErrorIs(t, err, expr.ErrParse)

	_, err = crn.ParseReaction("r", "2", "B", "k")
	assert.ErrorIs(t, err, crn.ErrInvalidComplex)
}

func TestNewReaction_RateLess(t *testing.T) {
	r := mustReaction(t, "r0", "A", "B", "")
	assert.False(t, r.HasRate())
	assert.Nil(t, r.KineticParam())
	assert.Equal(t, "r0: A -> B", r.String())
	_, ok := r.FormatKinetics(true, 3)
	assert.False(t, ok)
	assert.Equal(t, `r0: A \rightarrow B`, r.LaTeX(false))
}

func TestReaction_AccessorsReturnCopies(t *testing.T) {
	r := mustReaction(t, "r1", "A", "B", "k*A")
	c := r.Reactant()
	c["A"] = 5
	p := r.Product()
	p["Z"] = 1
	assert.Equal(t, 1, r.Reactant()["A"])
	assert.False(t, r.Product().Has("Z"))
}

// ============================================================
// Rendering
// ============================================================

func TestFormat_ShowRate(t *testing.T) {
	r := mustReaction(t, "r2", "2A", "B", "k*A^2")
	assert.Equal(t, "r2: 2A ->(A^2*k) B", r.Format(true, 3))
	assert.Equal(t, "r2: 2A ->(k) B", r.Format(false, 3))
}

func TestFormatKinetics_Float(t *testing.T) {
	r := mustReaction(t, "r", "A", "B", "0.5*A")
	k, ok := r.FormatKinetics(false, 3)
	require.True(t, ok)
	assert.Equal(t, "5.000e-01", k)

	k, ok = r.FormatKinetics(true, 2)
	require.True(t, ok)
	assert.Equal(t, "5.00e-01*A", k)
	assert.Equal(t, "r: A ->(5.000e-01) B", r.String())
}

func TestFormatKinetics_MichaelisMentenDecimals(t *testing.T) {
	r := mustReaction(t, "mm", "E + S", "E + P", "1.5*S*E/(0.3 + S)")
	k, ok := r.FormatKinetics(false, 3)
	require.True(t, ok)
	assert.Equal(t, "1.5/(S + 0.3)", k)
	assert.Equal(t, "mm: E + S ->(1.5/(S + 0.3)) E + P", r.String())
	assertConsistent(t, r)
}

func TestLaTeX(t *testing.T) {
	r := mustReaction(t, "r_1", "A", "B", "k*A")
	assert.Equal(t, `r_{1}: A \xrightarrow{k} B`, r.LaTeX(false))
	assert.Equal(t, `r_{1}: A \xrightarrow{A k} B`, r.LaTeX(true))
}

// ============================================================
// Equality and copies
// ============================================================

func TestEqual_IgnoresSyntacticForm(t *testing.T) {
	a := mustReaction(t, "a", "A", "B", "(k1 + k2)*A")
	b := mustReaction(t, "b", "A", "B", "k1*A + A*k2")
	assert.True(t, a.Equal(b))

	c := mustReaction(t, "c", "A", "2B", "(k1 + k2)*A")
	assert.False(t, a.Equal(c))

	d := mustReaction(t, "d", "A", "B", "k1*A")
	assert.False(t, a.Equal(d))

	none := mustReaction(t, "e", "A", "B", "")
	assert.False(t, a.Equal(none))
	assert.True(t, none.Equal(mustReaction(t, "f", "A", "B", "")))
}

func TestWithRate(t *testing.T) {
	r := mustReaction(t, "r", "A", "B", "k*A")
	q, err := r.WithRate(expr.MustParse("k*A^2"))
	require.NoError(t, err)
	assert.Equal(t, "A*k", q.KineticParam().String())
	assert.Equal(t, "k", r.KineticParam().String())
}

func TestWithKineticParam(t *testing.T) {
	r := mustReaction(t, "r", "A", "B", "k*A")
	q, err := r.WithKineticParam(expr.S("j"))
	require.NoError(t, err)
	assert.Equal(t, "A*j", q.Rate().String())
}

func TestWithReactant_RederivesKineticParam(t *testing.T) {
	r := mustReaction(t, "r", "A", "B", "k*A^2")
	q := r.WithReactant(crn.Complex{"A": 2})
	assert.Equal(t, "k", q.KineticParam().String())
	assertConsistent(t, q)
	assert.Equal(t, "A*k", r.KineticParam().String())

	p := r.WithProduct(crn.Complex{"C": 1}).WithID("p")
	assert.Equal(t, "p: A ->(A*k) C", p.String())
}

// ============================================================
// Common stoichiometry
// ============================================================

func TestRemoveReactProd_All(t *testing.T) {
	r := mustReaction(t, "r", "A + 2E", "B + E", "k*A*E^2")
	require.NoError(t, r.RemoveReactProd())
	assert.True(t, r.Reactant().Equal(crn.Complex{"A": 1, "E": 1}))
	assert.True(t, r.Product().Equal(crn.Complex{"B": 1}))
	assert.Equal(t, "E*k", r.KineticParam().String())
	assertConsistent(t, r)
}

func TestRemoveReactProd_Idempotent(t *testing.T) {
	r := mustReaction(t, "r", "A + E", "B + E", "k*A*E")
	require.NoError(t, r.RemoveReactProd())
	reactant, product := r.Reactant(), r.Product()
	require.NoError(t, r.RemoveReactProd())
	assert.True(t, r.Reactant().Equal(reactant))
	assert.True(t, r.Product().Equal(product))
	assertConsistent(t, r)
}

func TestRemoveReactProd_Species(t *testing.T) {
	r := mustReaction(t, "r", "A + E + F", "B + 2E + F", "k*A*E*F")
	require.NoError(t, r.RemoveReactProd("E"))
	assert.Equal(t, "A + F", r.Reactant().String())
	assert.Equal(t, "B + E + F", r.Product().String())
	assert.Equal(t, "E*k", r.KineticParam().String())

	require.NoError(t, r.RemoveReactProd("F", "Z"))
	assert.Equal(t, "A", r.Reactant().String())
	assert.Equal(t, "B + E", r.Product().String())
	assertConsistent(t, r)
}

func TestRemoveReactProd_RateLess(t *testing.T) {
	r := mustReaction(t, "r", "A + E", "B + E", "")
	require.NoError(t, r.RemoveReactProd())
	assert.Equal(t, "r: A -> B", r.String())
}

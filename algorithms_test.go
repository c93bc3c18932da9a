package crn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	crn "github.com/njchilds90/gocrn"
	"github.com/njchilds90/gocrn/expr"
)

// ============================================================
// Stoichiometry inference
// ============================================================

func TestInferMassActionStoichiometry(t *testing.T) {
	r := mustReaction(t, "r2", "A", "B", "k*A^2")
	require.NoError(t, r.InferMassActionStoichiometry("A"))
	assert.True(t, r.Reactant().Equal(crn.Complex{"A": 2}))
	assert.True(t, r.Product().Equal(crn.Complex{"A": 1, "B": 1}))
	assert.Equal(t, "k", r.KineticParam().String())
	assertConsistent(t, r)
}

func TestInferMassActionStoichiometry_Idempotent(t *testing.T) {
	r := mustReaction(t, "r", "A", "B", "k*A^3*E/(K + A)")
	require.NoError(t, r.InferMassActionStoichiometry("A", "E"))
	assert.Equal(t, "3A + E", r.Reactant().String())
	assert.Equal(t, "2A + B + E", r.Product().String())
	assert.Equal(t, "k/(A + K)", r.KineticParam().String())

	require.NoError(t, r.InferMassActionStoichiometry("A", "E"))
	assert.Equal(t, "3A + E", r.Reactant().String())
	assertConsistent(t, r)
}

func TestInferMassActionStoichiometry_OnlyListedSpecies(t *testing.T) {
	r := mustReaction(t, "r", "A", "B", "k*A*E")
	require.NoError(t, r.InferMassActionStoichiometry("A"))
	assert.Equal(t, "A", r.Reactant().String())

	require.NoError(t, r.InferMassActionStoichiometry())
	assert.Equal(t, "A", r.Reactant().String())

	require.NoError(t, r.InferMassActionStoichiometry("E"))
	assert.Equal(t, "A + E", r.Reactant().String())
	assert.Equal(t, "k", r.KineticParam().String())
}

func TestInferMassActionStoichiometry_RateLess(t *testing.T) {
	r := mustReaction(t, "r", "A", "B", "")
	assert.ErrorIs(t, r.InferMassActionStoichiometry("A"), crn.ErrMissingRate)
}

func TestCancelDenominatorStoichiometry(t *testing.T) {
	r := mustReaction(t, "r", "A + E", "B + E", "k*A/(K + A)")
	assert.Equal(t, "k/(A*E + E*K)", r.KineticParam().String())

	require.NoError(t, r.CancelDenominatorStoichiometry("E"))
	assert.Equal(t, "A", r.Reactant().String())
	assert.Equal(t, "B", r.Product().String())
	assert.Equal(t, "k/(A + K)", r.KineticParam().String())
	assertSameRate(t, "k*A/(K + A)", r.Rate())
	assertConsistent(t, r)

	require.NoError(t, r.CancelDenominatorStoichiometry("E"))
	assert.Equal(t, "A", r.Reactant().String())
}

func TestCancelDenominatorStoichiometry_RequiresBothSides(t *testing.T) {
	r := mustReaction(t, "r", "A + E", "B", "k*A")
	require.NoError(t, r.CancelDenominatorStoichiometry("E"))
	assert.Equal(t, "A + E", r.Reactant().String())
	assert.Equal(t, "k/E", r.KineticParam().String())
}

func TestCancelDenominatorStoichiometry_Repeated(t *testing.T) {
	r := mustReaction(t, "r", "A + 2E", "B + 2E", "k*A")
	require.NoError(t, r.CancelDenominatorStoichiometry("E"))
	assert.Equal(t, "A", r.Reactant().String())
	assert.Equal(t, "B", r.Product().String())
	assert.Equal(t, "k", r.KineticParam().String())
}

// ============================================================
// Splitting
// ============================================================

func TestSplitByAddend(t *testing.T) {
	r := mustReaction(t, "r3", "A", "B", "k1*A + k2*A^2")
	parts, err := crn.SplitByAddend(r)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, "r3_0: A ->(k1) B", parts[0].String())
	assert.Equal(t, "r3_1: A ->(A*k2) B", parts[1].String())
	for _, p := range parts {
		assertConsistent(t, p)
	}
}

func TestSplitByAddend_KeepsDenominator(t *testing.T) {
	r := mustReaction(t, "r", "A", "B", "(k1*A + k2)/(K + A)")
	parts, err := crn.SplitByAddend(r)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	for _, p := range parts {
		_, den, err := expr.AsNumerDenom(p.Rate())
		require.NoError(t, err)
		assert.Equal(t, "A + K", den.String())
	}
}

func TestSplitByAddend_SingleTerm(t *testing.T) {
	r := mustReaction(t, "r", "A", "B", "k*A")
	parts, err := crn.SplitByAddend(r)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "r", parts[0].ID())
	assert.True(t, parts[0].Equal(r))
}

func TestSplitByMonomial(t *testing.T) {
	r := mustReaction(t, "r", "A", "B", "k1*A + k2*A + k3*A^2")
	parts, err := crn.SplitByMonomial(r, []string{"A"})
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, "r_1", parts[0].ID())
	assert.Equal(t, "r_2", parts[1].ID())
	assertSameRate(t, "(k1 + k2)*A", parts[0].Rate())
	assertSameRate(t, "k3*A^2", parts[1].Rate())
}

func TestSplitByMonomial_SingleMonomial(t *testing.T) {
	r := mustReaction(t, "r", "A", "B", "k1*A + k2*A")
	parts, err := crn.SplitByMonomial(r, []string{"A"})
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "r", parts[0].ID())
}

func TestSplitAll(t *testing.T) {
	rs := []*crn.Reaction{
		mustReaction(t, "a", "A", "B", "k1*A + k2"),
		mustReaction(t, "b", "B", "C", "k3*B"),
	}
	parts, err := crn.SplitAllByAddend(rs)
	require.NoError(t, err)
	ids := make([]string, len(parts))
	for i, p := range parts {
		ids[i] = p.ID()
	}
	assert.Equal(t, []string{"a_0", "a_1", "b"}, ids)

	parts, err = crn.SplitAllByMonomial(rs, []string{"A", "B"})
	require.NoError(t, err)
	assert.Len(t, parts, 3)
}

// ============================================================
// Merging
// ============================================================

func TestMergeReactions(t *testing.T) {
	rs := []*crn.Reaction{
		mustReaction(t, "r4a", "A", "B", "k1*A"),
		mustReaction(t, "r4b", "A", "B", "k2*A"),
	}
	merged, err := crn.MergeReactions(rs)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "r4ar4b", merged[0].ID())
	assertSameRate(t, "(k1 + k2)*A", merged[0].Rate())
	assertSameRate(t, "k1 + k2", merged[0].KineticParam())
}

func TestMergeReactions_DropsSelfLoopsAndSorts(t *testing.T) {
	rs := []*crn.Reaction{
		mustReaction(t, "z", "B", "C", "k*B"),
		mustReaction(t, "loop", "A", "A", "k*A"),
		mustReaction(t, "y", "A", "B", "j*A"),
		mustReaction(t, "x", "B", "C", "m*B"),
	}
	merged, err := crn.MergeReactions(rs)
	require.NoError(t, err)
	require.Len(t, merged, 2)
	assert.Equal(t, "y", merged[0].ID())
	assert.Equal(t, "zx", merged[1].ID())
}

func TestMergeReactions_InvertsSplit(t *testing.T) {
	r := mustReaction(t, "r3", "A", "B", "k1*A + k2*A^2 + k3*A/(K + A)")
	parts, err := crn.SplitByAddend(r)
	require.NoError(t, err)
	require.Greater(t, len(parts), 1)

	merged, err := crn.MergeReactions(parts)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.True(t, merged[0].Equal(r))
}

// ============================================================
// Common denominator
// ============================================================

func TestNormalizeCommonDenominator(t *testing.T) {
	rs := []*crn.Reaction{
		mustReaction(t, "a", "A", "B", "k1/(A + 1)"),
		mustReaction(t, "b", "B", "C", "k2/(B + 1)"),
		mustReaction(t, "c", "C", "A", "k3*C"),
		mustReaction(t, "d", "C", "D", ""),
	}
	out, err := crn.NormalizeCommonDenominator(rs)
	require.NoError(t, err)

	common := expr.MustParse("(A + 1)*(B + 1)")
	totals := map[string][]expr.Expr{}
	var rateless int
	for _, r := range out {
		if !r.HasRate() {
			rateless++
			continue
		}
		_, den, err := expr.AsNumerDenom(r.Rate())
		require.NoError(t, err)
		d, err := expr.Cancel(expr.SubOf(den, common))
		require.NoError(t, err)
		assert.True(t, expr.IsZero(d), "%s has denominator %s", r.ID(), den)
		totals[r.Reactant().String()] = append(totals[r.Reactant().String()], r.Rate())
		assertConsistent(t, r)
	}
	assert.Equal(t, 1, rateless)
	assert.Len(t, totals["A"], 2)
	assert.Len(t, totals["B"], 2)
	assert.Len(t, totals["C"], 4)

	assertSameRate(t, "k1/(A + 1)", expr.AddOf(totals["A"]...))
	assertSameRate(t, "k2/(B + 1)", expr.AddOf(totals["B"]...))
	assertSameRate(t, "k3*C", expr.AddOf(totals["C"]...))
	assert.Equal(t, "a_0", out[0].ID())
	assert.Equal(t, "a_1", out[1].ID())
}

func TestNormalizeCommonDenominator_AlreadyCommon(t *testing.T) {
	rs := []*crn.Reaction{
		mustReaction(t, "a", "A", "B", "k1/(A + 1)"),
		mustReaction(t, "b", "B", "A", "k2*B/(A + 1)"),
	}
	out, err := crn.NormalizeCommonDenominator(rs)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID())
	assert.True(t, out[0].Equal(rs[0]))
	assert.True(t, out[1].Equal(rs[1]))
}

func TestNormalizeCommonDenominator_ScaledDenominator(t *testing.T) {
	rs := []*crn.Reaction{
		mustReaction(t, "a", "A", "B", "k1*A/(2*A + 2)"),
		mustReaction(t, "b", "B", "A", "k2*B/(A + 1)"),
	}
	out, err := crn.NormalizeCommonDenominator(rs)
	require.NoError(t, err)
	require.Len(t, out, 2)

	for i, r := range out {
		assert.Equal(t, rs[i].ID(), r.ID())
		_, den, err := expr.AsNumerDenom(r.Rate())
		require.NoError(t, err)
		assert.Equal(t, "A + 1", den.String(), r.ID())
		assertSameRate(t, rs[i].Rate().String(), r.Rate())
		assertConsistent(t, r)
	}
	assert.True(t, out[1].Equal(rs[1]))
}

func TestNormalizeCommonDenominator_DecimalConstants(t *testing.T) {
	rs := []*crn.Reaction{
		mustReaction(t, "a", "S", "P", "1.5*S/(0.3 + S)"),
		mustReaction(t, "b", "P", "S", "0.2*P/(0.3 + S)"),
	}
	out, err := crn.NormalizeCommonDenominator(rs)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, r := range out {
		_, den, err := expr.AsNumerDenom(r.Rate())
		require.NoError(t, err)
		assert.Equal(t, "S + 0.3", den.String(), r.ID())
	}
}

func TestNormalizeCommonDenominator_SingleFactor(t *testing.T) {
	rs := []*crn.Reaction{
		mustReaction(t, "a", "A", "B", "k1/A"),
		mustReaction(t, "b", "B", "A", "k2/(A*B)"),
	}
	out, err := crn.NormalizeCommonDenominator(rs)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID())
	_, den, err := expr.AsNumerDenom(out[0].Rate())
	require.NoError(t, err)
	assert.Equal(t, "A*B", den.String())
	assertSameRate(t, "k1/A", out[0].Rate())
}

// ============================================================
// Translation and paths
// ============================================================

func TestTranslate(t *testing.T) {
	r := mustReaction(t, "r", "A", "B", "k*A")
	c := crn.Complex{"C": 1, "D": 2}
	tr := crn.Translate(r, c)
	assert.Equal(t, "r_C_2D", tr.ID())
	assert.True(t, tr.Reactant().Equal(r.Reactant().Add(c)))
	assert.True(t, tr.Product().Equal(r.Product().Add(c)))
	assert.True(t, tr.Rate().Equal(r.Rate()))
	assert.Equal(t, "k/(C*D^2)", tr.KineticParam().String())
	assertConsistent(t, tr)
	assert.Equal(t, "A", r.Reactant().String())
}

func TestReactionPath_Disjoint(t *testing.T) {
	rs := []*crn.Reaction{
		mustReaction(t, "r", "A", "B", "k1*A"),
		mustReaction(t, "s", "C", "D", "k2*C"),
	}
	out, additions := crn.ReactionPath(rs)
	require.Len(t, out, 2)
	require.Len(t, additions, 2)
	assert.Equal(t, "C", additions[0].String())
	assert.Equal(t, "B", additions[1].String())
	assert.Equal(t, "r_C: A + C ->(k1/C) B + C", out[0].String())
	assert.Equal(t, "s_B: B + C ->(k2/B) B + D", out[1].String())
	assert.True(t, out[0].Product().Equal(out[1].Reactant()))
}

func TestReactionPath_CommonPaddingRemoved(t *testing.T) {
	rs := []*crn.Reaction{
		mustReaction(t, "a", "A", "B", "k1*A"),
		mustReaction(t, "b", "B", "C", "k2*B"),
		mustReaction(t, "c", "C", "D", "k3*C"),
	}
	out, additions := crn.ReactionPath(rs)
	require.Len(t, out, 3)
	for i, a := range additions {
		assert.Empty(t, a, "addition %d", i)
	}
	for i := 0; i+1 < len(out); i++ {
		assert.True(t, out[i].Product().Equal(out[i+1].Reactant()))
		assert.True(t, out[i].Equal(rs[i]))
	}
}

func TestReactionPath_Alignment(t *testing.T) {
	rs := []*crn.Reaction{
		mustReaction(t, "a", "A", "B + E", "k1*A"),
		mustReaction(t, "b", "B + F", "C", "k2*B*F"),
		mustReaction(t, "c", "C + E", "D", "k3*C*E"),
	}
	out, additions := crn.ReactionPath(rs)
	require.Len(t, additions, 3)
	for i := 0; i+1 < len(out); i++ {
		assert.True(t, out[i].Product().Equal(out[i+1].Reactant()), "%s vs %s", out[i], out[i+1])
	}
	for i, r := range out {
		assert.True(t, r.Reactant().Equal(rs[i].Reactant().Add(additions[i])))
		assertSameRate(t, rs[i].Rate().String(), r.Rate())
	}
}

func TestReactionPath_Short(t *testing.T) {
	out, additions := crn.ReactionPath(nil)
	assert.Empty(t, out)
	assert.Empty(t, additions)

	r := mustReaction(t, "r", "A", "B", "k*A")
	out, additions = crn.ReactionPath([]*crn.Reaction{r})
	require.Len(t, out, 1)
	assert.Equal(t, "r", out[0].ID())
	assert.True(t, out[0].Equal(r))
	assert.Empty(t, additions)
}

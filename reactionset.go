package crn

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/njchilds90/gocrn/expr"
)

// ============================================================
// Merging
// ============================================================

// MergeReactions groups reactions with equal reactant and product and
// returns one reaction per group, sorted by id. The merged id concatenates
// member ids in input order and the rate is the cancelled sum of member
// rates; rate-less members contribute nothing. Groups whose reactant
// equals their product are dropped: they carry no net change.
func MergeReactions(rs []*Reaction) ([]*Reaction, error) {
	type group struct {
		members []*Reaction
	}
	index := map[string]*group{}
	var order []*group
	for _, r := range rs {
		key := r.reactant.String() + "->" + r.product.String()
		g, ok := index[key]
		if !ok {
			g = &group{}
			index[key] = g
			order = append(order, g)
		}
		g.members = append(g.members, r)
	}

	out := make([]*Reaction, 0, len(order))
	for _, g := range order {
		first := g.members[0]
		if first.reactant.Equal(first.product) {
			continue
		}
		var id strings.Builder
		var rates []expr.Expr
		for _, m := range g.members {
			id.WriteString(m.id)
			if m.rate != nil {
				rates = append(rates, m.rate)
			}
		}
		var rate expr.Expr
		if len(rates) > 0 {
			sum, err := expr.Cancel(expr.AddOf(rates...))
			if err != nil {
				return nil, fmt.Errorf("merge %q: %w", id.String(), err)
			}
			rate = sum
		}
		m, err := NewReaction(id.String(), first.reactant, first.product, rate)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out, nil
}

// ============================================================
// Common denominator
// ============================================================

// NormalizeCommonDenominator rewrites every rate over the LCM of all rate
// denominators. A reaction whose denominator differs is scaled by
// diff = LCM/denominator; when diff expands to a sum, one reaction per
// addend is emitted with id "<id>_<i>" counting from 0. A rate written over
// a scalar multiple of the LCM is rewritten over the LCM itself. Reactions
// already over the LCM and rate-less reactions pass through unchanged.
func NormalizeCommonDenominator(rs []*Reaction) ([]*Reaction, error) {
	type fraction struct{ num, den expr.Expr }
	fracs := make([]*fraction, len(rs))
	var common expr.Expr
	for i, r := range rs {
		if r.rate == nil {
			continue
		}
		c, err := expr.Cancel(r.rate)
		if err != nil {
			return nil, fmt.Errorf("reaction %q: %w", r.id, err)
		}
		num, den, err := expr.AsNumerDenom(c)
		if err != nil {
			return nil, fmt.Errorf("reaction %q: %w", r.id, err)
		}
		fracs[i] = &fraction{num: num, den: den}
		if common == nil {
			common = den
			continue
		}
		if common, err = expr.LCM(common, den); err != nil {
			return nil, fmt.Errorf("reaction %q: %w", r.id, err)
		}
	}

	out := make([]*Reaction, 0, len(rs))
	for i, r := range rs {
		f := fracs[i]
		if f == nil {
			out = append(out, r.Clone())
			continue
		}
		same, err := expr.Cancel(expr.SubOf(f.den, common))
		if err != nil {
			return nil, fmt.Errorf("reaction %q: %w", r.id, err)
		}
		if expr.IsZero(same) {
			if _, raw, err := expr.AsNumerDenom(r.rate); err == nil && raw.Equal(common) {
				out = append(out, r.Clone())
				continue
			}
			nr, err := NewReaction(r.id, r.reactant, r.product, expr.Quo(f.num, common))
			if err != nil {
				return nil, err
			}
			out = append(out, nr)
			continue
		}
		diff, err := expr.Cancel(expr.DivOf(common, f.den))
		if err == nil {
			diff, err = expr.Expand(diff)
		}
		if err != nil {
			return nil, fmt.Errorf("reaction %q: %w", r.id, err)
		}
		if !expr.IsSum(diff) {
			nr, err := NewReaction(r.id, r.reactant, r.product, expr.Quo(expr.MulOf(diff, f.num), common))
			if err != nil {
				return nil, err
			}
			out = append(out, nr)
			continue
		}
		for j, a := range expr.Operands(diff) {
			nr, err := NewReaction(r.id+"_"+strconv.Itoa(j), r.reactant, r.product, expr.Quo(expr.MulOf(a, f.num), common))
			if err != nil {
				return nil, err
			}
			out = append(out, nr)
		}
	}
	return out, nil
}

// ============================================================
// Translation and paths
// ============================================================

// Translate returns r with c added to both reactant and product. The rate
// is unchanged; the id gains the suffix "_<c>" with spaces removed, "+"
// written as "_" and "-" as "m".
func Translate(r *Reaction, c Complex) *Reaction {
	t := r.WithReactant(r.reactant.Add(c)).WithProduct(r.product.Add(c))
	t.id = r.id + "_" + c.token()
	return t
}

// ReactionPath translates a chain of reactions so consecutive steps share
// their intermediate complexes. Position h is padded by the products of
// all earlier reactions plus the reactants of all later ones, minus the
// padding common to every position. The paddings are returned alongside.
// Fewer than two reactions are returned as copies with no paddings.
func ReactionPath(rs []*Reaction) ([]*Reaction, []Complex) {
	if len(rs) <= 1 {
		out := make([]*Reaction, len(rs))
		for i, r := range rs {
			out[i] = r.Clone()
		}
		return out, []Complex{}
	}

	additions := make([]Complex, len(rs))
	for h := range rs {
		a := Complex{}
		for i := 0; i < h; i++ {
			a = a.Add(rs[i].product)
		}
		for i := h + 1; i < len(rs); i++ {
			a = a.Add(rs[i].reactant)
		}
		additions[h] = a
	}
	common := additions[0]
	for _, a := range additions[1:] {
		common = common.Intersect(a)
	}

	out := make([]*Reaction, len(rs))
	for h, r := range rs {
		additions[h] = additions[h].Sub(common)
		out[h] = Translate(r, additions[h])
	}
	return out, additions
}

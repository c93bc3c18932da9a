package crn

import (
	"fmt"
	"strconv"

	"github.com/njchilds90/gocrn/expr"
)

// ============================================================
// Rate splitting
// ============================================================

// SplitByAddend returns one reaction per addend of the expanded rate
// numerator, each with rate addend/denominator and id "<id>_<i>" counting
// from 0. A numerator that is not a sum, or a rate-less reaction, yields a
// copy of r.
func SplitByAddend(r *Reaction) ([]*Reaction, error) {
	if r.rate == nil {
		return []*Reaction{r.Clone()}, nil
	}
	num, den, err := expr.AsNumerDenom(r.rate)
	if err != nil {
		return nil, fmt.Errorf("reaction %q: %w", r.id, err)
	}
	if num, err = expr.Expand(num); err != nil {
		return nil, fmt.Errorf("reaction %q: %w", r.id, err)
	}
	if !expr.IsSum(num) {
		return []*Reaction{r.Clone()}, nil
	}
	addends := expr.Operands(num)
	out := make([]*Reaction, 0, len(addends))
	for i, a := range addends {
		nr, err := NewReaction(r.id+"_"+strconv.Itoa(i), r.reactant, r.product, expr.Quo(a, den))
		if err != nil {
			return nil, err
		}
		out = append(out, nr)
	}
	return out, nil
}

// SplitByMonomial cancels the rate and decomposes its numerator as a
// polynomial in species. Each monomial term becomes a reaction with rate
// term/denominator and id "<id>_<i>" counting from 1. A single term, or a
// rate-less reaction, yields a copy of r.
func SplitByMonomial(r *Reaction, species []string) ([]*Reaction, error) {
	if r.rate == nil {
		return []*Reaction{r.Clone()}, nil
	}
	c, err := expr.Cancel(r.rate)
	if err != nil {
		return nil, fmt.Errorf("reaction %q: %w", r.id, err)
	}
	num, den, err := expr.AsNumerDenom(c)
	if err != nil {
		return nil, fmt.Errorf("reaction %q: %w", r.id, err)
	}
	terms, err := expr.Monomials(num, species)
	if err != nil {
		return nil, fmt.Errorf("reaction %q: %w", r.id, err)
	}
	if len(terms) <= 1 {
		return []*Reaction{r.Clone()}, nil
	}
	out := make([]*Reaction, 0, len(terms))
	for i, t := range terms {
		nr, err := NewReaction(r.id+"_"+strconv.Itoa(i+1), r.reactant, r.product, expr.Quo(t.Expr(), den))
		if err != nil {
			return nil, err
		}
		out = append(out, nr)
	}
	return out, nil
}

// SplitAllByAddend applies SplitByAddend to every reaction, keeping order.
func SplitAllByAddend(rs []*Reaction) ([]*Reaction, error) {
	var out []*Reaction
	for _, r := range rs {
		parts, err := SplitByAddend(r)
		if err != nil {
			return nil, err
		}
		out = append(out, parts...)
	}
	return out, nil
}

// SplitAllByMonomial applies SplitByMonomial to every reaction, keeping
// order.
func SplitAllByMonomial(rs []*Reaction, species []string) ([]*Reaction, error) {
	var out []*Reaction
	for _, r := range rs {
		parts, err := SplitByMonomial(r, species)
		if err != nil {
			return nil, err
		}
		out = append(out, parts...)
	}
	return out, nil
}

package crn

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/njchilds90/gocrn/expr"
)

// ============================================================
// Stoichiometry inference (in place)
// ============================================================

// passBudget bounds the passes of both fixpoint loops. Every pass divides
// out at least one species factor, so a well-formed rate stays within its
// degree.
var passBudget = expr.Degree

// InferMassActionStoichiometry raises the stoichiometry of the listed
// species until the reactant matches the degree of the rate numerator.
//
// The numerator divided by ma(reactant) is factored; every listed species
// that divides it is added once to both reactant and product and divided
// out, and the remainder is re-factored. The loop ends when no listed
// species divides the remainder. The rate is unchanged and the kinetic
// parameter is re-derived from the grown reactant.
func (r *Reaction) InferMassActionStoichiometry(species ...string) error {
	if len(species) == 0 {
		return nil
	}
	if r.rate == nil {
		return fmt.Errorf("reaction %q: %w", r.id, ErrMissingRate)
	}
	num, _, err := expr.AsNumerDenom(r.rate)
	if err != nil {
		return fmt.Errorf("reaction %q: %w", r.id, err)
	}
	remainder, err := expr.Factor(expr.DivOf(num, r.reactant.MA()))
	if err != nil {
		return fmt.Errorf("reaction %q: %w", r.id, err)
	}
	budget, err := passBudget(num)
	if err != nil {
		return fmt.Errorf("reaction %q: %w", r.id, err)
	}

	log := zap.L().With(zap.String("reaction", r.id))
	changed := false
	for pass := 0; ; pass++ {
		found := dividingSpecies(remainder, species)
		if len(found) == 0 {
			break
		}
		if pass > budget {
			return fmt.Errorf("reaction %q: %w after %d passes", r.id, ErrNonTerminatingDecomposition, pass)
		}
		for _, s := range found {
			r.increment(s, 1)
			changed = true
			log.Debug("species added to both sides",
				zap.String("species", s), zap.Int("pass", pass), zap.Stringer("remainder", remainder))
			if remainder, err = expr.Factor(expr.DivOf(remainder, expr.S(s))); err != nil {
				return fmt.Errorf("reaction %q: %w", r.id, err)
			}
		}
	}
	if changed {
		r.rederive()
	}
	return nil
}

// CancelDenominatorStoichiometry removes padding by catalytic species.
//
// While a listed species divides the denominator of the kinetic parameter
// and occurs in both reactant and product, one unit of it is removed from
// both sides and divided out of the denominator. The rate is re-derived
// through the kinetic parameter of the reduced reactant, so the kinetics
// are unchanged.
func (r *Reaction) CancelDenominatorStoichiometry(species ...string) error {
	if len(species) == 0 {
		return nil
	}
	if r.rate == nil {
		return fmt.Errorf("reaction %q: %w", r.id, ErrMissingRate)
	}
	_, den, err := expr.AsNumerDenom(r.kinetic)
	if err != nil {
		return fmt.Errorf("reaction %q: %w", r.id, err)
	}
	remainder, err := expr.Factor(den)
	if err != nil {
		return fmt.Errorf("reaction %q: %w", r.id, err)
	}
	budget, err := passBudget(den)
	if err != nil {
		return fmt.Errorf("reaction %q: %w", r.id, err)
	}

	log := zap.L().With(zap.String("reaction", r.id))
	changed := false
	for pass := 0; !expr.IsOne(remainder); pass++ {
		var found []string
		for _, s := range dividingSpecies(remainder, species) {
			if r.reactant.Has(s) && r.product.Has(s) {
				found = append(found, s)
			}
		}
		if len(found) == 0 {
			break
		}
		if pass > budget {
			return fmt.Errorf("reaction %q: %w after %d passes", r.id, ErrNonTerminatingDecomposition, pass)
		}
		for _, s := range found {
			if !r.reactant.Has(s) || !r.product.Has(s) {
				continue
			}
			if err := r.decrement(s, 1); err != nil {
				return err
			}
			changed = true
			log.Debug("species removed from both sides",
				zap.String("species", s), zap.Int("pass", pass), zap.Stringer("remainder", remainder))
			if remainder, err = expr.Factor(expr.DivOf(remainder, expr.S(s))); err != nil {
				return fmt.Errorf("reaction %q: %w", r.id, err)
			}
		}
	}
	if !changed {
		return nil
	}
	k, err := deriveKineticParam(r.rate, r.reactant)
	if err != nil {
		return fmt.Errorf("reaction %q: %w", r.id, err)
	}
	if r.rate, err = deriveRate(k, r.reactant); err != nil {
		return fmt.Errorf("reaction %q: %w", r.id, err)
	}
	r.kinetic = k
	return nil
}

// dividingSpecies returns, in the order given, the listed species that
// occur in the factored expression e as a factor or as the base of a
// factor with positive integer exponent.
func dividingSpecies(e expr.Expr, species []string) []string {
	factors := []expr.Expr{e}
	if expr.IsProduct(e) {
		factors = expr.Operands(e)
	}
	present := map[string]bool{}
	for _, f := range factors {
		if n, ok := expr.IntExponent(f); ok && n > 0 {
			if name := expr.SymbolName(expr.Base(f)); name != "" {
				present[name] = true
			}
		}
	}
	var out []string
	seen := map[string]bool{}
	for _, s := range species {
		if present[s] && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

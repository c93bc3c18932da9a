package crn

import (
	"fmt"
	"strings"

	"github.com/njchilds90/gocrn/expr"
)

// ============================================================
// Reaction
// ============================================================

// Reaction is reactant -> product with an optional rate. The kinetic
// parameter is derived: rate / reactant.MA(), cancelled.
type Reaction struct {
	id       string
	reactant Complex
	product  Complex
	rate     expr.Expr
	kinetic  expr.Expr
}

// NewReaction builds a reaction from its rate. A nil rate yields a
// rate-less reaction.
func NewReaction(id string, reactant, product Complex, rate expr.Expr) (*Reaction, error) {
	r := &Reaction{id: id, reactant: reactant.Clone(), product: product.Clone(), rate: rate}
	k, err := deriveKineticParam(rate, r.reactant)
	if err != nil {
		return nil, fmt.Errorf("reaction %q: %w", id, err)
	}
	r.kinetic = k
	return r, nil
}

// NewReactionFromKineticParam builds a reaction whose rate is
// k * reactant.MA(), cancelled.
func NewReactionFromKineticParam(id string, reactant, product Complex, k expr.Expr) (*Reaction, error) {
	r := &Reaction{id: id, reactant: reactant.Clone(), product: product.Clone()}
	rate, err := deriveRate(k, r.reactant)
	if err != nil {
		return nil, fmt.Errorf("reaction %q: %w", id, err)
	}
	r.rate = rate
	if r.kinetic, err = deriveKineticParam(rate, r.reactant); err != nil {
		return nil, fmt.Errorf("reaction %q: %w", id, err)
	}
	return r, nil
}

// ParseReaction parses complexes and rate from strings. An empty rate
// yields a rate-less reaction.
func ParseReaction(id, reactant, product, rate string) (*Reaction, error) {
	rc, err := ParseComplex(reactant)
	if err != nil {
		return nil, fmt.Errorf("reaction %q: reactant: %w", id, err)
	}
	pc, err := ParseComplex(product)
	if err != nil {
		return nil, fmt.Errorf("reaction %q: product: %w", id, err)
	}
	var e expr.Expr
	if strings.TrimSpace(rate) != "" {
		if e, err = expr.Parse(rate); err != nil {
			return nil, fmt.Errorf("reaction %q: %w: %w", id, ErrInvalidRate, err)
		}
	}
	return NewReaction(id, rc, pc, e)
}

// deriveKineticParam returns cancel(rate / ma(reactant)).
func deriveKineticParam(rate expr.Expr, reactant Complex) (expr.Expr, error) {
	if rate == nil {
		return nil, nil
	}
	k, err := expr.Cancel(expr.DivOf(rate, reactant.MA()))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRate, rate, err)
	}
	return k, nil
}

// deriveRate returns cancel(k * ma(reactant)).
func deriveRate(k expr.Expr, reactant Complex) (expr.Expr, error) {
	if k == nil {
		return nil, nil
	}
	rate, err := expr.Cancel(expr.MulOf(k, reactant.MA()))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRate, k, err)
	}
	return rate, nil
}

// rederive recomputes the kinetic parameter after the reactant changed.
// The rate was validated on construction, so division by a monomial
// cannot fail.
func (r *Reaction) rederive() {
	k, err := deriveKineticParam(r.rate, r.reactant)
	if err != nil {
		panic(err)
	}
	r.kinetic = k
}

// ============================================================
// Accessors
// ============================================================

func (r *Reaction) ID() string { return r.id }

// Reactant returns a copy of the reactant complex.
func (r *Reaction) Reactant() Complex { return r.reactant.Clone() }

// Product returns a copy of the product complex.
func (r *Reaction) Product() Complex { return r.product.Clone() }

// Rate returns the rate as given, or nil.
func (r *Reaction) Rate() expr.Expr { return r.rate }

// KineticParam returns the derived kinetic parameter, or nil.
func (r *Reaction) KineticParam() expr.Expr { return r.kinetic }

func (r *Reaction) HasRate() bool { return r.rate != nil }

// Clone returns an independent copy.
func (r *Reaction) Clone() *Reaction {
	return &Reaction{
		id:       r.id,
		reactant: r.reactant.Clone(),
		product:  r.product.Clone(),
		rate:     r.rate,
		kinetic:  r.kinetic,
	}
}

// WithID returns a copy under a new id.
func (r *Reaction) WithID(id string) *Reaction {
	c := r.Clone()
	c.id = id
	return c
}

// WithReactant returns a copy with a new reactant; the rate is kept and
// the kinetic parameter re-derived.
func (r *Reaction) WithReactant(reactant Complex) *Reaction {
	c := r.Clone()
	c.reactant = reactant.Clone()
	c.rederive()
	return c
}

// WithProduct returns a copy with a new product.
func (r *Reaction) WithProduct(product Complex) *Reaction {
	c := r.Clone()
	c.product = product.Clone()
	return c
}

// WithRate returns a copy with a new rate. A nil rate removes kinetics.
func (r *Reaction) WithRate(rate expr.Expr) (*Reaction, error) {
	return NewReaction(r.id, r.reactant, r.product, rate)
}

// WithKineticParam returns a copy whose rate is k * ma(reactant).
func (r *Reaction) WithKineticParam(k expr.Expr) (*Reaction, error) {
	return NewReactionFromKineticParam(r.id, r.reactant, r.product, k)
}

// Equal reports equal reactant and product multisets and rates that are
// the same rational function. Ids are ignored.
func (r *Reaction) Equal(o *Reaction) bool {
	if !r.reactant.Equal(o.reactant) || !r.product.Equal(o.product) {
		return false
	}
	if r.rate == nil || o.rate == nil {
		return r.rate == nil && o.rate == nil
	}
	d, err := expr.Cancel(expr.SubOf(r.rate, o.rate))
	return err == nil && expr.IsZero(d)
}

// ============================================================
// Rendering
// ============================================================

func (r *Reaction) String() string { return r.Format(false, 3) }

// Format renders "id: reactant ->(k) product". With showRate the rate
// replaces the kinetic parameter. Rate-less reactions render a bare "->".
func (r *Reaction) Format(showRate bool, precision int) string {
	arrow := "->"
	if k, ok := r.FormatKinetics(showRate, precision); ok {
		arrow += "(" + k + ")"
	}
	return fmt.Sprintf("%s: %s %s %s", r.id, r.reactant, arrow, r.product)
}

// FormatKinetics renders the kinetic parameter, or the rate when showRate
// is set. A float kinetic parameter uses exponent notation with precision
// digits, suffixed by "*ma(reactant)" when showRate is set. The boolean is
// false for rate-less reactions.
func (r *Reaction) FormatKinetics(showRate bool, precision int) (string, bool) {
	if r.rate == nil {
		return "", false
	}
	if n, ok := r.kinetic.(*expr.Num); ok && n.IsInexact() {
		k := fmt.Sprintf("%.*e", precision, n.Float64())
		if showRate {
			k += "*" + r.reactant.MA().String()
		}
		return k, true
	}
	if showRate {
		return r.rate.String(), true
	}
	return r.kinetic.String(), true
}

// LaTeX renders the reaction with the kinetics above the arrow.
func (r *Reaction) LaTeX(showRate bool) string {
	arrow := `\rightarrow`
	if r.rate != nil {
		k := r.kinetic.LaTeX()
		switch {
		case expr.IsFloat(r.kinetic):
			k, _ = r.FormatKinetics(showRate, 3)
		case showRate:
			k = r.rate.LaTeX()
		}
		arrow = `\xrightarrow{` + k + `}`
	}
	return fmt.Sprintf("%s: %s %s %s", expr.S(r.id).LaTeX(), r.reactant.Expr().LaTeX(), arrow, r.product.Expr().LaTeX())
}

// ============================================================
// Common stoichiometry
// ============================================================

// RemoveReactProd removes stoichiometry shared by reactant and product.
// With no species, the whole intersection is removed from both sides.
// Otherwise each listed species present on both sides is rebalanced: the
// smaller coefficient is subtracted from both and a side reaching zero
// drops the species. The kinetic parameter is re-derived from the new
// reactant; the rate is unchanged.
func (r *Reaction) RemoveReactProd(species ...string) error {
	if len(species) == 0 {
		common := r.reactant.Intersect(r.product)
		r.reactant = r.reactant.Sub(common)
		r.product = r.product.Sub(common)
	} else {
		for _, s := range species {
			if !r.reactant.Has(s) || !r.product.Has(s) {
				continue
			}
			n := r.reactant[s]
			if m := r.product[s]; m < n {
				n = m
			}
			if err := r.decrement(s, n); err != nil {
				return err
			}
		}
	}
	k, err := deriveKineticParam(r.rate, r.reactant)
	if err != nil {
		return fmt.Errorf("reaction %q: %w", r.id, err)
	}
	r.kinetic = k
	return nil
}

// decrement removes n of species from both sides. Nothing changes when
// either side holds fewer than n.
func (r *Reaction) decrement(species string, n int) error {
	if have := r.reactant[species]; have < n {
		return &StoichiometryError{ReactionID: r.id, Species: species, Side: SideReactant, Have: have, Remove: n}
	}
	if have := r.product[species]; have < n {
		return &StoichiometryError{ReactionID: r.id, Species: species, Side: SideProduct, Have: have, Remove: n}
	}
	if err := r.reactant.Decrement(species, n); err != nil {
		return err
	}
	return r.product.Decrement(species, n)
}

func (r *Reaction) increment(species string, n int) {
	r.reactant.Increment(species, n)
	r.product.Increment(species, n)
}

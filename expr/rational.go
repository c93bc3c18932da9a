package expr

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrNotRational reports an expression that is not a ratio of
	// polynomials: symbolic or fractional exponents, or division by zero.
	ErrNotRational = errors.New("expr: not a rational function")
	// ErrNotPolynomial reports a rational function with a nontrivial
	// denominator where a polynomial is required.
	ErrNotPolynomial = errors.New("expr: not a polynomial")
	// ErrTooLarge reports an expansion that would exceed maxTerms terms.
	ErrTooLarge = errors.New("expr: expansion too large")
)

const (
	// maxRatPow bounds integer exponents accepted when expanding powers.
	maxRatPow = 1 << 16
	// maxTerms bounds the number of terms of any expanded polynomial.
	maxTerms = 1 << 14
)

// powTerms bounds the term count of a t-term polynomial raised to n by the
// number of monomials of degree n in t variables.
func powTerms(t, n int) float64 {
	c := 1.0
	for i := 1; i < t && c <= maxTerms; i++ {
		c = c * float64(n+i) / float64(i)
	}
	return c
}

// ============================================================
// Rational functions
// ============================================================

type ratFunc struct{ num, den *poly }

func toRat(e Expr) (ratFunc, error) {
	switch v := e.(type) {
	case *Num:
		return ratFunc{num: constPoly(v.val, v.inexact), den: onePoly()}, nil
	case *Sym:
		return ratFunc{num: varPoly(v.name, 1), den: onePoly()}, nil
	case *Add:
		acc := ratFunc{num: newPoly(), den: onePoly()}
		for _, t := range v.terms {
			r, err := toRat(t)
			if err != nil {
				return ratFunc{}, err
			}
			acc = acc.add(r)
		}
		return acc, nil
	case *Mul:
		acc := ratFunc{num: onePoly(), den: onePoly()}
		for _, f := range v.factors {
			r, err := toRat(f)
			if err != nil {
				return ratFunc{}, err
			}
			if len(acc.num.terms)*len(r.num.terms) > maxTerms || len(acc.den.terms)*len(r.den.terms) > maxTerms {
				return ratFunc{}, fmt.Errorf("%w: %s", ErrTooLarge, v)
			}
			acc = ratFunc{num: acc.num.mul(r.num), den: acc.den.mul(r.den)}
		}
		return acc, nil
	case *Pow:
		en, ok := v.exp.(*Num)
		if !ok || !en.IsInteger() {
			return ratFunc{}, fmt.Errorf("%w: non-integer exponent in %s", ErrNotRational, v)
		}
		x := en.val.Num()
		if !x.IsInt64() || x.Int64() > maxRatPow || x.Int64() < -maxRatPow {
			return ratFunc{}, fmt.Errorf("%w: exponent out of range in %s", ErrTooLarge, v)
		}
		n := int(x.Int64())
		b, err := toRat(v.base)
		if err != nil {
			return ratFunc{}, err
		}
		if n < 0 {
			if b.num.isZero() {
				return ratFunc{}, fmt.Errorf("%w: division by zero in %s", ErrNotRational, v)
			}
			b = ratFunc{num: b.den, den: b.num}
			n = -n
		}
		if powTerms(len(b.num.terms), n) > maxTerms || powTerms(len(b.den.terms), n) > maxTerms {
			return ratFunc{}, fmt.Errorf("%w: %s", ErrTooLarge, v)
		}
		return ratFunc{num: b.num.powInt(n), den: b.den.powInt(n)}, nil
	}
	return ratFunc{}, fmt.Errorf("%w: unsupported expression %v", ErrNotRational, e)
}

// add combines two fractions over the LCM of their denominators.
func (r ratFunc) add(o ratFunc) ratFunc {
	if r.num.isZero() {
		return o
	}
	if o.num.isZero() {
		return r
	}
	if r.den.equal(o.den) {
		return ratFunc{num: r.num.add(o.num), den: r.den}
	}
	l := polyLCM(r.den, o.den)
	fr, _ := exactDiv(l, r.den)
	fo, _ := exactDiv(l, o.den)
	return ratFunc{num: r.num.mul(fr).add(o.num.mul(fo)), den: l}
}

// cancel removes the GCD of numerator and denominator and moves the
// denominator's numeric content into the numerator. An inexact
// denominator is left monic.
func (r ratFunc) cancel() ratFunc {
	if r.num.isZero() {
		z := newPoly()
		z.inexact = r.num.inexact
		return ratFunc{num: z, den: onePoly()}
	}
	g := polyGCD(r.num, r.den)
	num, _ := exactDiv(r.num, g)
	den, _ := exactDiv(r.den, g)
	s, d := unitNormal(den)
	return ratFunc{num: num.scale(new(big.Rat).Inv(s)), den: d}
}

func (r ratFunc) toExpr() Expr {
	if r.den.isConst() {
		return r.num.scale(new(big.Rat).Inv(r.den.constValue())).toExpr()
	}
	return Quo(r.num.toExpr(), r.den.toExpr())
}

func toPoly(e Expr) (*poly, error) {
	r, err := toRat(e)
	if err != nil {
		return nil, err
	}
	if !r.den.isConst() {
		return nil, fmt.Errorf("%w: %s", ErrNotPolynomial, e)
	}
	return r.num.scale(new(big.Rat).Inv(r.den.constValue())), nil
}

// ============================================================
// Public rewriting API
// ============================================================

// Cancel brings e into the normal form p/q with p and q coprime and
// expanded, q carrying unit integer content and a positive lead. When e
// holds decimal constants q is monic instead.
func Cancel(e Expr) (Expr, error) {
	r, err := toRat(e)
	if err != nil {
		return nil, err
	}
	return r.cancel().toExpr(), nil
}

// AsNumerDenom returns the expanded numerator and denominator of e without
// cancelling common factors.
func AsNumerDenom(e Expr) (Expr, Expr, error) {
	r, err := toRat(e)
	if err != nil {
		return nil, nil, err
	}
	if r.num.isZero() {
		return N(0), N(1), nil
	}
	return r.num.toExpr(), r.den.toExpr(), nil
}

// Expand distributes products and integer powers. A non-polynomial e is
// returned as a sum of numerator terms over the common denominator.
func Expand(e Expr) (Expr, error) {
	r, err := toRat(e)
	if err != nil {
		return nil, err
	}
	if r.den.isConst() {
		return r.toExpr(), nil
	}
	den := r.den.toExpr()
	ts := r.num.sortedTerms()
	parts := make([]Expr, 0, len(ts))
	for _, t := range ts {
		single := newPoly()
		single.inexact = r.num.inexact
		single.addTerm(t.mono, t.coeff)
		parts = append(parts, DivOf(single.toExpr(), den))
	}
	return AddOf(parts...), nil
}

// Factor cancels e and writes numerator and denominator as numeric content
// times monomial content times the remaining primitive polynomial. Any
// variable dividing the numerator therefore shows up as a factor (or the
// base of a power factor) of the result.
func Factor(e Expr) (Expr, error) {
	r, err := toRat(e)
	if err != nil {
		return nil, err
	}
	r = r.cancel()
	num := factorPoly(r.num)
	if r.den.isOne() {
		return num, nil
	}
	return MulOf(num, PowOf(factorPoly(r.den), N(-1))), nil
}

func factorPoly(p *poly) Expr {
	if p.isZero() {
		return newNum(new(big.Rat), p.inexact)
	}
	s, q := intPrimitive(p)
	m := monomialContent(q)
	rest := divMonomial(q, m)
	fs := make([]Expr, 0, len(m)+2)
	fs = append(fs, newNum(s, p.inexact))
	for _, vp := range m {
		fs = append(fs, PowOf(S(vp.name), N(int64(vp.exp))))
	}
	fs = append(fs, rest.toExpr())
	return MulOf(fs...)
}

// GCD returns the normalized greatest common divisor of two polynomials.
func GCD(a, b Expr) (Expr, error) {
	pa, err := toPoly(a)
	if err != nil {
		return nil, err
	}
	pb, err := toPoly(b)
	if err != nil {
		return nil, err
	}
	return polyGCD(pa, pb).toExpr(), nil
}

// LCM returns the normalized least common multiple of two polynomials.
func LCM(a, b Expr) (Expr, error) {
	pa, err := toPoly(a)
	if err != nil {
		return nil, err
	}
	pb, err := toPoly(b)
	if err != nil {
		return nil, err
	}
	return polyLCM(pa, pb).toExpr(), nil
}

// Degree returns the total degree of e's numerator.
func Degree(e Expr) (int, error) {
	r, err := toRat(e)
	if err != nil {
		return 0, err
	}
	return r.num.totalDegree(), nil
}

// ============================================================
// Multivariate monomial decomposition
// ============================================================

// Term is one monomial of a polynomial decomposed with respect to a chosen
// variable list: Coeff (free of those variables) times Monomial.
type Term struct {
	Exponents []int
	Coeff     Expr
	Monomial  Expr
}

// Expr returns Coeff*Monomial.
func (t Term) Expr() Expr { return MulOf(t.Coeff, t.Monomial) }

// Monomials decomposes the polynomial e in vars. Terms sharing an exponent
// vector are collected; groups are returned in order of first occurrence
// in the polynomial's canonical term order.
func Monomials(e Expr, vars []string) ([]Term, error) {
	p, err := toPoly(e)
	if err != nil {
		return nil, err
	}
	type group struct {
		exps  []int
		coeff *poly
	}
	index := map[string]*group{}
	var order []*group
	for _, t := range p.sortedTerms() {
		exps := make([]int, len(vars))
		rest := t.mono
		for i, v := range vars {
			exps[i] = t.mono.degreeOf(v)
			rest = rest.without(v)
		}
		k := fmt.Sprint(exps)
		g, ok := index[k]
		if !ok {
			g = &group{exps: exps, coeff: newPoly()}
			g.coeff.inexact = p.inexact
			index[k] = g
			order = append(order, g)
		}
		g.coeff.addTerm(rest, t.coeff)
	}

	out := make([]Term, 0, len(order))
	for _, g := range order {
		if g.coeff.isZero() {
			continue
		}
		fs := make([]Expr, 0, len(vars))
		for i, v := range vars {
			fs = append(fs, PowOf(S(v), N(int64(g.exps[i]))))
		}
		out = append(out, Term{Exponents: g.exps, Coeff: g.coeff.toExpr(), Monomial: MulOf(fs...)})
	}
	return out, nil
}

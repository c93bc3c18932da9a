package expr

import (
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Sparse multivariate polynomials over Q
// ============================================================

type varPow struct {
	name string
	exp  int
}

// monomial is a product of variables, sorted by name, every exponent > 0.
type monomial []varPow

func (m monomial) key() string {
	var sb strings.Builder
	for i, vp := range m {
		if i > 0 {
			sb.WriteByte('*')
		}
		sb.WriteString(vp.name)
		sb.WriteByte('^')
		sb.WriteString(strconv.Itoa(vp.exp))
	}
	return sb.String()
}

func (m monomial) mul(o monomial) monomial {
	out := make(monomial, 0, len(m)+len(o))
	i, j := 0, 0
	for i < len(m) && j < len(o) {
		switch {
		case m[i].name < o[j].name:
			out = append(out, m[i])
			i++
		case m[i].name > o[j].name:
			out = append(out, o[j])
			j++
		default:
			out = append(out, varPow{name: m[i].name, exp: m[i].exp + o[j].exp})
			i++
			j++
		}
	}
	out = append(out, m[i:]...)
	return append(out, o[j:]...)
}

func (m monomial) degreeOf(v string) int {
	for _, vp := range m {
		if vp.name == v {
			return vp.exp
		}
	}
	return 0
}

// without drops v from the monomial.
func (m monomial) without(v string) monomial {
	out := make(monomial, 0, len(m))
	for _, vp := range m {
		if vp.name != v {
			out = append(out, vp)
		}
	}
	return out
}

func (m monomial) degree() int {
	d := 0
	for _, vp := range m {
		d += vp.exp
	}
	return d
}

type term struct {
	mono  monomial
	coeff *big.Rat
}

type poly struct {
	terms   map[string]term
	inexact bool
}

func newPoly() *poly { return &poly{terms: map[string]term{}} }

func constPoly(r *big.Rat, inexact bool) *poly {
	p := newPoly()
	p.inexact = inexact
	p.addTerm(nil, r)
	return p
}

func onePoly() *poly { return constPoly(big.NewRat(1, 1), false) }

func varPoly(name string, exp int) *poly {
	if exp == 0 {
		return onePoly()
	}
	p := newPoly()
	p.addTerm(monomial{{name: name, exp: exp}}, big.NewRat(1, 1))
	return p
}

// addTerm accumulates c*m into p in place; zero results are removed.
func (p *poly) addTerm(m monomial, c *big.Rat) {
	if c.Sign() == 0 {
		return
	}
	k := m.key()
	if t, ok := p.terms[k]; ok {
		sum := new(big.Rat).Add(t.coeff, c)
		if sum.Sign() == 0 {
			delete(p.terms, k)
			return
		}
		p.terms[k] = term{mono: t.mono, coeff: sum}
		return
	}
	p.terms[k] = term{mono: m, coeff: new(big.Rat).Set(c)}
}

func (p *poly) isZero() bool { return len(p.terms) == 0 }

func (p *poly) isConst() bool {
	if len(p.terms) == 0 {
		return true
	}
	_, ok := p.terms[""]
	return ok && len(p.terms) == 1
}

func (p *poly) constValue() *big.Rat {
	if t, ok := p.terms[""]; ok {
		return new(big.Rat).Set(t.coeff)
	}
	return new(big.Rat)
}

func (p *poly) isOne() bool {
	return p.isConst() && p.constValue().Cmp(big.NewRat(1, 1)) == 0
}

func (p *poly) equal(o *poly) bool {
	if len(p.terms) != len(o.terms) {
		return false
	}
	for k, t := range p.terms {
		ot, ok := o.terms[k]
		if !ok || t.coeff.Cmp(ot.coeff) != 0 {
			return false
		}
	}
	return true
}

func (p *poly) add(o *poly) *poly {
	out := newPoly()
	out.inexact = p.inexact || o.inexact
	for _, t := range p.terms {
		out.addTerm(t.mono, t.coeff)
	}
	for _, t := range o.terms {
		out.addTerm(t.mono, t.coeff)
	}
	return out
}

func (p *poly) neg() *poly { return p.scale(big.NewRat(-1, 1)) }

func (p *poly) sub(o *poly) *poly { return p.add(o.neg()) }

func (p *poly) scale(r *big.Rat) *poly {
	out := newPoly()
	out.inexact = p.inexact
	for _, t := range p.terms {
		out.addTerm(t.mono, new(big.Rat).Mul(t.coeff, r))
	}
	return out
}

func (p *poly) mul(o *poly) *poly {
	out := newPoly()
	out.inexact = p.inexact || o.inexact
	for _, a := range p.terms {
		for _, b := range o.terms {
			out.addTerm(a.mono.mul(b.mono), new(big.Rat).Mul(a.coeff, b.coeff))
		}
	}
	return out
}

func (p *poly) powInt(n int) *poly {
	out := onePoly()
	out.inexact = p.inexact
	base := p
	for n > 0 {
		if n&1 == 1 {
			out = out.mul(base)
		}
		n >>= 1
		if n > 0 {
			base = base.mul(base)
		}
	}
	return out
}

func (p *poly) vars() []string {
	seen := map[string]struct{}{}
	for _, t := range p.terms {
		for _, vp := range t.mono {
			seen[vp.name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (p *poly) has(v string) bool {
	for _, t := range p.terms {
		if t.mono.degreeOf(v) > 0 {
			return true
		}
	}
	return false
}

func (p *poly) degreeIn(v string) int {
	d := 0
	for _, t := range p.terms {
		if e := t.mono.degreeOf(v); e > d {
			d = e
		}
	}
	return d
}

func (p *poly) totalDegree() int {
	d := 0
	for _, t := range p.terms {
		if e := t.mono.degree(); e > d {
			d = e
		}
	}
	return d
}

// coeffsIn views p as a univariate polynomial in v and returns its nonzero
// coefficients keyed by degree. The coefficients do not contain v.
func (p *poly) coeffsIn(v string) map[int]*poly {
	out := map[int]*poly{}
	for _, t := range p.terms {
		d := t.mono.degreeOf(v)
		c, ok := out[d]
		if !ok {
			c = newPoly()
			c.inexact = p.inexact
			out[d] = c
		}
		c.addTerm(t.mono.without(v), t.coeff)
	}
	return out
}

func (p *poly) leadIn(v string) *poly { return p.coeffsIn(v)[p.degreeIn(v)] }

// sortedTerms returns the terms in a deterministic order: ascending total
// degree, then monomial key.
func (p *poly) sortedTerms() []term {
	out := make([]term, 0, len(p.terms))
	for _, t := range p.terms {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].mono.degree(), out[j].mono.degree()
		if di != dj {
			return di < dj
		}
		return out[i].mono.key() < out[j].mono.key()
	})
	return out
}

// leadCoeff is the coefficient of the lexicographically greatest monomial
// under the sorted variable order.
func (p *poly) leadCoeff() *big.Rat {
	vars := p.vars()
	var best *term
	for k := range p.terms {
		t := p.terms[k]
		if best == nil || lexGreater(t.mono, best.mono, vars) {
			best = &t
		}
	}
	if best == nil {
		return new(big.Rat)
	}
	return best.coeff
}

func lexGreater(a, b monomial, vars []string) bool {
	for _, v := range vars {
		da, db := a.degreeOf(v), b.degreeOf(v)
		if da != db {
			return da > db
		}
	}
	return false
}

// intPrimitive splits p into s*q where q has coprime integer coefficients
// and a positive leading coefficient.
func intPrimitive(p *poly) (*big.Rat, *poly) {
	if p.isZero() {
		return big.NewRat(1, 1), p
	}
	l := big.NewInt(1)
	for _, t := range p.terms {
		d := t.coeff.Denom()
		g := new(big.Int).GCD(nil, nil, l, d)
		l.Mul(l, new(big.Int).Quo(d, g))
	}
	g := new(big.Int)
	for _, t := range p.terms {
		n := new(big.Int).Mul(t.coeff.Num(), new(big.Int).Quo(l, t.coeff.Denom()))
		n.Abs(n)
		g.GCD(nil, nil, g, n)
	}
	s := new(big.Rat).SetFrac(g, l)
	if p.leadCoeff().Sign() < 0 {
		s.Neg(s)
	}
	return s, p.scale(new(big.Rat).Inv(s))
}

// unitNormal splits p into s*q with q in its displayed normal form. Exact
// polynomials use intPrimitive; inexact ones are made monic so decimal
// constants keep their scale.
func unitNormal(p *poly) (*big.Rat, *poly) {
	if !p.inexact || p.isZero() {
		return intPrimitive(p)
	}
	s := new(big.Rat).Set(p.leadCoeff())
	return s, p.scale(new(big.Rat).Inv(s))
}

func normalize(p *poly) *poly {
	_, q := intPrimitive(p)
	return q
}

// monomialContent is the largest monomial dividing every term of p.
func monomialContent(p *poly) monomial {
	var out monomial
	first := true
	for _, t := range p.terms {
		if first {
			out = append(monomial(nil), t.mono...)
			first = false
			continue
		}
		kept := out[:0]
		for _, vp := range out {
			if e := t.mono.degreeOf(vp.name); e > 0 {
				if e < vp.exp {
					vp.exp = e
				}
				kept = append(kept, vp)
			}
		}
		out = kept
	}
	return out
}

// divMonomial divides every term of p by m, which must divide them all.
func divMonomial(p *poly, m monomial) *poly {
	out := newPoly()
	out.inexact = p.inexact
	for _, t := range p.terms {
		q := make(monomial, 0, len(t.mono))
		for _, vp := range t.mono {
			if e := vp.exp - m.degreeOf(vp.name); e > 0 {
				q = append(q, varPow{name: vp.name, exp: e})
			}
		}
		out.addTerm(q, t.coeff)
	}
	return out
}

// toExpr converts p back into a canonical Expr.
func (p *poly) toExpr() Expr {
	ts := p.sortedTerms()
	parts := make([]Expr, 0, len(ts))
	for _, t := range ts {
		fs := make([]Expr, 0, len(t.mono)+1)
		fs = append(fs, newNum(t.coeff, p.inexact))
		for _, vp := range t.mono {
			fs = append(fs, PowOf(S(vp.name), N(int64(vp.exp))))
		}
		parts = append(parts, MulOf(fs...))
	}
	return AddOf(parts...)
}

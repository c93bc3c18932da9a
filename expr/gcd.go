package expr

import (
	"math/big"
	"sort"
)

// ============================================================
// Exact division, content and GCD
// ============================================================

// exactDiv returns a/b when b divides a exactly. The division is carried out
// recursively: as univariate long division in b's first variable, with the
// leading coefficients divided in the remaining variables.
func exactDiv(a, b *poly) (*poly, bool) {
	if b.isZero() {
		return nil, false
	}
	if a.isZero() {
		return newPoly(), true
	}
	if b.isConst() {
		return a.scale(new(big.Rat).Inv(b.constValue())), true
	}
	v := b.vars()[0]
	m := b.degreeIn(v)
	lb := b.leadIn(v)

	q := newPoly()
	q.inexact = a.inexact || b.inexact
	r := a
	for !r.isZero() {
		n := r.degreeIn(v)
		if n < m {
			return nil, false
		}
		t, ok := exactDiv(r.leadIn(v), lb)
		if !ok {
			return nil, false
		}
		t = t.mul(varPoly(v, n-m))
		q = q.add(t)
		r = r.sub(t.mul(b))
	}
	return q, true
}

// pseudoRem returns the pseudo-remainder of a by b with respect to v.
func pseudoRem(a, b *poly, v string) *poly {
	m := b.degreeIn(v)
	lb := b.leadIn(v)
	r := a
	for !r.isZero() {
		n := r.degreeIn(v)
		if n < m {
			break
		}
		lr := r.leadIn(v)
		r = r.mul(lb).sub(b.mul(lr).mul(varPoly(v, n-m)))
	}
	return r
}

// contentIn is the GCD of p's coefficients viewed as a polynomial in v.
func contentIn(p *poly, v string) *poly {
	cs := p.coeffsIn(v)
	var g *poly
	for d := p.degreeIn(v); d >= 0; d-- {
		c, ok := cs[d]
		if !ok {
			continue
		}
		if g == nil {
			g = normalize(c)
		} else {
			g = polyGCD(g, c)
		}
		if g.isConst() {
			return onePoly()
		}
	}
	if g == nil {
		return onePoly()
	}
	return g
}

func primitiveIn(p *poly, v string) *poly {
	q, ok := exactDiv(p, contentIn(p, v))
	if !ok {
		panic("expr: content does not divide polynomial")
	}
	return normalize(q)
}

// polyGCD computes the GCD over Q with the recursive primitive PRS. The
// result is normalized: coprime integer coefficients, positive lead.
func polyGCD(a, b *poly) *poly {
	switch {
	case a.isZero() && b.isZero():
		return onePoly()
	case a.isZero():
		return normalize(b)
	case b.isZero():
		return normalize(a)
	case a.isConst() || b.isConst():
		return onePoly()
	}

	v := unionVars(a, b)[0]
	if !a.has(v) {
		return polyGCD(a, contentIn(b, v))
	}
	if !b.has(v) {
		return polyGCD(contentIn(a, v), b)
	}

	c := polyGCD(contentIn(a, v), contentIn(b, v))
	pa, pb := primitiveIn(a, v), primitiveIn(b, v)
	if pa.degreeIn(v) < pb.degreeIn(v) {
		pa, pb = pb, pa
	}
	for {
		r := pseudoRem(pa, pb, v)
		if r.isZero() {
			break
		}
		if r.degreeIn(v) == 0 {
			pb = onePoly()
			break
		}
		pa, pb = pb, primitiveIn(r, v)
	}
	return normalize(c.mul(pb))
}

func polyLCM(a, b *poly) *poly {
	if a.isZero() || b.isZero() {
		return newPoly()
	}
	q, ok := exactDiv(a.mul(b), polyGCD(a, b))
	if !ok {
		panic("expr: gcd does not divide product")
	}
	_, q = unitNormal(q)
	return q
}

func unionVars(a, b *poly) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range []*poly{a, b} {
		for _, v := range p.vars() {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	}
	sort.Strings(out)
	return out
}

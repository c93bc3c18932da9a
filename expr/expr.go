// Package expr provides the deterministic symbolic kernel used by the
// reaction engine: exact rational numbers, symbols, sums, products and
// powers, plus rational-function normal forms over multivariate polynomials.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat); float literals are tracked
//     as inexact numbers but still computed exactly
//   - Constructors auto-simplify, so every Expr value is already canonical
//     enough to be compared with Equal
//   - Heavy rewriting (Cancel, Factor, Expand, LCM) goes through a sparse
//     polynomial representation and back
package expr

import (
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	String() string
	LaTeX() string
	Equal(other Expr) bool
	exprType() string
}

// ============================================================
// Num: exact rational number
// ============================================================

// Num is an exact rational. Numbers parsed from decimal literals are marked
// inexact; the flag survives arithmetic so callers can tell a float rate
// constant from an exact one.
type Num struct {
	val     *big.Rat
	inexact bool
}

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("expr: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat returns an inexact number. f must be finite.
func NFloat(f float64) *Num {
	r := new(big.Rat)
	if r.SetFloat64(f) == nil {
		panic("expr: non-finite float")
	}
	return &Num{val: r, inexact: true}
}

func newNum(r *big.Rat, inexact bool) *Num { return &Num{val: new(big.Rat).Set(r), inexact: inexact} }

func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string      { return "num" }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }
func (n *Num) IsInexact() bool       { return n.inexact }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }

func (n *Num) String() string {
	if n.inexact {
		return strconv.FormatFloat(n.Float64(), 'g', -1, 64)
	}
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.inexact || n.val.IsInt() {
		return n.String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return sign + "\\frac{" + v.Num().String() + "}{" + v.Denom().String() + "}"
}

func numAdd(a, b *Num) *Num {
	return &Num{val: new(big.Rat).Add(a.val, b.val), inexact: a.inexact || b.inexact}
}
func numMul(a, b *Num) *Num {
	return &Num{val: new(big.Rat).Mul(a.val, b.val), inexact: a.inexact || b.inexact}
}
func numNeg(a *Num) *Num { return &Num{val: new(big.Rat).Neg(a.val), inexact: a.inexact} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("expr: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val), inexact: a.inexact}
}

// maxNumPow bounds eager evaluation of integer powers of numbers.
const maxNumPow = 1 << 12

func numPowInt(a *Num, e int64) *Num {
	neg := e < 0
	if neg {
		e = -e
	}
	x := big.NewInt(e)
	num := new(big.Int).Exp(a.val.Num(), x, nil)
	den := new(big.Int).Exp(a.val.Denom(), x, nil)
	r := &Num{val: new(big.Rat).SetFrac(num, den), inexact: a.inexact}
	if neg {
		return numRecip(r)
	}
	return r
}

// ============================================================
// Sym: symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym             { return &Sym{name: name} }
func (s *Sym) String() string        { return s.name }
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) Name() string          { return s.name }

// LaTeX renders "k_1" as "k_{1}".
func (s *Sym) LaTeX() string {
	if i := strings.IndexByte(s.name, '_'); i > 0 && i < len(s.name)-1 {
		return s.name[:i] + "_{" + s.name[i+1:] + "}"
	}
	return s.name
}

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

// AddOf flattens nested sums, folds numbers and combines terms that differ
// only by a numeric coefficient. Terms are ordered by their non-numeric part
// with the constant last.
func AddOf(terms ...Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	for _, t := range terms {
		if inner, ok := t.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, t)
		}
	}

	type like struct {
		coeff *Num
		rest  Expr
		key   string
	}
	numAccum := N(0)
	index := map[string]*like{}
	groups := []*like{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, v)
			continue
		}
		c, rest := splitCoeff(t)
		key := rest.String()
		if g, seen := index[key]; seen {
			g.coeff = numAdd(g.coeff, c)
			continue
		}
		g := &like{coeff: c, rest: rest, key: key}
		index[key] = g
		groups = append(groups, g)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].key < groups[j].key })

	result := make([]Expr, 0, len(groups)+1)
	for _, g := range groups {
		if g.coeff.IsZero() {
			continue
		}
		result = append(result, withCoeff(g.coeff, g.rest))
	}
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}
	switch len(result) {
	case 0:
		return N(0)
	case 1:
		return result[0]
	}
	return &Add{terms: result}
}

// splitCoeff separates the leading numeric factor of a canonical term.
func splitCoeff(e Expr) (*Num, Expr) {
	m, ok := e.(*Mul)
	if !ok {
		return N(1), e
	}
	c, ok := m.factors[0].(*Num)
	if !ok {
		return N(1), e
	}
	if len(m.factors) == 2 {
		return c, m.factors[1]
	}
	return c, &Mul{factors: m.factors[1:]}
}

func withCoeff(c *Num, rest Expr) Expr {
	if c.IsOne() {
		return rest
	}
	if m, ok := rest.(*Mul); ok {
		return &Mul{factors: append([]Expr{c}, m.factors...)}
	}
	return &Mul{factors: []Expr{c, rest}}
}

func (a *Add) String() string {
	var sb strings.Builder
	for i, t := range a.terms {
		s := t.String()
		switch {
		case i == 0:
			sb.WriteString(s)
		case strings.HasPrefix(s, "-"):
			sb.WriteString(" - ")
			sb.WriteString(s[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

func (a *Add) LaTeX() string {
	var sb strings.Builder
	for i, t := range a.terms {
		s := t.LaTeX()
		switch {
		case i == 0:
			sb.WriteString(s)
		case strings.HasPrefix(s, "-"):
			sb.WriteString(" - ")
			sb.WriteString(s[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) exprType() string { return "add" }
func (a *Add) Terms() []Expr    { return append([]Expr(nil), a.terms...) }

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

// MulOf flattens nested products, distributes integer powers over products,
// folds numbers into a leading coefficient and merges equal bases whose
// exponents are numeric.
func MulOf(factors ...Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	var push func(e Expr)
	push = func(e Expr) {
		switch v := e.(type) {
		case *Mul:
			for _, f := range v.factors {
				push(f)
			}
		case *Pow:
			en, ok := v.exp.(*Num)
			if m, isMul := v.base.(*Mul); isMul && ok && en.IsInteger() {
				for _, f := range m.factors {
					push(PowOf(f, en))
				}
				return
			}
			flat = append(flat, e)
		default:
			flat = append(flat, e)
		}
	}
	for _, f := range factors {
		push(f)
	}

	type power struct {
		base Expr
		exp  *Num
		key  string
	}
	coeff := N(1)
	index := map[string]*power{}
	powers := []*power{}
	others := []Expr{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := baseExp(f)
		en, ok := exp.(*Num)
		if !ok {
			others = append(others, f)
			continue
		}
		key := base.String()
		if p, seen := index[key]; seen {
			p.exp = numAdd(p.exp, en)
			continue
		}
		p := &power{base: base, exp: en, key: key}
		index[key] = p
		powers = append(powers, p)
	}
	if coeff.IsZero() {
		return coeff
	}

	out := make([]Expr, 0, len(powers)+len(others))
	for _, p := range powers {
		if p.exp.IsZero() {
			continue
		}
		f := PowOf(p.base, p.exp)
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		out = append(out, f)
	}
	out = append(out, others...)

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e        Expr
		key, alt string
	}
	ks := make([]keyed, len(out))
	for i, e := range out {
		b, _ := baseExp(e)
		ks[i] = keyed{e: e, key: b.String(), alt: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].key != ks[j].key {
			return ks[i].key < ks[j].key
		}
		return ks[i].alt < ks[j].alt
	})
	sorted := make([]Expr, len(ks))
	for i := range ks {
		sorted[i] = ks[i].e
	}

	if len(sorted) == 0 {
		return coeff
	}
	if coeff.IsOne() {
		if len(sorted) == 1 {
			return sorted[0]
		}
		return &Mul{factors: sorted}
	}
	return &Mul{factors: append([]Expr{coeff}, sorted...)}
}

func baseExp(e Expr) (Expr, Expr) {
	if p, ok := e.(*Pow); ok {
		return p.base, p.exp
	}
	return e, N(1)
}

func (m *Mul) String() string {
	num, den, sign := m.split(func(e Expr) string {
		if _, ok := e.(*Add); ok {
			return "(" + e.String() + ")"
		}
		return e.String()
	}, powString)
	s := strings.Join(num, "*")
	if s == "" {
		s = "1"
	}
	if len(den) == 1 {
		s += "/" + den[0]
	} else if len(den) > 1 {
		s += "/(" + strings.Join(den, "*") + ")"
	}
	return sign + s
}

func (m *Mul) LaTeX() string {
	num, den, sign := m.split(func(e Expr) string {
		if _, ok := e.(*Add); ok {
			return "\\left(" + e.LaTeX() + "\\right)"
		}
		return e.LaTeX()
	}, powLaTeX)
	s := strings.Join(num, " ")
	if s == "" {
		s = "1"
	}
	if len(den) > 0 {
		s = "\\frac{" + s + "}{" + strings.Join(den, " ") + "}"
	}
	return sign + s
}

// split partitions the factors into numerator and denominator renderings.
// Exact fractional coefficients contribute their denominator too.
func (m *Mul) split(render func(Expr) string, renderPow func(Expr, *Num) string) (num, den []string, sign string) {
	for _, f := range m.factors {
		switch v := f.(type) {
		case *Num:
			if v.IsNegative() {
				sign = "-"
				v = numNeg(v)
			}
			if v.IsOne() {
				continue
			}
			if !v.inexact && !v.IsInteger() {
				if p := v.val.Num(); !p.IsInt64() || p.Int64() != 1 {
					num = append(num, p.String())
				}
				den = append(den, v.val.Denom().String())
				continue
			}
			num = append(num, render(v))
		case *Pow:
			if en, ok := v.exp.(*Num); ok && en.IsNegative() {
				den = append(den, renderPow(v.base, numNeg(en)))
				continue
			}
			num = append(num, render(v))
		default:
			num = append(num, render(f))
		}
	}
	return num, den, sign
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) Factors() []Expr  { return append([]Expr(nil), m.factors...) }

// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr {
	en, expIsNum := exp.(*Num)
	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}
	if bn, ok := base.(*Num); ok {
		if bn.IsOne() {
			return bn
		}
		if bn.IsZero() {
			// 0^negative stays unevaluated; converting it to a rational
			// function reports the division by zero.
			if expIsNum && en.IsNegative() {
				return &Pow{base: base, exp: exp}
			}
			if expIsNum {
				return bn
			}
		}
		if expIsNum && en.IsInteger() {
			e := en.val.Num()
			if e.IsInt64() && e.Int64() <= maxNumPow && e.Int64() >= -maxNumPow {
				return numPowInt(bn, e.Int64())
			}
		}
	}
	if expIsNum && en.IsInteger() {
		switch b := base.(type) {
		case *Pow:
			return PowOf(b.base, MulOf(b.exp, en))
		case *Mul:
			fs := make([]Expr, len(b.factors))
			for i, f := range b.factors {
				fs[i] = PowOf(f, en)
			}
			return MulOf(fs...)
		}
	}
	return &Pow{base: base, exp: exp}
}

func (p *Pow) String() string {
	if en, ok := p.exp.(*Num); ok {
		if en.IsNegative() {
			return "1/" + powString(p.base, numNeg(en))
		}
		return powString(p.base, en)
	}
	return wrapBase(p.base, p.base.String()) + "^(" + p.exp.String() + ")"
}

func (p *Pow) LaTeX() string {
	if en, ok := p.exp.(*Num); ok {
		if en.IsNegative() {
			return "\\frac{1}{" + powLaTeX(p.base, numNeg(en)) + "}"
		}
		return powLaTeX(p.base, en)
	}
	return wrapBaseLaTeX(p.base) + "^{" + p.exp.LaTeX() + "}"
}

func powString(base Expr, exp *Num) string {
	b := wrapBase(base, base.String())
	if exp.IsOne() {
		return b
	}
	if exp.IsInteger() && !exp.inexact {
		return b + "^" + exp.String()
	}
	return b + "^(" + exp.String() + ")"
}

func powLaTeX(base Expr, exp *Num) string {
	b := wrapBaseLaTeX(base)
	if exp.IsOne() {
		return b
	}
	return b + "^{" + exp.LaTeX() + "}"
}

func wrapBase(base Expr, s string) string {
	switch v := base.(type) {
	case *Add, *Mul, *Pow:
		return "(" + s + ")"
	case *Num:
		if v.IsNegative() || !v.IsInteger() {
			return "(" + s + ")"
		}
	}
	return s
}

func wrapBaseLaTeX(base Expr) string {
	switch base.(type) {
	case *Add, *Mul, *Pow:
		return "\\left(" + base.LaTeX() + "\\right)"
	}
	return base.LaTeX()
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) Base() Expr       { return p.base }
func (p *Pow) ExpExpr() Expr    { return p.exp }

// ============================================================
// Arithmetic helpers
// ============================================================

func Neg(e Expr) Expr        { return MulOf(N(-1), e) }
func SubOf(a, b Expr) Expr   { return AddOf(a, Neg(b)) }
func DivOf(a, b Expr) Expr   { return MulOf(a, PowOf(b, N(-1))) }
func String(e Expr) string   { return e.String() }
func LaTeX(e Expr) string    { return e.LaTeX() }
func powNeg1(base Expr) Expr { return &Pow{base: base, exp: N(-1)} }

// Quo builds num/den without merging factors across the fraction bar, so
// AsNumerDenom recovers den exactly. Numeric denominators are folded.
func Quo(num, den Expr) Expr {
	if dn, ok := den.(*Num); ok {
		return MulOf(num, numRecip(dn))
	}
	switch v := num.(type) {
	case *Num:
		if v.IsZero() {
			return v
		}
		if v.IsOne() {
			return powNeg1(den)
		}
		return &Mul{factors: []Expr{v, powNeg1(den)}}
	case *Mul:
		return &Mul{factors: append(append([]Expr(nil), v.factors...), powNeg1(den))}
	}
	return &Mul{factors: []Expr{num, powNeg1(den)}}
}

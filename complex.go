package crn

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/njchilds90/gocrn/expr"
)

// ============================================================
// Complex: stoichiometric multiset of species
// ============================================================

// Complex maps species to positive integer coefficients. Methods never
// leave a zero entry behind; a species is either present or absent.
type Complex map[string]int

// ParseComplex reads "2A + B" style complexes. The empty string and "0"
// denote the empty complex. Coefficients may be written "2A", "2 A" or
// "2*A"; repeated species accumulate.
func ParseComplex(s string) (Complex, error) {
	c := Complex{}
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return c, nil
	}
	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		i := 0
		for i < len(part) && part[i] >= '0' && part[i] <= '9' {
			i++
		}
		n := 1
		if i > 0 {
			v, err := strconv.Atoi(part[:i])
			if err != nil {
				return nil, fmt.Errorf("%w: coefficient in %q: %v", ErrInvalidComplex, part, err)
			}
			n = v
		}
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part[i:]), "*"))
		if !validSpecies(name) {
			return nil, fmt.Errorf("%w: bad species in %q", ErrInvalidComplex, part)
		}
		c.Increment(name, n)
	}
	return c, nil
}

func validSpecies(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// Clone returns a copy without zero or negative entries.
func (c Complex) Clone() Complex {
	out := make(Complex, len(c))
	for s, n := range c {
		if n > 0 {
			out[s] = n
		}
	}
	return out
}

func (c Complex) Get(species string) int { return c[species] }
func (c Complex) Has(species string) bool { return c[species] > 0 }

// Add returns the element-wise sum.
func (c Complex) Add(o Complex) Complex {
	out := c.Clone()
	for s, n := range o {
		out.Increment(s, n)
	}
	return out
}

// Sub returns the element-wise difference clipped at zero.
func (c Complex) Sub(o Complex) Complex {
	out := Complex{}
	for s, n := range c {
		if d := n - o[s]; d > 0 {
			out[s] = d
		}
	}
	return out
}

// Intersect returns the element-wise minimum.
func (c Complex) Intersect(o Complex) Complex {
	out := Complex{}
	for s, n := range c {
		m := o[s]
		if n < m {
			m = n
		}
		if m > 0 {
			out[s] = m
		}
	}
	return out
}

// Increment adds n to the coefficient of species in place.
func (c Complex) Increment(species string, n int) {
	if n <= 0 {
		return
	}
	c[species] += n
}

// Decrement removes n from the coefficient of species in place, deleting
// the entry when it reaches zero.
func (c Complex) Decrement(species string, n int) error {
	have := c[species]
	if n > have {
		return fmt.Errorf("%w: %s has %d, need %d", ErrStoichiometryUnderflow, species, have, n)
	}
	if have == n {
		delete(c, species)
		return nil
	}
	c[species] = have - n
	return nil
}

func (c Complex) Equal(o Complex) bool {
	a, b := c.Clone(), o.Clone()
	if len(a) != len(b) {
		return false
	}
	for s, n := range a {
		if b[s] != n {
			return false
		}
	}
	return true
}

// Species returns the species with a positive coefficient, sorted.
func (c Complex) Species() []string {
	out := make([]string, 0, len(c))
	for s, n := range c {
		if n > 0 {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// MA is the mass-action monomial: the product of species^coefficient.
func (c Complex) MA() expr.Expr {
	fs := make([]expr.Expr, 0, len(c))
	for _, s := range c.Species() {
		fs = append(fs, expr.PowOf(expr.S(s), expr.N(int64(c[s]))))
	}
	return expr.MulOf(fs...)
}

// Expr is the complex as a linear combination of species symbols.
func (c Complex) Expr() expr.Expr {
	ts := make([]expr.Expr, 0, len(c))
	for _, s := range c.Species() {
		ts = append(ts, expr.MulOf(expr.N(int64(c[s])), expr.S(s)))
	}
	return expr.AddOf(ts...)
}

// String renders "2A + B"; the empty complex renders as "".
func (c Complex) String() string {
	parts := make([]string, 0, len(c))
	for _, s := range c.Species() {
		if n := c[s]; n == 1 {
			parts = append(parts, s)
		} else {
			parts = append(parts, strconv.Itoa(n)+s)
		}
	}
	return strings.Join(parts, " + ")
}

// token renders the complex as an identifier fragment for derived ids.
func (c Complex) token() string {
	s := strings.ReplaceAll(c.String(), " ", "")
	s = strings.ReplaceAll(s, "+", "_")
	return strings.ReplaceAll(s, "-", "m")
}

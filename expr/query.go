package expr

import "sort"

// ============================================================
// Structural queries
// ============================================================

func IsSum(e Expr) bool     { _, ok := e.(*Add); return ok }
func IsProduct(e Expr) bool { _, ok := e.(*Mul); return ok }
func IsPow(e Expr) bool     { _, ok := e.(*Pow); return ok }
func IsNumber(e Expr) bool  { _, ok := e.(*Num); return ok }
func IsSymbol(e Expr) bool  { _, ok := e.(*Sym); return ok }

// IsFloat reports whether e is an inexact number.
func IsFloat(e Expr) bool { n, ok := e.(*Num); return ok && n.inexact }

func IsZero(e Expr) bool { n, ok := e.(*Num); return ok && n.IsZero() }
func IsOne(e Expr) bool  { n, ok := e.(*Num); return ok && n.IsOne() }

// SymbolName returns the name of a symbol, or "" for anything else.
func SymbolName(e Expr) string {
	if s, ok := e.(*Sym); ok {
		return s.name
	}
	return ""
}

// Operands returns the terms of a sum, the factors of a product, base and
// exponent of a power, or nil for atoms.
func Operands(e Expr) []Expr {
	switch v := e.(type) {
	case *Add:
		return v.Terms()
	case *Mul:
		return v.Factors()
	case *Pow:
		return []Expr{v.base, v.exp}
	}
	return nil
}

// Base returns the base of a power, or e itself.
func Base(e Expr) Expr { b, _ := baseExp(e); return b }

// Exponent returns the exponent of a power, or 1.
func Exponent(e Expr) Expr { _, x := baseExp(e); return x }

// IntExponent returns the exponent of e as an int when it is a small integer.
func IntExponent(e Expr) (int, bool) {
	n, ok := Exponent(e).(*Num)
	if !ok || !n.IsInteger() || !n.val.Num().IsInt64() {
		return 0, false
	}
	x := n.val.Num().Int64()
	if x > maxRatPow || x < -maxRatPow {
		return 0, false
	}
	return int(x), true
}

// FreeSymbols returns the sorted names of all symbols in e.
func FreeSymbols(e Expr) []string {
	seen := map[string]struct{}{}
	var walk func(Expr)
	walk = func(x Expr) {
		if s, ok := x.(*Sym); ok {
			seen[s.name] = struct{}{}
			return
		}
		for _, o := range Operands(x) {
			walk(o)
		}
	}
	walk(e)
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Has reports whether the symbol name occurs in e.
func Has(e Expr, name string) bool {
	for _, n := range FreeSymbols(e) {
		if n == name {
			return true
		}
	}
	return false
}

package expr

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ErrParse is wrapped by every error returned from Parse.
var ErrParse = errors.New("expr: parse error")

// ============================================================
// Parser
// ============================================================

// Parse reads an infix expression over numbers and identifiers.
//
// Grammar:
//
//	expr  = term { ("+" | "-") term }
//	term  = unary { ("*" | "/") unary }
//	unary = ("+" | "-") unary | power
//	power = atom [ ("^" | "**") unary ]
//	atom  = number | ident | "(" expr ")"
//
// Integer literals are exact; literals with a decimal point or an exponent
// are inexact.
func Parse(s string) (Expr, error) {
	p := &parser{src: s}
	p.next()
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected %q", p.tok.text)
	}
	return e, nil
}

// MustParse is Parse that panics on error; intended for tests and literals.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	text string
	pos  int
}

type parser struct {
	src string
	pos int
	tok token
	err error
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w at offset %d: %s", ErrParse, p.tok.pos, fmt.Sprintf(format, args...))
}

func (p *parser) next() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
	start := p.pos
	if p.pos >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}
	c := p.src[p.pos]
	switch {
	case c >= '0' && c <= '9' || c == '.':
		p.pos++
		for p.pos < len(p.src) {
			c := p.src[p.pos]
			if c >= '0' && c <= '9' || c == '.' {
				p.pos++
				continue
			}
			if (c == 'e' || c == 'E') && p.pos+1 < len(p.src) {
				n := p.src[p.pos+1]
				if n >= '0' && n <= '9' {
					p.pos += 2
					continue
				}
				if (n == '+' || n == '-') && p.pos+2 < len(p.src) && p.src[p.pos+2] >= '0' && p.src[p.pos+2] <= '9' {
					p.pos += 3
					continue
				}
			}
			break
		}
		p.tok = token{kind: tokNum, text: p.src[start:p.pos], pos: start}
	case isIdentStart(c):
		p.pos++
		for p.pos < len(p.src) {
			c := p.src[p.pos]
			if isIdentStart(c) || c >= '0' && c <= '9' {
				p.pos++
				continue
			}
			break
		}
		p.tok = token{kind: tokIdent, text: p.src[start:p.pos], pos: start}
	case c == '(':
		p.pos++
		p.tok = token{kind: tokLParen, text: "(", pos: start}
	case c == ')':
		p.pos++
		p.tok = token{kind: tokRParen, text: ")", pos: start}
	case c == '*' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '*':
		p.pos += 2
		p.tok = token{kind: tokOp, text: "^", pos: start}
	case strings.IndexByte("+-*/^", c) >= 0:
		p.pos++
		p.tok = token{kind: tokOp, text: string(c), pos: start}
	default:
		p.pos++
		p.tok = token{kind: tokOp, text: string(c), pos: start}
		p.err = fmt.Errorf("%w at offset %d: unexpected character %q", ErrParse, start, c)
	}
}

func (p *parser) isOp(op string) bool { return p.tok.kind == tokOp && p.tok.text == op }

func (p *parser) expr() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.tok.text
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		if op == "+" {
			left = AddOf(left, right)
		} else {
			left = SubOf(left, right)
		}
	}
	return left, nil
}

func (p *parser) term() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*") || p.isOp("/") {
		op := p.tok.text
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op == "*" {
			left = MulOf(left, right)
			continue
		}
		if n, ok := right.(*Num); ok && n.IsZero() {
			return nil, p.errorf("division by zero")
		}
		left = DivOf(left, right)
	}
	return left, nil
}

func (p *parser) unary() (Expr, error) {
	if p.isOp("-") {
		p.next()
		e, err := p.unary()
		if err != nil {
			return nil, err
		}
		return Neg(e), nil
	}
	if p.isOp("+") {
		p.next()
		return p.unary()
	}
	return p.power()
}

func (p *parser) power() (Expr, error) {
	base, err := p.atom()
	if err != nil {
		return nil, err
	}
	if p.isOp("^") {
		p.next()
		exp, err := p.unary()
		if err != nil {
			return nil, err
		}
		if bn, ok := base.(*Num); ok && bn.IsZero() {
			if en, ok := exp.(*Num); ok && en.IsNegative() {
				return nil, p.errorf("division by zero")
			}
		}
		return PowOf(base, exp), nil
	}
	return base, nil
}

func (p *parser) atom() (Expr, error) {
	if p.err != nil {
		return nil, p.err
	}
	switch p.tok.kind {
	case tokNum:
		text := p.tok.text
		n, err := parseNumber(text)
		if err != nil {
			return nil, p.errorf("%v", err)
		}
		p.next()
		return n, nil
	case tokIdent:
		name := p.tok.text
		p.next()
		return S(name), nil
	case tokLParen:
		p.next()
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, p.errorf("expected )")
		}
		p.next()
		return e, nil
	case tokEOF:
		return nil, p.errorf("unexpected end of input")
	}
	return nil, p.errorf("unexpected %q", p.tok.text)
}

func parseNumber(text string) (*Num, error) {
	if !strings.ContainsAny(text, ".eE") {
		i, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return nil, fmt.Errorf("bad integer %q", text)
		}
		return &Num{val: new(big.Rat).SetInt(i)}, nil
	}
	// the float parse bounds the exponent; the value itself is kept exact
	// so 0.1 stays 1/10
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return nil, fmt.Errorf("bad number %q", text)
	}
	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return nil, fmt.Errorf("bad number %q", text)
	}
	return &Num{val: r, inexact: true}, nil
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isIdentStart(c byte) bool { return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

package main

// A minimal expression grammar for the REPL: integer literals, identifiers
// (host i32 variables), and the binary operators + - * / % min max with
// standard precedence and parentheses. Just enough surface syntax to drive
// the rewrite engine interactively; nowhere near a real frontend.

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/zhulingfeng1993/irrewrite/ir"
)

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokInt
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokKind
	text string
}

func lex(src string) ([]token, error) {
	var toks []token
	r := []rune(src)
	i := 0
	for i < len(r) {
		c := r[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '+':
			toks = append(toks, token{tokPlus, "+"})
			i++
		case c == '-':
			toks = append(toks, token{tokMinus, "-"})
			i++
		case c == '*':
			toks = append(toks, token{tokStar, "*"})
			i++
		case c == '/':
			toks = append(toks, token{tokSlash, "/"})
			i++
		case c == '%':
			toks = append(toks, token{tokPercent, "%"})
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case c == ',':
			toks = append(toks, token{tokComma, ","})
			i++
		case unicode.IsDigit(c):
			j := i
			for j < len(r) && unicode.IsDigit(r[j]) {
				j++
			}
			toks = append(toks, token{tokInt, string(r[i:j])})
			i = j
		case unicode.IsLetter(c) || c == '_':
			j := i
			for j < len(r) && (unicode.IsLetter(r[j]) || unicode.IsDigit(r[j]) || r[j] == '_') {
				j++
			}
			toks = append(toks, token{tokIdent, string(r[i:j])})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q", c)
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks, nil
}

type parser struct {
	toks []token
	pos  int
	vars map[string]ir.Node
}

func newParser(toks []token) *parser {
	return &parser{toks: toks, vars: map[string]ir.Node{}}
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokKind, what string) error {
	if p.peek().kind != k {
		return fmt.Errorf("expected %s, got %q", what, p.peek().text)
	}
	p.next()
	return nil
}

// parseExpr parses src into an ir.Node over 32-bit signed scalars, tracking
// free identifiers as host variables in p.vars.
func parseExpr(src string) (ir.Node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := newParser(toks)
	n, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("unexpected trailing input at %q", p.peek().text)
	}
	return n, nil
}

func (p *parser) parseAddSub() (ir.Node, error) {
	lhs, err := p.parseMulDiv()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			rhs, err := p.parseMulDiv()
			if err != nil {
				return nil, err
			}
			lhs = ir.MakeAdd(lhs, rhs)
		case tokMinus:
			p.next()
			rhs, err := p.parseMulDiv()
			if err != nil {
				return nil, err
			}
			lhs = ir.MakeSub(lhs, rhs)
		default:
			return lhs, nil
		}
	}
}

func (p *parser) parseMulDiv() (ir.Node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokStar:
			p.next()
			rhs, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			lhs = ir.MakeMul(lhs, rhs)
		case tokSlash:
			p.next()
			rhs, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			lhs = ir.MakeDiv(lhs, rhs)
		case tokPercent:
			p.next()
			rhs, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			lhs = ir.MakeMod(lhs, rhs)
		default:
			return lhs, nil
		}
	}
}

func (p *parser) parseUnary() (ir.Node, error) {
	if p.peek().kind == tokMinus {
		p.next()
		v, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ir.MakeSub(ir.MakeIntImm(0, v.Type()), v), nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (ir.Node, error) {
	t := p.peek()
	switch t.kind {
	case tokInt:
		p.next()
		v, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, err
		}
		return ir.MakeIntImm(v, ir.Scalar(ir.Int, 32)), nil
	case tokIdent:
		p.next()
		name := t.text
		if p.peek().kind == tokLParen && (name == "min" || name == "max") {
			p.next()
			a, err := p.parseAddSub()
			if err != nil {
				return nil, err
			}
			if err := p.expect(tokComma, ","); err != nil {
				return nil, err
			}
			b, err := p.parseAddSub()
			if err != nil {
				return nil, err
			}
			if err := p.expect(tokRParen, ")"); err != nil {
				return nil, err
			}
			if name == "min" {
				return ir.MakeMin(a, b), nil
			}
			return ir.MakeMax(a, b), nil
		}
		if v, ok := p.vars[name]; ok {
			return v, nil
		}
		v := ir.MakeVar(name, ir.Scalar(ir.Int, 32))
		p.vars[name] = v
		return v, nil
	case tokLParen:
		p.next()
		n, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unexpected token %q", t.text)
	}
}

func formatNode(n ir.Node) string { return strings.TrimSpace(n.String()) }

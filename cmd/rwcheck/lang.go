package main

// A minimal expression grammar shared in spirit with cmd/rwrepl's: integers,
// identifiers, + - * over 32-bit signed scalars. Kept deliberately smaller
// here since -expr is a convenience flag, not the point of this tool.

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/zhulingfeng1993/irrewrite/ir"
	"github.com/zhulingfeng1993/irrewrite/rw"
)

func parseExprStandalone(src string) (ir.Node, error) {
	toks, err := lexStandalone(src)
	if err != nil {
		return nil, err
	}
	p := &standaloneParser{toks: toks, vars: map[string]ir.Node{}}
	n, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}
	if p.peek() != "" {
		return nil, fmt.Errorf("unexpected trailing input at %q", p.peek())
	}
	return n, nil
}

func lexStandalone(src string) ([]string, error) {
	var toks []string
	r := []rune(src)
	i := 0
	for i < len(r) {
		c := r[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '+' || c == '-' || c == '*' || c == '(' || c == ')':
			toks = append(toks, string(c))
			i++
		case unicode.IsDigit(c):
			j := i
			for j < len(r) && unicode.IsDigit(r[j]) {
				j++
			}
			toks = append(toks, string(r[i:j]))
			i = j
		case unicode.IsLetter(c) || c == '_':
			j := i
			for j < len(r) && (unicode.IsLetter(r[j]) || unicode.IsDigit(r[j]) || r[j] == '_') {
				j++
			}
			toks = append(toks, string(r[i:j]))
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q", c)
		}
	}
	return toks, nil
}

type standaloneParser struct {
	toks []string
	pos  int
	vars map[string]ir.Node
}

func (p *standaloneParser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *standaloneParser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *standaloneParser) parseAddSub() (ir.Node, error) {
	lhs, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for p.peek() == "+" || p.peek() == "-" {
		op := p.next()
		rhs, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		if op == "+" {
			lhs = ir.MakeAdd(lhs, rhs)
		} else {
			lhs = ir.MakeSub(lhs, rhs)
		}
	}
	return lhs, nil
}

func (p *standaloneParser) parseMul() (ir.Node, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek() == "*" {
		p.next()
		rhs, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		lhs = ir.MakeMul(lhs, rhs)
	}
	return lhs, nil
}

func (p *standaloneParser) parsePrimary() (ir.Node, error) {
	t := p.peek()
	if t == "" {
		return nil, fmt.Errorf("unexpected end of input")
	}
	if t == "(" {
		p.next()
		n, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, fmt.Errorf("expected )")
		}
		p.next()
		return n, nil
	}
	if v, err := strconv.ParseInt(t, 10, 64); err == nil {
		p.next()
		return ir.MakeIntImm(v, ir.Scalar(ir.Int, 32)), nil
	}
	p.next()
	if v, ok := p.vars[t]; ok {
		return v, nil
	}
	v := ir.MakeVar(t, ir.Scalar(ir.Int, 32))
	p.vars[t] = v
	return v, nil
}

// builtinRuleSet mirrors cmd/rwrepl's rule table, scoped down to what the
// -expr flag needs to demonstrate.
func builtinRuleSet() []rw.Rule {
	x := rw.NewWild(0)
	c0 := rw.NewWildConstInt(0)
	c1 := rw.NewWildConstInt(1)
	return []rw.Rule{
		{Before: rw.NewBinOp(ir.KindAdd, x, rw.NewConst(0)), After: x},
		{Before: rw.NewBinOp(ir.KindSub, x, x), After: rw.NewConst(0).Typed(x)},
		{Before: rw.NewBinOp(ir.KindMin, x, x), After: x},
		{
			Before: rw.NewBinOp(ir.KindAdd, c0, c1),
			After:  rw.NewFoldOp(rw.NewBinOp(ir.KindAdd, c0, c1)),
		},
	}
}

package rw

import "github.com/zhulingfeng1993/irrewrite/ir"

// This file is the rule dispatcher (C6): the one entry point a host
// simplifier's outer traversal actually calls, implementing match, then
// predicate check, then build on top of the primitives in the rest
// of the package.

// Rule pairs a lhs pattern with a rhs replacement and an optional
// predicate. Predicate may be nil, in which case the rule fires whenever
// Before matches.
type Rule struct {
	Before    Pattern
	After     Pattern
	Predicate Pattern
}

// Rewriter holds the root expression a single dispatch call is working
// against. It carries no other state; a fresh Rewriter (or none at all --
// Rewrite is a pure function of its arguments) is cheap enough to build per
// rule attempt.
type Rewriter struct {
	Root ir.Node
}

// NewRewriter returns a Rewriter over root.
func NewRewriter(root ir.Node) *Rewriter { return &Rewriter{Root: root} }

// Rewrite attempts before -> after with no predicate.
func (rw *Rewriter) Rewrite(before, after Pattern) (ir.Node, bool) {
	return rw.RewriteIf(before, after, nil)
}

// RewriteIf runs a fresh State through match, then evaluates the
// predicate if present (a poisoned or zero predicate value means the rule
// does not fire), then builds the result.
func (rw *Rewriter) RewriteIf(before, after, predicate Pattern) (ir.Node, bool) {
	s := &State{}
	if _, ok := before.Match(s, rw.Root, 0); !ok {
		return nil, false
	}
	if predicate != nil {
		v, t := predicate.MakeFoldedConst(s)
		if t.IsPoisoned() || v.AsUint64() == 0 {
			return nil, false
		}
	}
	return after.Make(s), true
}

// ApplyRules tries rules in order against root and returns the first one
// that fires, under a "whichever rule is tried first wins" ordering
// guarantee. The caller owns rule order; this is the only place order
// matters.
func ApplyRules(root ir.Node, rules []Rule) (ir.Node, bool) {
	rw := NewRewriter(root)
	for _, r := range rules {
		if result, ok := rw.RewriteIf(r.Before, r.After, r.Predicate); ok {
			return result, true
		}
	}
	return nil, false
}

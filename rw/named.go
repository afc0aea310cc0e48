package rw

import "github.com/zhulingfeng1993/irrewrite/ir"

// This file is the second matcher flavor: a simpler
// wildcard-by-name matcher operating directly on ir.Node trees, with
// ir.VarNode standing in for a wildcard rather than the Pattern algebra's
// typed wildcard kinds. It exists to give the pattern algebra an
// independent oracle to cross-check against in tests, not to replace it.
//
// The positional flavor treats only the reserved name "*" as a wildcard;
// any other VarNode name in the pattern must match a host VarNode of the
// identical name. The named flavor treats every VarNode as a wildcard
// keyed by its name, with repeat occurrences requiring structural equality
// against the first binding -- the same consistency rule as Wild in the
// pattern algebra, just keyed by string instead of by index.

type wildcardBinder interface {
	isWildcard(name string) bool
	bind(name string, declType ir.Type, e ir.Node) bool
}

type positionalBinder struct{ out []ir.Node }

func (b *positionalBinder) isWildcard(name string) bool { return name == "*" }

// bind enforces the "bits = 0 or lanes = 0 means any" rule; code
// is always checked exactly, there is no "any code" sentinel.
func (b *positionalBinder) bind(_ string, declType ir.Type, e ir.Node) bool {
	et := e.Type()
	if declType.Code != et.Code {
		return false
	}
	if declType.Bits != 0 && declType.Bits != et.Bits {
		return false
	}
	if declType.LaneCount() != 0 && declType.LaneCount() != et.LaneCount() {
		return false
	}
	b.out = append(b.out, e)
	return true
}

type namedBinder struct{ out map[string]ir.Node }

func (b *namedBinder) isWildcard(string) bool { return true }

func (b *namedBinder) bind(name string, _ ir.Type, e ir.Node) bool {
	if prev, ok := b.out[name]; ok {
		return ir.Equal(prev, e)
	}
	b.out[name] = e
	return true
}

// matchTree does the structural recursion shared by both flavors; the only
// difference between them lives in the wildcardBinder passed in.
func matchTree(pattern, e ir.Node, h wildcardBinder) bool {
	if pv, ok := pattern.(*ir.VarNode); ok {
		if h.isWildcard(pv.Name) {
			return h.bind(pv.Name, pv.Typ, e)
		}
		ev, ok := e.(*ir.VarNode)
		return ok && ev.Name == pv.Name
	}
	if pattern.Kind() != e.Kind() {
		return false
	}
	switch p := pattern.(type) {
	case *ir.IntImm:
		x := e.(*ir.IntImm)
		return x.Typ == p.Typ && x.Val == p.Val
	case *ir.UIntImm:
		x := e.(*ir.UIntImm)
		return x.Typ == p.Typ && x.Val == p.Val
	case *ir.FloatImm:
		x := e.(*ir.FloatImm)
		return x.Typ == p.Typ && x.Val == p.Val
	case *ir.BroadcastNode:
		x := e.(*ir.BroadcastNode)
		return x.Typ == p.Typ && matchTree(p.Value, x.Value, h)
	case *ir.RampNode:
		x := e.(*ir.RampNode)
		return x.Typ == p.Typ && matchTree(p.Base, x.Base, h) && matchTree(p.Stride, x.Stride, h)
	case *ir.BinNode:
		x := e.(*ir.BinNode)
		return matchTree(p.A, x.A, h) && matchTree(p.B, x.B, h)
	case *ir.CmpNode:
		x := e.(*ir.CmpNode)
		return matchTree(p.A, x.A, h) && matchTree(p.B, x.B, h)
	case *ir.NotNode:
		x := e.(*ir.NotNode)
		return matchTree(p.A, x.A, h)
	case *ir.SelectNode:
		x := e.(*ir.SelectNode)
		return matchTree(p.Cond, x.Cond, h) && matchTree(p.True, x.True, h) && matchTree(p.False, x.False, h)
	case *ir.CastNode:
		x := e.(*ir.CastNode)
		return x.Typ == p.Typ && matchTree(p.Value, x.Value, h)
	case *ir.CallNode:
		x := e.(*ir.CallNode)
		if x.Name != p.Name || len(x.Args) != len(p.Args) {
			return false
		}
		for i := range p.Args {
			if !matchTree(p.Args[i], x.Args[i], h) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// MatchPositional matches pattern against e, collecting every "*"
// wildcard's binding, in left-to-right encounter order, into out.
func MatchPositional(pattern, e ir.Node) (out []ir.Node, ok bool) {
	b := &positionalBinder{}
	if !matchTree(pattern, e, b) {
		return nil, false
	}
	return b.out, true
}

// MatchNamed matches pattern against e, collecting every VarNode's binding
// into a name -> subtree map, enforcing the same consistency rule on repeats.
func MatchNamed(pattern, e ir.Node) (out map[string]ir.Node, ok bool) {
	b := &namedBinder{out: map[string]ir.Node{}}
	if !matchTree(pattern, e, b) {
		return nil, false
	}
	return b.out, true
}

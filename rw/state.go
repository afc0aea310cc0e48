// Package rw is the term-rewriting core: a pattern algebra matched against
// read-only ir.Node trees, constant folding with exact overflow and
// div-by-zero bookkeeping, and a rule dispatcher that ties the two
// together. It knows nothing about how a host builds its IR or drives its
// simplifier; it only matches, folds, and reconstructs.
package rw

import "github.com/zhulingfeng1993/irrewrite/ir"

// W is the number of wildcards of each kind (constant and subtree) a single
// pattern may use. It is small and fixed so State never allocates.
const W = 5

// BoundMask tracks, along a single left-to-right match, which wildcards
// have already been bound. Bit i is "constant wildcard i is bound"; bit
// i+16 is "subtree wildcard i is bound". It is threaded explicitly through
// every Pattern.Match call rather than read off State, which is what lets a
// repeat occurrence reduce to an equality check against the prior binding,
// with no write to State.
type BoundMask uint32

func constBit(i int) BoundMask  { return 1 << uint(i) }
func subtreeBit(i int) BoundMask { return 1 << uint(i+16) }

func (m BoundMask) hasConst(i int) bool   { return m&constBit(i) != 0 }
func (m BoundMask) hasSubtree(i int) bool { return m&subtreeBit(i) != 0 }

// State is the fixed-size, stack-local store for bindings accumulated while
// matching a single rule against a single root. It is cheap to create and
// safe to discard on failure; it is never reused across rule attempts.
type State struct {
	bindings     [W]ir.Node
	boundConst   [W]ir.Value
	boundConstTy [W]ir.Type
}

// SetBinding records the subtree bound to wildcard i.
func (s *State) SetBinding(i int, n ir.Node) { s.bindings[i] = n }

// GetBinding returns the subtree previously bound to wildcard i.
func (s *State) GetBinding(i int) ir.Node { return s.bindings[i] }

// SetBoundConst records the constant bound to constant-wildcard i, along
// with the type of the expression it was matched against (lanes included,
// recorded at first bind).
func (s *State) SetBoundConst(i int, v ir.Value, t ir.Type) {
	s.boundConst[i] = v
	s.boundConstTy[i] = t
}

// GetBoundConst returns the constant previously bound to constant-wildcard i.
func (s *State) GetBoundConst(i int) (ir.Value, ir.Type) {
	return s.boundConst[i], s.boundConstTy[i]
}

func checkIndex(i int) {
	if i < 0 || i >= W {
		panic("rw: wildcard index out of range")
	}
}

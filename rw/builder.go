package rw

import (
	"sync/atomic"

	"github.com/zhulingfeng1993/irrewrite/ir"
)

// This file is the builder/emitter (C7): turning matched-and-folded state
// back into concrete IR, inserting broadcasts where a binop's operands
// disagree in vector-ness, and tagging poisoned folds with a sentinel
// intrinsic call.
//
// poisonCounter is the one piece of process-wide state the engine keeps. It
// must be atomic, not because the engine itself is concurrent (it isn't)
// but because independent callers of the enclosing simplifier run
// concurrently and must never end up with two poisoned expressions that
// collide on id, which would let the simplifier merge two unrelated
// undefined values.
var poisonCounter atomic.Uint64

// SignedOverflowIntrinsic and IndeterminateIntrinsic are the two reserved
// sentinel names a host simplifier must treat as opaque.
const (
	SignedOverflowIntrinsic = "signed_integer_overflow"
	IndeterminateIntrinsic  = "indeterminate_expression"
)

func nextPoisonID() int64 {
	return int64(poisonCounter.Add(1))
}

// toExpr reconstructs an IR node from a folded (Value, Type) pair: a
// poisoned fold becomes a call to the
// matching sentinel intrinsic (result type equal to the poisoned type with
// poison cleared); otherwise a scalar immediate, wrapped in a Broadcast
// when the type's lane count exceeds one.
func toExpr(v ir.Value, t ir.Type) ir.Node {
	if t.IsPoisoned() {
		name := SignedOverflowIntrinsic
		if t.HasIndeterminate() {
			name = IndeterminateIntrinsic
		}
		clean := t.WithoutPoison()
		id := nextPoisonID()
		return ir.MakeCall(name, clean, ir.MakeIntImm(id, ir.Scalar(ir.Int, 32)))
	}
	scalarT := t.WithLanes(1)
	var imm ir.Node
	switch t.Code {
	case ir.Int:
		imm = ir.MakeIntImm(v.AsInt64(), scalarT)
	case ir.Uint:
		imm = ir.MakeUIntImm(v.AsUint64(), scalarT)
	case ir.Float:
		imm = ir.MakeFloatImm(v.AsFloat64(), scalarT)
	}
	if t.LaneCount() > 1 {
		return ir.MakeBroadcast(imm, t.LaneCount())
	}
	return imm
}

// reconcileLanes implements the binop emission rule: if one operand is a
// vector and the other scalar, broadcast the scalar side up to the
// vector's lane count before building the node.
func reconcileLanes(a, b ir.Node) (ir.Node, ir.Node) {
	la, lb := a.Type().LaneCount(), b.Type().LaneCount()
	if la == lb {
		return a, b
	}
	if la == 1 {
		return ir.MakeBroadcast(a, lb), b
	}
	if lb == 1 {
		return a, ir.MakeBroadcast(b, la)
	}
	return a, b
}

func emitBin(op ir.Kind, a, b ir.Node) ir.Node {
	a, b = reconcileLanes(a, b)
	switch op {
	case ir.KindAdd:
		return ir.MakeAdd(a, b)
	case ir.KindSub:
		return ir.MakeSub(a, b)
	case ir.KindMul:
		return ir.MakeMul(a, b)
	case ir.KindDiv:
		return ir.MakeDiv(a, b)
	case ir.KindMod:
		return ir.MakeMod(a, b)
	case ir.KindMin:
		return ir.MakeMin(a, b)
	case ir.KindMax:
		return ir.MakeMax(a, b)
	case ir.KindAnd:
		return ir.MakeAnd(a, b)
	case ir.KindOr:
		return ir.MakeOr(a, b)
	}
	panic("rw: emitBin called with non-binary op")
}

func emitCmp(op ir.Kind, a, b ir.Node) ir.Node {
	a, b = reconcileLanes(a, b)
	switch op {
	case ir.KindLT:
		return ir.MakeLT(a, b)
	case ir.KindLE:
		return ir.MakeLE(a, b)
	case ir.KindGT:
		return ir.MakeGT(a, b)
	case ir.KindGE:
		return ir.MakeGE(a, b)
	case ir.KindEQ:
		return ir.MakeEQ(a, b)
	case ir.KindNE:
		return ir.MakeNE(a, b)
	}
	panic("rw: emitCmp called with non-compare op")
}

// peelBroadcast returns n.Value if n is a Broadcast, else n itself. Used by
// the constant-wildcard family: a constant wildcard binds
// only to a scalar constant or a broadcast of one.
func peelBroadcast(n ir.Node) ir.Node {
	if b, ok := n.(*ir.BroadcastNode); ok {
		return b.Value
	}
	return n
}

// isZeroImm reports whether n is the literal 0 in its domain, peeling a
// broadcast first so a vector zero also counts.
func isZeroImm(n ir.Node) bool {
	switch x := peelBroadcast(n).(type) {
	case *ir.IntImm:
		return x.Val == 0
	case *ir.UIntImm:
		return x.Val == 0
	case *ir.FloatImm:
		return x.Val == 0
	default:
		return false
	}
}

// zeroLike builds the literal 0 of the same scalar type as x, used by
// NegateOp.Make to reconstruct the "0 - x" desugaring on the rhs.
func zeroLike(x ir.Node) ir.Node {
	t := x.Type().WithLanes(1).WithoutPoison()
	switch t.Code {
	case ir.Int:
		return ir.MakeIntImm(0, t)
	case ir.Uint:
		return ir.MakeUIntImm(0, t)
	default:
		return ir.MakeFloatImm(0, t)
	}
}

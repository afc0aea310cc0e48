package ir

// This file is the host-facing construction surface named in the external
// interfaces section: the handful of constructors a rule's make() is
// allowed to call, plus Equal, the one place IR identity is examined.

func MakeIntImm(v int64, t Type) Node    { return &IntImm{Val: v, Typ: t} }
func MakeUIntImm(v uint64, t Type) Node  { return &UIntImm{Val: v, Typ: t} }
func MakeFloatImm(v float64, t Type) Node { return &FloatImm{Val: v, Typ: t} }

// MakeBroadcast wraps v in a Broadcast of the given lane count. Poison
// flags on v's own type, if any, are not touched here -- broadcasting a
// poisoned scalar is the caller's concern, not the constructor's.
func MakeBroadcast(v Node, lanes uint16) Node {
	return &BroadcastNode{Value: v, Typ: v.Type().WithLanes(lanes)}
}

func MakeRamp(base, stride Node, lanes uint16) Node {
	return &RampNode{Base: base, Stride: stride, Typ: base.Type().WithLanes(lanes)}
}

func binType(op Kind, a, b Node) Type {
	n := a.Type().LaneCount()
	if b.Type().LaneCount() > n {
		n = b.Type().LaneCount()
	}
	return a.Type().WithLanes(n)
}

func LaneCountOf(n Node) uint16 { return n.Type().LaneCount() }

func MakeAdd(a, b Node) Node { return &BinNode{Op: KindAdd, A: a, B: b, Typ: binType(KindAdd, a, b)} }
func MakeSub(a, b Node) Node { return &BinNode{Op: KindSub, A: a, B: b, Typ: binType(KindSub, a, b)} }
func MakeMul(a, b Node) Node { return &BinNode{Op: KindMul, A: a, B: b, Typ: binType(KindMul, a, b)} }
func MakeDiv(a, b Node) Node { return &BinNode{Op: KindDiv, A: a, B: b, Typ: binType(KindDiv, a, b)} }
func MakeMod(a, b Node) Node { return &BinNode{Op: KindMod, A: a, B: b, Typ: binType(KindMod, a, b)} }
func MakeMin(a, b Node) Node { return &BinNode{Op: KindMin, A: a, B: b, Typ: binType(KindMin, a, b)} }
func MakeMax(a, b Node) Node { return &BinNode{Op: KindMax, A: a, B: b, Typ: binType(KindMax, a, b)} }
func MakeAnd(a, b Node) Node { return &BinNode{Op: KindAnd, A: a, B: b, Typ: binType(KindAnd, a, b)} }
func MakeOr(a, b Node) Node  { return &BinNode{Op: KindOr, A: a, B: b, Typ: binType(KindOr, a, b)} }

func MakeNot(a Node) Node { return &NotNode{A: a, Typ: a.Type()} }

func cmpType(a, b Node) Type {
	n := a.Type().LaneCount()
	if b.Type().LaneCount() > n {
		n = b.Type().LaneCount()
	}
	return Bool1().WithLanes(n)
}

func MakeLT(a, b Node) Node { return &CmpNode{Op: KindLT, A: a, B: b, Typ: cmpType(a, b)} }
func MakeLE(a, b Node) Node { return &CmpNode{Op: KindLE, A: a, B: b, Typ: cmpType(a, b)} }
func MakeGT(a, b Node) Node { return &CmpNode{Op: KindGT, A: a, B: b, Typ: cmpType(a, b)} }
func MakeGE(a, b Node) Node { return &CmpNode{Op: KindGE, A: a, B: b, Typ: cmpType(a, b)} }
func MakeEQ(a, b Node) Node { return &CmpNode{Op: KindEQ, A: a, B: b, Typ: cmpType(a, b)} }
func MakeNE(a, b Node) Node { return &CmpNode{Op: KindNE, A: a, B: b, Typ: cmpType(a, b)} }

func MakeSelect(cond, t, f Node) Node {
	return &SelectNode{Cond: cond, True: t, False: f, Typ: t.Type()}
}

func MakeCast(t Type, v Node) Node { return &CastNode{Value: v, Typ: t} }

func MakeCall(name string, t Type, args ...Node) Node {
	return &CallNode{Name: name, Args: args, Typ: t}
}

func MakeVar(name string, t Type) Node { return &VarNode{Name: name, Typ: t} }

// Equal is a structural, type-aware equality used only by the engine's
// wildcard-consistency check. It early-exits on identity: two nodes
// that are the same pointer are equal without descending.
func Equal(a, b Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind() != b.Kind() || a.Type() != b.Type() {
		return false
	}
	switch x := a.(type) {
	case *IntImm:
		return x.Val == b.(*IntImm).Val
	case *UIntImm:
		return x.Val == b.(*UIntImm).Val
	case *FloatImm:
		return sameValue(Float, Float64(x.Val), Float64(b.(*FloatImm).Val))
	case *BroadcastNode:
		return Equal(x.Value, b.(*BroadcastNode).Value)
	case *RampNode:
		y := b.(*RampNode)
		return Equal(x.Base, y.Base) && Equal(x.Stride, y.Stride)
	case *BinNode:
		y := b.(*BinNode)
		return Equal(x.A, y.A) && Equal(x.B, y.B)
	case *CmpNode:
		y := b.(*CmpNode)
		return Equal(x.A, y.A) && Equal(x.B, y.B)
	case *NotNode:
		return Equal(x.A, b.(*NotNode).A)
	case *SelectNode:
		y := b.(*SelectNode)
		return Equal(x.Cond, y.Cond) && Equal(x.True, y.True) && Equal(x.False, y.False)
	case *CastNode:
		return Equal(x.Value, b.(*CastNode).Value)
	case *CallNode:
		y := b.(*CallNode)
		if x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *VarNode:
		return x.Name == b.(*VarNode).Name
	default:
		return false
	}
}

// IsConstExpr reports whether n is an immediate, or a Broadcast of one --
// the set of expressions IsConstOp is willing to call constant.
func IsConstExpr(n Node) bool {
	switch x := n.(type) {
	case *IntImm, *UIntImm, *FloatImm:
		return true
	case *BroadcastNode:
		return IsConstExpr(x.Value)
	default:
		return false
	}
}

// IsOne reports whether n is the immediate 1 (in whatever domain its type
// carries), used by CanProveOp to read back a simplified predicate.
func IsOne(n Node) bool {
	switch x := n.(type) {
	case *IntImm:
		return x.Val == 1
	case *UIntImm:
		return x.Val == 1
	case *FloatImm:
		return x.Val == 1
	default:
		return false
	}
}

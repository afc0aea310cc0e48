package rw

import "github.com/zhulingfeng1993/irrewrite/ir"

// This file is the pattern algebra (C4): one Go type per pattern kind, each
// implementing as much of Match / Make / MakeFoldedConst as makes sense for
// that kind. The three are bundled into a single interface -- rather than
// three separate optional ones -- because every concrete pattern type in
// this file ends up needing to satisfy it to compose with the others (a
// BinOp's operands are themselves arbitrary Patterns); the capabilities a
// given kind does not support panic on use rather than failing to compile,
// the capabilities a kind does not support panic on use instead.
type Pattern interface {
	// Match attempts to bind e against the pattern under the given
	// bound mask, returning the updated mask and whether it matched. On
	// failure the receiver must leave State safe to discard, not safe
	// to reuse.
	Match(s *State, e ir.Node, mask BoundMask) (BoundMask, bool)
	// Make reconstructs a concrete IR node from bindings in State.
	Make(s *State) ir.Node
	// MakeFoldedConst reconstructs a constant value from bindings in
	// State, used by fold(), predicates, can_prove, gcd, and bind.
	MakeFoldedConst(s *State) (ir.Value, ir.Type)
}

// typed is implemented by the patterns that can report the type they bound
// without being asked to fold or rebuild -- the wildcards. Const uses it to
// infer a result type from a sibling pattern (see Const.Like below).
type typed interface {
	BoundType(s *State) ir.Type
}

type notMatchable struct{}

func (notMatchable) Match(*State, ir.Node, BoundMask) (BoundMask, bool) {
	panic("rw: pattern is rhs-only and cannot appear in lhs (match) position")
}

type notMakeable struct{}

func (notMakeable) Make(*State) ir.Node {
	panic("rw: pattern cannot be used to construct an IR node")
}

type notFoldable struct{}

func (notFoldable) MakeFoldedConst(*State) (ir.Value, ir.Type) {
	panic("rw: pattern cannot be folded to a constant")
}

// ---- Wild: subtree wildcard ------------------------------------------------

// Wild matches any subtree. The first occurrence of wildcard Index binds;
// a repeat occurrence succeeds iff it is structurally equal to the first
// binding.
type Wild struct {
	notFoldable
	Index int
}

func NewWild(i int) Wild { checkIndex(i); return Wild{Index: i} }

func (w Wild) Match(s *State, e ir.Node, mask BoundMask) (BoundMask, bool) {
	if mask.hasSubtree(w.Index) {
		return mask, ir.Equal(s.GetBinding(w.Index), e)
	}
	s.SetBinding(w.Index, e)
	return mask | subtreeBit(w.Index), true
}

func (w Wild) Make(s *State) ir.Node { return s.GetBinding(w.Index) }

func (w Wild) BoundType(s *State) ir.Type { return s.GetBinding(w.Index).Type() }

// ---- WildConst family: constant wildcards ---------------------------------

type wildConstBase struct{ Index int }

func (w wildConstBase) Make(s *State) ir.Node {
	v, t := s.GetBoundConst(w.Index)
	return toExpr(v, t)
}

func (w wildConstBase) MakeFoldedConst(s *State) (ir.Value, ir.Type) {
	return s.GetBoundConst(w.Index)
}

func (w wildConstBase) BoundType(s *State) ir.Type {
	_, t := s.GetBoundConst(w.Index)
	return t
}

// bindConst implements the shared first-occurrence/repeat-occurrence logic
// of the WildConst family: peel a broadcast, require the inner node be of
// kind want, and either bind or check bit-equality against the prior
// binding.
func bindConst(s *State, idx int, mask BoundMask, e ir.Node, want ir.Code, val ir.Value) (BoundMask, bool) {
	if mask.hasConst(idx) {
		pv, pt := s.GetBoundConst(idx)
		if pt.Code != want {
			return mask, false
		}
		return mask, sameValue(want, pv, val)
	}
	s.SetBoundConst(idx, val, e.Type().WithoutPoison())
	return mask | constBit(idx), true
}

func sameValue(code ir.Code, a, b ir.Value) bool {
	return a == b
}

// WildConstInt binds to an integer immediate (or broadcast of one).
type WildConstInt struct{ wildConstBase }

func NewWildConstInt(i int) WildConstInt { checkIndex(i); return WildConstInt{wildConstBase{i}} }

func (w WildConstInt) Match(s *State, e ir.Node, mask BoundMask) (BoundMask, bool) {
	imm, ok := peelBroadcast(e).(*ir.IntImm)
	if !ok {
		return mask, false
	}
	return bindConst(s, w.Index, mask, e, ir.Int, ir.Int64(imm.Val))
}

// WildConstUInt binds to an unsigned immediate (or broadcast of one).
type WildConstUInt struct{ wildConstBase }

func NewWildConstUInt(i int) WildConstUInt { checkIndex(i); return WildConstUInt{wildConstBase{i}} }

func (w WildConstUInt) Match(s *State, e ir.Node, mask BoundMask) (BoundMask, bool) {
	imm, ok := peelBroadcast(e).(*ir.UIntImm)
	if !ok {
		return mask, false
	}
	return bindConst(s, w.Index, mask, e, ir.Uint, ir.Uint64(imm.Val))
}

// WildConstFloat binds to a float immediate (or broadcast of one).
type WildConstFloat struct{ wildConstBase }

func NewWildConstFloat(i int) WildConstFloat { checkIndex(i); return WildConstFloat{wildConstBase{i}} }

func (w WildConstFloat) Match(s *State, e ir.Node, mask BoundMask) (BoundMask, bool) {
	imm, ok := peelBroadcast(e).(*ir.FloatImm)
	if !ok {
		return mask, false
	}
	return bindConst(s, w.Index, mask, e, ir.Float, ir.Float64(imm.Val))
}

// WildConst is the union of the Int/UInt/Float families, dispatched on the
// matched node's immediate kind.
type WildConst struct{ wildConstBase }

func NewWildConst(i int) WildConst { checkIndex(i); return WildConst{wildConstBase{i}} }

func (w WildConst) Match(s *State, e ir.Node, mask BoundMask) (BoundMask, bool) {
	switch peelBroadcast(e).(type) {
	case *ir.IntImm:
		return WildConstInt{w.wildConstBase}.Match(s, e, mask)
	case *ir.UIntImm:
		return WildConstUInt{w.wildConstBase}.Match(s, e, mask)
	case *ir.FloatImm:
		return WildConstFloat{w.wildConstBase}.Match(s, e, mask)
	default:
		return mask, false
	}
}

// ---- Const: a literal integer pattern -------------------------------------

// Const matches any immediate (int, uint, or float) -- under a possible
// outer Broadcast -- whose value equals N. When used on the rhs, the
// result type defaults to a 32-bit signed scalar unless Like names a
// sibling pattern to borrow a type from (invariants don't give Const a
// binding of its own to recall one).
type Const struct {
	N    int64
	Like Pattern
}

func NewConst(n int64) Const { return Const{N: n} }

// Typed returns a copy of c that infers its result type from like's
// binding when c.Make or c.MakeFoldedConst is called.
func (c Const) Typed(like Pattern) Const { c.Like = like; return c }

func (c Const) Match(_ *State, e ir.Node, mask BoundMask) (BoundMask, bool) {
	switch x := peelBroadcast(e).(type) {
	case *ir.IntImm:
		return mask, x.Val == c.N
	case *ir.UIntImm:
		return mask, c.N >= 0 && x.Val == uint64(c.N)
	case *ir.FloatImm:
		return mask, x.Val == float64(c.N)
	default:
		return mask, false
	}
}

func (c Const) resultType(s *State) ir.Type {
	t := ir.Scalar(ir.Int, 32)
	if c.Like != nil {
		if tp, ok := c.Like.(typed); ok {
			t = tp.BoundType(s).WithoutPoison()
		}
	}
	return t
}

func (c Const) valueFor(t ir.Type) ir.Value {
	switch t.Code {
	case ir.Uint:
		return ir.Uint64(uint64(c.N))
	case ir.Float:
		return ir.Float64(float64(c.N))
	default:
		return ir.Int64(c.N)
	}
}

func (c Const) Make(s *State) ir.Node {
	t := c.resultType(s)
	return toExpr(c.valueFor(t), t)
}

func (c Const) MakeFoldedConst(s *State) (ir.Value, ir.Type) {
	t := c.resultType(s)
	return c.valueFor(t), t
}

// ---- BinOp / CmpOp: arithmetic, logical, and comparison binary nodes ------

// BinOp matches a node of the given kind (one of Add, Sub, Mul, Div, Mod,
// Min, Max, And, Or) whose children match A and B left to right, with mask
// threading: B's matcher sees the mask A produced, so it knows from the
// mask alone that a wildcard shared between A and B is a repeat, and the
// repeat reduces to an equality check against A's binding.
type BinOp struct {
	Op   ir.Kind
	A, B Pattern
}

func NewBinOp(op ir.Kind, a, b Pattern) BinOp { return BinOp{Op: op, A: a, B: b} }

func (p BinOp) Match(s *State, e ir.Node, mask BoundMask) (BoundMask, bool) {
	n, ok := e.(*ir.BinNode)
	if !ok || n.Op != p.Op {
		return mask, false
	}
	m, ok := p.A.Match(s, n.A, mask)
	if !ok {
		return mask, false
	}
	m, ok = p.B.Match(s, n.B, m)
	if !ok {
		return mask, false
	}
	return m, true
}

func (p BinOp) Make(s *State) ir.Node {
	return emitBin(p.Op, p.A.Make(s), p.B.Make(s))
}

func (p BinOp) MakeFoldedConst(s *State) (ir.Value, ir.Type) {
	av, at := p.A.MakeFoldedConst(s)
	if v, t, ok := shortCircuitBoolean(p.Op, av, at); ok {
		return v, t
	}
	bv, bt := p.B.MakeFoldedConst(s)
	return foldBin(p.Op, av, at, bv, bt)
}

// shortCircuitBoolean implements the short-circuit rule for And/Or: 0 & x = 0,
// 1 | x = 1, decided purely from a's own value, without evaluating
// b.MakeFoldedConst at all -- which matters both because b may be poisoned
// and because b may carry its own side effect (a nested BindOp). a's poison
// state is irrelevant to whether short-circuiting fires: it fires purely
// off the low bit, and when it does the result carries a's type (poison
// bits included) unchanged, never merged with b's. The returned bool
// reports whether short-circuiting fired; the value/type pair is only
// meaningful when it did.
func shortCircuitBoolean(op ir.Kind, av ir.Value, at ir.Type) (ir.Value, ir.Type, bool) {
	if at.Code != ir.Uint {
		return 0, ir.Type{}, false
	}
	bit := av.AsUint64() & 1
	switch {
	case op == ir.KindAnd && bit == 0:
		return av, at, true
	case op == ir.KindOr && bit == 1:
		return av, at, true
	default:
		return 0, ir.Type{}, false
	}
}

// CmpOp matches LT, LE, GT, GE, EQ, or NE.
type CmpOp struct {
	Op   ir.Kind
	A, B Pattern
}

func NewCmpOp(op ir.Kind, a, b Pattern) CmpOp { return CmpOp{Op: op, A: a, B: b} }

func (p CmpOp) Match(s *State, e ir.Node, mask BoundMask) (BoundMask, bool) {
	n, ok := e.(*ir.CmpNode)
	if !ok || n.Op != p.Op {
		return mask, false
	}
	m, ok := p.A.Match(s, n.A, mask)
	if !ok {
		return mask, false
	}
	m, ok = p.B.Match(s, n.B, m)
	if !ok {
		return mask, false
	}
	return m, true
}

func (p CmpOp) Make(s *State) ir.Node {
	return emitCmp(p.Op, p.A.Make(s), p.B.Make(s))
}

func (p CmpOp) MakeFoldedConst(s *State) (ir.Value, ir.Type) {
	av, at := p.A.MakeFoldedConst(s)
	bv, bt := p.B.MakeFoldedConst(s)
	return foldCompare(p.Op, av, at, bv, bt)
}

// ---- NotOp: boolean negation -----------------------------------------------

type NotOp struct {
	A Pattern
}

func NewNotOp(a Pattern) NotOp { return NotOp{A: a} }

func (p NotOp) Match(s *State, e ir.Node, mask BoundMask) (BoundMask, bool) {
	n, ok := e.(*ir.NotNode)
	if !ok {
		return mask, false
	}
	return p.A.Match(s, n.A, mask)
}

func (p NotOp) Make(s *State) ir.Node { return ir.MakeNot(p.A.Make(s)) }

func (p NotOp) MakeFoldedConst(s *State) (ir.Value, ir.Type) {
	v, t := p.A.MakeFoldedConst(s)
	return foldNot(v, t)
}

// ---- SelectOp ---------------------------------------------------------------

type SelectOp struct {
	notFoldable
	C, T, F Pattern
}

func NewSelectOp(c, t, f Pattern) SelectOp { return SelectOp{C: c, T: t, F: f} }

func (p SelectOp) Match(s *State, e ir.Node, mask BoundMask) (BoundMask, bool) {
	n, ok := e.(*ir.SelectNode)
	if !ok {
		return mask, false
	}
	m, ok := p.C.Match(s, n.Cond, mask)
	if !ok {
		return mask, false
	}
	m, ok = p.T.Match(s, n.True, m)
	if !ok {
		return mask, false
	}
	m, ok = p.F.Match(s, n.False, m)
	if !ok {
		return mask, false
	}
	return m, true
}

func (p SelectOp) Make(s *State) ir.Node {
	return ir.MakeSelect(p.C.Make(s), p.T.Make(s), p.F.Make(s))
}

// ---- BroadcastOp ------------------------------------------------------------

// UnconstrainedLanes is the sentinel passed as BroadcastOp/RampOp's Lanes
// field to mean "match a broadcast/ramp of any lane count". This port
// accepts exactly -1 and nothing else negative; any other negative value
// is a programmer error.
const UnconstrainedLanes = -1

type BroadcastOp struct {
	A     Pattern
	Lanes int
}

func NewBroadcastOp(a Pattern, lanes int) BroadcastOp { return BroadcastOp{A: a, Lanes: lanes} }

func (p BroadcastOp) Match(s *State, e ir.Node, mask BoundMask) (BoundMask, bool) {
	if p.Lanes < UnconstrainedLanes {
		panic("rw: BroadcastOp.Lanes must be UnconstrainedLanes or >= 0")
	}
	n, ok := e.(*ir.BroadcastNode)
	if !ok {
		return mask, false
	}
	if p.Lanes != UnconstrainedLanes && int(n.Typ.LaneCount()) != p.Lanes {
		return mask, false
	}
	return p.A.Match(s, n.Value, mask)
}

func (p BroadcastOp) Make(s *State) ir.Node {
	if p.Lanes < 0 {
		panic("rw: BroadcastOp needs a concrete lane count to construct a node")
	}
	return ir.MakeBroadcast(p.A.Make(s), uint16(p.Lanes))
}

func (p BroadcastOp) MakeFoldedConst(s *State) (ir.Value, ir.Type) {
	v, t := p.A.MakeFoldedConst(s)
	if p.Lanes >= 0 {
		t = t.WithLanes(uint16(p.Lanes))
	}
	return v, t
}

// ---- RampOp -----------------------------------------------------------------

type RampOp struct {
	notFoldable
	Base, Stride Pattern
	Lanes        int
}

func NewRampOp(base, stride Pattern, lanes int) RampOp {
	return RampOp{Base: base, Stride: stride, Lanes: lanes}
}

func (p RampOp) Match(s *State, e ir.Node, mask BoundMask) (BoundMask, bool) {
	if p.Lanes < UnconstrainedLanes {
		panic("rw: RampOp.Lanes must be UnconstrainedLanes or >= 0")
	}
	n, ok := e.(*ir.RampNode)
	if !ok {
		return mask, false
	}
	if p.Lanes != UnconstrainedLanes && int(n.Typ.LaneCount()) != p.Lanes {
		return mask, false
	}
	m, ok := p.Base.Match(s, n.Base, mask)
	if !ok {
		return mask, false
	}
	return p.Stride.Match(s, n.Stride, m)
}

func (p RampOp) Make(s *State) ir.Node {
	if p.Lanes < 0 {
		panic("rw: RampOp needs a concrete lane count to construct a node")
	}
	return ir.MakeRamp(p.Base.Make(s), p.Stride.Make(s), uint16(p.Lanes))
}

// ---- NegateOp: "-a" is sugar for Sub(0, a) ---------------------------------

type NegateOp struct {
	A Pattern
}

func NewNegateOp(a Pattern) NegateOp { return NegateOp{A: a} }

func (p NegateOp) Match(s *State, e ir.Node, mask BoundMask) (BoundMask, bool) {
	n, ok := e.(*ir.BinNode)
	if !ok || n.Op != ir.KindSub || !isZeroImm(n.A) {
		return mask, false
	}
	return p.A.Match(s, n.B, mask)
}

func (p NegateOp) Make(s *State) ir.Node {
	x := p.A.Make(s)
	return emitBin(ir.KindSub, zeroLike(x), x)
}

func (p NegateOp) MakeFoldedConst(s *State) (ir.Value, ir.Type) {
	v, t := p.A.MakeFoldedConst(s)
	return foldNegate(v, t)
}

// ---- CastOp -----------------------------------------------------------------

type CastOp struct {
	notFoldable
	Ty ir.Type
	A  Pattern
}

func NewCastOp(ty ir.Type, a Pattern) CastOp { return CastOp{Ty: ty, A: a} }

// Match deliberately does not compare n.Typ to p.Ty: the cast target type
// is not inspected for equality, it's the rule author's responsibility to
// pick a CastOp that means what they intend.
func (p CastOp) Match(s *State, e ir.Node, mask BoundMask) (BoundMask, bool) {
	n, ok := e.(*ir.CastNode)
	if !ok {
		return mask, false
	}
	return p.A.Match(s, n.Value, mask)
}

func (p CastOp) Make(s *State) ir.Node { return ir.MakeCast(p.Ty, p.A.Make(s)) }

// ---- Intrin: a named Call with positional args -----------------------------

type Intrin struct {
	notFoldable
	Name string
	Args []Pattern
	Ty   ir.Type // only consulted by Make; irrelevant when Intrin is lhs-only
}

func NewIntrin(name string, args ...Pattern) Intrin { return Intrin{Name: name, Args: args} }

func (p Intrin) Match(s *State, e ir.Node, mask BoundMask) (BoundMask, bool) {
	n, ok := e.(*ir.CallNode)
	if !ok || n.Name != p.Name || len(n.Args) != len(p.Args) {
		return mask, false
	}
	m := mask
	for i, ap := range p.Args {
		var ok bool
		m, ok = ap.Match(s, n.Args[i], m)
		if !ok {
			return mask, false
		}
	}
	return m, true
}

func (p Intrin) Make(s *State) ir.Node {
	args := make([]ir.Node, len(p.Args))
	for i, ap := range p.Args {
		args[i] = ap.Make(s)
	}
	return ir.MakeCall(p.Name, p.Ty, args...)
}

// ---- FoldOp: rhs-only constant fold -----------------------------------------

// FoldOp is rhs-only: Make folds A to a constant and reconstructs an
// expression from it (inserting the sentinel-intrinsic/broadcast emission
// rules when the fold is poisoned or vector-typed). It also exposes
// MakeFoldedConst as a pass-through so fold(...) can itself be nested
// inside another predicate-position pattern.
type FoldOp struct {
	notMatchable
	A Pattern
}

func NewFoldOp(a Pattern) FoldOp { return FoldOp{A: a} }

func (p FoldOp) Make(s *State) ir.Node { return toExpr(p.A.MakeFoldedConst(s)) }

func (p FoldOp) MakeFoldedConst(s *State) (ir.Value, ir.Type) { return p.A.MakeFoldedConst(s) }

// ---- IsConstOp: predicate-only ----------------------------------------------

type IsConstOp struct {
	notMatchable
	notMakeable
	A Pattern
}

func NewIsConstOp(a Pattern) IsConstOp { return IsConstOp{A: a} }

func (p IsConstOp) MakeFoldedConst(s *State) (ir.Value, ir.Type) {
	truth := uint64(0)
	if ir.IsConstExpr(p.A.Make(s)) {
		truth = 1
	}
	return ir.Uint64(truth), ir.Bool1()
}

// ---- CanProveOp: predicate-only, calls the prover hook ----------------------

// Prover is the single external capability CanProveOp needs: a pure
// simplifier over the same IR that the host supplies.
type Prover interface {
	Mutate(ir.Node) ir.Node
}

type CanProveOp struct {
	notMatchable
	notMakeable
	A      Pattern
	Prover Prover
}

func NewCanProveOp(a Pattern, p Prover) CanProveOp { return CanProveOp{A: a, Prover: p} }

func (p CanProveOp) MakeFoldedConst(s *State) (ir.Value, ir.Type) {
	simplified := p.Prover.Mutate(p.A.Make(s))
	truth := uint64(0)
	if ir.IsOne(simplified) {
		truth = 1
	}
	return ir.Uint64(truth), ir.Bool1().WithLanes(simplified.Type().LaneCount())
}

// ---- GCDOp: predicate/rhs helper --------------------------------------------

type GCDOp struct {
	notMatchable
	A, B Pattern
}

func NewGCDOp(a, b Pattern) GCDOp { return GCDOp{A: a, B: b} }

func (p GCDOp) checkOperands(s *State) (int64, int64, ir.Type) {
	av, at := p.A.MakeFoldedConst(s)
	bv, bt := p.B.MakeFoldedConst(s)
	if at.Code != ir.Int || at.Bits < 32 || bt.Code != ir.Int || bt.Bits < 32 {
		panic("rw: GCDOp requires both operands to be signed integers of at least 32 bits")
	}
	rt := at
	rt.Lanes = ir.MergeLanes(at, bt)
	return av.AsInt64(), bv.AsInt64(), rt
}

func (p GCDOp) MakeFoldedConst(s *State) (ir.Value, ir.Type) {
	a, b, t := p.checkOperands(s)
	return ir.Int64(foldGCD(a, b)), t
}

func (p GCDOp) Make(s *State) ir.Node { return toExpr(p.MakeFoldedConst(s)) }

// ---- BindOp: predicate-position side effect ---------------------------------

// BindOp evaluates A to a constant, stores it into bound_const[Index], and
// always evaluates to true -- the side effect is the point, not the truth
// value. It does not propagate A's poison into the returned truth value;
// a rule author who needs to reject a poisoned bind composes BindOp with
// an explicit check on the bound wildcard elsewhere in the predicate.
type BindOp struct {
	notMatchable
	notMakeable
	Index int
	A     Pattern
}

func NewBindOp(i int, a Pattern) BindOp { checkIndex(i); return BindOp{Index: i, A: a} }

func (p BindOp) MakeFoldedConst(s *State) (ir.Value, ir.Type) {
	v, t := p.A.MakeFoldedConst(s)
	s.SetBoundConst(p.Index, v, t)
	return ir.Uint64(1), ir.Bool1()
}

// ---- Expr: wraps an already-built concrete node for rhs position ----------

// Expr lets a rule's rhs be a concrete IR node rather than a pattern
// ("or result = after_expr if the rhs is a concrete expression, not a
// pattern").
type Expr struct {
	notMatchable
	notFoldable
	Node ir.Node
}

func NewExpr(n ir.Node) Expr { return Expr{Node: n} }

func (e Expr) Make(*State) ir.Node { return e.Node }

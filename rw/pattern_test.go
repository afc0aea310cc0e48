package rw

import (
	"testing"

	"github.com/zhulingfeng1993/irrewrite/ir"
)

func i32var(name string) ir.Node { return ir.MakeVar(name, ir.Scalar(ir.Int, 32)) }
func i32imm(v int64) ir.Node     { return ir.MakeIntImm(v, ir.Scalar(ir.Int, 32)) }

// Scenario 1: rewrite(x + 0 -> x).
func Test_Scenario_AddZeroIdentity(t *testing.T) {
	x := NewWild(0)
	before := NewBinOp(ir.KindAdd, x, NewConst(0))
	after := x

	y := i32var("y")
	result, ok := NewRewriter(ir.MakeAdd(y, i32imm(0))).Rewrite(before, after)
	if !ok {
		t.Fatalf("expected y+0 to match")
	}
	if !ir.Equal(result, y) {
		t.Fatalf("rewrite(y+0) = %v, want %v", result, y)
	}

	_, ok = NewRewriter(ir.MakeAdd(y, i32imm(1))).Rewrite(before, after)
	if ok {
		t.Fatalf("expected y+1 not to match x+0")
	}
}

// Scenario 2: rewrite(min(x, x) -> x).
func Test_Scenario_MinSelfIdentity(t *testing.T) {
	x := NewWild(0)
	before := NewBinOp(ir.KindMin, x, x)
	after := x

	a := i32var("a")
	aPlus1 := ir.MakeAdd(a, i32imm(1))
	result, ok := NewRewriter(ir.MakeMin(aPlus1, ir.MakeAdd(a, i32imm(1)))).Rewrite(before, after)
	if !ok {
		t.Fatalf("expected min(a+1, a+1) to match")
	}
	if !ir.Equal(result, aPlus1) {
		t.Fatalf("rewrite(min(a+1,a+1)) = %v, want %v", result, aPlus1)
	}
}

// Scenario 3: rewrite((c0 + c1) -> fold(c0 + c1)).
func Test_Scenario_FoldConstantAdd(t *testing.T) {
	c0 := NewWildConstInt(0)
	c1 := NewWildConstInt(1)
	before := NewBinOp(ir.KindAdd, c0, c1)
	after := NewFoldOp(NewBinOp(ir.KindAdd, c0, c1))

	result, ok := NewRewriter(ir.MakeAdd(i32imm(3), i32imm(5))).Rewrite(before, after)
	if !ok {
		t.Fatalf("expected 3+5 to match")
	}
	imm, ok := result.(*ir.IntImm)
	if !ok || imm.Val != 8 {
		t.Fatalf("rewrite(3+5) = %v, want IntImm(8)", result)
	}

	result, ok = NewRewriter(ir.MakeAdd(i32imm(2147483647), i32imm(1))).Rewrite(before, after)
	if !ok {
		t.Fatalf("expected INT32_MAX+1 to match")
	}
	call, ok := result.(*ir.CallNode)
	if !ok || call.Name != SignedOverflowIntrinsic {
		t.Fatalf("rewrite(INT32_MAX+1) = %v, want a signed_integer_overflow call", result)
	}
}

// Scenario 4: rewrite(x / c0 -> fold(x / c0), c0 != 0).
func Test_Scenario_DivByZeroPredicateBlocksRewrite(t *testing.T) {
	x := NewWild(0)
	c0 := NewWildConstInt(1)
	before := NewBinOp(ir.KindDiv, x, c0)
	after := NewFoldOp(NewBinOp(ir.KindDiv, x, c0))
	pred := NewCmpOp(ir.KindNE, c0, NewConst(0))

	y := i32var("y")
	_, ok := NewRewriter(ir.MakeDiv(y, i32imm(0))).RewriteIf(before, after, pred)
	if ok {
		t.Fatalf("expected y/0 not to fire: predicate c0 != 0 should be false")
	}
}

// Scenario 5: rewrite(Broadcast(x,4) + Broadcast(y,4) -> Broadcast(x+y,4)).
func Test_Scenario_BroadcastDistributesOverAdd(t *testing.T) {
	x := NewWild(0)
	y := NewWild(1)
	before := NewBinOp(ir.KindAdd, NewBroadcastOp(x, 4), NewBroadcastOp(y, 4))
	after := NewBroadcastOp(NewBinOp(ir.KindAdd, x, y), 4)

	a := i32var("a")
	b := i32var("b")
	lhs := ir.MakeAdd(ir.MakeBroadcast(a, 4), ir.MakeBroadcast(b, 4))
	result, ok := NewRewriter(lhs).Rewrite(before, after)
	if !ok {
		t.Fatalf("expected broadcast distribution to match")
	}
	want := ir.MakeBroadcast(ir.MakeAdd(a, b), 4)
	if !ir.Equal(result, want) {
		t.Fatalf("rewrite result = %v, want %v", result, want)
	}
}

// Scenario 6: rewrite(x - x -> 0).
func Test_Scenario_SubSelfIsZero(t *testing.T) {
	x := NewWild(0)
	before := NewBinOp(ir.KindSub, x, x)
	after := NewConst(0).Typed(x)

	a := i32var("a")
	lhs := ir.MakeMul(a, i32imm(2))
	result, ok := NewRewriter(ir.MakeSub(lhs, ir.MakeMul(a, i32imm(2)))).Rewrite(before, after)
	if !ok {
		t.Fatalf("expected (a*2)-(a*2) to match")
	}
	imm, ok := result.(*ir.IntImm)
	if !ok || imm.Val != 0 {
		t.Fatalf("rewrite((a*2)-(a*2)) = %v, want IntImm(0)", result)
	}
}

// wildcard consistency.
func Test_RepeatWildcardRequiresEquality(t *testing.T) {
	x := NewWild(0)
	pattern := NewBinOp(ir.KindMin, x, x)
	a := i32var("a")
	b := i32var("b")

	s := &State{}
	if _, ok := pattern.Match(s, ir.MakeMin(a, b), 0); ok {
		t.Fatalf("min(a,b) should not match min(x,x): a and b are not structurally equal")
	}
	s = &State{}
	if _, ok := pattern.Match(s, ir.MakeMin(a, a), 0); !ok {
		t.Fatalf("min(a,a) should match min(x,x)")
	}
}

// mask monotonicity -- once A binds, B's match call is passed a mask
// that still reports A's bit set, so a shared repeat wildcard in B reduces
// to an equality check rather than a fresh bind.
func Test_MaskThreadedForward(t *testing.T) {
	x := NewWild(0)
	s := &State{}
	a := i32var("a")
	mask, ok := x.Match(s, a, 0)
	if !ok || !mask.hasSubtree(0) {
		t.Fatalf("expected wildcard 0 bound after first match")
	}
	// Feeding the same mask into a second Wild(0) match must now require
	// equality, not a fresh bind -- a structurally different subtree fails.
	b := i32var("b")
	if _, ok := x.Match(s, b, mask); ok {
		t.Fatalf("second match against a different subtree should fail once bound")
	}
}

// round trip for a constant wildcard.
func Test_WildConstRoundTrip(t *testing.T) {
	c := NewWildConstInt(0)
	e := i32imm(42)
	s := &State{}
	if _, ok := c.Match(s, e, 0); !ok {
		t.Fatalf("expected WildConstInt to match an IntImm")
	}
	rebuilt := c.Make(s)
	if !ir.Equal(rebuilt, e) {
		t.Fatalf("WildConstInt round trip = %v, want %v", rebuilt, e)
	}
}

func Test_WildConstRoundTrip_PreservesLanes(t *testing.T) {
	c := NewWildConstInt(0)
	e := ir.MakeBroadcast(i32imm(7), 4)
	s := &State{}
	if _, ok := c.Match(s, e, 0); !ok {
		t.Fatalf("expected WildConstInt to match a Broadcast of an IntImm")
	}
	rebuilt := c.Make(s)
	if !ir.Equal(rebuilt, e) {
		t.Fatalf("WildConstInt round trip = %v, want %v", rebuilt, e)
	}
}

// short-circuit And/Or does not evaluate (or propagate poison from)
// the right operand.
func Test_ShortCircuitAndSuppressesPoisonedRight(t *testing.T) {
	zero := NewWildConstUInt(0)
	divByZero := NewBinOp(ir.KindDiv, NewWildConstUInt(1), NewConst(0))
	pattern := NewBinOp(ir.KindAnd, zero, divByZero)

	s := &State{}
	zImm := ir.MakeUIntImm(0, ir.Scalar(ir.Uint, 32))
	oneImm := ir.MakeUIntImm(1, ir.Scalar(ir.Uint, 32))
	zeroDivisor := ir.MakeUIntImm(0, ir.Scalar(ir.Uint, 32))
	and := ir.MakeAnd(zImm, ir.MakeDiv(oneImm, zeroDivisor))
	if _, ok := pattern.Match(s, and, 0); !ok {
		t.Fatalf("expected 0 & (1/0) to structurally match the pattern")
	}
	v, ty := pattern.MakeFoldedConst(s)
	if ty.IsPoisoned() {
		t.Fatalf("short-circuited And must not carry poison: %v", ty)
	}
	if v.AsUint64() != 0 {
		t.Fatalf("0 & (1/0) = %d, want 0", v.AsUint64())
	}
}

func Test_ShortCircuitOr(t *testing.T) {
	one := NewWildConstUInt(0)
	divByZero := NewBinOp(ir.KindDiv, NewWildConstUInt(1), NewConst(0))
	pattern := NewBinOp(ir.KindOr, one, divByZero)

	s := &State{}
	oneImm := ir.MakeUIntImm(1, ir.Scalar(ir.Uint, 32))
	dividend := ir.MakeUIntImm(1, ir.Scalar(ir.Uint, 32))
	zeroDivisor := ir.MakeUIntImm(0, ir.Scalar(ir.Uint, 32))
	or := ir.MakeOr(oneImm, ir.MakeDiv(dividend, zeroDivisor))
	if _, ok := pattern.Match(s, or, 0); !ok {
		t.Fatalf("expected 1 | (1/0) to structurally match the pattern")
	}
	v, ty := pattern.MakeFoldedConst(s)
	if ty.IsPoisoned() {
		t.Fatalf("short-circuited Or must not carry poison: %v", ty)
	}
	if v.AsUint64() != 1 {
		t.Fatalf("1 | (1/0) = %d, want 1", v.AsUint64())
	}
}

// short-circuit must fire off the left operand's value alone, even when the
// left operand is itself poisoned: a poisoned-but-bit-0 left operand of And
// still short-circuits to 0, carrying only the left operand's poison, and
// the right operand's MakeFoldedConst (here a BindOp with an observable
// side effect) must never run.
func Test_ShortCircuitAndFiresOnPoisonedLeftAndSkipsRightSideEffect(t *testing.T) {
	s := &State{}
	s.SetBoundConst(0, ir.Uint64(7), ir.Scalar(ir.Uint, 32))

	c0 := NewWildConstUInt(0)
	left := NewBinOp(ir.KindDiv, c0, NewConst(0).Typed(c0))
	right := NewBindOp(4, c0)
	pattern := NewBinOp(ir.KindAnd, left, right)

	v, ty := pattern.MakeFoldedConst(s)
	if !ty.IsPoisoned() {
		t.Fatalf("short-circuited And must preserve the left operand's poison: %v", ty)
	}
	if v.AsUint64() != 0 {
		t.Fatalf("(7/0) & bind(...) = %d, want 0", v.AsUint64())
	}
	if _, bt := s.GetBoundConst(4); bt.Bits != 0 {
		t.Fatalf("right operand's BindOp fired despite the left operand short-circuiting: %v", bt)
	}
}

// vectorization -- a scalar rule that fires on e also fires on
// Broadcast(e, k), yielding Broadcast(rewrite(e), k).
func Test_VectorizationOverBroadcast(t *testing.T) {
	x := NewWild(0)
	before := NewBinOp(ir.KindAdd, x, NewConst(0))
	after := x

	y := i32var("y")
	scalarLHS := ir.MakeAdd(y, i32imm(0))
	scalarResult, ok := NewRewriter(scalarLHS).Rewrite(before, after)
	if !ok {
		t.Fatalf("expected scalar y+0 to match")
	}

	vecBefore := NewBinOp(ir.KindAdd, NewBroadcastOp(x, 4), NewBroadcastOp(NewConst(0), 4))
	vecAfter := NewBroadcastOp(x, 4)
	vecLHS := ir.MakeAdd(ir.MakeBroadcast(y, 4), ir.MakeBroadcast(i32imm(0), 4))
	vecResult, ok := NewRewriter(vecLHS).Rewrite(vecBefore, vecAfter)
	if !ok {
		t.Fatalf("expected Broadcast(y+0, 4) to match")
	}
	want := ir.MakeBroadcast(scalarResult, 4)
	if !ir.Equal(vecResult, want) {
		t.Fatalf("vectorized rewrite = %v, want %v", vecResult, want)
	}
}

func Test_NegateOp_MatchesSubFromZero(t *testing.T) {
	x := NewWild(0)
	pattern := NewNegateOp(x)
	a := i32var("a")
	s := &State{}
	if _, ok := pattern.Match(s, ir.MakeSub(i32imm(0), a), 0); !ok {
		t.Fatalf("expected Sub(0, a) to match NegateOp(x)")
	}
	if pattern.Make(s).(*ir.BinNode).Op != ir.KindSub {
		t.Fatalf("NegateOp.Make should desugar to a Sub node")
	}
}

func Test_IsConstOp(t *testing.T) {
	s := &State{}
	constPred := NewIsConstOp(NewExpr(i32imm(5)))
	v, _ := constPred.MakeFoldedConst(s)
	if v.AsUint64() != 1 {
		t.Fatalf("IsConstOp on a literal should fold to 1")
	}
	varPred := NewIsConstOp(NewExpr(i32var("a")))
	v, _ = varPred.MakeFoldedConst(s)
	if v.AsUint64() != 0 {
		t.Fatalf("IsConstOp on a variable should fold to 0")
	}
}

func Test_GCDOp(t *testing.T) {
	s := &State{}
	p := NewGCDOp(NewConst(12), NewConst(18))
	v, ty := p.MakeFoldedConst(s)
	if v.AsInt64() != 6 {
		t.Fatalf("gcd(12,18) = %d, want 6", v.AsInt64())
	}
	if ty.Code != ir.Int {
		t.Fatalf("GCDOp result type code = %v, want Int", ty.Code)
	}
}

func Test_BindOp_StoresConstantAndAlwaysTrue(t *testing.T) {
	s := &State{}
	bind := NewBindOp(2, NewConst(9))
	v, ty := bind.MakeFoldedConst(s)
	if v.AsUint64() != 1 || ty.IsPoisoned() {
		t.Fatalf("BindOp must always evaluate to true")
	}
	got, _ := s.GetBoundConst(2)
	if got.AsInt64() != 9 {
		t.Fatalf("BindOp did not store its value: got %d, want 9", got.AsInt64())
	}
}

func Test_RhsOnlyPatternPanicsInLhsPosition(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected FoldOp.Match to panic")
		}
	}()
	fold := NewFoldOp(NewConst(0))
	s := &State{}
	fold.Match(s, i32imm(0), 0)
}

func Test_WildcardIndexOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected NewWild(W) to panic")
		}
	}()
	NewWild(W)
}

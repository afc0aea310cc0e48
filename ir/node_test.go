package ir

import "testing"

func Test_Equal_IdentityShortCircuits(t *testing.T) {
	n := MakeVar("y", Scalar(Int, 32))
	if !Equal(n, n) {
		t.Fatalf("Equal(n, n) = false")
	}
}

func Test_Equal_StructuralAdd(t *testing.T) {
	mk := func() Node {
		return MakeAdd(MakeVar("a", Scalar(Int, 32)), MakeIntImm(1, Scalar(Int, 32)))
	}
	if !Equal(mk(), mk()) {
		t.Fatalf("two structurally identical Add trees compared unequal")
	}
}

func Test_Equal_DistinguishesOperandOrder(t *testing.T) {
	a := MakeVar("a", Scalar(Int, 32))
	b := MakeVar("b", Scalar(Int, 32))
	if Equal(MakeSub(a, b), MakeSub(b, a)) {
		t.Fatalf("Sub(a,b) compared equal to Sub(b,a)")
	}
}

func Test_Equal_FloatBitExact(t *testing.T) {
	a := MakeFloatImm(0.1, Scalar(Float, 64))
	b := MakeFloatImm(0.1, Scalar(Float, 64))
	if !Equal(a, b) {
		t.Fatalf("two float immediates with the same literal compared unequal")
	}
}

func Test_Equal_TypeMismatch(t *testing.T) {
	a := MakeIntImm(1, Scalar(Int, 32))
	b := MakeIntImm(1, Scalar(Int, 64))
	if Equal(a, b) {
		t.Fatalf("immediates of different bit width compared equal")
	}
}

func Test_IsConstExpr(t *testing.T) {
	if !IsConstExpr(MakeIntImm(5, Scalar(Int, 32))) {
		t.Fatalf("IntImm should be const")
	}
	if !IsConstExpr(MakeBroadcast(MakeIntImm(5, Scalar(Int, 32)), 4)) {
		t.Fatalf("Broadcast of an immediate should be const")
	}
	if IsConstExpr(MakeVar("x", Scalar(Int, 32))) {
		t.Fatalf("a variable should not be const")
	}
}

func Test_IsOne(t *testing.T) {
	if !IsOne(MakeUIntImm(1, Scalar(Uint, 1))) {
		t.Fatalf("UIntImm(1) should be one")
	}
	if IsOne(MakeUIntImm(0, Scalar(Uint, 1))) {
		t.Fatalf("UIntImm(0) should not be one")
	}
}

func Test_BinType_TakesMaxLanes(t *testing.T) {
	scalar := MakeIntImm(1, Scalar(Int, 32))
	vector := MakeBroadcast(MakeIntImm(2, Scalar(Int, 32)), 4)
	sum := MakeAdd(scalar, vector)
	if sum.Type().LaneCount() != 4 {
		t.Fatalf("MakeAdd(scalar, vector).Type().LaneCount() = %d, want 4", sum.Type().LaneCount())
	}
}

func Test_Kind_IsArithAndIsCompare(t *testing.T) {
	if !KindAdd.IsArith() || KindAdd.IsCompare() {
		t.Fatalf("KindAdd misclassified")
	}
	if !KindLT.IsCompare() || KindLT.IsArith() {
		t.Fatalf("KindLT misclassified")
	}
}

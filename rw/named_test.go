package rw

import (
	"testing"

	"github.com/zhulingfeng1993/irrewrite/ir"
)

func Test_MatchPositional_CollectsInOrder(t *testing.T) {
	star := ir.MakeVar("*", ir.Scalar(ir.Int, 0))
	pattern := ir.MakeAdd(star, star)
	a := i32imm(1)
	b := i32imm(2)
	out, ok := MatchPositional(pattern, ir.MakeAdd(a, b))
	if !ok {
		t.Fatalf("expected a+b to match *+*")
	}
	if len(out) != 2 || !ir.Equal(out[0], a) || !ir.Equal(out[1], b) {
		t.Fatalf("MatchPositional bindings = %v, want [%v %v]", out, a, b)
	}
}

func Test_MatchPositional_TypeConstraintBitsZeroMeansAny(t *testing.T) {
	anyBits := ir.MakeVar("*", ir.Scalar(ir.Int, 0))
	i64 := ir.MakeIntImm(1, ir.Scalar(ir.Int, 64))
	if _, ok := MatchPositional(anyBits, i64); !ok {
		t.Fatalf("a wildcard with bits=0 should match any bit width")
	}

	fixedBits := ir.MakeVar("*", ir.Scalar(ir.Int, 32))
	if _, ok := MatchPositional(fixedBits, i64); ok {
		t.Fatalf("a wildcard with bits=32 should not match an i64 candidate")
	}
}

func Test_MatchPositional_TypeConstraintLanesZeroMeansAny(t *testing.T) {
	anyLanes := ir.MakeVar("*", ir.Type{Code: ir.Int, Bits: 0, Lanes: 0})
	vec := ir.MakeBroadcast(i32imm(1), 8)
	if _, ok := MatchPositional(anyLanes, vec); !ok {
		t.Fatalf("a wildcard with lanes=0 should match any lane count")
	}

	fixedLanes := ir.MakeVar("*", ir.Vector(ir.Int, 32, 4))
	if _, ok := MatchPositional(fixedLanes, vec); ok {
		t.Fatalf("a wildcard declared with 4 lanes should not match an 8-lane candidate")
	}
}

func Test_MatchPositional_NonStarVarMatchesHostVariableByName(t *testing.T) {
	pattern := ir.MakeAdd(ir.MakeVar("y", ir.Scalar(ir.Int, 32)), i32imm(1))
	match := ir.MakeAdd(ir.MakeVar("y", ir.Scalar(ir.Int, 32)), i32imm(1))
	if _, ok := MatchPositional(pattern, match); !ok {
		t.Fatalf("expected a named host variable to match the identical variable")
	}
	mismatch := ir.MakeAdd(ir.MakeVar("z", ir.Scalar(ir.Int, 32)), i32imm(1))
	if _, ok := MatchPositional(pattern, mismatch); ok {
		t.Fatalf("a pattern variable 'y' should not match host variable 'z'")
	}
}

func Test_MatchNamed_RepeatNameRequiresEquality(t *testing.T) {
	x := ir.MakeVar("x", ir.Scalar(ir.Int, 32))
	pattern := ir.MakeMin(x, x)
	a := i32var("a")
	out, ok := MatchNamed(pattern, ir.MakeMin(a, a))
	if !ok {
		t.Fatalf("expected min(a,a) to match min(x,x)")
	}
	if !ir.Equal(out["x"], a) {
		t.Fatalf("MatchNamed bindings[x] = %v, want %v", out["x"], a)
	}

	b := i32var("b")
	if _, ok := MatchNamed(pattern, ir.MakeMin(a, b)); ok {
		t.Fatalf("min(a,b) should not match min(x,x): a and b are not equal")
	}
}

func Test_MatchNamed_DistinctNamesBindIndependently(t *testing.T) {
	x := ir.MakeVar("x", ir.Scalar(ir.Int, 32))
	y := ir.MakeVar("y", ir.Scalar(ir.Int, 32))
	pattern := ir.MakeAdd(x, y)
	a := i32var("a")
	b := i32var("b")
	out, ok := MatchNamed(pattern, ir.MakeAdd(a, b))
	if !ok {
		t.Fatalf("expected a+b to match x+y")
	}
	if !ir.Equal(out["x"], a) || !ir.Equal(out["y"], b) {
		t.Fatalf("MatchNamed bindings = %v", out)
	}
}

package ir

import (
	"fmt"
	"strings"
)

// Kind discriminates the node variants the engine knows how to inspect. It
// mirrors the tagged-union IR of the host compiler; Other stands in for
// everything the engine treats opaquely (host variables, loads, and the
// rest of a real backend's node zoo).
type Kind uint8

const (
	KindIntImm Kind = iota
	KindUIntImm
	KindFloatImm
	KindBroadcast
	KindRamp
	KindAdd
	KindSub
	KindMul
	KindDiv
	KindMod
	KindMin
	KindMax
	KindAnd
	KindOr
	KindNot
	KindLT
	KindLE
	KindGT
	KindGE
	KindEQ
	KindNE
	KindSelect
	KindCast
	KindCall
	KindOther
)

var kindNames = map[Kind]string{
	KindIntImm: "IntImm", KindUIntImm: "UIntImm", KindFloatImm: "FloatImm",
	KindBroadcast: "Broadcast", KindRamp: "Ramp",
	KindAdd: "Add", KindSub: "Sub", KindMul: "Mul", KindDiv: "Div", KindMod: "Mod",
	KindMin: "Min", KindMax: "Max", KindAnd: "And", KindOr: "Or", KindNot: "Not",
	KindLT: "LT", KindLE: "LE", KindGT: "GT", KindGE: "GE", KindEQ: "EQ", KindNE: "NE",
	KindSelect: "Select", KindCast: "Cast", KindCall: "Call", KindOther: "Other",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsArith reports whether k is one of Add, Sub, Mul, Div, Mod, Min, Max, And, Or.
func (k Kind) IsArith() bool {
	switch k {
	case KindAdd, KindSub, KindMul, KindDiv, KindMod, KindMin, KindMax, KindAnd, KindOr:
		return true
	}
	return false
}

// IsCompare reports whether k is one of LT, LE, GT, GE, EQ, NE.
func (k Kind) IsCompare() bool {
	switch k {
	case KindLT, KindLE, KindGT, KindGE, KindEQ, KindNE:
		return true
	}
	return false
}

// Node is the read-only view of an IR expression the engine is built over.
// Concrete node types below implement it; the engine never constructs a
// type outside this set and never mutates one in place.
type Node interface {
	Kind() Kind
	Type() Type
	String() string
}

// IntImm is a signed integer immediate.
type IntImm struct {
	Val int64
	Typ Type
}

func (n *IntImm) Kind() Kind   { return KindIntImm }
func (n *IntImm) Type() Type   { return n.Typ }
func (n *IntImm) String() string { return fmt.Sprintf("%d", n.Val) }

// UIntImm is an unsigned integer immediate.
type UIntImm struct {
	Val uint64
	Typ Type
}

func (n *UIntImm) Kind() Kind   { return KindUIntImm }
func (n *UIntImm) Type() Type   { return n.Typ }
func (n *UIntImm) String() string { return fmt.Sprintf("%du", n.Val) }

// FloatImm is a floating point immediate.
type FloatImm struct {
	Val float64
	Typ Type
}

func (n *FloatImm) Kind() Kind   { return KindFloatImm }
func (n *FloatImm) Type() Type   { return n.Typ }
func (n *FloatImm) String() string { return fmt.Sprintf("%gf", n.Val) }

// BroadcastNode replicates Value across Typ.LaneCount() lanes.
type BroadcastNode struct {
	Value Node
	Typ   Type
}

func (n *BroadcastNode) Kind() Kind { return KindBroadcast }
func (n *BroadcastNode) Type() Type { return n.Typ }
func (n *BroadcastNode) String() string {
	return fmt.Sprintf("broadcast(%s, %d)", n.Value, n.Typ.LaneCount())
}

// RampNode is base, base+stride, base+2*stride, ... across Typ.LaneCount() lanes.
type RampNode struct {
	Base, Stride Node
	Typ          Type
}

func (n *RampNode) Kind() Kind { return KindRamp }
func (n *RampNode) Type() Type { return n.Typ }
func (n *RampNode) String() string {
	return fmt.Sprintf("ramp(%s, %s, %d)", n.Base, n.Stride, n.Typ.LaneCount())
}

// BinNode covers the arithmetic and bitwise-logical binary kinds: Add, Sub,
// Mul, Div, Mod, Min, Max, And, Or.
type BinNode struct {
	Op   Kind
	A, B Node
	Typ  Type
}

func (n *BinNode) Kind() Kind { return n.Op }
func (n *BinNode) Type() Type { return n.Typ }
func (n *BinNode) String() string {
	return fmt.Sprintf("(%s %s %s)", n.A, n.Op, n.B)
}

// CmpNode covers LT, LE, GT, GE, EQ, NE.
type CmpNode struct {
	Op   Kind
	A, B Node
	Typ  Type
}

func (n *CmpNode) Kind() Kind { return n.Op }
func (n *CmpNode) Type() Type { return n.Typ }
func (n *CmpNode) String() string {
	return fmt.Sprintf("(%s %s %s)", n.A, n.Op, n.B)
}

// NotNode is boolean negation of A.
type NotNode struct {
	A   Node
	Typ Type
}

func (n *NotNode) Kind() Kind   { return KindNot }
func (n *NotNode) Type() Type   { return n.Typ }
func (n *NotNode) String() string { return fmt.Sprintf("!%s", n.A) }

// SelectNode is a lane-wise select(cond, true_val, false_val).
type SelectNode struct {
	Cond, True, False Node
	Typ               Type
}

func (n *SelectNode) Kind() Kind { return KindSelect }
func (n *SelectNode) Type() Type { return n.Typ }
func (n *SelectNode) String() string {
	return fmt.Sprintf("select(%s, %s, %s)", n.Cond, n.True, n.False)
}

// CastNode reinterprets/converts Value to Typ.
type CastNode struct {
	Value Node
	Typ   Type
}

func (n *CastNode) Kind() Kind { return KindCast }
func (n *CastNode) Type() Type { return n.Typ }
func (n *CastNode) String() string {
	return fmt.Sprintf("cast<%s>(%s)", n.Typ, n.Value)
}

// CallNode is a named intrinsic applied to positional Args.
type CallNode struct {
	Name string
	Args []Node
	Typ  Type
}

func (n *CallNode) Kind() Kind { return KindCall }
func (n *CallNode) Type() Type { return n.Typ }
func (n *CallNode) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Name, strings.Join(parts, ", "))
}

// VarNode is an opaque leaf: a host variable when it appears in a concrete
// expression, or a named wildcard (see MatchNamed/MatchPositional in
// package rw) when it appears in a pattern tree. The positional flavor uses
// the reserved name "*"; the named flavor uses any other identifier.
type VarNode struct {
	Name string
	Typ  Type
}

func (n *VarNode) Kind() Kind   { return KindOther }
func (n *VarNode) Type() Type   { return n.Typ }
func (n *VarNode) String() string { return n.Name }

package main

import (
	"github.com/zhulingfeng1993/irrewrite/ir"
	"github.com/zhulingfeng1993/irrewrite/rw"
)

// builtinRules mirrors the end-to-end scenarios: a short, ordered list a
// real simplifier's rule table would carry many more of. First match wins,
// per the dispatcher's ordering guarantee.
func builtinRules() []rw.Rule {
	x := rw.NewWild(0)
	y := rw.NewWild(1)
	c0 := rw.NewWildConstInt(0)
	c1 := rw.NewWildConstInt(1)

	return []rw.Rule{
		{Before: rw.NewBinOp(ir.KindAdd, x, rw.NewConst(0)), After: x},
		{Before: rw.NewBinOp(ir.KindAdd, rw.NewConst(0), x), After: x},
		{Before: rw.NewBinOp(ir.KindSub, x, rw.NewConst(0)), After: x},
		{Before: rw.NewBinOp(ir.KindMul, x, rw.NewConst(1)), After: x},
		{Before: rw.NewBinOp(ir.KindMul, x, rw.NewConst(0)), After: rw.NewConst(0).Typed(x)},
		{Before: rw.NewBinOp(ir.KindSub, x, x), After: rw.NewConst(0).Typed(x)},
		{Before: rw.NewBinOp(ir.KindMin, x, x), After: x},
		{Before: rw.NewBinOp(ir.KindMax, x, x), After: x},
		{
			Before: rw.NewBinOp(ir.KindAdd, c0, c1),
			After:  rw.NewFoldOp(rw.NewBinOp(ir.KindAdd, c0, c1)),
		},
		{
			Before: rw.NewBinOp(ir.KindMul, c0, c1),
			After:  rw.NewFoldOp(rw.NewBinOp(ir.KindMul, c0, c1)),
		},
		{
			Before:    rw.NewBinOp(ir.KindDiv, y, c0),
			After:     rw.NewFoldOp(rw.NewBinOp(ir.KindDiv, y, c0)),
			Predicate: rw.NewCmpOp(ir.KindNE, c0, rw.NewConst(0)),
		},
	}
}

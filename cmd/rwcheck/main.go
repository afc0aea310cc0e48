// rwcheck is a small flag-driven harness: -selftest runs the end-to-end
// scenarios the engine's design was checked against and reports PASS/FAIL
// for each, in the spirit of the compiler's own compare-and-report test
// driver; -expr applies the builtin rule list to a single expression.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/zhulingfeng1993/irrewrite/ir"
	"github.com/zhulingfeng1993/irrewrite/rw"
)

func main() {
	selftest := flag.Bool("selftest", false, "run the built-in end-to-end scenarios and report pass/fail")
	expr := flag.String("expr", "", "apply the builtin rule list to this expression and print the result")
	flag.Parse()

	if *selftest {
		if !runSelfTest() {
			os.Exit(1)
		}
		return
	}

	if *expr == "" {
		flag.Usage()
		os.Exit(2)
	}

	n, err := parseExprStandalone(*expr)
	if err != nil {
		log.Fatal(err)
	}
	result, matched := rw.ApplyRules(n, builtinRuleSet())
	if !matched {
		fmt.Println("no rule fired")
		return
	}
	fmt.Println(result.String())
}

type scenario struct {
	name string
	run  func() error
}

func runSelfTest() bool {
	scenarios := []scenario{
		{"add-zero-identity", checkAddZeroIdentity},
		{"min-self-identity", checkMinSelfIdentity},
		{"fold-constant-add", checkFoldConstantAdd},
		{"fold-constant-overflow", checkFoldConstantOverflow},
		{"div-by-zero-predicate-blocks", checkDivByZeroBlocksRewrite},
		{"sub-self-is-zero", checkSubSelfIsZero},
	}
	allOK := true
	for _, sc := range scenarios {
		if err := sc.run(); err != nil {
			fmt.Printf("FAIL %s: %v\n", sc.name, err)
			allOK = false
			continue
		}
		fmt.Printf("PASS %s\n", sc.name)
	}
	return allOK
}

func i32(v int64) ir.Node { return ir.MakeIntImm(v, ir.Scalar(ir.Int, 32)) }

func checkAddZeroIdentity() error {
	x := rw.NewWild(0)
	before := rw.NewBinOp(ir.KindAdd, x, rw.NewConst(0))
	y := ir.MakeVar("y", ir.Scalar(ir.Int, 32))
	result, ok := rw.NewRewriter(ir.MakeAdd(y, i32(0))).Rewrite(before, x)
	if !ok || !ir.Equal(result, y) {
		return fmt.Errorf("rewrite(y+0) = %v, ok=%v, want y", result, ok)
	}
	return nil
}

func checkMinSelfIdentity() error {
	x := rw.NewWild(0)
	before := rw.NewBinOp(ir.KindMin, x, x)
	a := ir.MakeVar("a", ir.Scalar(ir.Int, 32))
	aPlus1 := ir.MakeAdd(a, i32(1))
	result, ok := rw.NewRewriter(ir.MakeMin(aPlus1, ir.MakeAdd(a, i32(1)))).Rewrite(before, x)
	if !ok || !ir.Equal(result, aPlus1) {
		return fmt.Errorf("rewrite(min(a+1,a+1)) = %v, ok=%v, want a+1", result, ok)
	}
	return nil
}

func checkFoldConstantAdd() error {
	c0, c1 := rw.NewWildConstInt(0), rw.NewWildConstInt(1)
	before := rw.NewBinOp(ir.KindAdd, c0, c1)
	after := rw.NewFoldOp(rw.NewBinOp(ir.KindAdd, c0, c1))
	result, ok := rw.NewRewriter(ir.MakeAdd(i32(3), i32(5))).Rewrite(before, after)
	if !ok {
		return fmt.Errorf("3+5 did not match")
	}
	imm, ok := result.(*ir.IntImm)
	if !ok || imm.Val != 8 {
		return fmt.Errorf("rewrite(3+5) = %v, want IntImm(8)", result)
	}
	return nil
}

func checkFoldConstantOverflow() error {
	c0, c1 := rw.NewWildConstInt(0), rw.NewWildConstInt(1)
	before := rw.NewBinOp(ir.KindAdd, c0, c1)
	after := rw.NewFoldOp(rw.NewBinOp(ir.KindAdd, c0, c1))
	result, ok := rw.NewRewriter(ir.MakeAdd(i32(2147483647), i32(1))).Rewrite(before, after)
	if !ok {
		return fmt.Errorf("INT32_MAX+1 did not match")
	}
	call, ok := result.(*ir.CallNode)
	if !ok || call.Name != rw.SignedOverflowIntrinsic {
		return fmt.Errorf("rewrite(INT32_MAX+1) = %v, want a signed_integer_overflow call", result)
	}
	return nil
}

func checkDivByZeroBlocksRewrite() error {
	x := rw.NewWild(0)
	c0 := rw.NewWildConstInt(1)
	before := rw.NewBinOp(ir.KindDiv, x, c0)
	after := rw.NewFoldOp(rw.NewBinOp(ir.KindDiv, x, c0))
	pred := rw.NewCmpOp(ir.KindNE, c0, rw.NewConst(0))
	y := ir.MakeVar("y", ir.Scalar(ir.Int, 32))
	if _, ok := rw.NewRewriter(ir.MakeDiv(y, i32(0))).RewriteIf(before, after, pred); ok {
		return fmt.Errorf("y/0 fired despite the c0 != 0 predicate")
	}
	return nil
}

func checkSubSelfIsZero() error {
	x := rw.NewWild(0)
	before := rw.NewBinOp(ir.KindSub, x, x)
	after := rw.NewConst(0).Typed(x)
	a := ir.MakeVar("a", ir.Scalar(ir.Int, 32))
	lhs := ir.MakeMul(a, i32(2))
	result, ok := rw.NewRewriter(ir.MakeSub(lhs, ir.MakeMul(a, i32(2)))).Rewrite(before, after)
	if !ok {
		return fmt.Errorf("(a*2)-(a*2) did not match")
	}
	imm, ok := result.(*ir.IntImm)
	if !ok || imm.Val != 0 {
		return fmt.Errorf("rewrite((a*2)-(a*2)) = %v, want IntImm(0)", result)
	}
	return nil
}

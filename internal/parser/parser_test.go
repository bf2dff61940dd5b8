package parser

import (
	"testing"

	"github.com/tacc-project/tacc/internal/ast"
)

const s6Program = `
bool main()
{
	if(5 < 3 and true)
	{
		int a = 5;
	}
	else
	{
		int b = 3;
	}
	return true;
}
`

func TestParseS6Smoke(t *testing.T) {
	p, err := New(s6Program)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	prog, err := p.Program()
	if err != nil {
		t.Fatalf("Program: %v", err)
	}
	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Sym.Name != "main" {
		t.Fatalf("expected function named main, got %q", fn.Sym.Name)
	}
	if len(fn.Body.Stmts) != 2 {
		t.Fatalf("expected an if and a return, got %d statements", len(fn.Body.Stmts))
	}
	ifStmt, ok := fn.Body.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected first statement to be an IfStmt, got %T", fn.Body.Stmts[0])
	}
	cond, ok := ifStmt.Cond.(*ast.BinaryExpr)
	if !ok || cond.Op != ast.And {
		t.Fatalf("expected condition to be an And expression, got %#v", ifStmt.Cond)
	}
	lt, ok := cond.Left.(*ast.BinaryExpr)
	if !ok || lt.Op != ast.Less {
		t.Fatalf("expected left side of And to be Less, got %#v", cond.Left)
	}
	if ifStmt.FalseStmt == nil {
		t.Fatal("expected an else branch")
	}
	ret, ok := fn.Body.Stmts[1].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected second statement to be ReturnStmt, got %T", fn.Body.Stmts[1])
	}
	if b, ok := ret.Expr.(ast.BoolLit); !ok || !b.Value {
		t.Fatalf("expected return true, got %#v", ret.Expr)
	}
}

func TestVarDeclLowersToAssign(t *testing.T) {
	p, err := New(s6Program)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	prog, err := p.Program()
	if err != nil {
		t.Fatalf("Program: %v", err)
	}
	ifStmt := prog.Functions[0].Body.Stmts[0].(*ast.IfStmt)
	thenBlock := ifStmt.TrueStmt.(*ast.Block)
	declStmt := thenBlock.Stmts[0].(*ast.ExprStmt)
	assign, ok := declStmt.Expr.(*ast.BinaryExpr)
	if !ok || assign.Op != ast.Assign {
		t.Fatalf("expected var decl to lower to an Assign BinaryExpr, got %#v", declStmt.Expr)
	}
	if v, ok := assign.Left.(*ast.VarExpr); !ok || v.Sym.Name != "a" {
		t.Fatalf("expected assignment target 'a', got %#v", assign.Left)
	}
}

func TestPrecedenceClimbing(t *testing.T) {
	p, err := New("int main() { int a = 1 + 2 * 3; return a; }")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	prog, err := p.Program()
	if err != nil {
		t.Fatalf("Program: %v", err)
	}
	decl := prog.Functions[0].Body.Stmts[0].(*ast.ExprStmt)
	assign := decl.Expr.(*ast.BinaryExpr)
	add, ok := assign.Right.(*ast.BinaryExpr)
	if !ok || add.Op != ast.Add {
		t.Fatalf("expected top-level Add, got %#v", assign.Right)
	}
	if _, ok := add.Left.(ast.IntLit); !ok {
		t.Fatalf("expected Add.Left to be a literal, got %#v", add.Left)
	}
	mul, ok := add.Right.(*ast.BinaryExpr)
	if !ok || mul.Op != ast.Mul {
		t.Fatalf("expected * to bind tighter than +, got %#v", add.Right)
	}
}

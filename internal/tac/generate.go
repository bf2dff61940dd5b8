package tac

import (
	"github.com/tacc-project/tacc/internal/ast"
	"github.com/tacc-project/tacc/internal/errs"
	"github.com/tacc-project/tacc/internal/symtab"
)

// nameGenerator hands out unique, "__"-prefixed names from a fixed
// prefix — used for both generated labels and generated temporaries, the
// same way the original's NameGenerator is reused for both.
type nameGenerator struct {
	prefix string
	n      int
}

func (g *nameGenerator) next() string {
	g.n++
	return g.prefix + itoa(g.n-1)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Generate lowers a parsed program into one tac.Function per AST function,
// walking each function body with a label threaded through statements
// exactly as the original TacGenerator does: a statement that needs to
// attach a label to its first emitted quadruple receives that label as an
// argument and is responsible for placing it, returning the label any
// *following* statement should use (non-empty only right after an if/while
// lowering that left a trailing target label unconsumed).
func Generate(program *ast.Program) ([]Function, error) {
	labelGen := &nameGenerator{prefix: "__label"}
	tempGen := &nameGenerator{prefix: "__temp"}

	var out []Function
	for _, fn := range program.Functions {
		bodyScope := fn.Sym.ParameterScope.Child(0)
		g := &generator{labelGen: labelGen, tempGen: tempGen, scope: bodyScope}
		trailing, err := g.stmt(fn.Body, "")
		if err != nil {
			return nil, err
		}
		// A function whose body doesn't end in an explicit Return still
		// falls off the end and must reach a ret: synthesize one with no
		// value, attaching any trailing if/while label that would
		// otherwise be dropped on the floor.
		if len(g.quads) == 0 || g.quads[len(g.quads)-1].Instr != Return {
			g.emit(trailing, Return, EmptyAddr(), EmptyAddr(), EmptyAddr())
		}
		out = append(out, Function{Sym: fn.Sym, Quads: g.quads})
	}
	return out, nil
}

type generator struct {
	labelGen *nameGenerator
	tempGen  *nameGenerator
	scope    *symtab.Scope
	quads    []Quadruple
	addr     Address
}

func (g *generator) newTemp(t symtab.Type) *symtab.Variable {
	name := g.tempGen.next()
	v := &symtab.Variable{Name: name, Type: t}
	g.scope.InsertVariable(v)
	return v
}

func (g *generator) emit(label string, instr InstructionType, result, arg1, arg2 Address) {
	g.quads = append(g.quads, Quadruple{Label: label, Instr: instr, Result: result, Arg1: arg1, Arg2: arg2})
}

// stmt lowers s, threading label the same way the original's StmtVisitor
// does, and returns the label a subsequent statement should attach (only
// non-empty right after an if/while that produced a trailing "after" label).
func (g *generator) stmt(s ast.Stmt, label string) (string, error) {
	switch s := s.(type) {
	case *ast.ExprStmt:
		return g.expr(s.Expr, label)

	case *ast.IfStmt:
		condLabel, err := g.expr(s.Cond, label)
		if err != nil {
			return "", err
		}
		cond := g.addr
		afterLabel := g.labelGen.next()

		if s.FalseStmt != nil {
			falseLabel := g.labelGen.next()
			g.emit(condLabel, IfFalseJump, cond, LabelOperand(falseLabel), EmptyAddr())
			if _, err := g.stmt(s.TrueStmt, ""); err != nil {
				return "", err
			}
			g.emit("", Jump, LabelOperand(afterLabel), EmptyAddr(), EmptyAddr())
			if _, err := g.stmt(s.FalseStmt, falseLabel); err != nil {
				return "", err
			}
		} else {
			g.emit(condLabel, IfFalseJump, cond, LabelOperand(afterLabel), EmptyAddr())
			if _, err := g.stmt(s.TrueStmt, ""); err != nil {
				return "", err
			}
		}
		return afterLabel, nil

	case *ast.WhileStmt:
		loopLabel := label
		if loopLabel == "" {
			loopLabel = g.labelGen.next()
		}
		afterLabel := g.labelGen.next()
		condLabel, err := g.expr(s.Cond, loopLabel)
		if err != nil {
			return "", err
		}
		g.emit(condLabel, IfFalseJump, g.addr, LabelOperand(afterLabel), EmptyAddr())
		if _, err := g.stmt(s.Body, ""); err != nil {
			return "", err
		}
		g.emit("", Jump, LabelOperand(loopLabel), EmptyAddr(), EmptyAddr())
		return afterLabel, nil

	case *ast.ReturnStmt:
		retLabel := label
		arg := EmptyAddr()
		if s.Expr != nil {
			newLabel, err := g.expr(s.Expr, label)
			if err != nil {
				return "", err
			}
			retLabel = newLabel
			arg = g.addr
		}
		g.emit(retLabel, Return, EmptyAddr(), arg, EmptyAddr())
		return "", nil

	case *ast.Block:
		for _, inner := range s.Stmts {
			var err error
			label, err = g.stmt(inner, label)
			if err != nil {
				return "", err
			}
		}
		return label, nil

	default:
		return "", errs.New(errs.UnsupportedOpcode, "unsupported statement node")
	}
}

func (g *generator) expr(e ast.Expr, label string) (string, error) {
	switch e := e.(type) {
	case *ast.BinaryExpr:
		var err error
		label, err = g.expr(e.Left, label)
		if err != nil {
			return "", err
		}
		left := g.addr
		label, err = g.expr(e.Right, label)
		if err != nil {
			return "", err
		}
		right := g.addr

		instr, err := binaryInstr(e.Op)
		if err != nil {
			return "", err
		}
		if e.Op == ast.Assign {
			g.addr = left
			g.emit(label, instr, left, right, EmptyAddr())
		} else {
			tmp := g.newTemp(e.Type)
			g.addr = VarAddr(tmp)
			g.emit(label, instr, VarAddr(tmp), left, right)
		}
		return "", nil

	case *ast.UnaryExpr:
		label, err := g.expr(e.Operand, label)
		if err != nil {
			return "", err
		}
		operand := g.addr
		tmp := g.newTemp(e.Type)
		g.addr = VarAddr(tmp)
		instr := Not
		if e.Op == ast.Negate {
			instr = Negate
		}
		g.emit(label, instr, VarAddr(tmp), operand, EmptyAddr())
		return "", nil

	case *ast.CallExpr:
		// Only the first Param (if any) can legitimately carry the
		// caller's block-entry label; the original threads the same
		// label through every trivial (non-emitting) argument
		// instead, which double-labels later Param quadruples in a
		// multi-argument call. Clearing it after the first use keeps
		// the "only a block's first quadruple may carry a label"
		// invariant intact.
		var err error
		for _, a := range e.Args {
			label, err = g.expr(a, label)
			if err != nil {
				return "", err
			}
			g.emit(label, Param, EmptyAddr(), g.addr, EmptyAddr())
			label = ""
		}
		tmp := g.newTemp(e.Sym.ReturnType)
		g.addr = VarAddr(tmp)
		g.emit(label, Call, VarAddr(tmp), FuncAddr(e.Sym), ArgCountAddr(len(e.Args)))
		return "", nil

	case *ast.VarExpr:
		g.addr = VarAddr(e.Sym)
		return label, nil

	case ast.IntLit:
		g.addr = IntConst(e.Value)
		return label, nil

	case ast.FloatLit:
		g.addr = FloatConst(e.Value)
		return label, nil

	case ast.BoolLit:
		g.addr = BoolConst(e.Value)
		return label, nil

	case ast.StrLit:
		return "", errs.New(errs.UnsupportedOperand, "string constants are not supported by the back end")

	default:
		return "", errs.New(errs.UnsupportedOperand, "unsupported expression node")
	}
}

func binaryInstr(op ast.BinaryOperator) (InstructionType, error) {
	switch op {
	case ast.Add:
		return Add, nil
	case ast.Sub:
		return Sub, nil
	case ast.Mul:
		return Mul, nil
	case ast.Div:
		return Div, nil
	case ast.Less:
		return Less, nil
	case ast.LessEqual:
		return LessEqual, nil
	case ast.Greater:
		return Greater, nil
	case ast.GreaterEqual:
		return GreaterEqual, nil
	case ast.Equal:
		return Equal, nil
	case ast.NotEqual:
		return NotEqual, nil
	case ast.Assign:
		return Assign, nil
	case ast.And:
		return And, nil
	case ast.Or:
		return Or, nil
	default:
		return 0, errs.New(errs.UnsupportedOpcode, "unknown binary operator")
	}
}

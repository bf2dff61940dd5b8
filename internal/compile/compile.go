// Package compile wires the front end (lexer is driven internally by the
// parser, parser, TAC generator) and the back end (codegen) into the
// single-file pipeline the CLI drives: parse -> lower -> emit.
package compile

import (
	"bytes"

	"github.com/tacc-project/tacc/internal/codegen"
	"github.com/tacc-project/tacc/internal/parser"
	"github.com/tacc-project/tacc/internal/tac"
	"github.com/tacc-project/tacc/internal/version"
)

// Result is everything a single compiled file produces: its lowered TAC
// (useful for -emit-tac) and its emitted assembly text.
type Result struct {
	Functions []tac.Function
	Assembly  string
}

// File runs one source file through the whole pipeline: the version
// pragma check, parse, TAC lowering, and code generation.
func File(src string) (*Result, error) {
	if err := version.CheckPragma(src); err != nil {
		return nil, err
	}

	p, err := parser.New(src)
	if err != nil {
		return nil, err
	}
	program, err := p.Program()
	if err != nil {
		return nil, err
	}

	functions, err := tac.Generate(program)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := codegen.Generate(&buf, functions); err != nil {
		return nil, err
	}

	return &Result{Functions: functions, Assembly: buf.String()}, nil
}

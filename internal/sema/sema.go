// Package sema implements the semantic checker: a single read-only AST
// walk validating call arity and parameter-passing mode. It accumulates
// every finding instead of stopping at the first.
package sema

import (
	"github.com/misat1505/tkom-sub000/internal/ast"
	"github.com/misat1505/tkom-sub000/internal/issue"
	"github.com/misat1505/tkom-sub000/internal/position"
)

// Checker walks a Program and collects issues.
type Checker struct {
	program *ast.Program
	issues  issue.List
}

// New builds a Checker for program.
func New(program *ast.Program) *Checker {
	return &Checker{program: program}
}

// Check runs the walk and returns the accumulated issues.
func (c *Checker) Check() *issue.List {
	for _, stmt := range c.program.Statements {
		c.checkStatement(stmt)
	}
	for _, fn := range c.program.Functions {
		c.checkBlock(fn.Body)
	}
	return &c.issues
}

func (c *Checker) checkBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		c.checkStatement(stmt)
	}
}

func (c *Checker) checkStatement(s *ast.Statement) {
	if s == nil {
		return
	}
	switch s.Kind {
	case ast.StmtDeclaration:
		c.checkExpr(s.DeclInit)
	case ast.StmtAssignment:
		c.checkExpr(s.AssignExpr)
	case ast.StmtCall:
		c.checkCall(s.Position, s.CallName, s.CallArgs)
	case ast.StmtConditional:
		c.checkExpr(s.CondExpr)
		c.checkBlock(s.CondThen)
		c.checkBlock(s.CondElse)
	case ast.StmtForLoop:
		c.checkStatement(s.ForInit)
		c.checkExpr(s.ForCond)
		c.checkStatement(s.ForStep)
		c.checkBlock(s.ForBody)
	case ast.StmtSwitch:
		for _, subj := range s.SwitchSubjects {
			c.checkExpr(subj.Expr)
		}
		for _, cs := range s.SwitchCases {
			c.checkExpr(cs.Guard)
			c.checkBlock(cs.Body)
		}
	case ast.StmtReturn:
		c.checkExpr(s.ReturnExpr)
	case ast.StmtBreak:
	}
}

func (c *Checker) checkExpr(e *ast.Expression) {
	if e == nil {
		return
	}
	switch e.Kind {
	case ast.ExprCast:
		c.checkExpr(e.Operand)
	case ast.ExprUnary:
		c.checkExpr(e.Operand)
	case ast.ExprBinary:
		c.checkExpr(e.Left)
		c.checkExpr(e.Right)
	case ast.ExprCall:
		c.checkCall(e.Position, e.Name, e.Args)
	}
}

// checkCall validates that name exists, arity matches, and every
// argument's passing mode matches the corresponding declared parameter.
func (c *Checker) checkCall(pos position.Position, name string, args []ast.Argument) {
	params, ok := c.lookupParams(name)
	if !ok {
		c.issues.Add(issue.New(issue.PhaseSemantic, issue.LevelError, pos, "call to unknown function '%s'", name))
		return
	}
	if len(args) != len(params) {
		c.issues.Add(issue.New(issue.PhaseSemantic, issue.LevelError, pos,
			"function '%s' expects %d argument(s) but call provides %d", name, len(params), len(args)))
	}
	n := len(args)
	if len(params) < n {
		n = len(params)
	}
	for i := 0; i < n; i++ {
		if args[i].Mode != params[i].Mode {
			c.issues.Add(issue.New(issue.PhaseSemantic, issue.LevelError, pos,
				"argument %d of call to '%s' passed %s but parameter '%s' is declared %s",
				i+1, name, args[i].Mode, params[i].Name, params[i].Mode))
		}
	}
	for _, arg := range args {
		c.checkExpr(arg.Expr)
	}
}

func (c *Checker) lookupParams(name string) ([]ast.Parameter, bool) {
	if fn, ok := c.program.Functions[name]; ok {
		return fn.Parameters, true
	}
	if b, ok := c.program.Builtins[name]; ok {
		return b.Parameters, true
	}
	return nil, false
}

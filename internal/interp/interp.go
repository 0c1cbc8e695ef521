// Package interp implements the tree-walking evaluator: it drives
// control flow over a Program, owns the call Stack, delegates value
// operations to the ALU, and dispatches built-ins.
//
// Control flow is modeled as a small tagged result returned from each
// statement/block evaluation instead of interpreter-wide mutable flags —
// see SPEC_FULL.md's CONTROL-FLOW REDESIGN section.
package interp

import (
	"bufio"
	"fmt"
	"io"

	"github.com/misat1505/tkom-sub000/internal/alu"
	"github.com/misat1505/tkom-sub000/internal/ast"
	"github.com/misat1505/tkom-sub000/internal/issue"
	"github.com/misat1505/tkom-sub000/internal/position"
	"github.com/misat1505/tkom-sub000/internal/scope"
	"github.com/misat1505/tkom-sub000/internal/value"
)

type flowKind int

const (
	flowNormal flowKind = iota
	flowBreak
	flowReturn
)

// flow is the tagged control-flow result a statement or block evaluation
// produces: normal completion, a break, or a return (optionally carrying
// a value).
type flow struct {
	kind     flowKind
	value    value.Value
	hasValue bool
}

var normalFlow = flow{kind: flowNormal}

// Interpreter evaluates a Program over a Stack, using the host-supplied
// stdout/stdin for the print/input built-ins.
type Interpreter struct {
	program  *ast.Program
	stack    *scope.Stack
	stdout   io.Writer
	stdin    *bufio.Reader
	position position.Position
}

// New builds an Interpreter for program, writing built-in output to
// stdout and reading built-in input from stdin.
func New(program *ast.Program, stdout io.Writer, stdin io.Reader) *Interpreter {
	return &Interpreter{
		program: program,
		stack:   scope.NewStack(),
		stdout:  stdout,
		stdin:   bufio.NewReader(stdin),
	}
}

func (in *Interpreter) runtimeErr(format string, args ...interface{}) error {
	return issue.New(issue.PhaseRuntime, issue.LevelError, in.position, format, args...)
}

// Run executes every top-level statement in order. A break or return
// surfacing out of the top level is a fatal error (spec.md §4.7).
func (in *Interpreter) Run() error {
	for _, stmt := range in.program.Statements {
		f, err := in.execStatement(stmt)
		if err != nil {
			return err
		}
		switch f.kind {
		case flowBreak:
			return in.runtimeErr("break called outside 'for' or 'switch'")
		case flowReturn:
			return in.runtimeErr("return called outside a function")
		}
	}
	return nil
}

// --- expressions ---

func (in *Interpreter) evalExpression(e *ast.Expression) (value.Value, error) {
	in.position = e.Position
	switch e.Kind {
	case ast.ExprLiteral:
		return in.evalLiteral(e.Literal), nil
	case ast.ExprVariable:
		cell, err := in.stack.Get(e.Name)
		if err != nil {
			return value.Value{}, in.runtimeErr("%s", err)
		}
		return cell.Get(), nil
	case ast.ExprCast:
		v, err := in.evalExpression(e.Operand)
		if err != nil {
			return value.Value{}, err
		}
		result, err := alu.CastTo(v, e.CastType)
		return result, in.positioned(err)
	case ast.ExprUnary:
		v, err := in.evalExpression(e.Operand)
		if err != nil {
			return value.Value{}, err
		}
		var result value.Value
		switch e.UnaryOp {
		case ast.OpBooleanNegate:
			result, err = alu.BooleanNegate(v)
		default:
			result, err = alu.ArithmeticNegate(v)
		}
		return result, in.positioned(err)
	case ast.ExprBinary:
		left, err := in.evalExpression(e.Left)
		if err != nil {
			return value.Value{}, err
		}
		right, err := in.evalExpression(e.Right)
		if err != nil {
			return value.Value{}, err
		}
		result, err := in.evalBinary(e.BinaryOp, left, right)
		return result, in.positioned(err)
	case ast.ExprCall:
		v, ok, err := in.callFunction(e.Name, e.Args)
		if err != nil {
			return value.Value{}, err
		}
		if !ok {
			return value.Value{}, in.runtimeErr("call to '%s' produced no value where one is required", e.Name)
		}
		return v, nil
	default:
		return value.Value{}, in.runtimeErr("unknown expression kind")
	}
}

// positioned re-homes an ALU error (raised with a zero Position, since the
// ALU is position-agnostic) onto the expression currently being evaluated.
func (in *Interpreter) positioned(err error) error {
	if err == nil {
		return nil
	}
	if aluIssue, ok := err.(*issue.Issue); ok {
		return issue.New(issue.PhaseCompute, aluIssue.Level, in.position, "%s", aluIssue.Message)
	}
	return issue.New(issue.PhaseCompute, issue.LevelError, in.position, "%s", err)
}

func (in *Interpreter) evalLiteral(l ast.Literal) value.Value {
	switch l.Kind {
	case ast.LitI64:
		return value.NewI64(l.Int)
	case ast.LitF64:
		return value.NewF64(l.Float)
	case ast.LitString:
		return value.NewStr(l.String)
	case ast.LitTrue:
		return value.NewBool(true)
	default:
		return value.NewBool(false)
	}
}

func (in *Interpreter) evalBinary(op ast.BinaryOp, left, right value.Value) (value.Value, error) {
	switch op {
	case ast.OpAdd:
		return alu.Add(left, right)
	case ast.OpSub:
		return alu.Sub(left, right)
	case ast.OpMul:
		return alu.Mul(left, right)
	case ast.OpDiv:
		return alu.Div(left, right)
	case ast.OpAnd:
		return alu.And(left, right)
	case ast.OpOr:
		return alu.Or(left, right)
	case ast.OpGt:
		return alu.Greater(left, right)
	case ast.OpGe:
		return alu.GreaterOrEqual(left, right)
	case ast.OpLt:
		return alu.Less(left, right)
	case ast.OpLe:
		return alu.LessOrEqual(left, right)
	case ast.OpEq:
		return alu.Equal(left, right)
	default:
		return alu.NotEqual(left, right)
	}
}

// mustBool coerces a condition value to bool, reporting which construct
// demanded it on mismatch.
func (in *Interpreter) mustBool(v value.Value, place string) (bool, error) {
	b, ok := v.TryBool()
	if !ok {
		return false, in.runtimeErr("condition in '%s' has to evaluate to type 'bool' - got '%s'", place, v.Kind())
	}
	return b, nil
}

// --- statements ---

func (in *Interpreter) execStatement(s *ast.Statement) (flow, error) {
	in.position = s.Position
	switch s.Kind {
	case ast.StmtDeclaration:
		return in.execDeclaration(s)
	case ast.StmtAssignment:
		return in.execAssignment(s)
	case ast.StmtCall:
		_, _, err := in.callFunction(s.CallName, s.CallArgs)
		return normalFlow, err
	case ast.StmtConditional:
		return in.execConditional(s)
	case ast.StmtForLoop:
		return in.execForLoop(s)
	case ast.StmtSwitch:
		return in.execSwitch(s)
	case ast.StmtReturn:
		return in.execReturn(s)
	case ast.StmtBreak:
		return flow{kind: flowBreak}, nil
	default:
		return normalFlow, in.runtimeErr("unknown statement kind")
	}
}

func (in *Interpreter) execDeclaration(s *ast.Statement) (flow, error) {
	var computed value.Value
	if s.DeclInit != nil {
		v, err := in.evalExpression(s.DeclInit)
		if err != nil {
			return normalFlow, err
		}
		computed = v
	} else {
		def, ok := value.Default(s.DeclType)
		if !ok {
			return normalFlow, in.runtimeErr("cannot declare variable '%s' with no default value for type '%s'", s.DeclName, s.DeclType)
		}
		computed = def
	}
	if computed.Kind() != s.DeclType {
		return normalFlow, in.runtimeErr("cannot assign value of type '%s' to variable '%s' of type '%s'", computed.Kind(), s.DeclName, s.DeclType)
	}
	if err := in.stack.Declare(s.DeclName, scope.NewCell(computed)); err != nil {
		return normalFlow, in.runtimeErr("%s", err)
	}
	return normalFlow, nil
}

func (in *Interpreter) execAssignment(s *ast.Statement) (flow, error) {
	v, err := in.evalExpression(s.AssignExpr)
	if err != nil {
		return normalFlow, err
	}
	if err := in.stack.Assign(s.AssignName, v); err != nil {
		return normalFlow, in.runtimeErr("%s", err)
	}
	return normalFlow, nil
}

func (in *Interpreter) execConditional(s *ast.Statement) (flow, error) {
	cond, err := in.evalExpression(s.CondExpr)
	if err != nil {
		return normalFlow, err
	}
	b, err := in.mustBool(cond, "if statement")
	if err != nil {
		return normalFlow, err
	}
	if b {
		return in.execBlock(s.CondThen)
	}
	if s.CondElse != nil {
		return in.execBlock(s.CondElse)
	}
	return normalFlow, nil
}

func (in *Interpreter) execForLoop(s *ast.Statement) (flow, error) {
	in.stack.PushScope()
	defer in.stack.PopScope()

	if s.ForInit != nil {
		if _, err := in.execStatement(s.ForInit); err != nil {
			return normalFlow, err
		}
	}

	for {
		cond, err := in.evalExpression(s.ForCond)
		if err != nil {
			return normalFlow, err
		}
		b, err := in.mustBool(cond, "for statement")
		if err != nil {
			return normalFlow, err
		}
		if !b {
			break
		}

		bodyFlow, err := in.execBlock(s.ForBody)
		if err != nil {
			return normalFlow, err
		}
		if bodyFlow.kind == flowReturn {
			return bodyFlow, nil
		}
		if bodyFlow.kind == flowBreak {
			break
		}

		if s.ForStep != nil {
			if _, err := in.execStatement(s.ForStep); err != nil {
				return normalFlow, err
			}
		}
	}
	return normalFlow, nil
}

// execSwitch runs every case in source order; a case whose guard is true
// runs its block. Cases fall through to the next unless that block
// executes `break` (spec.md §9 open question 1, resolved per E6).
func (in *Interpreter) execSwitch(s *ast.Statement) (flow, error) {
	in.stack.PushScope()
	defer in.stack.PopScope()

	for _, subj := range s.SwitchSubjects {
		v, err := in.evalExpression(subj.Expr)
		if err != nil {
			return normalFlow, err
		}
		if subj.Alias != "" {
			if err := in.stack.Declare(subj.Alias, scope.NewCell(v)); err != nil {
				return normalFlow, in.runtimeErr("%s", err)
			}
		}
	}

	for _, c := range s.SwitchCases {
		guardVal, err := in.evalExpression(c.Guard)
		if err != nil {
			return normalFlow, err
		}
		b, err := in.mustBool(guardVal, "switch case")
		if err != nil {
			return normalFlow, err
		}
		if !b {
			continue
		}
		caseFlow, err := in.execBlock(c.Body)
		if err != nil {
			return normalFlow, err
		}
		if caseFlow.kind == flowReturn {
			return caseFlow, nil
		}
		if caseFlow.kind == flowBreak {
			break
		}
	}
	return normalFlow, nil
}

func (in *Interpreter) execReturn(s *ast.Statement) (flow, error) {
	if s.ReturnExpr == nil {
		return flow{kind: flowReturn}, nil
	}
	v, err := in.evalExpression(s.ReturnExpr)
	if err != nil {
		return normalFlow, err
	}
	return flow{kind: flowReturn, value: v, hasValue: true}, nil
}

// execBlock pushes a fresh scope, runs statements until one yields a
// non-normal flow or the block ends, then pops the scope on every path.
func (in *Interpreter) execBlock(b *ast.Block) (flow, error) {
	in.stack.PushScope()
	defer in.stack.PopScope()

	for _, stmt := range b.Statements {
		f, err := in.execStatement(stmt)
		if err != nil {
			return normalFlow, err
		}
		if f.kind != flowNormal {
			return f, nil
		}
	}
	return normalFlow, nil
}

// --- call dispatch ---

// callFunction implements spec.md §4.8. It returns the produced value (if
// any) and whether a value was produced.
func (in *Interpreter) callFunction(name string, args []ast.Argument) (value.Value, bool, error) {
	cells := make([]*scope.Cell, 0, len(args))
	for _, arg := range args {
		if arg.Mode == ast.ByReference {
			if arg.Expr.Kind != ast.ExprVariable {
				return value.Value{}, false, in.runtimeErr("reference argument must be a bare variable")
			}
			cell, err := in.stack.Get(arg.Expr.Name)
			if err != nil {
				return value.Value{}, false, in.runtimeErr("%s", err)
			}
			cells = append(cells, cell)
			continue
		}
		v, err := in.evalExpression(arg.Expr)
		if err != nil {
			return value.Value{}, false, err
		}
		cells = append(cells, scope.NewCell(v))
	}

	if builtin, ok := in.program.Builtins[name]; ok {
		return in.callBuiltin(builtin, cells)
	}
	if fn, ok := in.program.Functions[name]; ok {
		return in.callUserFunction(fn, cells)
	}
	return value.Value{}, false, in.runtimeErr("call to unknown function '%s'", name)
}

func (in *Interpreter) callBuiltin(b *ast.BuiltinDescriptor, args []*scope.Cell) (value.Value, bool, error) {
	switch b.Name {
	case "print":
		fmt.Fprintln(in.stdout, args[0].Get().Str())
		return value.Value{}, false, nil
	case "input":
		fmt.Fprint(in.stdout, args[0].Get().Str())
		if f, ok := in.stdout.(interface{ Flush() error }); ok {
			_ = f.Flush()
		}
		line, err := in.stdin.ReadString('\n')
		if err != nil && err != io.EOF {
			return value.Value{}, false, in.runtimeErr("reading input: %s", err)
		}
		line = trimNewline(line)
		return value.NewStr(line), true, nil
	case "mod":
		result, err := alu.Mod(args[0].Get(), args[1].Get())
		if err != nil {
			return value.Value{}, false, in.positioned(err)
		}
		return result, true, nil
	default:
		return value.Value{}, false, in.runtimeErr("unknown built-in '%s'", b.Name)
	}
}

func trimNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		s = s[:n-1]
	}
	if n := len(s); n > 0 && s[n-1] == '\r' {
		s = s[:n-1]
	}
	return s
}

func (in *Interpreter) callUserFunction(fn *ast.FunctionDeclaration, args []*scope.Cell) (value.Value, bool, error) {
	if err := in.stack.PushFrame(); err != nil {
		return value.Value{}, false, in.runtimeErr("%s", err)
	}
	defer in.stack.PopFrame()

	for i, cell := range args {
		param := fn.Parameters[i]
		if cell.Get().Kind() != param.Type {
			return value.Value{}, false, in.runtimeErr("function '%s' expected '%s', but got '%s'", fn.Name, param.Type, cell.Get().Kind())
		}
		if err := in.stack.Declare(param.Name, cell); err != nil {
			return value.Value{}, false, in.runtimeErr("%s", err)
		}
	}

	var result flow
	for _, stmt := range fn.Body.Statements {
		f, err := in.execStatement(stmt)
		if err != nil {
			return value.Value{}, false, err
		}
		if f.kind == flowBreak {
			return value.Value{}, false, in.runtimeErr("break called outside 'for' or 'switch'")
		}
		if f.kind == flowReturn {
			result = f
			break
		}
	}

	if err := in.checkReturnType(fn, result); err != nil {
		return value.Value{}, false, err
	}
	if result.hasValue {
		return result.value, true, nil
	}
	return value.Value{}, false, nil
}

func (in *Interpreter) checkReturnType(fn *ast.FunctionDeclaration, result flow) error {
	if fn.ReturnType == value.Void {
		if result.hasValue {
			return in.runtimeErr("bad return type from function '%s': expected 'void', but got a value", fn.Name)
		}
		return nil
	}
	if !result.hasValue {
		return in.runtimeErr("bad return type from function '%s': expected '%s', but got no value", fn.Name, fn.ReturnType)
	}
	if result.value.Kind() != fn.ReturnType {
		return in.runtimeErr("bad return type from function '%s': expected '%s', but got '%s'", fn.Name, fn.ReturnType, result.value.Kind())
	}
	return nil
}

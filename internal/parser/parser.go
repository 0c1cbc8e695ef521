// Package parser implements the recursive-descent parser: tokens to AST,
// with one token of lookahead and precedence-climbing for binary
// operators.
package parser

import (
	"github.com/misat1505/tkom-sub000/internal/ast"
	"github.com/misat1505/tkom-sub000/internal/issue"
	"github.com/misat1505/tkom-sub000/internal/position"
	"github.com/misat1505/tkom-sub000/internal/token"
	"github.com/misat1505/tkom-sub000/internal/value"
)

// tokenSource is the contract the parser pulls tokens from;
// internal/lexer.Lexer satisfies it.
type tokenSource interface {
	Current() token.Token
	Next() (token.Token, error)
}

// Parser consumes a tokenSource and produces a Program.
type Parser struct {
	src     tokenSource
	current token.Token
}

// New builds a Parser over src. A fresh tokenSource's first Next() call
// returns the STX sentinel (matching Current()); New consumes that and
// primes the parser with the first real, non-comment token.
func New(src tokenSource) (*Parser, error) {
	stx, err := src.Next()
	if err != nil {
		return nil, err
	}
	p := &Parser{src: src, current: stx}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	tok, err := p.src.Next()
	if err != nil {
		return err
	}
	p.current = tok
	return p.skipComments()
}

func (p *Parser) skipComments() error {
	for p.current.Category == token.Comment {
		tok, err := p.src.Next()
		if err != nil {
			return err
		}
		p.current = tok
	}
	return nil
}

func parseErr(pos position.Position, format string, args ...interface{}) error {
	return issue.New(issue.PhaseParse, issue.LevelError, pos, format, args...)
}

// consumeIfMatches advances and returns true when the current token is cat,
// otherwise leaves the parser positioned where it was.
func (p *Parser) consumeIfMatches(cat token.Category) (token.Token, bool, error) {
	if p.current.Category != cat {
		return token.Token{}, false, nil
	}
	tok := p.current
	if err := p.advance(); err != nil {
		return token.Token{}, false, err
	}
	return tok, true, nil
}

// consumeMustBe requires the current token to be cat, failing with a
// ParseError otherwise.
func (p *Parser) consumeMustBe(cat token.Category) (token.Token, error) {
	tok, ok, err := p.consumeIfMatches(cat)
	if err != nil {
		return token.Token{}, err
	}
	if !ok {
		return token.Token{}, parseErr(p.current.Position, "expected %s but found %s", cat, p.current.Category)
	}
	return tok, nil
}

// ParseProgram parses a whole source unit: { top_statement } ETX.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{
		Functions: make(map[string]*ast.FunctionDeclaration),
		Builtins:  builtinDescriptors(),
	}
	for p.current.Category != token.ETX {
		if p.current.Category == token.KwFn {
			fn, err := p.parseFunctionDecl()
			if err != nil {
				return nil, err
			}
			if _, exists := prog.Functions[fn.Name]; exists {
				return nil, parseErr(fn.Position, "duplicate function name '%s'", fn.Name)
			}
			if _, exists := prog.Builtins[fn.Name]; exists {
				return nil, parseErr(fn.Position, "function '%s' collides with a built-in", fn.Name)
			}
			prog.Functions[fn.Name] = fn
			continue
		}
		stmt, err := p.parseTopStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

func builtinDescriptors() map[string]*ast.BuiltinDescriptor {
	return map[string]*ast.BuiltinDescriptor{
		"print": {
			Name:       "print",
			Parameters: []ast.Parameter{{Mode: ast.ByValue, Type: value.Str, Name: "s"}},
			ReturnType: value.Void,
		},
		"input": {
			Name:       "input",
			Parameters: []ast.Parameter{{Mode: ast.ByValue, Type: value.Str, Name: "prompt"}},
			ReturnType: value.Str,
		},
		"mod": {
			Name: "mod",
			Parameters: []ast.Parameter{
				{Mode: ast.ByValue, Type: value.I64, Name: "a"},
				{Mode: ast.ByValue, Type: value.I64, Name: "b"},
			},
			ReturnType: value.I64,
		},
	}
}

func (p *Parser) parseFunctionDecl() (*ast.FunctionDeclaration, error) {
	pos := p.current.Position
	if _, err := p.consumeMustBe(token.KwFn); err != nil {
		return nil, err
	}
	nameTok, err := p.consumeMustBe(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.consumeMustBe(token.LParen); err != nil {
		return nil, err
	}
	var params []ast.Parameter
	if p.current.Category != token.RParen {
		for {
			param, err := p.parseParameter()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if _, ok, err := p.consumeIfMatches(token.Comma); err != nil {
				return nil, err
			} else if !ok {
				break
			}
		}
	}
	if _, err := p.consumeMustBe(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.consumeMustBe(token.Colon); err != nil {
		return nil, err
	}
	retType, err := p.parseTypeOrVoid()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDeclaration{
		Name:       nameTok.Value.String,
		Parameters: params,
		ReturnType: retType,
		Body:       body,
		Position:   pos,
	}, nil
}

func (p *Parser) parseParameter() (ast.Parameter, error) {
	mode := ast.ByValue
	if _, ok, err := p.consumeIfMatches(token.Ampersand); err != nil {
		return ast.Parameter{}, err
	} else if ok {
		mode = ast.ByReference
	}
	typ, err := p.parseType()
	if err != nil {
		return ast.Parameter{}, err
	}
	nameTok, err := p.consumeMustBe(token.Identifier)
	if err != nil {
		return ast.Parameter{}, err
	}
	return ast.Parameter{Mode: mode, Type: typ, Name: nameTok.Value.String}, nil
}

var typeKeywords = map[token.Category]value.Type{
	token.KwI64:  value.I64,
	token.KwF64:  value.F64,
	token.KwStr:  value.Str,
	token.KwBool: value.Bool,
}

func (p *Parser) parseType() (value.Type, error) {
	if t, ok := typeKeywords[p.current.Category]; ok {
		if err := p.advance(); err != nil {
			return 0, err
		}
		return t, nil
	}
	return 0, parseErr(p.current.Position, "expected a type but found %s", p.current.Category)
}

func (p *Parser) parseTypeOrVoid() (value.Type, error) {
	if p.current.Category == token.KwVoid {
		if err := p.advance(); err != nil {
			return 0, err
		}
		return value.Void, nil
	}
	return p.parseType()
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	if _, err := p.consumeMustBe(token.LBrace); err != nil {
		return nil, err
	}
	block := &ast.Block{}
	for p.current.Category != token.RBrace {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	if _, err := p.consumeMustBe(token.RBrace); err != nil {
		return nil, err
	}
	return block, nil
}

// parseTopStatement parses one of: assign_or_call | if_stmt | for_stmt |
// switch_stmt | declaration ";" (function_decl is handled by ParseProgram).
func (p *Parser) parseTopStatement() (*ast.Statement, error) {
	if p.current.Category == token.KwReturn || p.current.Category == token.KwBreak {
		return nil, parseErr(p.current.Position, "unexpected token %s at top level", p.current.Category)
	}
	return p.parseStatement()
}

func (p *Parser) parseStatement() (*ast.Statement, error) {
	pos := p.current.Position
	switch p.current.Category {
	case token.KwIf:
		return p.parseIfStatement()
	case token.KwFor:
		return p.parseForStatement()
	case token.KwSwitch:
		return p.parseSwitchStatement()
	case token.KwReturn:
		return p.parseReturnStatement()
	case token.KwBreak:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.consumeMustBe(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.Statement{Kind: ast.StmtBreak, Position: pos}, nil
	case token.KwI64, token.KwF64, token.KwStr, token.KwBool:
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeMustBe(token.Semicolon); err != nil {
			return nil, err
		}
		return decl, nil
	case token.Identifier:
		stmt, err := p.parseAssignOrCall()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeMustBe(token.Semicolon); err != nil {
			return nil, err
		}
		return stmt, nil
	default:
		return nil, parseErr(pos, "unexpected token %s while parsing a statement", p.current.Category)
	}
}

func (p *Parser) parseDeclaration() (*ast.Statement, error) {
	pos := p.current.Position
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.consumeMustBe(token.Identifier)
	if err != nil {
		return nil, err
	}
	var init *ast.Expression
	if _, ok, err := p.consumeIfMatches(token.Assign); err != nil {
		return nil, err
	} else if ok {
		init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	return &ast.Statement{
		Kind:     ast.StmtDeclaration,
		Position: pos,
		DeclType: typ,
		DeclName: nameTok.Value.String,
		DeclInit: init,
	}, nil
}

// parseAssignOrCall parses `identifier "=" expr` or `identifier "(" args ")"`
// without consuming the trailing ";" (the caller, parseStatement, does).
func (p *Parser) parseAssignOrCall() (*ast.Statement, error) {
	pos := p.current.Position
	nameTok, err := p.consumeMustBe(token.Identifier)
	if err != nil {
		return nil, err
	}
	name := nameTok.Value.String
	if _, ok, err := p.consumeIfMatches(token.Assign); err != nil {
		return nil, err
	} else if ok {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Statement{Kind: ast.StmtAssignment, Position: pos, AssignName: name, AssignExpr: expr}, nil
	}
	if _, err := p.consumeMustBe(token.LParen); err != nil {
		return nil, err
	}
	args, err := p.parseArgsUntil(token.RParen)
	if err != nil {
		return nil, err
	}
	if _, err := p.consumeMustBe(token.RParen); err != nil {
		return nil, err
	}
	return &ast.Statement{Kind: ast.StmtCall, Position: pos, CallName: name, CallArgs: args}, nil
}

// parseAssignment parses the for-loop step form `identifier "=" expr`
// only — unlike parseAssignOrCall it never falls through to a call.
func (p *Parser) parseAssignment() (*ast.Statement, error) {
	pos := p.current.Position
	nameTok, err := p.consumeMustBe(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.consumeMustBe(token.Assign); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Statement{Kind: ast.StmtAssignment, Position: pos, AssignName: nameTok.Value.String, AssignExpr: expr}, nil
}

func (p *Parser) parseArgsUntil(closer token.Category) ([]ast.Argument, error) {
	var args []ast.Argument
	if p.current.Category == closer {
		return args, nil
	}
	for {
		mode := ast.ByValue
		if _, ok, err := p.consumeIfMatches(token.Ampersand); err != nil {
			return nil, err
		} else if ok {
			mode = ast.ByReference
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, ast.Argument{Expr: expr, Mode: mode})
		if _, ok, err := p.consumeIfMatches(token.Comma); err != nil {
			return nil, err
		} else if !ok {
			break
		}
	}
	return args, nil
}

func (p *Parser) parseIfStatement() (*ast.Statement, error) {
	pos := p.current.Position
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.consumeMustBe(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consumeMustBe(token.RParen); err != nil {
		return nil, err
	}
	thenBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseBlock *ast.Block
	if _, ok, err := p.consumeIfMatches(token.KwElse); err != nil {
		return nil, err
	} else if ok {
		elseBlock, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.Statement{Kind: ast.StmtConditional, Position: pos, CondExpr: cond, CondThen: thenBlock, CondElse: elseBlock}, nil
}

func (p *Parser) parseForStatement() (*ast.Statement, error) {
	pos := p.current.Position
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.consumeMustBe(token.LParen); err != nil {
		return nil, err
	}
	var init *ast.Statement
	if p.current.Category != token.Semicolon {
		var err error
		init, err = p.parseDeclaration()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consumeMustBe(token.Semicolon); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consumeMustBe(token.Semicolon); err != nil {
		return nil, err
	}
	var step *ast.Statement
	if p.current.Category != token.RParen {
		step, err = p.parseAssignment()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consumeMustBe(token.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Statement{
		Kind: ast.StmtForLoop, Position: pos,
		ForInit: init, ForCond: cond, ForStep: step, ForBody: body,
	}, nil
}

func (p *Parser) parseSwitchStatement() (*ast.Statement, error) {
	pos := p.current.Position
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.consumeMustBe(token.LParen); err != nil {
		return nil, err
	}
	var subjects []ast.SwitchExpression
	for {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		alias := ""
		if _, ok, err := p.consumeIfMatches(token.Colon); err != nil {
			return nil, err
		} else if ok {
			aliasTok, err := p.consumeMustBe(token.Identifier)
			if err != nil {
				return nil, err
			}
			alias = aliasTok.Value.String
		}
		subjects = append(subjects, ast.SwitchExpression{Expr: expr, Alias: alias})
		if _, ok, err := p.consumeIfMatches(token.Comma); err != nil {
			return nil, err
		} else if !ok {
			break
		}
	}
	if _, err := p.consumeMustBe(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.consumeMustBe(token.LBrace); err != nil {
		return nil, err
	}
	var cases []ast.SwitchCase
	for p.current.Category != token.RBrace {
		if _, err := p.consumeMustBe(token.LParen); err != nil {
			return nil, err
		}
		guard, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeMustBe(token.RParen); err != nil {
			return nil, err
		}
		if _, err := p.consumeMustBe(token.Arrow); err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		cases = append(cases, ast.SwitchCase{Guard: guard, Body: body})
	}
	if _, err := p.consumeMustBe(token.RBrace); err != nil {
		return nil, err
	}
	return &ast.Statement{Kind: ast.StmtSwitch, Position: pos, SwitchSubjects: subjects, SwitchCases: cases}, nil
}

func (p *Parser) parseReturnStatement() (*ast.Statement, error) {
	pos := p.current.Position
	if err := p.advance(); err != nil {
		return nil, err
	}
	var expr *ast.Expression
	if p.current.Category != token.Semicolon {
		var err error
		expr, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consumeMustBe(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.Statement{Kind: ast.StmtReturn, Position: pos, ReturnExpr: expr}, nil
}

// --- expression grammar: precedence climbing, lowest to highest ---
// expr -> concat ('||' concat)*
// concat -> rel ('&&' rel)*
// rel -> add (rel_op add)?          -- non-chained
// add -> mul (('+'|'-') mul)*
// mul -> cast (('*'|'/') cast)*
// cast -> unary ('as' type)?
// unary -> ('!'|'-')? factor
// factor -> literal | '(' expr ')' | identifier ['(' args ')']

func (p *Parser) parseExpr() (*ast.Expression, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for p.current.Category == token.Or {
		pos := p.current.Position
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		left = &ast.Expression{Kind: ast.ExprBinary, Position: pos, BinaryOp: ast.OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseConcat() (*ast.Expression, error) {
	left, err := p.parseRel()
	if err != nil {
		return nil, err
	}
	for p.current.Category == token.And {
		pos := p.current.Position
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseRel()
		if err != nil {
			return nil, err
		}
		left = &ast.Expression{Kind: ast.ExprBinary, Position: pos, BinaryOp: ast.OpAnd, Left: left, Right: right}
	}
	return left, nil
}

var relOps = map[token.Category]ast.BinaryOp{
	token.Lt: ast.OpLt, token.Le: ast.OpLe,
	token.Gt: ast.OpGt, token.Ge: ast.OpGe,
	token.Eq: ast.OpEq, token.Ne: ast.OpNe,
}

func (p *Parser) parseRel() (*ast.Expression, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	op, ok := relOps[p.current.Category]
	if !ok {
		return left, nil
	}
	pos := p.current.Position
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	return &ast.Expression{Kind: ast.ExprBinary, Position: pos, BinaryOp: op, Left: left, Right: right}, nil
}

func (p *Parser) parseAdd() (*ast.Expression, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for p.current.Category == token.Plus || p.current.Category == token.Minus {
		op := ast.OpAdd
		if p.current.Category == token.Minus {
			op = ast.OpSub
		}
		pos := p.current.Position
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = &ast.Expression{Kind: ast.ExprBinary, Position: pos, BinaryOp: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMul() (*ast.Expression, error) {
	left, err := p.parseCast()
	if err != nil {
		return nil, err
	}
	for p.current.Category == token.Star || p.current.Category == token.Slash {
		op := ast.OpMul
		if p.current.Category == token.Slash {
			op = ast.OpDiv
		}
		pos := p.current.Position
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseCast()
		if err != nil {
			return nil, err
		}
		left = &ast.Expression{Kind: ast.ExprBinary, Position: pos, BinaryOp: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseCast() (*ast.Expression, error) {
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.current.Category != token.KwAs {
		return operand, nil
	}
	pos := p.current.Position
	if err := p.advance(); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &ast.Expression{Kind: ast.ExprCast, Position: pos, Operand: operand, CastType: typ}, nil
}

func (p *Parser) parseUnary() (*ast.Expression, error) {
	pos := p.current.Position
	switch p.current.Category {
	case token.Not:
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.Expression{Kind: ast.ExprUnary, Position: pos, UnaryOp: ast.OpBooleanNegate, Operand: operand}, nil
	case token.Minus:
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.Expression{Kind: ast.ExprUnary, Position: pos, UnaryOp: ast.OpArithmeticNegate, Operand: operand}, nil
	default:
		return p.parseFactor()
	}
}

func (p *Parser) parseFactor() (*ast.Expression, error) {
	pos := p.current.Position
	switch p.current.Category {
	case token.IntLiteral:
		v := p.current.Value.Int
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Expression{Kind: ast.ExprLiteral, Position: pos, Literal: ast.Literal{Kind: ast.LitI64, Int: v}}, nil
	case token.FloatLiteral:
		v := p.current.Value.Float
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Expression{Kind: ast.ExprLiteral, Position: pos, Literal: ast.Literal{Kind: ast.LitF64, Float: v}}, nil
	case token.StringLiteral:
		v := p.current.Value.String
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Expression{Kind: ast.ExprLiteral, Position: pos, Literal: ast.Literal{Kind: ast.LitString, String: v}}, nil
	case token.KwTrue:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Expression{Kind: ast.ExprLiteral, Position: pos, Literal: ast.Literal{Kind: ast.LitTrue}}, nil
	case token.KwFalse:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Expression{Kind: ast.ExprLiteral, Position: pos, Literal: ast.Literal{Kind: ast.LitFalse}}, nil
	case token.LParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeMustBe(token.RParen); err != nil {
			return nil, err
		}
		return expr, nil
	case token.Identifier:
		name := p.current.Value.String
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, ok, err := p.consumeIfMatches(token.LParen); err != nil {
			return nil, err
		} else if ok {
			args, err := p.parseArgsUntil(token.RParen)
			if err != nil {
				return nil, err
			}
			if _, err := p.consumeMustBe(token.RParen); err != nil {
				return nil, err
			}
			return &ast.Expression{Kind: ast.ExprCall, Position: pos, Name: name, Args: args}, nil
		}
		return &ast.Expression{Kind: ast.ExprVariable, Position: pos, Name: name}, nil
	default:
		return nil, parseErr(pos, "unexpected token %s while parsing an expression", p.current.Category)
	}
}

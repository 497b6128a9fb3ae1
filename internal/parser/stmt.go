package parser

import (
	"github.com/dfrunza/ashp4c-sub003/p4/ast"
	"github.com/dfrunza/ashp4c-sub003/p4/token"
)

// parseBlockStatement parses "{ statement* }", opening and closing its
// own parse-time scope so that any typedef-shaped local the body
// introduces is visible only inside it.
func (p *Parser) parseBlockStatement() *ast.Node {
	pos := p.cur().Pos
	p.expect(token.LBRACE)
	n := ast.New(ast.BlockStatement, pos)
	p.pushScope()
	for !p.at(token.RBRACE) && !p.failed {
		n.AddChild(p.parseStatement())
	}
	p.popScope()
	p.expect(token.RBRACE)
	return n
}

func (p *Parser) parseStatement() *ast.Node {
	switch p.cur().Kind {
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.IF:
		return p.parseConditionalStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.EXIT:
		return p.parseExitStatement()
	case token.APPLY:
		return p.parseDirectApplication()
	case token.CONST:
		return p.parseVariableDeclaration()
	case token.SEMI:
		pos := p.cur().Pos
		p.advance()
		return ast.New(ast.BlockStatement, pos)
	case token.TYPEIDENT, token.VOID, token.BOOL, token.INT_TYPE, token.BIT, token.VARBIT, token.STRING_TYPE:
		return p.parseTypedLeadStatement()
	default:
		return p.parseAssignmentOrMethodCall()
	}
}

// parseTypedLeadStatement handles the local-variable-declaration form of
// a statement, the only statement shape that begins with a type.
func (p *Parser) parseTypedLeadStatement() *ast.Node {
	pos := p.cur().Pos
	ty := p.parseTypeRef()
	nameTok := p.expect(token.IDENT)
	return p.finishVariableDeclaration(pos, false, ty, nameTok.Lit)
}

func (p *Parser) parseConditionalStatement() *ast.Node {
	pos := p.cur().Pos
	p.expect(token.IF)
	p.expect(token.LPAREN)
	cond := p.parseExpression(token.LowestPrec)
	p.expect(token.RPAREN)
	n := ast.New(ast.ConditionalStatement, pos)
	n.AddChild(cond)
	n.AddChild(p.parseStatement())
	if p.at(token.ELSE) {
		p.advance()
		n.AddChild(p.parseStatement())
	}
	return n
}

func (p *Parser) parseSwitchStatement() *ast.Node {
	pos := p.cur().Pos
	p.expect(token.SWITCH)
	p.expect(token.LPAREN)
	expr := p.parseExpression(token.LowestPrec)
	p.expect(token.RPAREN)
	n := ast.New(ast.SwitchStatement, pos)
	n.AddChild(expr)
	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) && !p.failed {
		n.AddChild(p.parseSwitchCase())
	}
	p.expect(token.RBRACE)
	return n
}

// parseSwitchCase handles both "label: statementBlock" and the
// fallthrough-style "label:" (empty block) shapes.
func (p *Parser) parseSwitchCase() *ast.Node {
	pos := p.cur().Pos
	var label *ast.Node
	if p.at(token.DEFAULT) {
		p.advance()
		label = ast.New(ast.DefaultExpression, pos)
	} else {
		nameTok := p.expect(token.IDENT)
		label = ast.New(ast.Name, nameTok.Pos)
		label.Payload = &ast.IdentPayload{Value: nameTok.Lit}
	}
	p.expect(token.COLON)
	n := ast.New(ast.SwitchCase, pos)
	n.AddChild(label)
	if p.at(token.LBRACE) {
		n.AddChild(p.parseBlockStatement())
	}
	return n
}

func (p *Parser) parseReturnStatement() *ast.Node {
	pos := p.cur().Pos
	p.expect(token.RETURN)
	n := ast.New(ast.ReturnStatement, pos)
	if !p.at(token.SEMI) {
		n.AddChild(p.parseExpression(token.LowestPrec))
	}
	p.expect(token.SEMI)
	return n
}

func (p *Parser) parseExitStatement() *ast.Node {
	pos := p.cur().Pos
	p.expect(token.EXIT)
	p.expect(token.SEMI)
	return ast.New(ast.ExitStatement, pos)
}

// parseDirectApplication handles the bare "apply();" shorthand inside a
// block. The instance-qualified "tbl.apply();" form is routed through
// parseAssignmentOrMethodCall instead, and a control's own top-level
// "apply { ... }" block is consumed by parseControlDeclaration, so by
// the time parseStatement sees a leading APPLY it is always this bare
// shorthand.
func (p *Parser) parseDirectApplication() *ast.Node {
	pos := p.cur().Pos
	p.expect(token.APPLY)
	p.expect(token.LPAREN)
	p.expect(token.RPAREN)
	p.expect(token.SEMI)
	return ast.New(ast.DirectApplication, pos)
}

// parseAssignmentOrMethodCall parses the two statement shapes that begin
// with an lvalue expression: "lvalue = expr ;" and "lvalue(args) ;" /
// "lvalue.method(args) ;".
func (p *Parser) parseAssignmentOrMethodCall() *ast.Node {
	pos := p.cur().Pos
	lhs := p.parseLValue()
	switch p.cur().Kind {
	case token.ASSIGN:
		p.advance()
		rhs := p.parseExpression(token.LowestPrec)
		p.expect(token.SEMI)
		n := ast.New(ast.AssignmentStatement, pos)
		n.AddChild(lhs)
		n.AddChild(rhs)
		return n
	case token.LPAREN:
		p.advance()
		args := p.parseArgumentList()
		p.expect(token.RPAREN)
		p.expect(token.SEMI)
		n := ast.New(ast.MethodCallStatement, pos)
		n.AddChild(lhs)
		n.AddChild(args)
		return n
	default:
		p.errf("expected '=' or '(' in statement, found %s", p.cur().Kind)
		return ast.New(ast.BadNode, pos)
	}
}

// parseLValue parses a chain of member-selects and index-subscripts
// rooted at a name.
func (p *Parser) parseLValue() *ast.Node {
	n := p.parseName()
	for {
		switch p.cur().Kind {
		case token.PERIOD:
			pos := p.cur().Pos
			p.advance()
			memberTok := p.expectMemberName()
			m := ast.New(ast.MemberSelector, pos)
			m.Payload = &ast.MemberPayload{Member: memberTok.Lit}
			m.AddChild(n)
			n = m
		case token.LBRACK:
			pos := p.cur().Pos
			p.advance()
			idx := p.parseExpression(token.LowestPrec)
			p.expect(token.RBRACK)
			m := ast.New(ast.ArraySubscript, pos)
			m.AddChild(n)
			m.AddChild(idx)
			n = m
		default:
			return n
		}
	}
}

func (p *Parser) parseName() *ast.Node {
	nameTok := p.expect(token.IDENT)
	n := ast.New(ast.Name, nameTok.Pos)
	n.Payload = &ast.IdentPayload{Value: nameTok.Lit}
	return n
}

// expectMemberName consumes the member name after a '.'. Besides a plain
// identifier this accepts the "apply" reserved word, which the token
// buffer has already reclassified to its keyword kind by the time the
// parser sees "t.apply()".
func (p *Parser) expectMemberName() token.Token {
	t := p.cur()
	if t.Kind != token.IDENT && t.Kind != token.APPLY {
		p.errf("expected a member name, found %s", t.Kind)
		return t
	}
	p.advance()
	return t
}

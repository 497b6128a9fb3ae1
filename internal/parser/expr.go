package parser

import (
	"github.com/dfrunza/ashp4c-sub003/p4/ast"
	"github.com/dfrunza/ashp4c-sub003/p4/token"
)

// parseExpression climbs the three binary-operator priority levels
// left-associatively, bottoming out at parseUnary.
func (p *Parser) parseExpression(minPrec int) *ast.Node {
	lhs := p.parseUnary()
	for {
		op := p.cur().Kind
		prec := op.Precedence()
		if prec == token.LowestPrec || prec < minPrec {
			return lhs
		}
		pos := p.cur().Pos
		p.advance()
		rhs := p.parseExpression(prec + 1)
		n := ast.New(ast.BinaryExpression, pos)
		n.Payload = &ast.BinaryPayload{Op: op}
		n.AddChild(lhs)
		n.AddChild(rhs)
		lhs = n
	}
}

func (p *Parser) parseUnary() *ast.Node {
	switch p.cur().Kind {
	case token.SUB, token.NOT:
		pos := p.cur().Pos
		op := p.cur().Kind
		p.advance()
		operand := p.parseUnary()
		n := ast.New(ast.UnaryExpression, pos)
		n.Payload = &ast.UnaryPayload{Op: op}
		n.AddChild(operand)
		return n
	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses a primary expression followed by any chain of
// member-selects, index-subscripts, and call-argument-lists; postfix
// forms bind tighter than any binary operator. Specialization argument
// lists are not parsed here: a '<' after a primary is left to the
// binary-operator loop as less-than.
func (p *Parser) parsePostfix() *ast.Node {
	n := p.parsePrimary()
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
		case token.LPAREN:
			pos := p.cur().Pos
			p.advance()
			args := p.parseArgumentList()
			p.expect(token.RPAREN)
			m := ast.New(ast.FunctionCall, pos)
			m.AddChild(n)
			m.AddChild(args)
			n = m
		default:
			return n
		}
	}
}

func (p *Parser) parsePrimary() *ast.Node {
	pos := p.cur().Pos
	switch p.cur().Kind {
	case token.INT:
		lit := p.cur()
		p.advance()
		n := ast.New(ast.IntLiteral, pos)
		n.Payload = &ast.LitPayload{Text: lit.Lit}
		return n
	case token.STRING:
		lit := p.cur()
		p.advance()
		n := ast.New(ast.StringLiteral, pos)
		n.Payload = &ast.LitPayload{Text: lit.Lit}
		return n
	case token.TRUE, token.FALSE:
		lit := p.cur()
		p.advance()
		n := ast.New(ast.BoolLiteral, pos)
		n.Payload = &ast.LitPayload{Text: lit.Lit}
		return n
	case token.DONTCARE:
		p.advance()
		return ast.New(ast.DontCare, pos)
	case token.LPAREN:
		p.advance()
		inner := p.parseExpression(token.LowestPrec)
		p.expect(token.RPAREN)
		n := ast.New(ast.ParenExpression, pos)
		n.AddChild(inner)
		return n
	case token.IDENT:
		return p.parseName()
	case token.TYPEIDENT, token.VOID, token.BOOL, token.INT_TYPE, token.BIT, token.VARBIT, token.STRING_TYPE:
		// A type reference used as an expression: only meaningful as the
		// callee of a cast-like call, e.g. "bit<8>(x)", which is why the
		// expression grammar folds typeRef into primaryExpression.
		return p.parseTypeRef()
	default:
		p.errf("expected an expression, found %s", p.cur().Kind)
		n := ast.New(ast.BadNode, pos)
		p.advance()
		return n
	}
}

package parser

import (
	"strconv"

	"github.com/dfrunza/ashp4c-sub003/internal/scope"
	"github.com/dfrunza/ashp4c-sub003/p4/ast"
	"github.com/dfrunza/ashp4c-sub003/p4/errors"
	"github.com/dfrunza/ashp4c-sub003/p4/token"
)

// Parser builds an AST from a token stream by recursive descent. It
// keeps a small, parse-time-only scope stack whose sole purpose is
// feeding the token buffer's keyword/type-identifier reclassification:
// whenever the parser sees the defining token of a type-kind
// declaration, it binds the name into this scope immediately, before
// parsing any subsequent use. This scope tree is throwaway scaffolding:
// the authoritative scope graph consumed by later passes is built from
// scratch, with full NameDeclaration metadata, by the name-declaration
// pass in internal/sema.
type Parser struct {
	tb         *TokenBuffer
	scopeStack []*scope.Scope
	errs       errors.List
	failed     bool
}

// New creates a Parser over toks (from internal/lexer, or any
// EOF-terminated token.Token slice).
func New(toks []token.Token) *Parser {
	root := scope.New(nil)
	for name, kind := range token.Keywords {
		root.BindKeyword(name, int(kind))
	}
	for _, bt := range []string{"void", "bool", "int", "bit", "varbit", "string", "error", "match_kind", "_"} {
		root.Bind(bt, scope.Type, nil)
	}
	p := &Parser{scopeStack: []*scope.Scope{root}}
	p.tb = NewTokenBuffer(toks, p.currentScope)
	return p
}

func (p *Parser) currentScope() *scope.Scope { return p.scopeStack[len(p.scopeStack)-1] }

func (p *Parser) pushScope() {
	p.scopeStack = append(p.scopeStack, scope.New(p.currentScope()))
}

func (p *Parser) popScope() {
	p.scopeStack = p.scopeStack[:len(p.scopeStack)-1]
}

// bindType registers name as a type-kind declaration in the current
// parse-time scope, so that the next occurrence of the identifier is
// reclassified to token.TYPEIDENT by the token buffer.
func (p *Parser) bindType(name string) {
	p.currentScope().Bind(name, scope.Type, nil)
}

func (p *Parser) cur() token.Token { return p.tb.Current() }

func (p *Parser) errf(format string, args ...interface{}) {
	if p.failed {
		return
	}
	p.failed = true
	p.errs.Add(errors.Newf(errors.ParseError, p.cur().Pos, format, args...))
}

// advance moves the cursor forward, recording UNEXPECTED_EOI if the
// cursor was already at EOF.
func (p *Parser) advance() token.Token {
	t, err := p.tb.Advance()
	if err != nil {
		p.errs.Add(err)
		p.failed = true
	}
	return t
}

// expect verifies the current token has kind, consumes it, and advances;
// otherwise it records a PARSE_ERROR naming what was expected and found.
func (p *Parser) expect(kind token.Kind) token.Token {
	t := p.cur()
	if t.Kind != kind {
		p.errf("expected %s, found %s", kind, t.Kind)
		return t
	}
	p.advance()
	return t
}

func (p *Parser) at(kind token.Kind) bool { return p.cur().Kind == kind }

func (p *Parser) atAny(kinds ...token.Kind) bool {
	c := p.cur().Kind
	for _, k := range kinds {
		if c == k {
			return true
		}
	}
	return false
}

// Ok reports whether parsing completed without a PARSE_ERROR or
// UNEXPECTED_EOI.
func (p *Parser) Ok() bool { return !p.failed }

// Errors returns the accumulated parse errors (first-error semantics
// mean there is at most one).
func (p *Parser) Errors() errors.List { return p.errs }

// ParseProgram is the top-level entry point: it returns a Program node
// whose first child is the declaration list.
func (p *Parser) ParseProgram() *ast.Node {
	prog := ast.New(ast.Program, p.cur().Pos)
	prog.AddChild(p.parseDeclarationList())
	return prog
}

func (p *Parser) parseDeclarationList() *ast.Node {
	list := ast.New(ast.DeclarationList, p.cur().Pos)
	for !p.at(token.EOF) && !p.failed {
		d := p.parseDeclaration()
		if d == nil {
			break
		}
		list.AddChild(d)
	}
	return list
}

func (p *Parser) parseDeclaration() *ast.Node {
	switch p.cur().Kind {
	case token.PARSER:
		return p.parseParserDeclaration()
	case token.CONTROL:
		return p.parseControlDeclaration()
	case token.EXTERN:
		return p.parseExternDeclaration()
	case token.PACKAGE:
		return p.parsePackageTypeDeclaration()
	case token.ACTION:
		return p.parseActionDeclaration()
	case token.HEADER:
		return p.parseHeaderTypeDeclaration()
	case token.UNION:
		return p.parseHeaderUnionDeclaration()
	case token.STRUCT:
		return p.parseStructTypeDeclaration()
	case token.ENUM:
		return p.parseEnumDeclaration()
	case token.ERROR:
		return p.parseErrorDeclaration()
	case token.MATCHKIND:
		return p.parseMatchKindDeclaration()
	case token.TYPEDEF:
		return p.parseTypedefDeclaration()
	case token.CONST:
		return p.parseVariableDeclaration()
	case token.TYPEIDENT, token.VOID, token.BOOL, token.INT_TYPE, token.BIT, token.VARBIT, token.STRING_TYPE:
		return p.parseTypedLeadDeclaration()
	default:
		p.errf("expected a top-level declaration, found %s", p.cur().Kind)
		return nil
	}
}

// parseTypedLeadDeclaration disambiguates instantiation, function
// declaration, and variable declaration, which all begin with a typeRef
// (the token buffer's context-sensitive lookup has already turned the
// leading identifier into a TYPEIDENT).
func (p *Parser) parseTypedLeadDeclaration() *ast.Node {
	startPos := p.cur().Pos
	ty := p.parseTypeRef()
	if p.at(token.LPAREN) && !p.followsMatchingParenWith(token.LBRACE) {
		return p.finishArgsFirstInstantiation(startPos, ty)
	}
	nameTok := p.expect(token.IDENT)
	switch p.cur().Kind {
	case token.LPAREN:
		if p.followsMatchingParenWith(token.LBRACE) {
			return p.parseFunctionDeclarationAfterType(startPos, ty, nameTok.Lit)
		}
		// instantiation: typeRef name '(' argumentList ')' ';'
		p.advance()
		args := p.parseArgumentList()
		p.expect(token.RPAREN)
		p.expect(token.SEMI)
		n := ast.New(ast.Instantiation, startPos)
		n.Payload = &ast.DeclPayload{Name: nameTok.Lit}
		n.AddChild(ty)
		n.AddChild(args)
		return n
	case token.ASSIGN, token.SEMI:
		return p.finishVariableDeclaration(startPos, false, ty, nameTok.Lit)
	default:
		p.errf("expected '(', '=', or ';' after %q", nameTok.Lit)
		return nil
	}
}

// followsMatchingParenWith reports whether, with the cursor on '(', the
// token immediately following that paren group's matching ')' has the
// given kind. It uses Peek only, so it never disturbs the cursor;
// needed to tell a top-level function declaration ("name(...) { ")
// apart from an instantiation ("name(...) ;"), which share a prefix.
func (p *Parser) followsMatchingParenWith(want token.Kind) bool {
	depth := 0
	for i := 0; ; i++ {
		t := p.tb.Peek(i)
		switch t.Kind {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				return p.tb.Peek(i + 1).Kind == want
			}
		case token.EOF:
			return false
		}
	}
}

// finishArgsFirstInstantiation parses the constructor-arguments-first
// instantiation form "typeRef '(' argumentList ')' name ';'", the
// cursor sitting on the '('. The name-then-arguments form is handled
// inline by each caller since it shares a prefix with variable and
// function declarations.
func (p *Parser) finishArgsFirstInstantiation(pos token.Pos, ty *ast.Node) *ast.Node {
	p.advance() // '('
	args := p.parseArgumentList()
	p.expect(token.RPAREN)
	nameTok := p.expect(token.IDENT)
	p.expect(token.SEMI)
	n := ast.New(ast.Instantiation, pos)
	n.Payload = &ast.DeclPayload{Name: nameTok.Lit}
	n.AddChild(ty)
	n.AddChild(args)
	return n
}

func (p *Parser) parseVariableDeclaration() *ast.Node {
	startPos := p.cur().Pos
	isConst := false
	if p.at(token.CONST) {
		isConst = true
		p.advance()
	}
	ty := p.parseTypeRef()
	nameTok := p.expect(token.IDENT)
	return p.finishVariableDeclaration(startPos, isConst, ty, nameTok.Lit)
}

func (p *Parser) finishVariableDeclaration(pos token.Pos, isConst bool, ty *ast.Node, name string) *ast.Node {
	n := ast.New(ast.VariableDeclaration, pos)
	n.Payload = &ast.DeclPayload{Name: name}
	n.AddChild(ty)
	if p.at(token.ASSIGN) {
		p.advance()
		n.AddChild(p.parseExpression(token.LowestPrec))
	}
	p.expect(token.SEMI)
	_ = isConst
	return n
}

// --- parseFunctionDeclarationAfterType finishes a top-level function
// declaration once parseTypedLeadDeclaration has consumed its return
// type and name and seen the opening '(' of its parameter list.

func (p *Parser) parseFunctionDeclarationAfterType(pos token.Pos, ty *ast.Node, name string) *ast.Node {
	n := ast.New(ast.FunctionDeclaration, pos)
	n.Payload = &ast.DeclPayload{Name: name}
	n.AddChild(ty)
	p.pushScope()
	n.AddChild(p.parseParameterList())
	body := p.parseBlockStatement()
	p.popScope()
	n.AddChild(body)
	return n
}

// parseOptConstructorParameters parses the optional second parameter
// list of a parser/control declaration ("parser P(apply)(ctor) {"),
// which declares the instance's constructor parameters as distinct from
// its per-packet apply parameters. The returned node is always a
// ParameterList, empty when the source omits the list, so the
// declaration's child layout stays fixed.
func (p *Parser) parseOptConstructorParameters() *ast.Node {
	if p.at(token.LPAREN) {
		return p.parseParameterList()
	}
	return ast.New(ast.ParameterList, p.cur().Pos)
}

func (p *Parser) parseParameterList() *ast.Node {
	p.expect(token.LPAREN)
	list := ast.New(ast.ParameterList, p.cur().Pos)
	for !p.at(token.RPAREN) && !p.failed {
		list.AddChild(p.parseParameter())
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	return list
}

func (p *Parser) parseParameter() *ast.Node {
	pos := p.cur().Pos
	dir := ast.DirNone
	switch p.cur().Kind {
	case token.IN:
		dir = ast.DirIn
		p.advance()
	case token.OUT:
		dir = ast.DirOut
		p.advance()
	case token.INOUT:
		dir = ast.DirInOut
		p.advance()
	}
	ty := p.parseTypeRef()
	nameTok := p.expect(token.IDENT)
	n := ast.New(ast.Parameter, pos)
	n.Payload = &ast.DeclPayload{Name: nameTok.Lit, Direction: dir}
	n.AddChild(ty)
	return n
}

// --- parser declaration ------------------------------------------------

func (p *Parser) parseParserDeclaration() *ast.Node {
	pos := p.cur().Pos
	p.advance() // 'parser'
	nameTok := p.expect(token.IDENT)
	p.bindType(nameTok.Lit)
	n := ast.New(ast.ParserDeclaration, pos)
	n.Payload = &ast.DeclPayload{Name: nameTok.Lit}
	p.pushScope()
	n.AddChild(p.parseParameterList())
	n.AddChild(p.parseOptConstructorParameters())
	p.expect(token.LBRACE)
	locals := ast.New(ast.ParserLocalElements, p.cur().Pos)
	states := ast.New(ast.DeclarationList, p.cur().Pos)
	for !p.at(token.RBRACE) && !p.at(token.STATE) && !p.failed {
		locals.AddChild(p.parseParserLocalElement())
	}
	for p.at(token.STATE) {
		states.AddChild(p.parseParserState())
	}
	p.expect(token.RBRACE)
	p.popScope()
	n.AddChild(locals)
	n.AddChild(states)
	return n
}

func (p *Parser) parseParserLocalElement() *ast.Node {
	switch p.cur().Kind {
	case token.CONST:
		return p.parseVariableDeclaration()
	case token.VOID, token.BOOL, token.INT_TYPE, token.BIT, token.VARBIT, token.STRING_TYPE:
		return p.parseTypedLeadStatement()
	case token.TYPEIDENT:
		pos := p.cur().Pos
		ty := p.parseTypeRef()
		if p.at(token.LPAREN) {
			return p.finishArgsFirstInstantiation(pos, ty)
		}
		nameTok := p.expect(token.IDENT)
		if p.at(token.LPAREN) {
			p.advance()
			args := p.parseArgumentList()
			p.expect(token.RPAREN)
			p.expect(token.SEMI)
			n := ast.New(ast.Instantiation, pos)
			n.Payload = &ast.DeclPayload{Name: nameTok.Lit}
			n.AddChild(ty)
			n.AddChild(args)
			return n
		}
		return p.finishVariableDeclaration(pos, false, ty, nameTok.Lit)
	default:
		p.errf("expected a parser-local declaration, found %s", p.cur().Kind)
		return nil
	}
}

func (p *Parser) parseParserState() *ast.Node {
	pos := p.cur().Pos
	p.expect(token.STATE)
	nameTok := p.expect(token.IDENT)
	n := ast.New(ast.ParserState, pos)
	n.Payload = &ast.DeclPayload{Name: nameTok.Lit}
	p.pushScope()
	p.expect(token.LBRACE)
	body := ast.New(ast.ParserBlockStatement, p.cur().Pos)
	for !p.at(token.RBRACE) && !p.at(token.TRANSITION) && !p.failed {
		body.AddChild(p.parseStatement())
	}
	n.AddChild(body)
	if p.at(token.TRANSITION) {
		n.AddChild(p.parseTransitionStatement())
	}
	p.expect(token.RBRACE)
	p.popScope()
	return n
}

func (p *Parser) parseTransitionStatement() *ast.Node {
	pos := p.cur().Pos
	p.expect(token.TRANSITION)
	n := ast.New(ast.TransitionStatement, pos)
	n.Payload = &ast.TransitionPayload{}
	target := p.parseStateExpression()
	n.AddChild(target)
	if target == nil || target.Kind != ast.SelectExpression {
		p.expect(token.SEMI)
	}
	return n
}

func (p *Parser) parseStateExpression() *ast.Node {
	if p.at(token.SELECT) {
		return p.parseSelectExpression()
	}
	return p.parseName()
}

func (p *Parser) parseSelectExpression() *ast.Node {
	pos := p.cur().Pos
	p.expect(token.SELECT)
	p.expect(token.LPAREN)
	exprs := p.parseExpressionList()
	p.expect(token.RPAREN)
	n := ast.New(ast.SelectExpression, pos)
	n.AddChild(exprs)
	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) && !p.failed {
		n.AddChild(p.parseSelectCase())
	}
	p.expect(token.RBRACE)
	return n
}

func (p *Parser) parseSelectCase() *ast.Node {
	pos := p.cur().Pos
	keyset := p.parseKeysetExpression()
	p.expect(token.COLON)
	nameTok := p.expect(token.IDENT)
	p.expect(token.SEMI)
	n := ast.New(ast.SelectCase, pos)
	n.Payload = &ast.DeclPayload{Name: nameTok.Lit}
	n.AddChild(keyset)
	return n
}

func (p *Parser) parseKeysetExpression() *ast.Node {
	if p.at(token.LPAREN) {
		pos := p.cur().Pos
		p.advance()
		n := ast.New(ast.TupleKeysetExpression, pos)
		for !p.at(token.RPAREN) && !p.failed {
			n.AddChild(p.parseSimpleKeysetExpression())
			if p.at(token.COMMA) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(token.RPAREN)
		return n
	}
	pos := p.cur().Pos
	n := ast.New(ast.KeysetExpression, pos)
	n.AddChild(p.parseSimpleKeysetExpression())
	return n
}

func (p *Parser) parseSimpleKeysetExpression() *ast.Node {
	switch p.cur().Kind {
	case token.DONTCARE:
		pos := p.cur().Pos
		p.advance()
		return ast.New(ast.DontCare, pos)
	case token.DEFAULT:
		pos := p.cur().Pos
		p.advance()
		return ast.New(ast.DefaultExpression, pos)
	default:
		return p.parseExpression(token.LowestPrec)
	}
}

// --- control declaration ------------------------------------------------

func (p *Parser) parseControlDeclaration() *ast.Node {
	pos := p.cur().Pos
	p.advance() // 'control'
	nameTok := p.expect(token.IDENT)
	p.bindType(nameTok.Lit)
	n := ast.New(ast.ControlDeclaration, pos)
	n.Payload = &ast.DeclPayload{Name: nameTok.Lit}
	p.pushScope()
	n.AddChild(p.parseParameterList())
	n.AddChild(p.parseOptConstructorParameters())
	p.expect(token.LBRACE)
	locals := ast.New(ast.ControlLocalDeclarations, p.cur().Pos)
	for !p.at(token.APPLY) && !p.failed {
		locals.AddChild(p.parseControlLocalDeclaration())
	}
	n.AddChild(locals)
	p.expect(token.APPLY)
	n.AddChild(p.parseBlockStatement())
	p.expect(token.RBRACE)
	p.popScope()
	return n
}

func (p *Parser) parseControlLocalDeclaration() *ast.Node {
	switch p.cur().Kind {
	case token.ACTION:
		return p.parseActionDeclaration()
	case token.TABLE:
		return p.parseTableDeclaration()
	case token.CONST:
		return p.parseVariableDeclaration()
	case token.VOID, token.BOOL, token.INT_TYPE, token.BIT, token.VARBIT, token.STRING_TYPE:
		return p.parseTypedLeadStatement()
	case token.TYPEIDENT:
		pos := p.cur().Pos
		ty := p.parseTypeRef()
		if p.at(token.LPAREN) {
			return p.finishArgsFirstInstantiation(pos, ty)
		}
		nameTok := p.expect(token.IDENT)
		if p.at(token.LPAREN) {
			p.advance()
			args := p.parseArgumentList()
			p.expect(token.RPAREN)
			p.expect(token.SEMI)
			n := ast.New(ast.Instantiation, pos)
			n.Payload = &ast.DeclPayload{Name: nameTok.Lit}
			n.AddChild(ty)
			n.AddChild(args)
			return n
		}
		return p.finishVariableDeclaration(pos, false, ty, nameTok.Lit)
	default:
		p.errf("expected a control-local declaration, found %s", p.cur().Kind)
		return nil
	}
}

func (p *Parser) parseActionDeclaration() *ast.Node {
	pos := p.cur().Pos
	p.expect(token.ACTION)
	nameTok := p.expect(token.IDENT)
	n := ast.New(ast.ActionDeclaration, pos)
	n.Payload = &ast.DeclPayload{Name: nameTok.Lit}
	p.pushScope()
	n.AddChild(p.parseParameterList())
	n.AddChild(p.parseBlockStatement())
	p.popScope()
	return n
}

func (p *Parser) parseTableDeclaration() *ast.Node {
	pos := p.cur().Pos
	p.expect(token.TABLE)
	nameTok := p.expect(token.IDENT)
	n := ast.New(ast.TableDeclaration, pos)
	n.Payload = &ast.DeclPayload{Name: nameTok.Lit}
	p.pushScope()
	p.expect(token.LBRACE)
	props := ast.New(ast.TablePropertyList, p.cur().Pos)
	for !p.at(token.RBRACE) && !p.failed {
		props.AddChild(p.parseTableProperty())
	}
	p.expect(token.RBRACE)
	p.popScope()
	n.AddChild(props)
	return n
}

// parseTableProperty handles "name = expr ;" and "name = { identList } ;"
// shaped table properties (key/actions/default_action/size, etc.). The
// full `entries` property grammar is future work.
func (p *Parser) parseTableProperty() *ast.Node {
	pos := p.cur().Pos
	nameTok := p.expect(token.IDENT)
	n := ast.New(ast.VariableDeclaration, pos)
	n.Payload = &ast.DeclPayload{Name: nameTok.Lit}
	p.expect(token.ASSIGN)
	if p.at(token.LBRACE) {
		p.advance()
		n.AddChild(p.parseIdentifierList(token.RBRACE))
		p.expect(token.RBRACE)
	} else {
		n.AddChild(p.parseExpression(token.LowestPrec))
	}
	p.expect(token.SEMI)
	return n
}

// --- extern / package ---------------------------------------------------

func (p *Parser) parseExternDeclaration() *ast.Node {
	pos := p.cur().Pos
	p.advance() // 'extern'
	nameTok := p.expect(token.IDENT)
	p.bindType(nameTok.Lit)
	n := ast.New(ast.ExternDeclaration, pos)
	n.Payload = &ast.DeclPayload{Name: nameTok.Lit}
	p.pushScope()
	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) && !p.failed {
		n.AddChild(p.parseExternMember(nameTok.Lit))
	}
	p.expect(token.RBRACE)
	p.popScope()
	return n
}

func (p *Parser) parseExternMember(externName string) *ast.Node {
	pos := p.cur().Pos
	// externName was already bound into the type namespace by the time
	// we get here, so its own constructor line sees it reclassified to
	// TYPEIDENT like any other use of the name.
	if p.atAny(token.IDENT, token.TYPEIDENT) && p.cur().Lit == externName && p.tb.Peek(1).Kind == token.LPAREN {
		// constructor: Name '(' params ')' ';'
		p.advance()
		params := p.parseParameterList()
		p.expect(token.SEMI)
		n := ast.New(ast.FunctionPrototype, pos)
		n.Payload = &ast.DeclPayload{Name: externName}
		n.AddChild(params)
		return n
	}
	ty := p.parseTypeRef()
	nameTok := p.expect(token.IDENT)
	params := p.parseParameterList()
	p.expect(token.SEMI)
	n := ast.New(ast.FunctionPrototype, pos)
	n.Payload = &ast.DeclPayload{Name: nameTok.Lit}
	n.AddChild(ty)
	n.AddChild(params)
	return n
}

func (p *Parser) parsePackageTypeDeclaration() *ast.Node {
	pos := p.cur().Pos
	p.advance() // 'package'
	nameTok := p.expect(token.IDENT)
	p.bindType(nameTok.Lit)
	n := ast.New(ast.PackageTypeDeclaration, pos)
	n.Payload = &ast.DeclPayload{Name: nameTok.Lit}
	p.pushScope()
	n.AddChild(p.parseParameterList())
	p.popScope()
	p.expect(token.SEMI)
	return n
}

// --- header / struct / union / enum / error / match_kind / typedef -----

func (p *Parser) parseHeaderTypeDeclaration() *ast.Node {
	return p.parseFieldedTypeDeclaration(ast.HeaderTypeDeclaration, token.HEADER)
}

func (p *Parser) parseHeaderUnionDeclaration() *ast.Node {
	return p.parseFieldedTypeDeclaration(ast.HeaderUnionDeclaration, token.UNION)
}

func (p *Parser) parseStructTypeDeclaration() *ast.Node {
	return p.parseFieldedTypeDeclaration(ast.StructTypeDeclaration, token.STRUCT)
}

func (p *Parser) parseFieldedTypeDeclaration(kind ast.Kind, lead token.Kind) *ast.Node {
	pos := p.cur().Pos
	p.expect(lead)
	// A name already bound as a type arrives reclassified to TYPEIDENT;
	// accept it so the name-declaration pass can report the redeclaration.
	nameTok := p.cur()
	if nameTok.Kind == token.TYPEIDENT {
		p.advance()
	} else {
		nameTok = p.expect(token.IDENT)
	}
	p.bindType(nameTok.Lit)
	n := ast.New(kind, pos)
	n.Payload = &ast.DeclPayload{Name: nameTok.Lit}
	p.pushScope()
	p.expect(token.LBRACE)
	fields := ast.New(ast.StructFieldList, p.cur().Pos)
	for !p.at(token.RBRACE) && !p.failed {
		fields.AddChild(p.parseStructField())
	}
	p.expect(token.RBRACE)
	p.popScope()
	n.AddChild(fields)
	return n
}

func (p *Parser) parseStructField() *ast.Node {
	pos := p.cur().Pos
	ty := p.parseTypeRef()
	nameTok := p.expect(token.IDENT)
	p.expect(token.SEMI)
	n := ast.New(ast.StructField, pos)
	n.Payload = &ast.DeclPayload{Name: nameTok.Lit}
	n.AddChild(ty)
	return n
}

func (p *Parser) parseEnumDeclaration() *ast.Node {
	pos := p.cur().Pos
	p.expect(token.ENUM)
	nameTok := p.expect(token.IDENT)
	p.bindType(nameTok.Lit)
	n := ast.New(ast.EnumDeclaration, pos)
	n.Payload = &ast.DeclPayload{Name: nameTok.Lit}
	p.expect(token.LBRACE)
	n.AddChild(p.parseIdentifierList(token.RBRACE))
	p.expect(token.RBRACE)
	return n
}

func (p *Parser) parseErrorDeclaration() *ast.Node {
	pos := p.cur().Pos
	p.expect(token.ERROR)
	n := ast.New(ast.ErrorDeclaration, pos)
	p.expect(token.LBRACE)
	n.AddChild(p.parseIdentifierList(token.RBRACE))
	p.expect(token.RBRACE)
	return n
}

func (p *Parser) parseMatchKindDeclaration() *ast.Node {
	pos := p.cur().Pos
	p.expect(token.MATCHKIND)
	n := ast.New(ast.MatchKindDeclaration, pos)
	p.expect(token.LBRACE)
	n.AddChild(p.parseIdentifierList(token.RBRACE))
	p.expect(token.RBRACE)
	return n
}

func (p *Parser) parseIdentifierList(closing token.Kind) *ast.Node {
	n := ast.New(ast.IdentifierList, p.cur().Pos)
	for !p.at(closing) && !p.failed {
		nameTok := p.expect(token.IDENT)
		id := ast.New(ast.Name, nameTok.Pos)
		id.Payload = &ast.IdentPayload{Value: nameTok.Lit}
		n.AddChild(id)
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	return n
}

func (p *Parser) parseTypedefDeclaration() *ast.Node {
	pos := p.cur().Pos
	p.expect(token.TYPEDEF)
	ty := p.parseTypeRef()
	nameTok := p.expect(token.IDENT)
	p.bindType(nameTok.Lit)
	p.expect(token.SEMI)
	n := ast.New(ast.TypedefDeclaration, pos)
	n.Payload = &ast.DeclPayload{Name: nameTok.Lit}
	n.AddChild(ty)
	return n
}

// --- types ---------------------------------------------------------------

func (p *Parser) parseTypeRef() *ast.Node {
	pos := p.cur().Pos
	switch p.cur().Kind {
	case token.VOID, token.BOOL, token.STRING_TYPE:
		kw := p.cur().Kind
		p.advance()
		n := ast.New(ast.BaseType, pos)
		n.Payload = &ast.BaseTypePayload{Keyword: kw, Width: -1}
		return n
	case token.INT_TYPE:
		p.advance()
		width := -1
		if p.at(token.LANGLE) {
			p.advance()
			width = p.parseIntSize()
			p.expect(token.RANGLE)
		}
		n := ast.New(ast.BaseType, pos)
		n.Payload = &ast.BaseTypePayload{Keyword: token.INT_TYPE, Width: width}
		return n
	case token.BIT, token.VARBIT:
		kw := p.cur().Kind
		p.advance()
		width := -1
		if p.at(token.LANGLE) {
			p.advance()
			width = p.parseIntSize()
			p.expect(token.RANGLE)
		}
		n := ast.New(ast.BaseType, pos)
		n.Payload = &ast.BaseTypePayload{Keyword: kw, Width: width}
		return n
	case token.TYPEIDENT:
		nameTok := p.cur()
		p.advance()
		n := ast.New(ast.TypeName, pos)
		n.Payload = &ast.IdentPayload{Value: nameTok.Lit}
		if p.atSpecialization() {
			return p.finishSpecializedType(pos, n)
		}
		return p.maybeStackType(pos, n)
	default:
		p.errf("expected a type, found %s", p.cur().Kind)
		return ast.New(ast.BadNode, pos)
	}
}

func (p *Parser) parseIntSize() int {
	t := p.cur()
	if t.Kind != token.INT {
		p.errf("expected an integer width, found %s", t.Kind)
		return -1
	}
	p.advance()
	n, _ := strconv.Atoi(t.Lit)
	return n
}

// atSpecialization checks for a postfix specialization "<...>", which
// binds tighter than any binary operator.
// Disambiguating '<' as specialization-open (rather than less-than) only
// makes sense in type position, which is the only place parseTypeRef
// calls it from, so no lookahead heuristic is required here, unlike in
// expression position, where '<' stays a comparison operator.
func (p *Parser) atSpecialization() bool { return p.at(token.LANGLE) }

func (p *Parser) finishSpecializedType(pos token.Pos, base *ast.Node) *ast.Node {
	p.advance() // '<'
	n := ast.New(ast.SpecializedType, pos)
	n.AddChild(base)
	for !p.at(token.RANGLE) && !p.failed {
		n.AddChild(p.parseTypeRef())
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RANGLE)
	return p.maybeStackType(pos, n)
}

func (p *Parser) maybeStackType(pos token.Pos, elem *ast.Node) *ast.Node {
	if !p.at(token.LBRACK) {
		return elem
	}
	p.advance()
	n := ast.New(ast.StackType, pos)
	n.AddChild(elem)
	n.AddChild(p.parseExpression(token.LowestPrec))
	p.expect(token.RBRACK)
	return n
}

// --- argument lists --------------------------------------------------

func (p *Parser) parseArgumentList() *ast.Node {
	n := ast.New(ast.ArgumentList, p.cur().Pos)
	for !p.at(token.RPAREN) && !p.failed {
		n.AddChild(p.parseArgument())
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	return n
}

func (p *Parser) parseArgument() *ast.Node {
	pos := p.cur().Pos
	name := ""
	if p.at(token.IDENT) && p.tb.Peek(1).Kind == token.ASSIGN {
		name = p.cur().Lit
		p.advance()
		p.advance()
	}
	n := ast.New(ast.Argument, pos)
	n.Payload = &ast.ArgumentPayload{Name: name}
	n.AddChild(p.parseExpression(token.LowestPrec))
	return n
}

func (p *Parser) parseExpressionList() *ast.Node {
	n := ast.New(ast.ExpressionList, p.cur().Pos)
	for {
		n.AddChild(p.parseExpression(token.LowestPrec))
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return n
}

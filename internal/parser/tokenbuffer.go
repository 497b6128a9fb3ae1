// Package parser implements the token buffer with bounded lookahead and
// the recursive-descent AST builder.
package parser

import (
	"github.com/dfrunza/ashp4c-sub003/internal/scope"
	"github.com/dfrunza/ashp4c-sub003/p4/errors"
	"github.com/dfrunza/ashp4c-sub003/p4/token"
)

// TokenBuffer is a mutable cursor into a pre-tokenized source. Comment
// tokens are filtered out at construction time, so Current/Peek/Advance
// never observe them.
//
// The only coupling to scopes is read-only: on every Advance, the new
// current token is reclassified by looking its lexeme up in the scope
// chain returned by scopeOf: if the lookup lands in the Keyword
// namespace, the token's Kind becomes that keyword's Kind; else if it
// lands in the Type namespace, the token's Kind becomes token.TYPEIDENT.
type TokenBuffer struct {
	toks    []token.Token
	pos     int
	scopeOf func() *scope.Scope
}

// NewTokenBuffer wraps toks (which must end with a token.EOF token) into
// a TokenBuffer. scopeOf is called on every advance/peek to reclassify
// identifier tokens against whatever scope is current at that point in
// parsing.
func NewTokenBuffer(toks []token.Token, scopeOf func() *scope.Scope) *TokenBuffer {
	filtered := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind != token.COMMENT {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 || filtered[len(filtered)-1].Kind != token.EOF {
		filtered = append(filtered, token.Token{Kind: token.EOF})
	}
	b := &TokenBuffer{toks: filtered, scopeOf: scopeOf}
	b.classify(0)
	return b
}

func (b *TokenBuffer) classify(i int) {
	if i < 0 || i >= len(b.toks) {
		return
	}
	t := &b.toks[i]
	if t.Kind != token.IDENT {
		return
	}
	s := b.scopeOf()
	if s == nil {
		return
	}
	if _, decl := scope.Lookup(s, t.Lit, scope.Keyword); decl != nil {
		t.Kind = token.Kind(decl.KeywordKind)
		return
	}
	if _, decl := scope.Lookup(s, t.Lit, scope.Type); decl != nil {
		t.Kind = token.TYPEIDENT
	}
}

// Current returns the token at the cursor.
func (b *TokenBuffer) Current() token.Token { return b.toks[b.pos] }

// Peek returns the token n places ahead of the cursor (n >= 0; Peek(0)
// is the current token), applying
// the same keyword/type reclassification Current's position enjoys.
// Peeking past the end of input returns the trailing EOF token.
func (b *TokenBuffer) Peek(n int) token.Token {
	i := b.pos + n
	if i >= len(b.toks) {
		i = len(b.toks) - 1
	}
	b.classify(i)
	return b.toks[i]
}

// Advance moves the cursor forward one token and returns the new current
// token. It fails with errors.UnexpectedEOI if the cursor is already at
// EOF.
func (b *TokenBuffer) Advance() (token.Token, errors.Error) {
	if b.toks[b.pos].Kind == token.EOF {
		return b.toks[b.pos], errors.Newf(errors.UnexpectedEOI, b.toks[b.pos].Pos, "unexpected end of input")
	}
	b.pos++
	b.classify(b.pos)
	return b.Current(), nil
}

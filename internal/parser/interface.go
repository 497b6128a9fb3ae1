package parser

import (
	"github.com/dfrunza/ashp4c-sub003/p4/ast"
	"github.com/dfrunza/ashp4c-sub003/p4/errors"
	"github.com/dfrunza/ashp4c-sub003/p4/token"
)

// ParseFile parses a pre-tokenized source file and returns its root
// Program node. Any parse errors accumulated along the way are also
// returned; a non-nil root is still handed back even on error. The
// first-error-then-abandon policy stops attaching children but has
// already produced a partial tree.
func ParseFile(toks []token.Token) (*ast.Node, errors.List) {
	p := New(toks)
	root := p.ParseProgram()
	return root, p.Errors()
}

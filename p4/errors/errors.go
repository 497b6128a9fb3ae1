// Package errors defines the shared error type for the p4fc front end.
//
// Every fallible pass in internal/parser, internal/scope, internal/types,
// internal/potype, and internal/sema reports through the Error interface
// defined here, so that a caller can uniformly extract a source position
// and a human-readable message regardless of which pass failed.
package errors

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dfrunza/ashp4c-sub003/p4/token"
)

// Kind identifies an error category.
type Kind string

const (
	IOError           Kind = "io error"
	ParseError        Kind = "parse error"
	UnexpectedEOI     Kind = "unexpected end of input"
	UnknownName       Kind = "unknown name"
	Redeclaration     Kind = "redeclaration"
	AmbiguousType     Kind = "ambiguous type"
	NoMatchingType    Kind = "no matching type"
	TypeMismatch      Kind = "type mismatch"
)

// Error is the common error interface produced by every pass.
type Error interface {
	error
	Position() token.Pos
	Kind() Kind
	Msg() (format string, args []interface{})
}

// posError is the concrete Error implementation.
type posError struct {
	pos    token.Pos
	kind   Kind
	format string
	args   []interface{}
}

func (e *posError) Position() token.Pos                  { return e.pos }
func (e *posError) Kind() Kind                            { return e.kind }
func (e *posError) Msg() (string, []interface{})         { return e.format, e.args }
func (e *posError) Error() string                         { return fmt.Sprintf(e.format, e.args...) }

// Newf creates an Error of the given kind at position p.
func Newf(kind Kind, p token.Pos, format string, args ...interface{}) Error {
	return &posError{pos: p, kind: kind, format: format, args: args}
}

// List aggregates multiple Errors, preserving insertion order. The zero
// value is an empty, ready-to-use list.
type List []Error

// Add appends err to the list.
func (l *List) Add(err Error) { *l = append(*l, err) }

// Err returns an error equivalent to the list, or nil if it is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", l[0].Error(), len(l)-1)
	}
}

// Sort orders the list by position, first error first.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Position().Compare(l[j].Position()) < 0
	})
}

// Print writes one line per error to w, in "path:line:column: severity:
// message" form.
func Print(w io.Writer, err error, severity string) {
	for _, e := range Errors(err) {
		pos := e.Position().Position()
		loc := pos.String()
		fmt.Fprintf(w, "%s: %s: %s\n", loc, severity, e.Error())
	}
}

// Errors flattens err into its constituent Error values.
func Errors(err error) []Error {
	switch x := err.(type) {
	case nil:
		return nil
	case List:
		return x
	case Error:
		return []Error{x}
	default:
		return []Error{&posError{pos: token.NoPos, format: "%s", args: []interface{}{x.Error()}}}
	}
}

// Details renders err the way Print does, returning the result as a string.
func Details(err error, severity string) string {
	var b strings.Builder
	Print(&b, err, severity)
	return b.String()
}

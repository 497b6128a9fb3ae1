package lexer

import (
	"testing"

	"github.com/dfrunza/ashp4c-sub003/p4/errors"
	"github.com/dfrunza/ashp4c-sub003/p4/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanAllBasicTokens(t *testing.T) {
	toks, _, errs := ScanAll("t.p4", []byte(`hdr.field == 8w0`))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []token.Kind{token.IDENT, token.PERIOD, token.IDENT, token.EQL, token.INT, token.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanAllDontCare(t *testing.T) {
	toks, _, _ := ScanAll("t.p4", []byte(`_`))
	if toks[0].Kind != token.DONTCARE {
		t.Errorf("'_' must scan as DONTCARE, got %s", toks[0].Kind)
	}
}

func TestScanAllWidthPrefixedIntLiterals(t *testing.T) {
	cases := []string{"8w0", "16w0xFF", "32s10"}
	for _, src := range cases {
		toks, _, errs := ScanAll("t.p4", []byte(src))
		if len(errs) != 0 {
			t.Fatalf("%q: unexpected errors: %v", src, errs)
		}
		if toks[0].Kind != token.INT || toks[0].Lit != src {
			t.Errorf("%q scanned as %s(%q), want INT(%q)", src, toks[0].Kind, toks[0].Lit, src)
		}
	}
}

func TestScanAllStringLiteral(t *testing.T) {
	toks, _, errs := ScanAll("t.p4", []byte(`"hello"`))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[0].Kind != token.STRING || toks[0].Lit != `"hello"` {
		t.Errorf("got %s(%q), want STRING(%q)", toks[0].Kind, toks[0].Lit, `"hello"`)
	}
}

func TestScanAllUnterminatedStringReportsError(t *testing.T) {
	_, _, errs := ScanAll("t.p4", []byte(`"oops`))
	if len(errs) == 0 {
		t.Fatalf("expected an unterminated-string error")
	}
	if errs[0].Kind() != errors.UnexpectedEOI {
		t.Errorf("got error kind %v, want UnexpectedEOI", errs[0].Kind())
	}
}

func TestScanAllCommentsAreTokenized(t *testing.T) {
	toks, _, errs := ScanAll("t.p4", []byte("// a comment\n/* block */ x"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []token.Kind{token.COMMENT, token.COMMENT, token.IDENT, token.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanAllOperators(t *testing.T) {
	toks, _, errs := ScanAll("t.p4", []byte(`&& || == != <= >= < >`))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []token.Kind{
		token.LAND, token.LOR, token.EQL, token.NEQ,
		token.LEQ, token.GEQ, token.LANGLE, token.RANGLE, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanAllIllegalCharacter(t *testing.T) {
	_, _, errs := ScanAll("t.p4", []byte(`@`))
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d", len(errs))
	}
}

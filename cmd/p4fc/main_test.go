package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dfrunza/ashp4c-sub003/internal/diag"
)

// withArgs temporarily replaces os.Args for the duration of a run()
// call, since run() builds a fresh cobra.Command each time and lets it
// read os.Args itself.
func withArgs(t *testing.T, args ...string) int {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"p4fc"}, args...)
	defer func() { os.Args = orig }()
	return run()
}

func writeTempSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "t.p4")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp source: %v", err)
	}
	return path
}

func TestRunExitsOKOnValidProgram(t *testing.T) {
	path := writeTempSource(t, `
header Ethernet {
    bit<48> dst;
    bit<48> src;
}
`)
	code := withArgs(t, path)
	if code != int(diag.ExitOK) {
		t.Errorf("got exit code %d, want ExitOK (%d)", code, diag.ExitOK)
	}
}

func TestRunExitsOKWithVerboseAndDumpFlags(t *testing.T) {
	path := writeTempSource(t, `bit<8> x;`)
	code := withArgs(t, "--verbose", "--dump-types", "--trace-scopes", path)
	if code != int(diag.ExitOK) {
		t.Errorf("got exit code %d, want ExitOK (%d)", code, diag.ExitOK)
	}
}

func TestRunExitsLexParseErrorOnSyntaxError(t *testing.T) {
	path := writeTempSource(t, `header Ethernet { bit<48> ; }`)
	code := withArgs(t, path)
	if code != int(diag.ExitLexParseError) {
		t.Errorf("got exit code %d, want ExitLexParseError (%d)", code, diag.ExitLexParseError)
	}
}

func TestRunExitsSemanticErrorOnRedeclaration(t *testing.T) {
	path := writeTempSource(t, `
header Ethernet { bit<48> dst; }
header Ethernet { bit<48> src; }
`)
	code := withArgs(t, path)
	if code != int(diag.ExitSemanticError) {
		t.Errorf("got exit code %d, want ExitSemanticError (%d)", code, diag.ExitSemanticError)
	}
}

func TestRunExitsInternalErrorOnMissingFile(t *testing.T) {
	code := withArgs(t, filepath.Join(t.TempDir(), "does-not-exist.p4"))
	if code != int(diag.ExitInternalError) {
		t.Errorf("got exit code %d, want ExitInternalError (%d)", code, diag.ExitInternalError)
	}
}

func TestRunExitsInternalErrorOnWrongArgCount(t *testing.T) {
	code := withArgs(t)
	if code != int(diag.ExitInternalError) {
		t.Errorf("got exit code %d, want ExitInternalError (%d) for a missing positional argument", code, diag.ExitInternalError)
	}
}

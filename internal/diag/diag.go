// Package diag renders compiler diagnostics and maps them to the
// driver's process exit-code contract.
package diag

import (
	"fmt"
	"io"

	"github.com/dfrunza/ashp4c-sub003/p4/errors"
)

// ExitCode classifies the overall outcome of a compiler run.
type ExitCode int

const (
	// ExitOK means the source compiled without diagnostics.
	ExitOK ExitCode = 0
	// ExitLexParseError means scanning or parsing failed before any
	// semantic pass ran.
	ExitLexParseError ExitCode = 1
	// ExitSemanticError means name resolution, the type-table pass, the
	// potential-type pass, or type selection reported at least one error.
	ExitSemanticError ExitCode = 2
	// ExitInternalError means the driver itself failed (I/O, bad
	// command-line arguments) rather than the input being invalid.
	ExitInternalError ExitCode = 3
)

// severity strings used in the "path:line:column: severity: message"
// line format.
const (
	SeverityError = "error"
	SeverityWarn  = "warning"
)

// Report prints every error in errs to w, one per line, at
// SeverityError, and returns code (or ExitOK if errs is empty) for
// callers to propagate.
func Report(w io.Writer, errs errors.List, code ExitCode) ExitCode {
	if len(errs) == 0 {
		return ExitOK
	}
	errs.Sort()
	for _, e := range errs {
		errors.Print(w, e, SeverityError)
	}
	return code
}

// Reportf writes a single driver-level diagnostic not tied to any source
// position (e.g. "cannot open file: %v"), returning ExitInternalError.
func Reportf(w io.Writer, format string, args ...interface{}) ExitCode {
	fmt.Fprintf(w, "%s: %s\n", SeverityError, fmt.Sprintf(format, args...))
	return ExitInternalError
}

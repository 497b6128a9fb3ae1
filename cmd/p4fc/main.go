// Command p4fc is the front-end driver: it reads a single source file,
// runs it through the compiler pipeline, and reports diagnostics or
// (with --dump-types/--trace-scopes) a summary of the committed results.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dfrunza/ashp4c-sub003/internal/compiler"
	"github.com/dfrunza/ashp4c-sub003/internal/diag"
)

func main() {
	os.Exit(run())
}

func run() int {
	var verbose, dumpTypes, traceScopes bool

	root := &cobra.Command{
		Use:           "p4fc <file>",
		Short:         "compile a packet-processing-language source file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.Flags()
	flags.BoolVar(&verbose, "verbose", false, "print per-pass timing")
	flags.BoolVar(&dumpTypes, "dump-types", false, "print the committed type of every expression")
	flags.BoolVar(&traceScopes, "trace-scopes", false, "print the scope graph")

	exitCode := int(diag.ExitInternalError)

	root.RunE = func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			exitCode = int(diag.Reportf(os.Stderr, "cannot read %s: %v", args[0], err))
			return nil
		}

		cfg := compiler.Config{
			Filename:    args[0],
			Source:      src,
			TraceScopes: traceScopes,
			DumpTypes:   dumpTypes,
		}

		start := time.Now()
		res, code := compiler.Run(cfg)
		elapsed := time.Since(start)

		if len(res.Errs) > 0 {
			var c diag.ExitCode
			switch code {
			case compiler.ExitParseError:
				c = diag.ExitLexParseError
			case compiler.ExitSemanticError:
				c = diag.ExitSemanticError
			}
			exitCode = int(diag.Report(os.Stderr, res.Errs, c))
			return nil
		}

		exitCode = int(diag.ExitOK)
		if verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: total %s (lex %s, parse %s, names %s, types %s, potype %s, select %s)\n",
				res.RunID, elapsed, res.Stats.Lex, res.Stats.Parse, res.Stats.NameDecl,
				res.Stats.TypeTable, res.Stats.Potype, res.Stats.Select)
		}
		if dumpTypes {
			dumpTypeEnv(cmd, res)
		}
		if traceScopes {
			dumpScopes(cmd, res)
		}
		return nil
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return int(diag.ExitInternalError)
	}
	return exitCode
}

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dfrunza/ashp4c-sub003/internal/compiler"
	"github.com/dfrunza/ashp4c-sub003/internal/types"
)

// dumpTypeEnv prints the committed type of every expression node recorded
// in TypeEnv, one line per node, in the order type selection visited them.
func dumpTypeEnv(cmd *cobra.Command, res *compiler.Result) {
	w := cmd.OutOrStdout()
	for _, n := range res.Tables.TypeEnv.Keys() {
		id, _ := res.Tables.TypeEnv.Get(n)
		fmt.Fprintf(w, "%s: %s -> %s\n", n.Pos.Position(), n.Kind, formerName(res.Tables.Types.Get(id).Former))
	}
}

// dumpScopes prints every scope-opening declaration alongside the level
// of the child scope it introduced, and every non-lexical field scope.
func dumpScopes(cmd *cobra.Command, res *compiler.Result) {
	w := cmd.OutOrStdout()
	printOpened(w, res)
	printFields(w, res)
}

func formerName(f types.Former) string {
	switch f {
	case types.Void:
		return "void"
	case types.Bool:
		return "bool"
	case types.Int:
		return "int"
	case types.Bit:
		return "bit"
	case types.Varbit:
		return "varbit"
	case types.String:
		return "string"
	case types.DontCare:
		return "dontcare"
	case types.Enum:
		return "enum"
	case types.TypeVar:
		return "typevar"
	case types.Typedef:
		return "typedef"
	case types.NameRef:
		return "nameref"
	case types.IdRef:
		return "idref"
	case types.Product:
		return "product"
	case types.Function:
		return "function"
	case types.Extern:
		return "extern"
	case types.Parser:
		return "parser"
	case types.Control:
		return "control"
	case types.Struct:
		return "struct"
	case types.Header:
		return "header"
	case types.Union:
		return "union"
	case types.Stack:
		return "stack"
	case types.Table:
		return "table"
	case types.Specialized:
		return "specialized"
	case types.TypeMeta:
		return "type"
	default:
		return "?"
	}
}

func printOpened(w io.Writer, res *compiler.Result) {
	for _, n := range res.Tables.OpenedScopes.Keys() {
		s, _ := res.Tables.OpenedScopes.Get(n)
		fmt.Fprintf(w, "%s: %s opens scope level %d\n", n.Pos.Position(), n.Kind, s.Level)
	}
}

func printFields(w io.Writer, res *compiler.Result) {
	for _, n := range res.Tables.FieldMap.Keys() {
		fmt.Fprintf(w, "%s: %s has a member scope\n", n.Pos.Position(), n.Kind)
	}
}

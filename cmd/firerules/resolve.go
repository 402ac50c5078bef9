package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"firerules/internal/ast"
	"firerules/internal/scope"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <file.rules> <line:col>",
		Short: "Resolve the reference at a position to its definition",
		Long: `Resolve runs position lookup and scope resolution like go-to-definition does.
Line and column are 1-based; the column counts characters.`,
		Args: cobra.ExactArgs(2),
		RunE: runResolve,
	}
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	doc, err := loadDocument(args[0], cfg)
	if err != nil {
		return err
	}
	point, err := parsePosition(doc.File, args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	def, err := doc.Definition(point)
	switch {
	case errors.Is(err, scope.ErrNoTarget):
		fmt.Fprintf(out, "%s: no reference at %s\n", args[0], args[1])
		return nil
	case errors.Is(err, scope.ErrUnresolved):
		fmt.Fprintf(out, "%s: %v\n", args[0], err)
		return errCheckFailed
	case err != nil:
		return err
	}

	fmt.Fprintf(out, "%s %s defined at %s:%d:%d\n",
		definitionKind(def.Node), def.Name, args[0], def.NameSpan.Start.Row+1, def.NameSpan.Start.Column+1)
	fmt.Fprintf(out, "  %s\n", doc.File.Line(def.Span.Start.Row))
	if timingsEnabled(cmd) {
		writeTimings(cmd.ErrOrStderr(), doc)
	}
	return nil
}

func definitionKind(n ast.Node) string {
	switch n.(type) {
	case *ast.Function:
		return "function"
	case *ast.VariableDefinition:
		return "let"
	case *ast.MatchPathPart:
		return "path variable"
	}
	return "name"
}

// Command peggy drives the compiler pipeline against a bundled example
// grammar and prints either the checked/transformed AST or a dump of each
// rule's raw bytecode ints.
//
// It replaces the teacher's flag-based main.go: that program read PEG
// grammar source from a file or stdin and handed it to a generated
// meta-grammar parser (ParseReader) before building a JS parser with
// builder.BuildParser. Neither of those exists in this module's scope —
// the meta-grammar parser and the target-language emitter are both
// external collaborators (spec §1) — so this CLI has no grammar file to
// read; it drives the one example grammar built directly through the ast
// package's constructors (examples.Arithmetic) instead.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/polkovnikov-ph/peggy/ast"
	"github.com/polkovnikov-ph/peggy/compiler"
	"github.com/polkovnikov-ph/peggy/diag"
	"github.com/polkovnikov-ph/peggy/examples"
	"github.com/polkovnikov-ph/peggy/internal/simulate"
)

var (
	debug             bool
	receiverName      string
	outputKind        string
	allowedStartRules []string
)

func main() {
	root := &cobra.Command{
		Use:   "peggy",
		Short: "Compile the bundled example grammar and print the result",
		Long: `peggy drives the check/transform/generate pipeline against a small
hand-built arithmetic grammar and prints either the compiled AST or a
dump of the generated stack-machine bytecode as raw ints.

There is no grammar file argument: the meta-grammar parser that would turn
PEG source text into an AST is outside this module's scope (it remains an
external collaborator), so the CLI exercises the pipeline against the one
grammar built directly through the ast package's node constructors.`,
		RunE: run,
	}

	root.Flags().BoolVar(&debug, "debug", false, "log each pipeline stage at debug level")
	root.Flags().StringVar(&receiverName, "receiver-name", "c", "receiver name threaded through to Options.ReceiverName")
	root.Flags().StringVar(&outputKind, "output", "ast", "what to print: ast|bytecode")
	root.Flags().StringSliceVar(&allowedStartRules, "allowed-start-rules", nil, `start rules to allow ("*" for all, default: the grammar's first rule)`)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	log := zap.NewNop()
	if debug {
		var err error
		log, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("peggy: building logger: %w", err)
		}
	}
	defer log.Sync() //nolint:errcheck

	g := examples.Arithmetic()
	opts := &compiler.Options{
		AllowedStartRules: allowedStartRules,
		ReceiverName:      receiverName,
		Output:            compiler.OutputAST,
		Log:               log,
	}

	s, err := compiler.Compile(g, opts)
	if err != nil {
		if ce, ok := err.(*diag.CompileError); ok {
			fmt.Fprint(cmd.ErrOrStderr(), diag.Format(ce, nil))
		}
		return fmt.Errorf("peggy: %w", err)
	}

	switch outputKind {
	case "ast":
		printGrammar(cmd, g)
	case "bytecode":
		printBytecode(cmd, g)
	default:
		return fmt.Errorf("peggy: --output must be ast or bytecode, got %q", outputKind)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\ncompiled with %d problem(s), session %s\n", len(s.Problems), s.ID)
	return nil
}

func printGrammar(cmd *cobra.Command, g *ast.Grammar) {
	out := cmd.OutOrStdout()
	for _, r := range g.Rules {
		fmt.Fprintf(out, "%s  (match=%s)\n", r.Name, matchString(r.Expr))
	}
}

func matchString(e ast.Expr) string {
	if m := e.Match(); m != nil {
		return m.String()
	}
	return "unknown"
}

func printBytecode(cmd *cobra.Command, g *ast.Grammar) {
	out := cmd.OutOrStdout()
	for _, r := range g.Rules {
		delta := simulate.Run(r.Bytecode)
		fmt.Fprintf(out, "%s: %d ints, net stack delta %d\n", r.Name, len(r.Bytecode), delta)
		fmt.Fprintf(out, "  %v\n", r.Bytecode)
	}
	fmt.Fprintf(out, "\nliterals:     %v\n", g.Literals)
	fmt.Fprintf(out, "classes:      %d interned\n", len(g.Classes))
	fmt.Fprintf(out, "expectations: %d interned\n", len(g.Expectations))
	fmt.Fprintf(out, "functions:    %d interned\n", len(g.Functions))
}

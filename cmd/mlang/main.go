// Command mlang runs a source file through the full pipeline: read, lex,
// parse, check, interpret.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/misat1505/tkom-sub000/internal/interp"
	"github.com/misat1505/tkom-sub000/internal/issue"
	"github.com/misat1505/tkom-sub000/internal/lexer"
	"github.com/misat1505/tkom-sub000/internal/parser"
	"github.com/misat1505/tkom-sub000/internal/sema"
	"github.com/misat1505/tkom-sub000/internal/source"
)

var (
	maxCommentLength    int
	maxIdentifierLength int
	verbose             bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mlang <file>",
		Short: "Run a program written in the language this interpreter implements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
	}
	cmd.Flags().IntVar(&maxCommentLength, "max-comment-length", lexer.DefaultOptions().MaxCommentLength, "maximum comment length in characters")
	cmd.Flags().IntVar(&maxIdentifierLength, "max-identifier-length", lexer.DefaultOptions().MaxIdentifierLength, "maximum identifier length in characters")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log phase timings")
	return cmd
}

func newLogger() *zap.Logger {
	if verbose {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	return zap.NewNop()
}

func run(path string) error {
	logger := newLogger()
	defer logger.Sync()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	logger.Info("reading source", zap.String("path", path))
	src := source.New(f)

	opts := lexer.Options{MaxCommentLength: maxCommentLength, MaxIdentifierLength: maxIdentifierLength}
	lex := lexer.New(src, opts)

	logger.Info("parsing")
	p, err := parser.New(lex)
	if err != nil {
		return reportIssue(err)
	}
	program, err := p.ParseProgram()
	if err != nil {
		return reportIssue(err)
	}

	logger.Info("checking")
	issues := sema.New(program).Check()
	for _, i := range issues.Items() {
		fmt.Fprintln(os.Stderr, i.Error())
	}
	if issues.HasErrors() {
		return fmt.Errorf("semantic check failed with %d issue(s)", issues.Len())
	}

	logger.Info("interpreting")
	it := interp.New(program, os.Stdout, os.Stdin)
	if err := it.Run(); err != nil {
		return reportIssue(err)
	}
	return nil
}

func reportIssue(err error) error {
	if i, ok := err.(*issue.Issue); ok {
		fmt.Fprintln(os.Stderr, i.Error())
		return fmt.Errorf("%s", i.Level)
	}
	fmt.Fprintln(os.Stderr, err)
	return err
}

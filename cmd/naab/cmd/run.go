package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/naab-lang/naab/internal/interp"
	"github.com/naab-lang/naab/internal/lexer"
	"github.com/naab-lang/naab/internal/parser"
	"github.com/naab-lang/naab/internal/polyglot"
	"github.com/naab-lang/naab/pkg/ast"
)

var (
	evalExpr    string
	naabPath    []string
	gcThreshold int
	timeoutSecs int
	cacheDir    string
	trace       bool
	noParallel  bool
	dumpAST     bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a NAAb file or inline source",
	Long: `Execute a NAAb program from a file or inline source.

Examples:
  # Run a script file
  naab run program.naab

  # Evaluate inline source
  naab run -e 'main { print(6 * 7) }'

  # Persist compiled polyglot artifacts across runs
  naab run --cache-dir ~/.cache/naab program.naab

  # Raise the polyglot timeout to two minutes
  naab run --timeout 120 program.naab`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline source instead of reading from file")
	runCmd.Flags().StringSliceVar(&naabPath, "naab-path", nil, "additional module search roots (also read from NAAB_PATH)")
	runCmd.Flags().IntVar(&gcThreshold, "gc-threshold", 0, "allocations between automatic cycle collections (0 = default, negative = disabled)")
	runCmd.Flags().IntVar(&timeoutSecs, "timeout", 30, "polyglot block timeout in seconds")
	runCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "persist compiled polyglot artifacts under this directory")
	runCmd.Flags().BoolVar(&trace, "trace", false, "trace execution (for debugging)")
	runCmd.Flags().BoolVar(&noParallel, "no-parallel", false, "run polyglot groups sequentially")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST before executing (for debugging)")
}

func runScript(cmd *cobra.Command, args []string) error {
	if evalExpr == "" && len(args) == 0 {
		return fmt.Errorf("either provide a file path or use -e flag for inline source")
	}

	if dumpAST {
		if err := dumpProgram(cmd, args); err != nil {
			return err
		}
	}

	engineOpts := []polyglot.Option{
		polyglot.WithTimeout(time.Duration(timeoutSecs) * time.Second),
	}
	if cacheDir != "" {
		engineOpts = append(engineOpts, polyglot.WithDiskCache(cacheDir))
	}

	in := interp.New(interp.Options{
		SearchPaths: naabPath,
		GCThreshold: gcThreshold,
		Engine:      polyglot.NewEngine(engineOpts...),
		Trace:       trace,
		NoParallel:  noParallel,
	})

	var err error
	if evalExpr != "" {
		err = in.RunSource(evalExpr, "<eval>")
	} else {
		err = in.RunFile(args[0])
	}
	if err != nil {
		exitWithError("%s", strings.TrimSpace(err.Error()))
	}
	return nil
}

// dumpProgram parses the same input run will execute and prints its AST to
// the command's stdout.
func dumpProgram(cmd *cobra.Command, args []string) error {
	src := evalExpr
	name := "<eval>"
	if src == "" {
		name = args[0]
		content, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", name, err)
		}
		src = string(content)
	}

	p := parser.New(lexer.New(src, name))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return fmt.Errorf("parse errors:\n  %s", strings.Join(errs, "\n  "))
	}
	ast.Fprint(cmd.OutOrStdout(), prog)
	return nil
}

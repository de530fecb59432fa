package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naab-lang/naab/internal/interp"
)

var evalSource string

var evalCmd = &cobra.Command{
	Use:   "eval [expr]",
	Short: "Evaluate an inline NAAb expression and print its value",
	Long: `Evaluate a single NAAb expression and print the result.

The expression is wrapped in an implicit main block; a full program (one
that declares its own main) is run as-is.

Examples:
  naab eval '6 * 7'
  naab eval -e '[1, 2, 3] |> len'
  naab eval 'main { print("already a program") }'`,
	Args: cobra.MaximumNArgs(1),
	RunE: evalExpression,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVarP(&evalSource, "expr", "e", "", "expression to evaluate (alternative to the positional argument)")
}

func evalExpression(_ *cobra.Command, args []string) error {
	src := evalSource
	if src == "" && len(args) == 1 {
		src = args[0]
	}
	if src == "" {
		return fmt.Errorf("provide an expression, either positionally or via -e")
	}

	// A bare expression gets an implicit main that prints its value; a
	// full program runs unchanged.
	if !strings.Contains(src, "main") {
		src = "main { print(" + src + ") }"
	}

	in := interp.New(interp.Options{})
	if err := in.RunSource(src, "<eval>"); err != nil {
		exitWithError("%s", strings.TrimSpace(err.Error()))
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "naab",
	Short: "NAAb polyglot scripting language runtime",
	Long: `naab runs NAAb programs: a host scripting language whose programs
embed literal source fragments of Python, JavaScript, shell, C++, Rust,
Ruby, Go, and C#, with results flowing back as typed host values.

The runtime is a tree-walking interpreter with structs, generics via
monomorphization, nullable and union types, lambdas, exceptions, a module
system, a cycle-collecting garbage collector, and a parallel polyglot
execution planner with a content-addressed compilation cache.`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}

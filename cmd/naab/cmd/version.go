package cmd

import (
	"fmt"
	goruntime "runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("naab version %s\n", Version)
		fmt.Printf("  Commit:   %s\n", GitCommit)
		fmt.Printf("  Built:    %s\n", BuildDate)
		fmt.Printf("  Platform: %s/%s\n", goruntime.GOOS, goruntime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

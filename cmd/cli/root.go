package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when the `reportctl` binary is called
// without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "reportctl",
	Short: "A CLI tool for administering the reporting query service.",
	Long: `reportctl is a command-line interface for operating the reporting
query service: minting development tokens, checking service health,
and purging cached reports.`,
}

// Execute is the main entry point for the CLI application. It adds all
// child commands to the root command, parses the command-line arguments,
// and executes the appropriate command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

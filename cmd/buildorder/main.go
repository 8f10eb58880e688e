// Package main provides the entry point for the build order validator CLI.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// errValidationFailed signals that at least one file did not validate; the
// report has already been printed, so main only sets the exit status.
var errValidationFailed = errors.New("some files failed validation")

// errUsage signals that usage was printed instead of running a validation
var errUsage = errors.New("no files given")

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "buildorder",
		Short: "RTS overlay build order validator",
		Long: "Validates build order JSON files for the RTS overlay: BONG notation rules " +
			"(worker counts, subscripts, note formatting) and the JSON structure the overlay renders.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Usage()
			return errUsage
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to config file (JSON or YAML)")
	rootCmd.PersistentFlags().Int("workers", 0, "Number of files validated concurrently (default 1)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print run and build order details")

	rootCmd.AddCommand(newBongCmd())
	rootCmd.AddCommand(newStructureCmd())
	return rootCmd
}

// run executes the CLI and returns the process exit status
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errValidationFailed) && !errors.Is(err, errUsage) {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/autoimport/internal/constants"
	"github.com/ludo-technologies/autoimport/internal/version"
)

var (
	// Version information (set via ldflags during build)
	Version = version.Version
)

// ExitError carries a specific exit code. Commands that already printed their report
// return it with an empty message.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func main() {
	// A missing .env is fine; AUTOIMPORT_CONFIG and AUTOIMPORT_LOG_LEVEL may live there
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(reportError(err))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   constants.ToolName,
		Short: "autoimport - inject missing imports into JavaScript/TypeScript files",
		Long: `autoimport finds identifiers a module uses without importing them and injects
the matching import statements from presets, explicit bindings and scanned directories.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(transformCmd())
	rootCmd.AddCommand(dtsCmd())
	rootCmd.AddCommand(presetsCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

// reportError prints err and returns the process exit code
func reportError(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			color.New(color.FgRed).Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
		}
		return exitErr.Code
	}
	color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
	return 2
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "autoimport version %s\n", version.GetVersion())
			}
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	return cmd
}

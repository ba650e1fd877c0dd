package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/autoimport/app"
	"github.com/ludo-technologies/autoimport/internal/logging"
	"github.com/ludo-technologies/autoimport/service"
)

func dtsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dts",
		Short: "Generate the global declaration file",
		Long: `Generate the declaration file that makes injected names known to the TypeScript
compiler. The file is written even when dts is disabled in the configuration.

Examples:
  autoimport dts
  autoimport dts --stdout
  autoimport dts --check`,
		Args:          cobra.NoArgs,
		RunE:          runDts,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringP("config", "c", "", "Path to config file")
	cmd.Flags().Bool("stdout", false, "Print the declarations instead of writing the file")
	cmd.Flags().Bool("check", false, "Exit 1 if the file on disk is out of date")

	return cmd
}

func runDts(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	check, _ := cmd.Flags().GetBool("check")

	opts, _, err := service.NewConfigurationLoader().Load(configPath, ".")
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	opts.Dts.Enabled = true

	logger := logging.New(logging.Resolve(opts.LogLevel), cmd.ErrOrStderr())
	svc, err := service.NewAutoImportService(cmd.Context(), opts, logger)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	req := app.DtsRequest{Check: check}
	if toStdout {
		req.Writer = cmd.OutOrStdout()
	}
	result, err := app.NewDtsUseCase(svc).Execute(cmd.Context(), req)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	out := cmd.OutOrStdout()
	switch {
	case toStdout:
	case check && result.Outdated:
		return &ExitError{Code: 1, Message: fmt.Sprintf("%s is out of date", result.Path)}
	case check:
		fmt.Fprintf(out, "%s is up to date\n", result.Path)
	case result.Written:
		fmt.Fprintf(out, "%s %s\n", color.GreenString("Wrote"), result.Path)
	default:
		fmt.Fprintf(out, "%s is unchanged\n", result.Path)
	}
	return nil
}

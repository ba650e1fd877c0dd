package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/autoimport/app"
	"github.com/ludo-technologies/autoimport/domain"
	"github.com/ludo-technologies/autoimport/internal/constants"
	"github.com/ludo-technologies/autoimport/internal/logging"
	"github.com/ludo-technologies/autoimport/service"
)

func transformCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform [path...]",
		Short: "Inject missing imports into files",
		Long: `Inject the imports every JavaScript/TypeScript file needs, in place or into an
output directory.

Exit codes:
  0 - Success (in check mode: no file needs imports)
  1 - Some files failed, or check mode found files needing imports
  2 - Configuration or usage error

Examples:
  # Rewrite files in place
  autoimport transform src/

  # Show what would change without writing
  autoimport transform --dry-run src/

  # Fail in CI when a file is missing imports
  autoimport transform --check --diff src/

  # Write transformed copies and source maps to dist/
  autoimport transform --out-dir dist --map src/`,
		RunE:          runTransform,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringP("config", "c", "", "Path to config file")
	cmd.Flags().StringP("out-dir", "o", "", "Write transformed files below this directory instead of in place")
	cmd.Flags().Bool("check", false, "Report files needing imports without writing; exit 1 if any")
	cmd.Flags().Bool("diff", false, "Print a unified diff of every change")
	cmd.Flags().Bool("map", false, "Write a source map next to every written file")
	cmd.Flags().Bool("dry-run", false, "Show changes without writing (implies --diff)")
	cmd.Flags().StringP("format", "f", "text", "Report format: text, json")
	cmd.Flags().IntP("concurrency", "j", 0, "Files transformed in parallel (0 = config or NumCPU)")
	cmd.Flags().StringSlice("include", nil, "File patterns to transform (replaces config)")
	cmd.Flags().StringSlice("exclude", nil, "Additional file or directory patterns to skip")
	cmd.Flags().Duration("timeout", 0, "Abort the run after this duration (0 = 5m)")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	return cmd
}

func runTransform(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &ExitError{Code: 2, Message: "no paths specified"}
	}

	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	outDir, _ := flags.GetString("out-dir")
	check, _ := flags.GetBool("check")
	diff, _ := flags.GetBool("diff")
	sourceMaps, _ := flags.GetBool("map")
	dryRun, _ := flags.GetBool("dry-run")
	format, _ := flags.GetString("format")
	concurrency, _ := flags.GetInt("concurrency")
	include, _ := flags.GetStringSlice("include")
	exclude, _ := flags.GetStringSlice("exclude")
	timeout, _ := flags.GetDuration("timeout")
	noProgress, _ := flags.GetBool("no-progress")

	if format != constants.OutputFormatText && format != constants.OutputFormatJSON {
		return &ExitError{Code: 2, Message: fmt.Sprintf("unsupported format: %s", format)}
	}
	outputFormat := domain.OutputFormat(format)
	if check && dryRun {
		return &ExitError{Code: 2, Message: "--check and --dry-run cannot be combined"}
	}
	if outDir != "" && (check || dryRun) {
		return &ExitError{Code: 2, Message: "--out-dir cannot be combined with --check or --dry-run"}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	loader := service.NewConfigurationLoader()
	opts, base, err := loader.Load(configPath, args[0])
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	logger := logging.New(logging.Resolve(opts.LogLevel), cmd.ErrOrStderr())
	svc, err := service.NewAutoImportService(ctx, opts, logger)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	batch := loader.MergeBatchOptions(base, &domain.BatchOptions{
		Paths:       args,
		Include:     include,
		Exclude:     exclude,
		OutDir:      outDir,
		Write:       !check && !dryRun,
		Check:       check,
		Diff:        diff || dryRun,
		SourceMaps:  sourceMaps,
		Concurrency: concurrency,
		Timeout:     timeout,
	})

	pm := service.NewProgressManager(outputFormat == domain.OutputFormatText && !noProgress)
	defer pm.Close()

	uc := app.NewTransformUseCase(svc, pm, logger)
	result, err := uc.Execute(ctx, *batch)
	pm.Close()

	var aggErr *service.AggregatedError
	if err != nil && !errors.As(err, &aggErr) {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	if batch.Write {
		if _, dtsErr := svc.EmitDts(); dtsErr != nil {
			logger.Warn("failed to write declarations", "error", dtsErr)
		}
	}

	if werr := service.NewOutputFormatter().WriteBatch(result, outputFormat, cmd.OutOrStdout()); werr != nil {
		return &ExitError{Code: 2, Message: werr.Error()}
	}

	return transformExitError(result, check, ctx.Err())
}

// transformExitError maps a finished batch onto the command's exit code
func transformExitError(result *domain.BatchResult, check bool, ctxErr error) error {
	if errors.Is(ctxErr, context.Canceled) {
		return &ExitError{Code: 2, Message: "interrupted"}
	}
	if result.Failed > 0 {
		return &ExitError{Code: 1}
	}
	if check && result.Changed > 0 {
		return &ExitError{Code: 1, Message: fmt.Sprintf("%d file(s) need imports", result.Changed)}
	}
	return nil
}

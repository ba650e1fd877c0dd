package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/ludo-technologies/autoimport/domain"
	"github.com/ludo-technologies/autoimport/service"
)

// TransformUseCase runs the auto-import transform over a set of files
type TransformUseCase struct {
	transformer domain.Transformer
	progress    domain.ProgressManager
	fileHelper  *FileHelper
	logger      *slog.Logger
}

// NewTransformUseCase creates a new transform use case
func NewTransformUseCase(transformer domain.Transformer, progress domain.ProgressManager, logger *slog.Logger) *TransformUseCase {
	if progress == nil {
		progress = &service.NoOpProgressManager{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TransformUseCase{
		transformer: transformer,
		progress:    progress,
		fileHelper:  NewFileHelper(),
		logger:      logger,
	}
}

// Execute transforms every file the options select. Per-file failures are recorded in
// the result and returned together as a service.AggregatedError; the other files are
// still processed.
func (uc *TransformUseCase) Execute(ctx context.Context, opts domain.BatchOptions) (*domain.BatchResult, error) {
	if err := uc.validateOptions(opts); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	files, err := ResolveFilePaths(uc.fileHelper, opts.Paths, opts.Include, opts.Exclude)
	if err != nil {
		return nil, domain.NewFileNotFoundError("failed to collect files", err)
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no JavaScript/TypeScript files found in the specified paths", nil)
	}

	outcomes := make([]domain.FileOutcome, len(files))
	tasks := make([]domain.ExecutableTask, len(files))
	for i, f := range files {
		outcomes[i].Path = f.Path
		tasks[i] = &fileTransformTask{uc: uc, opts: opts, file: f, outcome: &outcomes[i]}
	}

	start := time.Now()
	executor := service.NewParallelExecutorWithProgress(&opts, uc.progress)
	execErr := executor.Execute(ctx, tasks)

	var aggErr *service.AggregatedError
	if errors.As(execErr, &aggErr) {
		// Panics are only reported through the executor
		byPath := make(map[string]error, len(aggErr.Errors))
		for _, te := range aggErr.Errors {
			byPath[te.TaskName] = te.Err
		}
		for i := range outcomes {
			if outcomes[i].Err == nil {
				outcomes[i].Err = byPath[outcomes[i].Path]
			}
		}
	}

	result := &domain.BatchResult{Files: outcomes, Duration: time.Since(start)}
	for _, outcome := range result.Files {
		if outcome.Err != nil {
			result.Failed++
		} else if outcome.Changed {
			result.Changed++
		}
	}
	return result, execErr
}

// validateOptions validates the batch options
func (uc *TransformUseCase) validateOptions(opts domain.BatchOptions) error {
	if len(opts.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}
	if opts.Concurrency < 0 {
		return fmt.Errorf("concurrency cannot be negative")
	}
	if opts.Check && opts.Write {
		return fmt.Errorf("check mode never writes files")
	}
	if opts.OutDir != "" && !opts.Write {
		return fmt.Errorf("an output directory requires writing")
	}
	return nil
}

// outputPath maps a file into the output directory, keeping its path below the base
func outputPath(f ResolvedFile, outDir string) string {
	if outDir == "" {
		return f.Path
	}
	rel, err := filepath.Rel(f.Base, f.Path)
	if err != nil {
		rel = filepath.Base(f.Path)
	}
	return filepath.Join(outDir, rel)
}

// fileTransformTask transforms one file as part of a batch
type fileTransformTask struct {
	uc      *TransformUseCase
	opts    domain.BatchOptions
	file    ResolvedFile
	outcome *domain.FileOutcome
}

func (t *fileTransformTask) Name() string    { return t.file.Path }
func (t *fileTransformTask) IsEnabled() bool { return true }

func (t *fileTransformTask) Execute(ctx context.Context) (interface{}, error) {
	err := t.run(ctx)
	t.outcome.Err = err
	return t.outcome, err
}

// Skip records that the batch ended before the file was transformed
func (t *fileTransformTask) Skip(err error) {
	t.outcome.Err = err
}

func (t *fileTransformTask) run(ctx context.Context) error {
	source, err := t.uc.fileHelper.ReadFile(t.file.Path)
	if err != nil {
		return domain.NewFileNotFoundError(t.file.Path, err)
	}

	result, err := t.uc.transformer.Transform(ctx, t.file.Path, string(source))
	if err != nil {
		return err
	}

	out := t.outcome
	out.Changed = result.Changed
	out.Imports = len(result.Imports)
	out.BytesBefore = len(source)
	out.BytesAfter = len(result.Code)
	out.OutputPath = outputPath(t.file, t.opts.OutDir)

	if t.opts.Diff && result.Changed {
		rel, relErr := filepath.Rel(t.file.Base, t.file.Path)
		if relErr != nil {
			rel = t.file.Path
		}
		out.Diff = service.UnifiedDiff(filepath.ToSlash(rel), string(source), result.Code)
	}

	// In-place runs only touch changed files; an output directory receives every file
	if !t.opts.Write || (!result.Changed && t.opts.OutDir == "") {
		return nil
	}

	code := result.Code
	if t.opts.SourceMaps && result.Map != nil {
		mapPath := out.OutputPath + ".map"
		result.Map.File = filepath.Base(out.OutputPath)
		data, err := result.Map.ToJSON()
		if err != nil {
			return domain.NewOutputError("failed to encode source map for "+t.file.Path, err)
		}
		if err := t.uc.fileHelper.WriteFile(mapPath, data); err != nil {
			return domain.NewOutputError("failed to write "+mapPath, err)
		}
		code += "\n//# sourceMappingURL=" + filepath.Base(mapPath) + "\n"
	}

	if err := t.uc.fileHelper.WriteFile(out.OutputPath, []byte(code)); err != nil {
		return domain.NewOutputError("failed to write "+out.OutputPath, err)
	}
	t.uc.logger.Debug("wrote file", "file", out.OutputPath, "changed", result.Changed)
	return nil
}

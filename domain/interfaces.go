package domain

import "context"

// ExecutableTask is a unit of work run by a ParallelExecutor
type ExecutableTask interface {
	// Name identifies the task in aggregated errors
	Name() string

	// Execute runs the task
	Execute(ctx context.Context) (interface{}, error)

	// IsEnabled reports whether the task should run at all
	IsEnabled() bool
}

// SkippableTask is told when a batch ends before the task could start
type SkippableTask interface {
	ExecutableTask
	Skip(err error)
}

// ParallelExecutor runs tasks concurrently
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
}

// ProgressManager creates progress trackers for long running work
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks the progress of a single task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}

// ConfigurationLoader loads loader options from configuration files
type ConfigurationLoader interface {
	LoadConfig(path string) (*LoaderOptions, error)
	LoadDefaultConfig() *LoaderOptions
	FindDefaultConfigFile() string
}

// Transformer rewrites a single source file
type Transformer interface {
	Transform(ctx context.Context, filePath, source string) (*TransformResult, error)
}

// DeclarationEmitter renders the global declaration file
type DeclarationEmitter interface {
	DtsPath() string
	GenerateDts() string
}

package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ludo-technologies/autoimport/domain"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds a whole batch run
const DefaultTimeout = 5 * time.Minute

// TaskError is the failure of one file in a batch
type TaskError struct {
	TaskName string
	Err      error
}

// Error implements the error interface
func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.TaskName, e.Err)
}

// Unwrap returns the underlying error
func (e TaskError) Unwrap() error {
	return e.Err
}

// AggregatedError collects every failed file of a batch, ordered by name
type AggregatedError struct {
	Errors []TaskError
}

// Error implements the error interface
func (e *AggregatedError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d files failed:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Unwrap returns the first error for errors.Is/As compatibility
func (e *AggregatedError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0].Err
}

// ParallelExecutorImpl implements domain.ParallelExecutor. Configure it before calling
// Execute; the setters are not synchronized with running batches.
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
	progress       domain.ProgressManager
}

// NewParallelExecutor creates a new parallel executor with one worker per CPU and a
// five minute timeout
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{
		maxConcurrency: runtime.NumCPU(),
		timeout:        DefaultTimeout,
	}
}

// NewParallelExecutorFromOptions creates a parallel executor for a batch run. Zero
// concurrency means one worker per CPU.
func NewParallelExecutorFromOptions(opts *domain.BatchOptions) *ParallelExecutorImpl {
	executor := NewParallelExecutor()
	executor.SetMaxConcurrency(opts.Concurrency)
	executor.SetTimeout(opts.Timeout)
	return executor
}

// NewParallelExecutorWithProgress creates a parallel executor with progress tracking
func NewParallelExecutorWithProgress(opts *domain.BatchOptions, pm domain.ProgressManager) *ParallelExecutorImpl {
	executor := NewParallelExecutorFromOptions(opts)
	executor.progress = pm
	return executor
}

// Execute runs every enabled task, at most maxConcurrency at a time. A failing or
// panicking task never stops the others. Tasks that have not started when the batch is
// cancelled or times out are skipped with the context error; tasks implementing
// domain.SkippableTask are told so. All failures come back as one AggregatedError.
func (e *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	enabledTasks := e.filterEnabledTasks(tasks)
	if len(enabledTasks) == 0 {
		return nil
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var progress domain.TaskProgress = &NoOpTaskProgress{}
	if e.progress != nil {
		progress = e.progress.StartTask("Transforming", len(enabledTasks))
	}
	defer progress.Complete()

	var g errgroup.Group
	g.SetLimit(e.maxConcurrency)

	var errMu sync.Mutex
	var taskErrors []TaskError
	record := func(name string, err error) {
		errMu.Lock()
		taskErrors = append(taskErrors, TaskError{TaskName: name, Err: err})
		errMu.Unlock()
	}

	for _, t := range enabledTasks {
		g.Go(func() error {
			if err := timeoutCtx.Err(); err != nil {
				if s, ok := t.(domain.SkippableTask); ok {
					s.Skip(err)
				}
				record(t.Name(), err)
				return nil
			}

			progress.Describe(t.Name())
			if err := runTask(timeoutCtx, t); err != nil {
				record(t.Name(), err)
			}
			progress.Increment(1)
			return nil
		})
	}
	_ = g.Wait()

	if len(taskErrors) > 0 {
		sort.Slice(taskErrors, func(i, j int) bool {
			return taskErrors[i].TaskName < taskErrors[j].TaskName
		})
		return &AggregatedError{Errors: taskErrors}
	}
	return nil
}

// runTask executes t, turning a panic into an error
func runTask(ctx context.Context, t domain.ExecutableTask) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	_, err = t.Execute(ctx)
	return err
}

// SetMaxConcurrency sets the maximum number of concurrent tasks. Values below one are
// ignored.
func (e *ParallelExecutorImpl) SetMaxConcurrency(max int) {
	if max > 0 {
		e.maxConcurrency = max
	}
}

// SetTimeout bounds the whole batch. Values below one are ignored.
func (e *ParallelExecutorImpl) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		e.timeout = timeout
	}
}

// filterEnabledTasks returns only tasks where IsEnabled() returns true
func (e *ParallelExecutorImpl) filterEnabledTasks(tasks []domain.ExecutableTask) []domain.ExecutableTask {
	enabled := make([]domain.ExecutableTask, 0, len(tasks))
	for _, t := range tasks {
		if t.IsEnabled() {
			enabled = append(enabled, t)
		}
	}
	return enabled
}

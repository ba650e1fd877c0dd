package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/ludo-technologies/autoimport/domain"
	"github.com/ludo-technologies/autoimport/internal/dts"
	"github.com/ludo-technologies/autoimport/internal/injector"
	"github.com/ludo-technologies/autoimport/internal/presets"
	"github.com/ludo-technologies/autoimport/internal/scanner"
	"github.com/ludo-technologies/autoimport/internal/transform"
)

// AutoImportService owns the binding table of one configuration and transforms files
// against it. The table is an immutable snapshot; Refresh builds a new one and swaps it
// in, so transforms already running keep the snapshot they started with.
type AutoImportService struct {
	opts     domain.LoaderOptions
	logger   *slog.Logger
	resolver *presets.Resolver
	scanner  *scanner.Scanner

	engine    atomic.Pointer[transform.Engine]
	refreshMu sync.Mutex
}

// NewAutoImportService creates the service and builds its first binding table
func NewAutoImportService(ctx context.Context, opts *domain.LoaderOptions, logger *slog.Logger) (*AutoImportService, error) {
	if opts == nil {
		return nil, domain.NewInvalidInputError("loader options are required", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	root := opts.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, domain.NewConfigError("invalid root", err)
	}

	s := &AutoImportService{
		opts:     *opts,
		logger:   logger,
		resolver: presets.NewResolver(absRoot, logger),
	}
	s.opts.Root = absRoot

	if len(opts.Dirs) > 0 {
		sc, err := scanner.New(absRoot, opts.Dirs, logger)
		if err != nil {
			return nil, err
		}
		s.scanner = sc
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Options returns the resolved loader options
func (s *AutoImportService) Options() domain.LoaderOptions {
	return s.opts
}

// Refresh rebuilds the binding table from presets, explicit imports and scanned dirs
func (s *AutoImportService) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	bindings, err := s.collectBindings(ctx)
	if err != nil {
		return err
	}

	registry, err := injector.NewRegistry(bindings, s.opts.Ignore, s.logger)
	if err != nil {
		return domain.NewConfigError("invalid binding table", err)
	}
	s.engine.Store(transform.NewEngine(registry, s.logger))
	s.logger.Debug("binding table refreshed", "bindings", registry.Len())
	return nil
}

// collectBindings flattens every binding source in precedence order: presets first, then
// explicit imports, then scanned dirs. Later entries win local-name conflicts of equal
// priority.
func (s *AutoImportService) collectBindings(ctx context.Context) ([]domain.Binding, error) {
	bindings, err := s.resolver.Resolve(ctx, s.opts.Presets)
	if err != nil {
		return nil, err
	}

	for _, m := range s.opts.ImportsMaps {
		bindings = append(bindings, m.Bindings()...)
	}
	bindings = append(bindings, s.opts.Imports...)

	if s.scanner != nil {
		scanned, err := s.scanner.Scan(ctx)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, scanned...)
	}
	return bindings, nil
}

// Transform injects the imports source needs. A file that needs nothing comes back
// unchanged with Changed false.
func (s *AutoImportService) Transform(ctx context.Context, filePath, source string) (*domain.TransformResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := s.engine.Load().Transform(filePath, source)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return domain.Unchanged(source), nil
	}
	return result, nil
}

// Bindings returns the current binding table, values first, then types
func (s *AutoImportService) Bindings() []domain.Binding {
	return s.engine.Load().Registry().Bindings()
}

// DtsPath returns the absolute path of the declaration file
func (s *AutoImportService) DtsPath() string {
	path := s.opts.Dts.Path()
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.opts.Root, path)
}

// GenerateDts renders the declaration file for the current binding table
func (s *AutoImportService) GenerateDts() string {
	return dts.Generate(s.Bindings(), filepath.Dir(s.DtsPath()))
}

// EmitDts writes the declaration file when declarations are enabled and its content
// changed. It reports whether the file was written.
func (s *AutoImportService) EmitDts() (bool, error) {
	if !s.opts.Dts.Enabled {
		return false, nil
	}
	written, err := dts.Write(s.DtsPath(), s.GenerateDts())
	if err != nil {
		return false, err
	}
	if written {
		s.logger.Info("declarations written", "file", s.DtsPath())
	}
	return written, nil
}

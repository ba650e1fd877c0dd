// Package transform injects missing imports into a single source file. Markup files
// (.jsx, .tsx) go through the JSX normalizer so component tags count as references;
// every file keeps a leading directive in front of the injected imports.
package transform

import (
	"fmt"
	"log/slog"

	"github.com/ludo-technologies/autoimport/domain"
	"github.com/ludo-technologies/autoimport/internal/directive"
	"github.com/ludo-technologies/autoimport/internal/injector"
	"github.com/ludo-technologies/autoimport/internal/jsx"
	"github.com/ludo-technologies/autoimport/internal/patch"
)

// Engine transforms files against one binding table
type Engine struct {
	registry *injector.Registry
	logger   *slog.Logger
}

// NewEngine creates an engine. A nil logger uses slog.Default().
func NewEngine(registry *injector.Registry, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{registry: registry, logger: logger}
}

// Registry returns the binding table of the engine
func (e *Engine) Registry() *injector.Registry {
	return e.registry
}

// Transform injects imports for the bindings referenced in source. It returns nil when
// the file needs no change.
func (e *Engine) Transform(filePath, source string) (*domain.TransformResult, error) {
	var (
		s       *patch.Source
		imports []domain.ResolvedImport
		err     error
	)
	if jsx.IsMarkupFile(filePath) {
		s, imports, err = e.transformMarkup(filePath, source)
	} else {
		s, imports, err = e.transformRegular(filePath, source)
	}
	if err != nil {
		return nil, domain.NewTransformError(filePath, err)
	}
	if s == nil || !s.HasChanged() {
		return nil, nil
	}

	e.logger.Info("injected imports", "file", filePath, "count", len(imports))
	return &domain.TransformResult{
		Code: s.String(),
		Map: s.GenerateMap(patch.MapOptions{
			Source:         filePath,
			File:           filePath,
			IncludeContent: true,
			Hires:          true,
		}),
		Changed: true,
		Imports: imports,
	}, nil
}

func (e *Engine) transformRegular(filePath, source string) (*patch.Source, []domain.ResolvedImport, error) {
	s := patch.New(source)
	inj, err := e.registry.Inject(s, filePath, NewImportFilter(filePath, source, e.logger))
	if err != nil {
		return nil, nil, err
	}
	if inj == nil {
		return nil, nil, nil
	}
	if _, err := directive.Apply(s); err != nil {
		return nil, nil, fmt.Errorf("failed to keep directive first: %w", err)
	}
	return s, inj.Imports, nil
}

func (e *Engine) transformMarkup(filePath, source string) (*patch.Source, []domain.ResolvedImport, error) {
	normalized, sentinel := jsx.Normalize(source)
	np := patch.New(normalized)
	inj, err := e.registry.Inject(np, filePath, NewImportFilter(filePath, source, e.logger))
	if err != nil {
		return nil, nil, err
	}
	if inj == nil || jsx.Strip(np.String(), sentinel) == source {
		return nil, nil, nil
	}

	det := e.registry.Detect(source)
	stmts := injector.Stringify(inj.Imports, det.CJS, filePath)
	s := patch.New(source)
	if err := Insert(s, InsertionPoint(source, det.Masked, det.FirstOccurrence), stmts); err != nil {
		return nil, nil, err
	}
	if _, err := directive.Apply(s); err != nil {
		return nil, nil, fmt.Errorf("failed to keep directive first: %w", err)
	}
	return s, inj.Imports, nil
}

package app

import (
	"context"
	"io"

	"github.com/ludo-technologies/autoimport/domain"
	"github.com/ludo-technologies/autoimport/internal/dts"
)

// DtsRequest selects how declarations are produced
type DtsRequest struct {
	// Writer receives the declarations instead of the file when set
	Writer io.Writer

	// Check compares the file on disk with the current declarations without writing
	Check bool
}

// DtsResult describes the outcome of a declaration run
type DtsResult struct {
	Path    string
	Written bool

	// Outdated is set in check mode when the file on disk differs
	Outdated bool
}

// DtsUseCase generates the global declaration file
type DtsUseCase struct {
	emitter    domain.DeclarationEmitter
	fileHelper *FileHelper
}

// NewDtsUseCase creates a new declaration use case
func NewDtsUseCase(emitter domain.DeclarationEmitter) *DtsUseCase {
	return &DtsUseCase{emitter: emitter, fileHelper: NewFileHelper()}
}

// Execute renders the declarations, then prints them, checks them against the file, or
// writes the file when its content changed
func (uc *DtsUseCase) Execute(ctx context.Context, req DtsRequest) (*DtsResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := uc.emitter.DtsPath()
	content := uc.emitter.GenerateDts()
	result := &DtsResult{Path: path}

	switch {
	case req.Writer != nil:
		if _, err := io.WriteString(req.Writer, content); err != nil {
			return nil, domain.NewOutputError("failed to write declarations", err)
		}
	case req.Check:
		existing, err := uc.fileHelper.ReadFile(path)
		result.Outdated = err != nil || string(existing) != content
	default:
		written, err := dts.Write(path, content)
		if err != nil {
			return nil, err
		}
		result.Written = written
	}
	return result, nil
}

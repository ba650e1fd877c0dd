package injector

import (
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/autoimport/domain"
	"github.com/ludo-technologies/autoimport/internal/lexer"
	"github.com/ludo-technologies/autoimport/internal/patch"
)

// FilterFunc removes candidates before they are written. It runs after detection and
// receives the matched imports in order of first reference.
type FilterFunc func(imports []domain.ResolvedImport) []domain.ResolvedImport

// Injection describes what Inject added to a source
type Injection struct {
	Imports         []domain.ResolvedImport
	FirstOccurrence int
	CJS             bool
}

// Inject detects referenced bindings in s and inserts their import statements after
// the last static import that precedes the first reference, after a shebang line, or
// at the top of the file. It returns nil when nothing was injected.
func (r *Registry) Inject(s *patch.Source, filePath string, filter FilterFunc) (*Injection, error) {
	code := s.Original()
	det := r.Detect(code)
	imports := det.Matched
	if filter != nil && len(imports) > 0 {
		imports = filter(imports)
	}
	if len(imports) == 0 {
		return nil, nil
	}

	stmts := Stringify(imports, det.CJS, filePath)
	idx := InsertionIndex(code, det.Masked, det.FirstOccurrence)

	switch {
	case idx > 0:
		if err := s.AppendRight(idx, "\n"+stmts+"\n"); err != nil {
			return nil, err
		}
	case strings.HasPrefix(code, "#!"):
		at := strings.IndexByte(code, '\n') + 1
		if at == 0 {
			at = len(code)
		}
		if err := s.AppendLeft(at, "\n"+stmts+"\n"); err != nil {
			return nil, err
		}
	default:
		s.Prepend(stmts + "\n")
	}

	return &Injection{
		Imports:         imports,
		FirstOccurrence: det.FirstOccurrence,
		CJS:             det.CJS,
	}, nil
}

// InsertionIndex returns the end of the last static import that ends at or before
// firstOccurrence, or 0 when there is none. A negative firstOccurrence means no
// reference was found and every import qualifies.
func InsertionIndex(code, masked string, firstOccurrence int) int {
	idx := 0
	for _, imp := range lexer.FindStaticImportsMasked(code, masked) {
		if firstOccurrence >= 0 && imp.End > firstOccurrence {
			break
		}
		idx = imp.End
	}
	return idx
}

// Stringify renders import statements for imports, grouped by module in order of first
// appearance. Side-effect, default and namespace imports get a statement of their own;
// named imports of a module are merged into one statement.
func Stringify(imports []domain.ResolvedImport, cjs bool, filePath string) string {
	var order []string
	groups := make(map[string][]domain.ResolvedImport)
	for _, imp := range imports {
		from := ResolveID(imp.From, filePath)
		if _, ok := groups[from]; !ok {
			order = append(order, from)
		}
		groups[from] = append(groups[from], imp)
	}

	var lines []string
	for _, from := range order {
		var named []string
		for _, imp := range groups[from] {
			switch imp.Name {
			case "":
				if cjs {
					lines = append(lines, "require('"+from+"');")
				} else {
					lines = append(lines, "import '"+from+"';")
				}
			case domain.DefaultExportName:
				if cjs {
					lines = append(lines, "const { default: "+imp.As+" } = require('"+from+"');")
				} else {
					lines = append(lines, "import "+imp.As+" from '"+from+"';")
				}
			case domain.NamespaceExportName:
				if cjs {
					lines = append(lines, "const "+imp.As+" = require('"+from+"');")
				} else {
					lines = append(lines, "import * as "+imp.As+" from '"+from+"';")
				}
			default:
				named = append(named, namedSpecifier(imp.Binding, cjs))
			}
		}
		if len(named) > 0 {
			if cjs {
				lines = append(lines, "const { "+strings.Join(named, ", ")+" } = require('"+from+"');")
			} else {
				lines = append(lines, "import { "+strings.Join(named, ", ")+" } from '"+from+"';")
			}
		}
	}
	return strings.Join(lines, "\n")
}

func namedSpecifier(b domain.Binding, cjs bool) string {
	if b.As == "" || b.As == b.Name {
		return b.Name
	}
	if cjs {
		return b.Name + ": " + b.As
	}
	return b.Name + " as " + b.As
}

// ResolveID turns an absolute module path into a specifier relative to the importing
// file. Other specifiers are returned unchanged.
func ResolveID(from, filePath string) string {
	if filePath == "" || !filepath.IsAbs(from) {
		return from
	}
	rel, err := filepath.Rel(filepath.Dir(filePath), from)
	if err != nil {
		return from
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

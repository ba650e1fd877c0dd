// Package scanner turns the exports of project directories into bindings.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ludo-technologies/autoimport/domain"
	"github.com/ludo-technologies/autoimport/internal/analyzer"
	"github.com/ludo-technologies/autoimport/internal/lexer"
)

// DefaultCacheSize is the number of per-file export tables kept between scans
const DefaultCacheSize = 4096

var scannedExtensions = map[string]bool{
	".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
	".ts": true, ".tsx": true, ".mts": true, ".cts": true,
}

// Scanner collects bindings from the exports of files in configured directories
type Scanner struct {
	root     string
	dirs     []string
	cache    *lru.Cache[string, *domain.ModuleExports]
	analyzer *analyzer.ModuleAnalyzer
	logger   *slog.Logger
}

// New creates a scanner for dirs relative to root. A dir ending in `/**` is scanned
// recursively, otherwise only its top level.
func New(root string, dirs []string, logger *slog.Logger) (*Scanner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, domain.NewScanError("invalid root", err)
	}
	cache, err := lru.New[string, *domain.ModuleExports](DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &Scanner{
		root:     absRoot,
		dirs:     dirs,
		cache:    cache,
		analyzer: analyzer.NewModuleAnalyzer(nil),
		logger:   logger,
	}, nil
}

// Scan returns the bindings of every scanned file, ordered by path
func (s *Scanner) Scan(ctx context.Context) ([]domain.Binding, error) {
	files, err := s.Files()
	if err != nil {
		return nil, err
	}

	var bindings []domain.Binding
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		exports, err := s.exports(ctx, path)
		if err != nil {
			s.logger.Warn("skipping unparsable file", "file", path, "error", err)
			continue
		}
		bindings = append(bindings, FileBindings(path, exports)...)
	}
	s.logger.Debug("scanned directories", "dirs", len(s.dirs), "files", len(files), "bindings", len(bindings))
	return bindings, nil
}

// Files lists the files the scan covers. Missing directories are skipped.
func (s *Scanner) Files() ([]string, error) {
	gitignore := s.loadGitignore()
	seen := make(map[string]bool)
	var files []string

	for _, entry := range s.dirs {
		dir, recursive := parseDirEntry(entry)
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(s.root, dir)
		}
		if st, err := os.Stat(dir); err != nil || !st.IsDir() {
			s.logger.Debug("scan directory not found", "dir", dir)
			continue
		}

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == dir {
					return nil
				}
				name := d.Name()
				if !recursive || name == "node_modules" || strings.HasPrefix(name, ".") || s.ignored(gitignore, path, true) {
					return filepath.SkipDir
				}
				return nil
			}
			if !IsScannable(path) || s.ignored(gitignore, path, false) || seen[path] {
				return nil
			}
			seen[path] = true
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, domain.NewScanError(fmt.Sprintf("failed to scan %s", dir), err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func (s *Scanner) loadGitignore() *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(s.root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

func (s *Scanner) ignored(gi *ignore.GitIgnore, path string, isDir bool) bool {
	if gi == nil {
		return false
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir && gi.MatchesPath(rel+"/") {
		return true
	}
	return gi.MatchesPath(rel)
}

// exports returns the export table of a file, cached by path, modification time and size
func (s *Scanner) exports(ctx context.Context, path string) (*domain.ModuleExports, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s|%d|%d", path, st.ModTime().UnixNano(), st.Size())
	if cached, ok := s.cache.Get(key); ok {
		s.logger.Debug("scan cache hit", "file", path)
		return cached, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	exports, err := s.analyzer.AnalyzeSource(ctx, path, source)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, exports)
	return exports, nil
}

func parseDirEntry(entry string) (dir string, recursive bool) {
	entry = filepath.FromSlash(strings.TrimSpace(entry))
	sep := string(filepath.Separator)
	switch {
	case strings.HasSuffix(entry, sep+"**"):
		return strings.TrimSuffix(entry, sep+"**"), true
	case strings.HasSuffix(entry, sep+"*"):
		return strings.TrimSuffix(entry, sep+"*"), false
	default:
		return entry, false
	}
}

// IsScannable reports whether a file contributes bindings: script sources that are
// neither declaration files nor tests.
func IsScannable(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	if !scannedExtensions[filepath.Ext(base)] {
		return false
	}
	if strings.Contains(base, ".d.") {
		return false
	}
	return !strings.Contains(base, ".test.") && !strings.Contains(base, ".spec.")
}

// FileBindings converts the exports of a file into bindings whose From is the file's
// absolute path without extension.
func FileBindings(path string, exports *domain.ModuleExports) []domain.Binding {
	from := filepath.ToSlash(strings.TrimSuffix(path, filepath.Ext(path)))

	values, types := exports.ExportedNames()
	bindings := make([]domain.Binding, 0, len(values)+len(types)+1)
	for _, name := range values {
		bindings = append(bindings, domain.Binding{Name: name, From: from})
	}
	for _, name := range types {
		bindings = append(bindings, domain.Binding{Name: name, From: from, Type: true})
	}
	if exports.HasDefaultExport() {
		if name := DefaultExportName(path); name != "" {
			bindings = append(bindings, domain.Binding{Name: domain.DefaultExportName, As: name, From: from})
		}
	}
	return bindings
}

// DefaultExportName derives the local name of a file's default export from the file name,
// or from the directory name for index files. It returns "" when no identifier results.
func DefaultExportName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "index" {
		name = filepath.Base(filepath.Dir(path))
	}
	name = CamelCase(name)
	if !lexer.IsIdentifier(name) {
		return ""
	}
	return name
}

// CamelCase joins the segments of a kebab, snake or dotted name: use-scope -> useScope.
// The case of the first segment is kept.
func CamelCase(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' '
	})
	if len(parts) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

package app

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileHelper provides file operation utilities
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// CollectScriptFiles collects the script files under path. A file argument is returned
// as is when it is a script; directories are walked recursively. Include patterns are
// matched against base names, exclude patterns against base names and path segments.
func (h *FileHelper) CollectScriptFiles(path string, includePatterns, excludePatterns []string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if h.isScriptFile(path) && !h.isExcluded(filepath.Base(path), excludePatterns) {
			return []string{path}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(filePath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip excluded directories early
		if d.IsDir() {
			if filePath != path && h.matchesAny(d.Name(), excludePatterns) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(path, filePath)
		if err != nil {
			return err
		}
		if h.isScriptFile(filePath) &&
			h.isIncluded(filePath, includePatterns) &&
			!h.isExcluded(rel, excludePatterns) {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// IsScriptFile checks if a file is a transformable script
func (h *FileHelper) IsScriptFile(path string) bool {
	return h.isScriptFile(path)
}

// FileExists checks if a file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ReadFile reads file content
func (h *FileHelper) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes content to path, creating parent directories and keeping the mode
// of an existing file
func (h *FileHelper) WriteFile(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, content, mode)
}

// isScriptFile checks if a file is JavaScript/TypeScript based on extension. Declaration
// files are never transformed.
func (h *FileHelper) isScriptFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	if strings.Contains(base, ".d.") {
		return false
	}
	switch filepath.Ext(base) {
	case ".js", ".ts", ".jsx", ".tsx", ".mjs", ".cjs", ".mts", ".cts":
		return true
	}
	return false
}

// isIncluded checks the base name against include patterns. No patterns include all.
func (h *FileHelper) isIncluded(path string, includePatterns []string) bool {
	if len(includePatterns) == 0 {
		return true
	}
	return h.matchesAny(filepath.Base(path), includePatterns)
}

// isExcluded checks if any segment of the relative path rel matches an exclude pattern
func (h *FileHelper) isExcluded(rel string, excludePatterns []string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(rel), "/") {
		if segment != "" && h.matchesAny(segment, excludePatterns) {
			return true
		}
	}
	return false
}

func (h *FileHelper) matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == name {
			return true
		}
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// ResolveFilePaths collects the script files of every path. Each file is returned with
// the directory its output path is relative to: the path itself for directories, the
// parent directory for file arguments.
func ResolveFilePaths(
	fileHelper *FileHelper,
	paths []string,
	includePatterns []string,
	excludePatterns []string,
) ([]ResolvedFile, error) {
	seen := make(map[string]bool)
	var resolved []ResolvedFile

	for _, path := range paths {
		files, err := fileHelper.CollectScriptFiles(path, includePatterns, excludePatterns)
		if err != nil {
			return nil, err
		}

		base := path
		if exists, _ := fileHelper.FileExists(path); exists {
			base = filepath.Dir(path)
		}
		for _, f := range files {
			if seen[f] {
				continue
			}
			seen[f] = true
			resolved = append(resolved, ResolvedFile{Path: f, Base: base})
		}
	}
	return resolved, nil
}

// ResolvedFile is a file to transform and the directory its output is relative to
type ResolvedFile struct {
	Path string
	Base string
}

package domain

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// SourceMap is a Source Map revision 3 document
type SourceMap struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// ToJSON encodes the map
func (m *SourceMap) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ToURL encodes the map as a data URL suitable for a sourceMappingURL comment
func (m *SourceMap) ToURL() (string, error) {
	data, err := m.ToJSON()
	if err != nil {
		return "", err
	}
	return "data:application/json;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// TransformResult is the outcome of transforming one file
type TransformResult struct {
	// Code is the transformed source, or the original when nothing changed
	Code string `json:"code"`

	// Map is nil when nothing changed
	Map *SourceMap `json:"map,omitempty"`

	// Changed reports whether imports were injected
	Changed bool `json:"changed"`

	// Imports lists the injected imports
	Imports []ResolvedImport `json:"imports,omitempty"`
}

// Unchanged returns the result for a file that needs no imports
func Unchanged(source string) *TransformResult {
	return &TransformResult{Code: source}
}

// DtsOptions controls declaration file emission
type DtsOptions struct {
	Enabled  bool
	Filename string
}

// DefaultDtsFilename is used when declarations are enabled without a filename
const DefaultDtsFilename = "auto-imports.d.ts"

// Path returns the configured declaration filename
func (o DtsOptions) Path() string {
	if o.Filename != "" {
		return o.Filename
	}
	return DefaultDtsFilename
}

// LoaderOptions is the resolved configuration shared by all transforms of a context
type LoaderOptions struct {
	// Imports are explicit bindings
	Imports []Binding

	// ImportsMaps are module-keyed binding tables
	ImportsMaps []ImportsMap

	// Dirs are directories scanned for exported bindings ("dir" or "dir/**")
	Dirs []string

	// Presets are named or inline presets
	Presets []PresetRef

	// Ignore lists local names that are never injected
	Ignore []string

	Dts DtsOptions

	// LogLevel is debug, info, warn, error or silent
	LogLevel string

	// Root is the base directory for dirs, declarations and node_modules lookup
	Root string
}

// BatchOptions controls a multi-file transform run
type BatchOptions struct {
	Paths       []string
	Include     []string
	Exclude     []string
	OutDir      string
	Write       bool
	Check       bool
	Diff        bool
	SourceMaps  bool
	Concurrency int
	Timeout     time.Duration
}

// FileOutcome describes what happened to one file in a batch run
type FileOutcome struct {
	Path        string
	OutputPath  string
	Changed     bool
	Imports     int
	BytesBefore int
	BytesAfter  int
	Diff        string
	Err         error
}

// BatchResult summarizes a batch run
type BatchResult struct {
	Files    []FileOutcome
	Changed  int
	Failed   int
	Duration time.Duration
}

// OutputFormat is the format of batch reports
type OutputFormat string

// Supported report formats
const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

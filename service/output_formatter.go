package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/ludo-technologies/autoimport/domain"
	"github.com/ludo-technologies/autoimport/internal/version"
)

// DiffContextLines is the number of unchanged lines shown around each change
const DiffContextLines = 3

// OutputFormatterImpl renders batch transform reports
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// BatchResultJSON wraps BatchResult with JSON metadata
type BatchResultJSON struct {
	Version     string            `json:"version"`
	GeneratedAt string            `json:"generated_at"`
	DurationMs  int64             `json:"duration_ms"`
	Files       []FileOutcomeJSON `json:"files"`
	Summary     BatchSummaryJSON  `json:"summary"`
}

// FileOutcomeJSON is the JSON form of one file of a batch
type FileOutcomeJSON struct {
	Path        string `json:"path"`
	OutputPath  string `json:"output_path,omitempty"`
	Changed     bool   `json:"changed"`
	Imports     int    `json:"imports"`
	BytesBefore int    `json:"bytes_before"`
	BytesAfter  int    `json:"bytes_after"`
	Diff        string `json:"diff,omitempty"`
	Error       string `json:"error,omitempty"`
}

// BatchSummaryJSON holds the totals of a batch
type BatchSummaryJSON struct {
	TotalFiles   int `json:"total_files"`
	ChangedFiles int `json:"changed_files"`
	FailedFiles  int `json:"failed_files"`
	Imports      int `json:"imports"`
}

// WriteBatch writes the batch result in the specified format
func (f *OutputFormatterImpl) WriteBatch(result *domain.BatchResult, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return f.writeBatchJSON(result, writer)
	case domain.OutputFormatText, "":
		return f.writeBatchText(result, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func (f *OutputFormatterImpl) writeBatchJSON(result *domain.BatchResult, writer io.Writer) error {
	out := BatchResultJSON{
		Version:     version.GetVersion(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		DurationMs:  result.Duration.Milliseconds(),
		Files:       make([]FileOutcomeJSON, 0, len(result.Files)),
		Summary: BatchSummaryJSON{
			TotalFiles:   len(result.Files),
			ChangedFiles: result.Changed,
			FailedFiles:  result.Failed,
		},
	}
	for _, file := range result.Files {
		entry := FileOutcomeJSON{
			Path:        file.Path,
			OutputPath:  file.OutputPath,
			Changed:     file.Changed,
			Imports:     file.Imports,
			BytesBefore: file.BytesBefore,
			BytesAfter:  file.BytesAfter,
			Diff:        file.Diff,
		}
		if file.Err != nil {
			entry.Error = file.Err.Error()
		}
		out.Summary.Imports += file.Imports
		out.Files = append(out.Files, entry)
	}
	return WriteJSON(writer, out)
}

func (f *OutputFormatterImpl) writeBatchText(result *domain.BatchResult, writer io.Writer) error {
	changed := color.New(color.FgGreen)
	failed := color.New(color.FgRed)
	faint := color.New(color.Faint)

	var imports, before, after int
	for _, file := range result.Files {
		imports += file.Imports
		before += file.BytesBefore
		after += file.BytesAfter

		switch {
		case file.Err != nil:
			failed.Fprintf(writer, "  ✗ %s\n", file.Path)
			faint.Fprintf(writer, "    %v\n", file.Err)
		case file.Changed:
			changed.Fprintf(writer, "  ✓ %s", file.Path)
			faint.Fprintf(writer, " (+%s)\n", humanize.Comma(int64(file.Imports))+" "+plural(file.Imports, "import"))
			if file.OutputPath != "" && file.OutputPath != file.Path {
				faint.Fprintf(writer, "    → %s\n", file.OutputPath)
			}
		}
		if file.Diff != "" {
			writeColoredDiff(writer, file.Diff)
		}
	}

	fmt.Fprintln(writer)
	fmt.Fprintf(writer, "%s of %s %s changed, %s %s injected",
		humanize.Comma(int64(result.Changed)),
		humanize.Comma(int64(len(result.Files))), plural(len(result.Files), "file"),
		humanize.Comma(int64(imports)), plural(imports, "import"))
	if result.Changed > 0 {
		fmt.Fprintf(writer, " (%s → %s)", humanize.Bytes(uint64(before)), humanize.Bytes(uint64(after)))
	}
	fmt.Fprintf(writer, " in %s\n", result.Duration.Round(time.Millisecond))
	if result.Failed > 0 {
		failed.Fprintf(writer, "%s %s failed\n", humanize.Comma(int64(result.Failed)), plural(result.Failed, "file"))
	}
	return nil
}

func writeColoredDiff(writer io.Writer, diff string) {
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	hunk := color.New(color.FgCyan)
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprint(writer, color.New(color.Bold).Sprint(line))
		case strings.HasPrefix(line, "@@"):
			hunk.Fprint(writer, line)
		case strings.HasPrefix(line, "+"):
			added.Fprint(writer, line)
		case strings.HasPrefix(line, "-"):
			removed.Fprint(writer, line)
		default:
			fmt.Fprint(writer, line)
		}
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

type diffLine struct {
	op   diffmatchpatch.Operation
	text string
}

// UnifiedDiff renders a line diff between before and after in unified format. It
// returns "" when the texts are equal.
func UnifiedDiff(path, before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var ops []diffLine
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			ops = append(ops, diffLine{op: d.Type, text: line})
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)
	for _, h := range hunks(ops, DiffContextLines) {
		writeHunk(&sb, ops, h[0], h[1])
	}
	return sb.String()
}

// hunks groups changed lines with their context into [start, end) ranges
func hunks(ops []diffLine, context int) [][2]int {
	var ranges [][2]int
	for i, op := range ops {
		if op.op == diffmatchpatch.DiffEqual {
			continue
		}
		start := max(0, i-context)
		end := min(len(ops), i+context+1)
		if n := len(ranges); n > 0 && start <= ranges[n-1][1] {
			ranges[n-1][1] = max(ranges[n-1][1], end)
			continue
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}

func writeHunk(sb *strings.Builder, ops []diffLine, start, end int) {
	oldStart, newStart := 1, 1
	for _, op := range ops[:start] {
		if op.op != diffmatchpatch.DiffInsert {
			oldStart++
		}
		if op.op != diffmatchpatch.DiffDelete {
			newStart++
		}
	}

	var oldCount, newCount int
	var body strings.Builder
	for _, op := range ops[start:end] {
		switch op.op {
		case diffmatchpatch.DiffEqual:
			oldCount++
			newCount++
			body.WriteString(" ")
		case diffmatchpatch.DiffDelete:
			oldCount++
			body.WriteString("-")
		case diffmatchpatch.DiffInsert:
			newCount++
			body.WriteString("+")
		}
		body.WriteString(op.text)
		body.WriteString("\n")
	}

	// An empty side starts at the line before the change
	if oldCount == 0 {
		oldStart--
	}
	if newCount == 0 {
		newStart--
	}
	fmt.Fprintf(sb, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
	sb.WriteString(body.String())
}

// splitLines splits text into lines without their terminators
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

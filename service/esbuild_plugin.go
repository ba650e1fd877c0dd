package service

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/ludo-technologies/autoimport/internal/constants"
)

// PluginName is the name the esbuild plugin reports in messages
const PluginName = constants.ToolName

// NewEsbuildPlugin returns an esbuild plugin that refreshes the binding table at the start
// of every build and injects imports into each loaded script. Transform failures are
// reported as build errors of the file.
func NewEsbuildPlugin(svc *AutoImportService) api.Plugin {
	loader := NewLoader(svc)

	return api.Plugin{
		Name: PluginName,
		Setup: func(build api.PluginBuild) {
			build.OnStart(func() (api.OnStartResult, error) {
				ctx := context.Background()
				if err := svc.Refresh(ctx); err != nil {
					return api.OnStartResult{Errors: []api.Message{{PluginName: PluginName, Text: err.Error()}}}, nil
				}
				if _, err := svc.EmitDts(); err != nil {
					return api.OnStartResult{Warnings: []api.Message{{PluginName: PluginName, Text: err.Error()}}}, nil
				}
				return api.OnStartResult{}, nil
			})

			build.OnLoad(api.OnLoadOptions{Filter: TransformFilter.String(), Namespace: "file"},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					if !loader.ShouldTransform(args.Path) {
						// Let esbuild load it
						return api.OnLoadResult{}, nil
					}

					source, err := os.ReadFile(args.Path)
					if err != nil {
						return api.OnLoadResult{}, err
					}

					code, mapJSON, err := loader.Load(context.Background(), args.Path, string(source))
					if err != nil {
						return api.OnLoadResult{
							PluginName: PluginName,
							Errors: []api.Message{{
								PluginName: PluginName,
								Text:       err.Error(),
								Location:   &api.Location{File: args.Path},
							}},
						}, nil
					}

					if mapJSON != nil {
						code = InlineSourceMap(code, mapJSON)
					}
					resolveDir := filepath.Dir(args.Path)
					return api.OnLoadResult{
						PluginName: PluginName,
						Contents:   &code,
						ResolveDir: resolveDir,
						Loader:     LoaderFor(args.Path),
					}, nil
				})
		},
	}
}

// InlineSourceMap appends mapJSON to code as a sourceMappingURL data URL
func InlineSourceMap(code string, mapJSON []byte) string {
	var sb strings.Builder
	sb.WriteString(code)
	if !strings.HasSuffix(code, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("//# sourceMappingURL=data:application/json;charset=utf-8;base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(mapJSON))
	sb.WriteString("\n")
	return sb.String()
}

// LoaderFor picks the esbuild loader for a script path
func LoaderFor(path string) api.Loader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return api.LoaderTS
	case ".tsx":
		return api.LoaderTSX
	case ".jsx":
		return api.LoaderJSX
	default:
		return api.LoaderJS
	}
}

package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func withBuildInfo(t *testing.T, info *debug.BuildInfo) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
	t.Cleanup(func() { readBuildInfo = orig })
}

func withVersion(t *testing.T, v, commit string) {
	t.Helper()
	origV, origC := Version, Commit
	Version, Commit = v, commit
	t.Cleanup(func() { Version, Commit = origV, origC })
}

func TestGetVersion(t *testing.T) {
	tests := []struct {
		name     string
		linked   string
		info     *debug.BuildInfo
		expected string
	}{
		{"linked", "v1.2.0", &debug.BuildInfo{Main: debug.Module{Version: "v0.9.0"}}, "v1.2.0"},
		{"go install", "dev", &debug.BuildInfo{Main: debug.Module{Version: "v0.9.0"}}, "v0.9.0"},
		{"local build", "dev", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, "dev"},
		{"no build info", "", nil, "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withVersion(t, tt.linked, "unknown")
			withBuildInfo(t, tt.info)
			if got := GetVersion(); got != tt.expected {
				t.Errorf("GetVersion() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGetFullVersion(t *testing.T) {
	withVersion(t, "v1.0.0", "unknown")
	withBuildInfo(t, &debug.BuildInfo{Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}}})

	got := GetFullVersion()
	if !strings.HasPrefix(got, "v1.0.0 (commit: abc123, built: ") {
		t.Errorf("Unexpected full version %q", got)
	}
}

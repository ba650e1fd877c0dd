package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version information (set via ldflags during build)
var (
	// Version is the current version of autoimport
	Version = "dev"

	// Commit is the git commit hash
	Commit = "unknown"

	// Date is the build date
	Date = "unknown"
)

// readBuildInfo is replaced in tests
var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the linked version, or the module version recorded by
// `go install` when none was linked
func GetVersion() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// GetFullVersion returns the full version information
func GetFullVersion() string {
	commit := Commit
	if commit == "unknown" {
		if info, ok := readBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" && s.Value != "" {
					commit = s.Value
				}
			}
		}
	}
	return fmt.Sprintf("%s (commit: %s, built: %s, %s %s/%s)",
		GetVersion(), commit, Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

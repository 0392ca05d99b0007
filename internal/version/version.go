package version

import (
	"fmt"
	"runtime"
)

var (
	// Version will be set during build using -ldflags
	Version = "dev"

	// GitCommit will be set during build using -ldflags
	GitCommit = "unknown"

	// BuildTime will be set during build using -ldflags
	BuildTime = "unknown"

	// GoVersion contains the current Go version
	GoVersion = runtime.Version()
)

// Info represents version information
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// GetInfo returns version information
func GetInfo() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
	}
}

// String formats the info on one line, e.g. for log entries.
func (i Info) String() string {
	return fmt.Sprintf("termreel %s (commit %s, built %s, %s)", i.Version, i.GitCommit, i.BuildTime, i.GoVersion)
}

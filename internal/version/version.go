// Package version reports the wizlocal build version.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/wizlocal/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/wizlocal/internal/version.Commit=abc1234"
//
// Unset values are filled from the module's build info, then from "dev".
var (
	Version = ""
	Commit  = ""
)

// Info is the version report printed by `wizlocal version --format json`
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		Version, Commit = fromBuildInfo(info, Version, Commit)
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildInfo fills whichever of version and commit are empty. A tagged
// module version wins over the VCS timestamp.
func fromBuildInfo(info *debug.BuildInfo, version, commit string) (string, string) {
	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}

	if commit == "" {
		if rev := settings["vcs.revision"]; rev != "" {
			if len(rev) > 7 {
				rev = rev[:7]
			}
			if settings["vcs.modified"] == "true" {
				rev += "-dirty"
			}
			commit = rev
		}
	}

	if version == "" {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			version = "v" + strings.TrimPrefix(v, "v")
		} else if ts := settings["vcs.time"]; ts != "" {
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				version = "dev-" + t.UTC().Format("20060102")
			}
		}
	}
	return version, commit
}

// Get returns the version report
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Full returns the version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

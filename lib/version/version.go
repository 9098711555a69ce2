// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags -X.
var (
	GitCommit = "unknown"
	GitDirty  = "false"
	BuildTime = "unknown"
	Version   = "0.1.0-dev"
)

// commit returns the injected commit, falling back to the VCS stamp
// the go tool embeds in module-aware builds.
func commit() (revision string, dirty bool) {
	revision, dirty = GitCommit, GitDirty == "true"
	if revision != "unknown" {
		return revision, dirty
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return revision, dirty
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 12 {
				revision = revision[:12]
			}
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	return revision, dirty
}

// Info returns the one-line version string, e.g.
// "0.1.0-dev (abc1234-dirty, 2026-02-10T09:00:00Z)".
func Info() string {
	revision, dirty := commit()
	if dirty {
		revision += "-dirty"
	}
	return fmt.Sprintf("%s (%s, %s)", Version, revision, BuildTime)
}

// Full is Info plus the Go toolchain and platform, for --version.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Attr returns the build information as a log attribute group.
func Attr() slog.Attr {
	revision, dirty := commit()
	return slog.Group("build",
		"version", Version,
		"commit", revision,
		"dirty", dirty,
		"built", BuildTime,
		"go", runtime.Version(),
	)
}

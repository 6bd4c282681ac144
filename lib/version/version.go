// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build provenance for Trackdeck binaries.
//
// Release builds inject values through -ldflags:
//
//	go build -ldflags "-X github.com/trackdeck/trackdeck/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// When a value is not injected, the package falls back to the VCS
// stamp the Go toolchain embeds in module builds. Binaries built
// outside a checkout (and go test binaries) have neither and report
// "unknown".
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Injected via -ldflags. Empty values defer to the embedded VCS stamp.
var (
	// Version is the semantic version, set manually for releases.
	Version = "0.1.0-dev"

	// GitCommit overrides the commit hash.
	GitCommit = ""

	// GitDirty overrides the working-tree state, "true" or "false".
	GitDirty = ""

	// BuildTime overrides the build timestamp.
	BuildTime = ""
)

// stamp resolves commit, dirty state, and build time, preferring the
// ldflags values over the binary's embedded VCS settings.
func stamp() (commit, dirty, buildTime string) {
	commit, dirty, buildTime = GitCommit, GitDirty, BuildTime
	if commit != "" && buildTime != "" {
		return commit, dirty, buildTime
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if commit == "" {
					commit = setting.Value
					if len(commit) > 12 {
						commit = commit[:12]
					}
				}
			case "vcs.modified":
				if dirty == "" {
					dirty = setting.Value
				}
			case "vcs.time":
				if buildTime == "" {
					buildTime = setting.Value
				}
			}
		}
	}

	if commit == "" {
		commit = "unknown"
	}
	if buildTime == "" {
		buildTime = "unknown"
	}
	return commit, dirty, buildTime
}

// Info returns the one-line version string for --version output.
func Info() string {
	commit, dirty, buildTime := stamp()
	if dirty == "true" {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (%s, %s)", Version, commit, buildTime)
}

// Full returns Info plus the Go toolchain and target platform.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Print writes the version line for the named binary to stdout.
func Print(name string) {
	fmt.Printf("%s %s\n", name, Info())
}

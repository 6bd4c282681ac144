// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"strings"
	"testing"
)

func setInjected(t *testing.T, commit, dirty, buildTime string) {
	t.Helper()
	savedCommit, savedDirty, savedTime := GitCommit, GitDirty, BuildTime
	t.Cleanup(func() {
		GitCommit, GitDirty, BuildTime = savedCommit, savedDirty, savedTime
	})
	GitCommit, GitDirty, BuildTime = commit, dirty, buildTime
}

func TestInfoUsesInjectedValues(t *testing.T) {
	setInjected(t, "abc1234", "false", "2026-02-01T10:00:00Z")

	want := Version + " (abc1234, 2026-02-01T10:00:00Z)"
	if got := Info(); got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}

func TestInfoMarksDirtyBuilds(t *testing.T) {
	setInjected(t, "abc1234", "true", "2026-02-01T10:00:00Z")

	if got := Info(); !strings.Contains(got, "abc1234-dirty") {
		t.Errorf("Info() = %q, want a -dirty suffix on the commit", got)
	}
}

func TestInfoWithoutStamp(t *testing.T) {
	// Test binaries have no ldflags injection and usually no VCS
	// stamp. Whatever stamp() resolves, the line must start with the
	// version and stay parenthesized.
	setInjected(t, "", "", "")

	got := Info()
	if !strings.HasPrefix(got, Version+" (") || !strings.HasSuffix(got, ")") {
		t.Errorf("Info() = %q, want %q prefix and parenthesized stamp", got, Version)
	}
}

func TestFullIncludesPlatform(t *testing.T) {
	got := Full()
	if !strings.Contains(got, runtime.Version()) {
		t.Errorf("Full() = %q, missing Go version %q", got, runtime.Version())
	}
	if !strings.Contains(got, runtime.GOOS+"/"+runtime.GOARCH) {
		t.Errorf("Full() = %q, missing platform %s/%s", got, runtime.GOOS, runtime.GOARCH)
	}
}

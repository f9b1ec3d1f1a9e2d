package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	t.Cleanup(func() { readBuildInfo = orig })
}

func TestGetFallsBackToEmbedded(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "v0.2.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	got := Get()
	want := Info{Version: "v0.2.1", Commit: "0123456789abcdef", Date: "2026-01-02T03:04:05Z", Dirty: true}
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
	if s := got.String(); !strings.Contains(s, "commit: 0123456-dirty") {
		t.Errorf("String() = %q", s)
	}
}

func TestGetPrefersStamped(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		Main:     debug.Module{Version: "v0.2.1"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "fedcba"}},
	})
	orig := Version
	Version = "v1.0.0"
	t.Cleanup(func() { Version = orig })

	got := Get()
	if got.Version != "v1.0.0" {
		t.Errorf("Version = %q, want stamped value", got.Version)
	}
	if got.Commit != "fedcba" {
		t.Errorf("Commit = %q", got.Commit)
	}
}

func TestGetWithoutBuildInfo(t *testing.T) {
	stubBuildInfo(t, nil)
	if got := Get(); got.Version != Version || got.Commit != Commit {
		t.Errorf("Get() = %+v", got)
	}
}

func TestGetIgnoresDevelVersion(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if got := Get(); got.Version != "dev" {
		t.Errorf("Version = %q, want dev", got.Version)
	}
}

func TestTemplate(t *testing.T) {
	stubBuildInfo(t, nil)
	if tmpl := Template(); !strings.HasPrefix(tmpl, "{{.Name}} version: ") {
		t.Errorf("Template() = %q", tmpl)
	}
}

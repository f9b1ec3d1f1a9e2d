package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/stowage/pkg/cache"
)

func TestCachePath(t *testing.T) {
	isolate(t)
	want, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if out := mustExecute(t, "cache", "path"); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}
}

func TestCacheClear(t *testing.T) {
	isolate(t)

	if out := mustExecute(t, "cache", "clear"); !strings.Contains(out, "Cache is empty") {
		t.Errorf("clear on missing dir:\n%s", out)
	}

	dir, _ := cacheDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, dot := range []string{"digraph a {}", "digraph b {}"} {
		if err := fc.Set(ctx, cache.Key("svg", dot), []byte("<svg/>"), 0); err != nil {
			t.Fatal(err)
		}
	}

	out := mustExecute(t, "cache", "clear")
	if !strings.Contains(out, "Cleared 2 cached renders") {
		t.Errorf("clear output:\n%s", out)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "*", "*.json"))
	if len(matches) != 0 {
		t.Errorf("entries left after clear: %v", matches)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir removed: %v", err)
	}
}

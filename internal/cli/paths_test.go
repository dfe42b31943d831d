package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("cacheDir() = %q, should be under home %q", dir, home)
	}

	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, format string
		want                  string
	}{
		{"", "map-42.json", "svg", "map-42.svg"},
		{"", "maps/act1.json", "dot", "maps/act1.dot"},
		{"", "noext", "svg", "noext.svg"},
		{"custom.svg", "map.json", "svg", "custom.svg"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.input, tt.format); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.output, tt.input, tt.format, got, tt.want)
		}
	}
}

func TestParseSeedFlag(t *testing.T) {
	if got, err := parseSeedFlag("", 7); err != nil || got != 7 {
		t.Errorf("empty seed = %d, %v; want default 7", got, err)
	}
	if got, err := parseSeedFlag("0x2a", 7); err != nil || got != 42 {
		t.Errorf("hex seed = %d, %v; want 42", got, err)
	}
	if _, err := parseSeedFlag("abc", 7); err == nil {
		t.Error("expected error for non-numeric seed")
	}
}

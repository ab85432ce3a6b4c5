package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

// TestLoadMissingFileReturnsDefaults verifies that a fresh setup with
// no config file behaves like the default configuration.
func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Terminal.ScrollbackLines != DefaultScrollbackLines {
		t.Errorf("ScrollbackLines = %d, want default %d", cfg.Terminal.ScrollbackLines, DefaultScrollbackLines)
	}
	if cfg.Terminal.Shell != "" || cfg.Appearance.Theme != "" {
		t.Error("defaults should leave shell and theme unset")
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()

	content := `
[terminal]
shell = "/bin/zsh"
width = 120
height = 40
scrollback_lines = 500

[appearance]
theme = "dracula"
`
	path := filepath.Join(dir, "gridterm", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Terminal.Shell != "/bin/zsh" {
		t.Errorf("Shell = %q", cfg.Terminal.Shell)
	}
	if cfg.Terminal.Width != 120 || cfg.Terminal.Height != 40 {
		t.Errorf("size = %dx%d, want 120x40", cfg.Terminal.Width, cfg.Terminal.Height)
	}
	if cfg.Terminal.ScrollbackLines != 500 {
		t.Errorf("ScrollbackLines = %d", cfg.Terminal.ScrollbackLines)
	}
	if cfg.Appearance.Theme != "dracula" {
		t.Errorf("Theme = %q", cfg.Appearance.Theme)
	}
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()

	path := filepath.Join(dir, "gridterm", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[terminal\nbroken"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("Load should report a parse error")
	}
}

func TestClampBounds(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"negative becomes zero", -5, 0},
		{"in range untouched", 1234, 1234},
		{"excess clamps to max", 2000000, 1000000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Terminal.ScrollbackLines = tt.in
			cfg.clamp()
			if cfg.Terminal.ScrollbackLines != tt.want {
				t.Errorf("clamped to %d, want %d", cfg.Terminal.ScrollbackLines, tt.want)
			}
		})
	}
}

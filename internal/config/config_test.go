package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parse(defaultYAML)
	if err != nil {
		t.Fatalf("embedded config does not parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded config = %+v\nwant %+v", cfg, Default())
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := `
db_path: /tmp/test.db
tick_rate: 60
ssh:
  address: ":2222"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.TickRate != 60 {
		t.Errorf("TickRate = %d, want 60", cfg.TickRate)
	}
	if cfg.SSH.Address != ":2222" {
		t.Errorf("SSH.Address = %q", cfg.SSH.Address)
	}
	// Unset fields keep defaults
	if cfg.LeaderboardSize != 10 || cfg.SSH.IdleTimeout() != 30*time.Minute {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() should fail for a missing custom file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("tick_rate: [oops"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Error("Load() should fail for malformed YAML")
	}
}

func TestNormalize(t *testing.T) {
	cfg := Config{TickRate: -5, Editor: EditorConfig{DefaultWidth: 1, DefaultHeight: 20}}
	cfg.normalize()

	def := Default()
	if cfg.TickRate != def.TickRate {
		t.Errorf("TickRate = %d", cfg.TickRate)
	}
	if cfg.LeaderboardSize != def.LeaderboardSize {
		t.Errorf("LeaderboardSize = %d", cfg.LeaderboardSize)
	}
	if cfg.Editor.DefaultWidth != def.Editor.DefaultWidth || cfg.Editor.DefaultHeight != 20 {
		t.Errorf("Editor = %+v", cfg.Editor)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := map[string]string{
		"~/x/y.db":  filepath.Join(home, "x", "y.db"),
		"/abs/path": "/abs/path",
		"rel/path":  "rel/path",
		"~other":    "~other",
	}
	for in, want := range tests {
		if got := ExpandHome(in); got != want {
			t.Errorf("ExpandHome(%q) = %q, want %q", in, got, want)
		}
	}
}

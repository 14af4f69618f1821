package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quaver/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate default config: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatalf("expected exists=false for %s", resolved)
	}
	if len(cfg.Import.AudioExtensions) == 0 {
		t.Fatal("expected default audio extensions")
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected log format %q", cfg.Logging.Format)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`data_dir = "` + filepath.Join(dir, "data") + `"`,
		`staging_dir = "` + filepath.Join(dir, "staging") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		"[import]",
		"workers = 4",
		`audio_extensions = ["MP3", ".flac", "flac", ""]`,
		"[logging]",
		`format = "JSON"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Import.Workers != 4 {
		t.Fatalf("workers = %d, want 4", cfg.Import.Workers)
	}
	want := []string{".mp3", ".flac"}
	if len(cfg.Import.AudioExtensions) != len(want) {
		t.Fatalf("extensions = %v, want %v", cfg.Import.AudioExtensions, want)
	}
	for i, ext := range want {
		if cfg.Import.AudioExtensions[i] != ext {
			t.Fatalf("extensions = %v, want %v", cfg.Import.AudioExtensions, want)
		}
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format = %q, want json", cfg.Logging.Format)
	}
}

func TestValidateRejectsBadExtension(t *testing.T) {
	cfg := config.Default()
	cfg.Import.AudioExtensions = []string{"mp3"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for undotted extension")
	}
}

func TestValidateRejectsSharedDirs(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = "/tmp/x"
	cfg.Paths.StagingDir = "/tmp/x"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when staging_dir equals data_dir")
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.StagingDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %s missing after EnsureDirectories", dir)
		}
	}
	if got := cfg.DatabasePath(); got != filepath.Join(cfg.Paths.DataDir, "catalog.db") {
		t.Fatalf("DatabasePath = %s", got)
	}
}

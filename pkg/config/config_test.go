package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestBuildDefaults(t *testing.T) {
	cfg, err := Build("", nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if cfg.InputDir != "data/input" || cfg.OutputDir != "data/output" || cfg.ArchiveDir != "data/archived" {
		t.Errorf("unexpected default dirs: %+v", cfg)
	}
	if !cfg.ByPDV || !cfg.Archive || cfg.Reports || cfg.StrictNumbers {
		t.Errorf("unexpected default policies: %+v", cfg)
	}
	if cfg.OutputBasename != "consolidated" {
		t.Errorf("unexpected default basename: %q", cfg.OutputBasename)
	}
}

func TestBuildFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `input_dir: /srv/estoque/in
output_basename: estoque_sem_giro
reports: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Build(path, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cfg.InputDir != "/srv/estoque/in" {
		t.Errorf("unexpected input dir: %q", cfg.InputDir)
	}
	if cfg.OutputBasename != "estoque_sem_giro" || !cfg.Reports {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.OutputDir != "data/output" {
		t.Errorf("defaults should fill unset keys, got %q", cfg.OutputDir)
	}
}

func TestBuildFlagOverrides(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "", "")
	flags.Bool("strict-numbers", false, "")
	if err := flags.Parse([]string{"--output", "/tmp/out", "--strict-numbers"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Build("", flags)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("flag should override output dir, got %q", cfg.OutputDir)
	}
	if !cfg.StrictNumbers {
		t.Error("flag should enable strict numbers")
	}
}

func TestBuildMissingExplicitFile(t *testing.T) {
	if _, err := Build(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

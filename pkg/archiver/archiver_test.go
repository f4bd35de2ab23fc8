package archiver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestArchiveMovesFile(t *testing.T) {
	srcDir := t.TempDir()
	archiveDir := filepath.Join(t.TempDir(), "archived")

	src := filepath.Join(srcDir, "estoque.xlsx")
	if err := os.WriteFile(src, []byte("workbook"), 0o644); err != nil {
		t.Fatalf("failed to create source file: %v", err)
	}

	dest, err := New(archiveDir, log.Default()).Archive(src)
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	if filepath.Base(dest) != "estoque.xlsx" {
		t.Errorf("archive must keep the filename, got %s", dest)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source file should be gone after archiving")
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "workbook" {
		t.Errorf("archived file content mismatch: %q, %v", data, err)
	}
}

func TestArchiveConflictLeavesSource(t *testing.T) {
	srcDir := t.TempDir()
	archiveDir := t.TempDir()

	src := filepath.Join(srcDir, "estoque.xlsx")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatalf("failed to create source file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(archiveDir, "estoque.xlsx"), []byte("old"), 0o644); err != nil {
		t.Fatalf("failed to create conflicting file: %v", err)
	}

	_, err := New(archiveDir, log.Default()).Archive(src)

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Error("source file must remain in place after a conflict")
	}
	data, _ := os.ReadFile(filepath.Join(archiveDir, "estoque.xlsx"))
	if string(data) != "old" {
		t.Error("conflicting archive file must not be overwritten")
	}
}

package service

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"

	"estoquegiro/pkg/archiver"
	"estoquegiro/pkg/config"
	"estoquegiro/pkg/extractor"
	"estoquegiro/pkg/layout"
)

// writeWorkbook writes an xlsx with a single tab containing the default
// layout's columns.
func writeWorkbook(t *testing.T, path, sheet string, rows [][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("failed to rename sheet: %v", err)
	}
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			t.Fatalf("bad cell coordinates: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to write row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
}

func dataRow(sku, description, class, pdv, stock string) []interface{} {
	row := make([]interface{}, 10)
	for i := range row {
		row[i] = ""
	}
	row[0] = sku
	row[2] = description
	row[4] = class
	row[8] = pdv
	row[9] = stock
	return row
}

func testConfig(t *testing.T) *config.Config {
	base := t.TempDir()
	return &config.Config{
		InputDir:       filepath.Join(base, "input"),
		OutputDir:      filepath.Join(base, "output"),
		ArchiveDir:     filepath.Join(base, "archived"),
		OutputBasename: "consolidated",
		ByPDV:          true,
		Archive:        true,
	}
}

func TestProcessLatest(t *testing.T) {
	cfg := testConfig(t)
	if err := os.MkdirAll(cfg.InputDir, 0o755); err != nil {
		t.Fatal(err)
	}

	src := filepath.Join(cfg.InputDir, "estoque.xlsx")
	writeWorkbook(t, src, "EUD", [][]interface{}{
		dataRow("SKU", "DESCRIÇÃO", "CURVA", "PDV", "ESTOQUE_ATUAL"),
		dataRow("SKU1", "Widget", "A", "PDV1", "10"),
		dataRow("SKU2", "Gadget", "B", "PDV2", "5"),
	})

	p := NewProcessor(cfg, layout.Default(), log.Default())
	if err := p.ProcessLatest(); err != nil {
		t.Fatalf("ProcessLatest failed: %v", err)
	}

	consolidated, err := os.ReadFile(filepath.Join(cfg.OutputDir, "consolidated.csv"))
	if err != nil {
		t.Fatalf("consolidated csv missing: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(consolidated)), "\n")
	if len(lines) != 3 {
		t.Errorf("expected header plus 2 data rows, got %d lines", len(lines))
	}

	for _, name := range []string{"PDV1.csv", "PDV2.csv"} {
		data, err := os.ReadFile(filepath.Join(cfg.OutputDir, name))
		if err != nil {
			t.Errorf("%s missing: %v", name, err)
			continue
		}
		rows := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(rows) != 2 {
			t.Errorf("%s: expected header plus 1 row, got %d lines", name, len(rows))
		}
	}

	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source workbook should have been archived")
	}
	if _, err := os.Stat(filepath.Join(cfg.ArchiveDir, "estoque.xlsx")); err != nil {
		t.Errorf("archived workbook missing: %v", err)
	}
}

func TestProcessFileMissingTabsWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	if err := os.MkdirAll(cfg.InputDir, 0o755); err != nil {
		t.Fatal(err)
	}

	src := filepath.Join(cfg.InputDir, "estoque.xlsx")
	writeWorkbook(t, src, "Resumo", [][]interface{}{
		dataRow("SKU1", "Widget", "A", "PDV1", "10"),
	})

	p := NewProcessor(cfg, layout.Default(), log.Default())
	err := p.ProcessFile(src)

	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageExtract {
		t.Fatalf("expected extract stage error, got %v", err)
	}
	var missing *extractor.MissingTabsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingTabsError cause, got %v", err)
	}

	if _, err := os.Stat(cfg.OutputDir); !os.IsNotExist(err) {
		t.Error("no output directory should exist after a failed extraction")
	}
	if _, err := os.Stat(src); err != nil {
		t.Error("source workbook must stay in place after a failed extraction")
	}
}

func TestProcessFileArchiveConflict(t *testing.T) {
	cfg := testConfig(t)
	if err := os.MkdirAll(cfg.InputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(cfg.ArchiveDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.ArchiveDir, "estoque.xlsx"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := filepath.Join(cfg.InputDir, "estoque.xlsx")
	writeWorkbook(t, src, "BOT", [][]interface{}{
		dataRow("SKU", "DESCRIÇÃO", "CURVA", "PDV", "ESTOQUE_ATUAL"),
		dataRow("SKU1", "Widget", "A", "PDV1", "10"),
	})

	p := NewProcessor(cfg, layout.Default(), log.Default())
	err := p.ProcessFile(src)

	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageArchive {
		t.Fatalf("expected archive stage error, got %v", err)
	}
	var conflict *archiver.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError cause, got %v", err)
	}

	// CSVs were already durably written before the archive step failed
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "consolidated.csv")); err != nil {
		t.Errorf("consolidated csv should survive an archive conflict: %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Error("source workbook must stay in place after an archive conflict")
	}
}

func TestIsWorkbook(t *testing.T) {
	cases := map[string]bool{
		"estoque.xlsx":   true,
		"estoque.XLSM":   true,
		"legacy.xls":     true,
		"~$estoque.xlsx": false,
		"notes.txt":      false,
	}
	for name, want := range cases {
		if got := IsWorkbook(name); got != want {
			t.Errorf("IsWorkbook(%q): expected %v, got %v", name, want, got)
		}
	}
}

func TestLatestWorkbook(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "a.xlsx")
	recent := filepath.Join(dir, "b.xlsx")
	for _, p := range []string{old, recent} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	got, err := LatestWorkbook(dir)
	if err != nil {
		t.Fatalf("LatestWorkbook failed: %v", err)
	}
	if got != recent {
		t.Errorf("expected %s, got %s", recent, got)
	}

	if _, err := LatestWorkbook(t.TempDir()); err == nil {
		t.Error("expected error for directory without workbooks")
	}
}

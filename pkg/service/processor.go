package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"estoquegiro/pkg/aggregator"
	"estoquegiro/pkg/archiver"
	"estoquegiro/pkg/config"
	"estoquegiro/pkg/csv"
	"estoquegiro/pkg/extractor"
	"estoquegiro/pkg/layout"
	"estoquegiro/pkg/report"
)

// Stage names the pipeline step a run was in when it failed.
type Stage string

const (
	StageExtract   Stage = "extracting"
	StageAggregate Stage = "aggregating"
	StageWrite     Stage = "writing"
	StageArchive   Stage = "archiving"
)

// StageError tags a failure with the pipeline stage and input file.
type StageError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed for %s: %v", e.Stage, e.Path, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Processor runs the extract, aggregate, write and archive stages over one
// workbook at a time.
type Processor struct {
	cfg    *config.Config
	layout *layout.Layout
	logger *log.Logger
}

func NewProcessor(cfg *config.Config, l *layout.Layout, logger *log.Logger) *Processor {
	return &Processor{
		cfg:    cfg,
		layout: l,
		logger: logger,
	}
}

// ProcessLatest processes the most recently modified workbook in the
// configured input directory.
func (p *Processor) ProcessLatest() error {
	path, err := LatestWorkbook(p.cfg.InputDir)
	if err != nil {
		return err
	}
	p.logger.Info("selected most recent workbook", "path", path)
	return p.ProcessFile(path)
}

// ProcessDirectory processes every workbook in dir, continuing past
// per-file failures.
func (p *Processor) ProcessDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("error reading directory: %w", err)
	}

	processed := 0
	for _, entry := range entries {
		if entry.IsDir() || !IsWorkbook(entry.Name()) {
			continue
		}
		processed++
		if err := p.ProcessFile(filepath.Join(dir, entry.Name())); err != nil {
			p.logger.Error("failed to process workbook", "file", entry.Name(), "error", err)
		}
	}

	if processed == 0 {
		return fmt.Errorf("no workbooks found in %s", dir)
	}
	return nil
}

// ProcessFile runs the full pipeline on one workbook. The workbook handle
// is released before the archive stage moves the file.
func (p *Processor) ProcessFile(path string) error {
	ext := extractor.New(p.layout, p.cfg.StrictNumbers, p.logger)
	records, err := ext.ExtractFile(path)
	if err != nil {
		return &StageError{Stage: StageExtract, Path: path, Err: err}
	}
	if len(records) == 0 {
		p.logger.Warn("workbook yielded no records", "path", path)
	}

	groups := aggregator.GroupByPDV(records)
	p.logger.Info("aggregated records", "records", groups.Total(), "pdvs", groups.Len())

	writer := csv.NewWriter(p.cfg.OutputDir, p.cfg.OutputBasename, p.logger)
	if _, err := writer.WriteConsolidated(groups); err != nil {
		return &StageError{Stage: StageWrite, Path: path, Err: err}
	}
	if p.cfg.ByPDV {
		if _, err := writer.WriteByPDV(groups); err != nil {
			return &StageError{Stage: StageWrite, Path: path, Err: err}
		}
	}
	if p.cfg.Reports {
		reports := report.NewWriter(p.cfg.OutputDir, p.logger)
		if _, err := reports.WriteByPDV(groups); err != nil {
			return &StageError{Stage: StageWrite, Path: path, Err: err}
		}
	}

	if p.cfg.Archive {
		arch := archiver.New(p.cfg.ArchiveDir, p.logger)
		if _, err := arch.Archive(path); err != nil {
			return &StageError{Stage: StageArchive, Path: path, Err: err}
		}
	}

	p.logger.Info("processed workbook", "path", path)
	return nil
}

// IsWorkbook reports whether a file name looks like a spreadsheet this tool
// can read. Excel lock files (~$ prefix) are ignored.
func IsWorkbook(name string) bool {
	if strings.HasPrefix(name, "~$") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xls":
		return true
	}
	return false
}

// LatestWorkbook returns the most recently modified workbook in dir,
// breaking mtime ties by name.
func LatestWorkbook(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("error reading input directory: %w", err)
	}

	type candidate struct {
		name  string
		mtime int64
	}
	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() || !IsWorkbook(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{name: entry.Name(), mtime: info.ModTime().UnixNano()})
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no workbooks found in %s", dir)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].mtime != candidates[j].mtime {
			return candidates[i].mtime < candidates[j].mtime
		}
		return candidates[i].name < candidates[j].name
	})
	return filepath.Join(dir, candidates[len(candidates)-1].name), nil
}

package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/charmbracelet/log"

	"estoquegiro/pkg/aggregator"
	"estoquegiro/pkg/models"
)

// Header is the column order of every CSV this tool emits.
var Header = []string{"SKU", "DESCRICAO", "CURVA", "PDV", "ESTOQUE_ATUAL"}

// FilterFunc decides whether a record makes it into the output.
type FilterFunc func(*models.Record) bool

// Write emits records as CSV, header first, skipping records the filter
// rejects.
func Write(w io.Writer, records []*models.Record, filter FilterFunc) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(Header); err != nil {
		return fmt.Errorf("error writing csv header: %w", err)
	}

	for _, r := range records {
		if filter != nil && !filter(r) {
			continue
		}
		row := []string{r.SKU, r.Description, r.Class, r.PDV, r.StockString()}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("error writing csv row: %w", err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// Create renders records to CSV bytes.
func Create(records []*models.Record, filter FilterFunc) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, records, filter); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SanitizePDV turns a PDV value into a filesystem-safe file stem.
func SanitizePDV(pdv string) string {
	s := unsafeName.ReplaceAllString(pdv, "_")
	if s == "" {
		return "SEM_PDV"
	}
	return s
}

// Writer persists aggregated groups as CSV files in one output directory.
type Writer struct {
	logger    *log.Logger
	outputDir string
	basename  string
}

// NewWriter creates a Writer. basename is the consolidated file stem,
// "consolidated" when empty.
func NewWriter(outputDir, basename string, logger *log.Logger) *Writer {
	if basename == "" {
		basename = "consolidated"
	}
	return &Writer{
		logger:    logger,
		outputDir: outputDir,
		basename:  basename,
	}
}

// WriteConsolidated writes every record, ordered by PDV first-seen order
// then in-group order, into a single CSV. Returns the file path.
func (w *Writer) WriteConsolidated(groups *aggregator.Groups) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.outputDir, w.basename+".csv")
	if err := w.writeFile(path, groups.All()); err != nil {
		return "", err
	}

	w.logger.Info("wrote consolidated csv", "path", path, "rows", groups.Total())
	return path, nil
}

// WriteByPDV writes one CSV per PDV group. Returns pdv -> file path.
func (w *Writer) WriteByPDV(groups *aggregator.Groups) (map[string]string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make(map[string]string, groups.Len())
	for _, pdv := range groups.PDVs() {
		path := filepath.Join(w.outputDir, SanitizePDV(pdv)+".csv")
		if err := w.writeFile(path, groups.Get(pdv)); err != nil {
			return nil, err
		}
		paths[pdv] = path
	}

	w.logger.Info("wrote per-pdv csvs", "count", len(paths), "dir", w.outputDir)
	return paths, nil
}

func (w *Writer) writeFile(path string, records []*models.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := Write(f, records, nil); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"

	"estoquegiro/pkg/aggregator"
	"estoquegiro/pkg/csv"
)

const sheetName = "Estoque sem Giro"

// Writer produces one xlsx report workbook per PDV. Unlike the CSVs, the
// reports carry the origin tab of each row so duplicated SKUs across EUD,
// BOT and QDB stay distinguishable.
type Writer struct {
	logger    *log.Logger
	outputDir string
}

func NewWriter(outputDir string, logger *log.Logger) *Writer {
	return &Writer{
		logger:    logger,
		outputDir: outputDir,
	}
}

// WriteByPDV writes the report workbooks into <outputDir>/reports and
// returns pdv -> file path.
func (w *Writer) WriteByPDV(groups *aggregator.Groups) (map[string]string, error) {
	dir := filepath.Join(w.outputDir, "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}

	paths := make(map[string]string, groups.Len())
	for _, pdv := range groups.PDVs() {
		path := filepath.Join(dir, csv.SanitizePDV(pdv)+".xlsx")
		if err := w.writeWorkbook(path, pdv, groups); err != nil {
			return nil, err
		}
		paths[pdv] = path
	}

	w.logger.Info("wrote pdv reports", "count", len(paths), "dir", dir)
	return paths, nil
}

func (w *Writer) writeWorkbook(path, pdv string, groups *aggregator.Groups) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name report sheet: %w", err)
	}

	header := []interface{}{"SKU", "DESCRICAO", "CURVA", "PDV", "ESTOQUE_ATUAL", "ORIGEM"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for i, r := range groups.Get(pdv) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.SKU, r.Description, r.Class, r.PDV, r.Stock, r.Origin}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report %s: %w", path, err)
	}
	return nil
}

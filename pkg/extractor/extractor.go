package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"estoquegiro/pkg/layout"
	"estoquegiro/pkg/models"
)

type FileType string

const (
	WorkbookXLSX FileType = "workbook_xlsx"
	WorkbookXLS  FileType = "workbook_xls"
)

// Extractor projects the target tabs of a workbook onto inventory records.
type Extractor struct {
	logger *log.Logger
	layout *layout.Layout
	strict bool
}

// New creates an extractor for the given worksheet layout. With strict set,
// a non-blank non-numeric stock cell fails the extraction instead of being
// coerced to zero.
func New(l *layout.Layout, strict bool, logger *log.Logger) *Extractor {
	return &Extractor{
		logger: logger,
		layout: l,
		strict: strict,
	}
}

// ExtractFile reads a workbook from disk and extracts its records.
func (e *Extractor) ExtractFile(path string) ([]*models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	return e.ExtractBytes(data, filepath.Base(path))
}

// ExtractBytes extracts records from in-memory workbook data. The format is
// picked from the filename extension.
func (e *Extractor) ExtractBytes(data []byte, filename string) ([]*models.Record, error) {
	fileType, err := DetectFileType(filename)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("detected workbook type", "type", fileType, "filename", filename)

	switch fileType {
	case WorkbookXLSX:
		return e.extractXLSX(data)
	case WorkbookXLS:
		return e.extractXLS(data)
	default:
		return nil, fmt.Errorf("unknown workbook type")
	}
}

// DetectFileType determines the workbook format from the file name.
func DetectFileType(filename string) (FileType, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return WorkbookXLSX, nil
	case ".xls":
		return WorkbookXLS, nil
	default:
		return "", fmt.Errorf("unsupported workbook type: %s", filepath.Ext(filename))
	}
}

// extractRows walks the rows of one tab, starting below the header row, and
// builds a record from every row that carries at least a sku and a pdv.
func (e *Extractor) extractRows(sheet string, rows [][]string) ([]*models.Record, error) {
	start := 0
	if header := findHeaderRow(rows, e.layout); header >= 0 {
		start = header + 1
	}

	var records []*models.Record
	for i := start; i < len(rows); i++ {
		row := rows[i]

		sku := cleanCell(cellAt(row, e.layout.SKUIndex()))
		description := cleanCell(cellAt(row, e.layout.DescriptionIndex()))
		class := cleanCell(cellAt(row, e.layout.ClassIndex()))
		pdv := cleanCell(cellAt(row, e.layout.PDVIndex()))
		rawStock := cleanCell(cellAt(row, e.layout.StockIndex()))

		if sku == "" && description == "" && class == "" && pdv == "" && rawStock == "" {
			continue
		}
		if sku == "" || pdv == "" {
			continue
		}

		stock, err := models.CoerceStock(rawStock)
		if err != nil {
			cellErr := &MalformedCellError{Sheet: sheet, Row: i + 1, Value: rawStock}
			if e.strict {
				return nil, cellErr
			}
			e.logger.Warn("coercing malformed stock cell to zero", "sheet", sheet, "row", i+1, "value", rawStock)
			stock = 0
		}

		record, err := models.NewRecord(sku, pdv).
			SetDescription(description).
			SetClass(class).
			SetOrigin(sheet).
			SetStock(stock).
			Build()
		if err != nil {
			e.logger.Debug("skipping row", "sheet", sheet, "row", i+1, "error", err)
			continue
		}

		records = append(records, record)
	}

	return records, nil
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

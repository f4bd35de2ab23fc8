package extractor

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"estoquegiro/pkg/models"
)

func (e *Extractor) extractXLSX(data []byte) ([]*models.Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer f.Close()

	available := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		available[name] = true
	}

	var records []*models.Record
	var found int

	for _, sheet := range e.layout.Sheets {
		if !available[sheet] {
			e.logger.Warn("target tab not found in workbook", "tab", sheet)
			continue
		}
		found++

		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("error reading tab %s: %w", sheet, err)
		}

		recs, err := e.extractRows(sheet, rows)
		if err != nil {
			return nil, err
		}
		e.logger.Info("extracted tab", "tab", sheet, "records", len(recs))
		records = append(records, recs...)
	}

	if found == 0 {
		return nil, &MissingTabsError{Wanted: e.layout.Sheets}
	}

	return records, nil
}

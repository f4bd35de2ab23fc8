package extractor

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"

	"estoquegiro/pkg/models"
)

// extractXLS handles legacy .xls exports of the same report.
func (e *Extractor) extractXLS(data []byte) ([]*models.Record, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}

	sheets := make(map[string]*xls.WorkSheet)
	for i := 0; i < workbook.NumSheets(); i++ {
		if sheet := workbook.GetSheet(i); sheet != nil {
			sheets[sheet.Name] = sheet
		}
	}

	var records []*models.Record
	var found int

	for _, name := range e.layout.Sheets {
		sheet, ok := sheets[name]
		if !ok {
			e.logger.Warn("target tab not found in workbook", "tab", name)
			continue
		}
		found++

		recs, err := e.extractRows(name, sheetRows(sheet, e.layout.MaxIndex()))
		if err != nil {
			return nil, err
		}
		e.logger.Info("extracted tab", "tab", name, "records", len(recs))
		records = append(records, recs...)
	}

	if found == 0 {
		return nil, &MissingTabsError{Wanted: e.layout.Sheets}
	}

	return records, nil
}

// sheetRows flattens an xls worksheet into the [][]string shape the shared
// row walk expects, padded out to the widest projected column.
func sheetRows(sheet *xls.WorkSheet, maxIndex int) [][]string {
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for r := 0; r <= int(sheet.MaxRow); r++ {
		row := sheet.Row(r)
		cells := make([]string, maxIndex+1)
		if row != nil {
			for c := 0; c <= maxIndex; c++ {
				cells[c] = row.Col(c)
			}
		}
		rows = append(rows, cells)
	}
	return rows
}

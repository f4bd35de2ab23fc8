package extractor

import (
	"strings"

	"estoquegiro/pkg/layout"
)

// headerTokens are the labels the stock report uses on its header row, in
// the spellings seen across exports.
var headerTokens = map[string]bool{
	"sku":           true,
	"descrição":     true,
	"descricao":     true,
	"curva":         true,
	"classe":        true,
	"pdv":           true,
	"estoque":       true,
	"estoque atual": true,
	"estoque_atual": true,
}

// findHeaderRow scans the first rows of a tab and returns the index of the
// header row, or -1 when none is found. A row counts as the header when at
// least two of the projected cells match a known header label.
func findHeaderRow(rows [][]string, l *layout.Layout) int {
	limit := l.HeaderScanLimit
	if limit > len(rows) {
		limit = len(rows)
	}

	for r := 0; r < limit; r++ {
		hits := 0
		for _, idx := range l.ProjectedIndices() {
			value := strings.ToLower(strings.TrimSpace(cleanCell(cellAt(rows[r], idx))))
			if headerTokens[value] {
				hits++
			}
		}
		if hits >= 2 {
			return r
		}
	}
	return -1
}

// cleanCell normalizes a raw cell: trims whitespace, blanks out textual
// null markers, and strips the ".0" tail float-rendered integers pick up.
func cleanCell(v string) string {
	s := strings.TrimSpace(v)
	switch strings.ToLower(s) {
	case "nan", "none":
		return ""
	}
	if strings.HasSuffix(s, ".0") {
		s = s[:len(s)-2]
	}
	return s
}

package extractor

import (
	"fmt"
	"strings"
)

// MissingTabsError reports a workbook that contains none of the target tabs.
type MissingTabsError struct {
	Wanted []string
}

func (e *MissingTabsError) Error() string {
	return fmt.Sprintf("none of the target tabs found in workbook (wanted %s)", strings.Join(e.Wanted, ", "))
}

// MalformedCellError reports a stock cell that is non-blank but not numeric.
type MalformedCellError struct {
	Sheet string
	Row   int
	Value string
}

func (e *MalformedCellError) Error() string {
	return fmt.Sprintf("malformed stock cell on tab %s row %d: %q", e.Sheet, e.Row, e.Value)
}

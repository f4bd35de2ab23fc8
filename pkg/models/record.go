package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is a single inventory row projected out of a workbook tab.
type Record struct {
	SKU         string
	Description string
	Class       string
	PDV         string
	Stock       float64
	Origin      string // tab the row came from (EUD, BOT, QDB)
}

// StockString renders the stock count the way the CSVs expect it: plain
// integer or minimal decimal, no thousands separators.
func (r *Record) StockString() string {
	return strconv.FormatFloat(r.Stock, 'f', -1, 64)
}

// RecordBuilder assembles a Record field by field and validates on Build.
type RecordBuilder struct {
	record Record
	err    error
}

// NewRecord starts a builder for a row keyed by sku and pdv.
func NewRecord(sku, pdv string) *RecordBuilder {
	return &RecordBuilder{
		record: Record{SKU: strings.TrimSpace(sku), PDV: strings.TrimSpace(pdv)},
	}
}

func (b *RecordBuilder) SetDescription(description string) *RecordBuilder {
	b.record.Description = strings.TrimSpace(description)
	return b
}

func (b *RecordBuilder) SetClass(class string) *RecordBuilder {
	b.record.Class = strings.TrimSpace(class)
	return b
}

func (b *RecordBuilder) SetOrigin(origin string) *RecordBuilder {
	b.record.Origin = origin
	return b
}

func (b *RecordBuilder) SetStock(stock float64) *RecordBuilder {
	b.record.Stock = stock
	return b
}

func (b *RecordBuilder) Build() (*Record, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.record.SKU == "" {
		return nil, fmt.Errorf("record has no sku")
	}
	if b.record.PDV == "" {
		return nil, fmt.Errorf("record has no pdv")
	}
	return &b.record, nil
}

// CoerceStock parses a cleaned stock cell into a float. Blank cells count
// as zero. Decimal commas are accepted since the source reports use the
// Brazilian locale.
func CoerceStock(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	return value, nil
}

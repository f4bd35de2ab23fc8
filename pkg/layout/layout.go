package layout

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Columns maps each projected field to a spreadsheet column letter.
type Columns struct {
	SKU         string `yaml:"sku"`
	Description string `yaml:"description"`
	Class       string `yaml:"class"`
	PDV         string `yaml:"pdv"`
	Stock       string `yaml:"stock"`
}

// Layout describes where the inventory data lives inside a workbook.
type Layout struct {
	Sheets          []string `yaml:"sheets"`
	Columns         Columns  `yaml:"columns"`
	HeaderScanLimit int      `yaml:"header_scan_limit"`

	// zero-based column indices, resolved from the letters on load
	idx indices
}

type indices struct {
	sku, description, class, pdv, stock int
	max                                 int
}

// Default returns the layout of the stock report this tool was built for:
// tabs EUD/BOT/QDB, columns A, C, E, I and J.
func Default() *Layout {
	l := &Layout{
		Sheets: []string{"EUD", "BOT", "QDB"},
		Columns: Columns{
			SKU:         "A",
			Description: "C",
			Class:       "E",
			PDV:         "I",
			Stock:       "J",
		},
		HeaderScanLimit: 200,
	}
	if err := l.resolve(); err != nil {
		panic(err)
	}
	return l
}

// Load reads a layout from a YAML file.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}

	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse layout yaml: %w", err)
	}

	if l.HeaderScanLimit <= 0 {
		l.HeaderScanLimit = 200
	}
	if len(l.Sheets) == 0 {
		return nil, fmt.Errorf("layout has no sheets")
	}
	if err := l.resolve(); err != nil {
		return nil, err
	}
	return &l, nil
}

func (l *Layout) resolve() error {
	cols := []struct {
		name   string
		letter string
		target *int
	}{
		{"sku", l.Columns.SKU, &l.idx.sku},
		{"description", l.Columns.Description, &l.idx.description},
		{"class", l.Columns.Class, &l.idx.class},
		{"pdv", l.Columns.PDV, &l.idx.pdv},
		{"stock", l.Columns.Stock, &l.idx.stock},
	}
	l.idx.max = 0
	for _, c := range cols {
		if c.letter == "" {
			return fmt.Errorf("layout column %s is missing", c.name)
		}
		n, err := excelize.ColumnNameToNumber(c.letter)
		if err != nil {
			return fmt.Errorf("layout column %s: invalid letter %q: %w", c.name, c.letter, err)
		}
		*c.target = n - 1
		if n-1 > l.idx.max {
			l.idx.max = n - 1
		}
	}
	return nil
}

// Index accessors keep positional column math out of the extractor.

func (l *Layout) SKUIndex() int         { return l.idx.sku }
func (l *Layout) DescriptionIndex() int { return l.idx.description }
func (l *Layout) ClassIndex() int       { return l.idx.class }
func (l *Layout) PDVIndex() int         { return l.idx.pdv }
func (l *Layout) StockIndex() int       { return l.idx.stock }

// MaxIndex returns the highest zero-based column index of the projection.
func (l *Layout) MaxIndex() int { return l.idx.max }

// ProjectedIndices returns the five column indices in field order.
func (l *Layout) ProjectedIndices() []int {
	return []int{l.idx.sku, l.idx.description, l.idx.class, l.idx.pdv, l.idx.stock}
}

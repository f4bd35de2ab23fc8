package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"

	"estoquegiro/pkg/aggregator"
	"estoquegiro/pkg/csv"
	"estoquegiro/pkg/extractor"
	"estoquegiro/pkg/layout"
	"estoquegiro/pkg/models"
)

type filters struct {
	pdv      string
	class    string
	sku      string
	minStock float64
	maxStock float64
}

func (f *filters) toFilterFunc() csv.FilterFunc {
	return func(r *models.Record) bool {
		if f.pdv != "" && !strings.Contains(strings.ToLower(r.PDV), strings.ToLower(f.pdv)) {
			return false
		}
		if f.class != "" && !strings.EqualFold(r.Class, f.class) {
			return false
		}
		if f.sku != "" && !strings.Contains(strings.ToLower(r.SKU), strings.ToLower(f.sku)) {
			return false
		}
		if f.minStock != 0 && r.Stock < f.minStock {
			return false
		}
		if f.maxStock != 0 && r.Stock > f.maxStock {
			return false
		}
		return true
	}
}

// runInspect extracts a workbook and pretty-prints a per-PDV preview of the
// records that survive the filters. Nothing is written or archived.
func runInspect(path string, l *layout.Layout, maxRows int, f *filters, logger *log.Logger) error {
	ext := extractor.New(l, false, logger)
	records, err := ext.ExtractFile(path)
	if err != nil {
		return err
	}

	filter := f.toFilterFunc()
	var kept []*models.Record
	for _, r := range records {
		if filter(r) {
			kept = append(kept, r)
		}
	}

	groups := aggregator.GroupByPDV(kept)
	fmt.Printf("%s: %d records, %d pdvs (%d filtered out)\n", path, groups.Total(), groups.Len(), len(records)-len(kept))

	for _, pdv := range groups.PDVs() {
		group := groups.Get(pdv)
		fmt.Printf("\nPDV %s (%d records)\n", pdv, len(group))
		preview := group
		if maxRows > 0 && len(preview) > maxRows {
			preview = preview[:maxRows]
		}
		for _, r := range preview {
			pp.Println(r)
		}
		if len(group) > len(preview) {
			fmt.Printf("... %d more\n", len(group)-len(preview))
		}
	}
	return nil
}

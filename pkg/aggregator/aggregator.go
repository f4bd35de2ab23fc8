package aggregator

import "estoquegiro/pkg/models"

// Groups holds records bucketed by PDV, keyed in first-seen order.
type Groups struct {
	keys    []string
	records map[string][]*models.Record
}

// GroupByPDV buckets records by their PDV. Key order follows the first
// appearance of each PDV in the input; record order within a group follows
// the input. Pure: the input slice is not modified.
func GroupByPDV(records []*models.Record) *Groups {
	g := &Groups{records: make(map[string][]*models.Record)}
	for _, record := range records {
		if _, ok := g.records[record.PDV]; !ok {
			g.keys = append(g.keys, record.PDV)
		}
		g.records[record.PDV] = append(g.records[record.PDV], record)
	}
	return g
}

// PDVs returns the group keys in first-seen order.
func (g *Groups) PDVs() []string {
	return g.keys
}

// Get returns the records of one PDV in insertion order.
func (g *Groups) Get(pdv string) []*models.Record {
	return g.records[pdv]
}

// Len returns the number of distinct PDVs.
func (g *Groups) Len() int {
	return len(g.keys)
}

// Total returns the number of records across all groups.
func (g *Groups) Total() int {
	n := 0
	for _, records := range g.records {
		n += len(records)
	}
	return n
}

// All returns every record in output order: PDV first-seen order, then
// insertion order within each group.
func (g *Groups) All() []*models.Record {
	out := make([]*models.Record, 0, g.Total())
	for _, pdv := range g.keys {
		out = append(out, g.records[pdv]...)
	}
	return out
}

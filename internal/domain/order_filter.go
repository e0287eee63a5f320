package domain

import (
	"strings"
	"unicode"
)

// OrderKey is the exact (PO, customer item) pair pallets ship under.
// Matching is case-sensitive.
type OrderKey struct {
	PONumber   string `json:"poNumber"`
	ItemNumber string `json:"itemNumber"`
}

// RejectedLine is an import line that did not yield a pair
type RejectedLine struct {
	Line    int    `json:"line"`
	Content string `json:"content"`
	Reason  string `json:"reason"`
}

// OrderImport is the result of parsing pasted or uploaded order data
type OrderImport struct {
	Pairs    []OrderKey     `json:"pairs"`
	Rejected []RejectedLine `json:"rejected,omitempty"`
}

const reasonMissingColumn = "expected a PO number and an item number"

// ParseOrderPairs reads PO/item pairs from text pasted out of a spreadsheet.
// Columns may be separated by TAB, semicolon or comma.
func ParseOrderPairs(text string) OrderImport {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = splitOrderLine(line)
	}
	return parseRows(rows, lines)
}

// ParseOrderRows applies the same rules to rows already split into cells
func ParseOrderRows(rows [][]string) OrderImport {
	raw := make([]string, len(rows))
	for i, row := range rows {
		raw[i] = strings.Join(row, "\t")
	}
	return parseRows(rows, raw)
}

func parseRows(rows [][]string, raw []string) OrderImport {
	result := OrderImport{Pairs: []OrderKey{}}
	seen := make(map[OrderKey]struct{})
	headerChecked := false

	for i, row := range rows {
		cells := nonEmptyCells(row)
		if len(cells) == 0 {
			continue
		}

		if !headerChecked {
			headerChecked = true
			if isHeaderRow(cells) {
				continue
			}
		}

		if len(cells) < 2 {
			result.Rejected = append(result.Rejected, RejectedLine{
				Line:    i + 1,
				Content: strings.TrimSpace(raw[i]),
				Reason:  reasonMissingColumn,
			})
			continue
		}

		key := OrderKey{PONumber: cells[0], ItemNumber: cells[1]}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result.Pairs = append(result.Pairs, key)
	}

	return result
}

func splitOrderLine(line string) []string {
	switch {
	case strings.Contains(line, "\t"):
		return strings.Split(line, "\t")
	case strings.Contains(line, ";"):
		return strings.Split(line, ";")
	default:
		return strings.Split(line, ",")
	}
}

func nonEmptyCells(row []string) []string {
	cells := make([]string, 0, len(row))
	for _, cell := range row {
		if cell = strings.TrimSpace(cell); cell != "" {
			cells = append(cells, cell)
		}
	}
	return cells
}

// isHeaderRow matches a leading row like "PO<TAB>Item" or "Purchase Order,Item"
func isHeaderRow(cells []string) bool {
	first := strings.ToUpper(cells[0])
	if strings.IndexFunc(first, unicode.IsDigit) >= 0 {
		return false
	}
	return strings.HasPrefix(first, "PO") || strings.Contains(first, "ORDER")
}

// OrderFilter restricts the inventory listing to a set of order pairs
type OrderFilter struct {
	keys  []OrderKey
	index map[OrderKey]struct{}
}

// NewOrderFilter builds a filter over keys, keeping their order
func NewOrderFilter(keys []OrderKey) *OrderFilter {
	f := &OrderFilter{index: make(map[OrderKey]struct{}, len(keys))}
	for _, k := range keys {
		if _, dup := f.index[k]; dup {
			continue
		}
		f.index[k] = struct{}{}
		f.keys = append(f.keys, k)
	}
	return f
}

// Keys returns the filter pairs in import order
func (f *OrderFilter) Keys() []OrderKey {
	return append([]OrderKey(nil), f.keys...)
}

// Len returns the number of pairs
func (f *OrderFilter) Len() int {
	return len(f.keys)
}

// Matches reports whether the pallet ships under one of the pairs
func (f *OrderFilter) Matches(p Pallet) bool {
	_, ok := f.index[p.OrderKey()]
	return ok
}

// Apply keeps the matching pallets and reports pairs no pallet matched
func (f *OrderFilter) Apply(pallets []Pallet) (matched []Pallet, unmatched []OrderKey) {
	hits := make(map[OrderKey]struct{}, len(f.keys))
	matched = make([]Pallet, 0, len(pallets))

	for _, p := range pallets {
		if f.Matches(p) {
			matched = append(matched, p)
			hits[p.OrderKey()] = struct{}{}
		}
	}

	for _, k := range f.keys {
		if _, ok := hits[k]; !ok {
			unmatched = append(unmatched, k)
		}
	}
	return matched, unmatched
}

package stats

import "customer-insights/internal/model"

// Table is the preview grid. Headers come from the first row; later rows are
// aligned to those headers so a missing field renders as an empty cell.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Tabulate builds the preview grid, keeping at most limit rows when limit > 0.
func Tabulate(rows []model.Row, limit int) Table {
	if len(rows) == 0 {
		return Table{}
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	t := Table{Headers: rows[0].Keys(), Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		cells := make([]string, len(t.Headers))
		for i, h := range t.Headers {
			cells[i] = r.Cell(h)
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

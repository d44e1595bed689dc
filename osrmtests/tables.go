package osrmtests

import (
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// commentColumn holds free text that is ignored by every table.
const commentColumn = "#"

// tableRow is one body row of a step table, keyed by header.
type tableRow struct {
	line   int
	values map[string]string
}

func (r tableRow) get(column string) string {
	return r.values[column]
}

func (r tableRow) has(column string) bool {
	_, ok := r.values[column]
	return ok
}

func (r tableRow) String() string {
	return fmt.Sprintf("row %d", r.line)
}

// parseTable splits a step table into its header and rows. Every cell is trimmed.
func parseTable(table *godog.Table) ([]string, []tableRow, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, nil, fmt.Errorf("step needs a table with a header row")
	}
	var header []string
	seen := make(map[string]bool)
	for _, cell := range table.Rows[0].Cells {
		name := strings.TrimSpace(cell.Value)
		if seen[name] {
			return nil, nil, fmt.Errorf("duplicate table column %q", name)
		}
		seen[name] = true
		header = append(header, name)
	}
	var rows []tableRow
	for i, r := range table.Rows[1:] {
		if len(r.Cells) != len(header) {
			return nil, nil, fmt.Errorf("table row %d has %d cells, header has %d", i+1, len(r.Cells), len(header))
		}
		row := tableRow{line: i + 1, values: make(map[string]string, len(header))}
		for j, cell := range r.Cells {
			row.values[header[j]] = strings.TrimSpace(cell.Value)
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func requireColumns(header []string, columns ...string) error {
	for _, c := range columns {
		found := false
		for _, h := range header {
			if h == c {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("table has no %q column", c)
		}
	}
	return nil
}

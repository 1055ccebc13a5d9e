// Package render formats reconciliation results for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ckdake/fitler/internal/domain"
	"github.com/ckdake/fitler/internal/reconcile"
)

// Table is a fixed-grid text table with content-sized columns.
type Table struct {
	Headers []string
	Rows    [][]string
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && runewidth.StringWidth(cell) > widths[i] {
				widths[i] = runewidth.StringWidth(cell)
			}
		}
	}
	return widths
}

func (t *Table) String() string {
	widths := t.widths()
	var b strings.Builder

	border := func() {
		b.WriteByte('+')
		for _, w := range widths {
			b.WriteString(strings.Repeat("-", w+2))
			b.WriteByte('+')
		}
		b.WriteByte('\n')
	}
	row := func(cells []string) {
		b.WriteByte('|')
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := w - runewidth.StringWidth(cell)
			b.WriteByte(' ')
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(" |")
		}
		b.WriteByte('\n')
	}

	border()
	row(t.Headers)
	border()
	for _, r := range t.Rows {
		row(r)
	}
	border()
	return b.String()
}

// Clusters renders one row per cluster with id, name and equipment columns
// for each provider in priority order. The authoritative member's id is
// suffixed with '*'; a provider a change would create an entry for shows
// 'TBD'.
func Clusters(res *reconcile.Result, priority []domain.Provider) string {
	headers := []string{"Date"}
	for _, p := range priority {
		headers = append(headers,
			string(p)+" id", string(p)+" name", string(p)+" equipment")
	}

	table := Table{Headers: headers}
	for i, cluster := range res.Clusters {
		authoritative, hasAuth := res.Authority[i]

		row := []string{cluster.RepresentativeStart.Format("2006-01-02 15:04")}
		for _, p := range priority {
			member, ok := cluster.Members[p]
			if !ok {
				id := ""
				if hasAuth && p != authoritative {
					id = "TBD"
				}
				row = append(row, id, "", "")
				continue
			}
			id := member.ProviderID
			if hasAuth && p == authoritative {
				id += "*"
			}
			row = append(row, id, member.Name, member.Equipment)
		}
		table.Rows = append(table.Rows, row)
	}
	return table.String()
}

// Changes renders the change list, one operation per line, in the
// deterministic order the planner emitted them.
func Changes(changes []domain.ChangeOperation) string {
	if len(changes) == 0 {
		return "No changes needed.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d change(s) needed:\n", len(changes))
	for _, ch := range changes {
		b.WriteString("  - ")
		b.WriteString(ch.String())
		b.WriteByte('\n')
	}
	return b.String()
}

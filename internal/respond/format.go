// Package respond renders dataset search results as chat replies.
package respond

import (
	"fmt"
	"strings"

	"github.com/calebodell/skuscout/internal/catalog"
	"github.com/calebodell/skuscout/internal/dataset"
)

// NoRecordsMessage is returned verbatim when a valid lookup matched nothing.
const NoRecordsMessage = "I couldn't find any records matching your request."

// Format renders the rows of a search result for the user.
// Zero rows get the fixed no-records message, a single row is shown
// column-by-column, and multiple rows become a numbered list the user can
// disambiguate from.
func Format(ds catalog.Dataset, res *dataset.Result) string {
	switch len(res.Rows) {
	case 0:
		return NoRecordsMessage
	case 1:
		return formatSingle(res.Headers, res.Rows[0])
	default:
		return formatMultiple(ds, res.Rows)
	}
}

func formatSingle(headers []string, row dataset.Row) string {
	var b strings.Builder
	b.WriteString("Here's what I found:\n")
	for _, h := range headers {
		v, ok := row[h]
		if !ok || v == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", h, v)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatMultiple(ds catalog.Dataset, rows []dataset.Row) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I found %d matching records:\n", len(rows))
	for i, row := range rows {
		fmt.Fprintf(&b, "%d. %s %s - %s: %s\n",
			i+1, ds.SKUColumn, row[ds.SKUColumn], ds.PrimaryColumn, row[ds.PrimaryColumn])
	}
	b.WriteString("Could you tell me which one you mean?")
	return b.String()
}

package layout

import (
	"fmt"

	"flashdoc/internal/card"
)

// Page is one output document's worth of records. Name already carries
// the page suffix when the run spans multiple documents.
type Page struct {
	Name    string
	Records card.RecordSet
}

// Paginate splits records into pages of at most capacity records each,
// in original order. A record set that fits in one grid produces a
// single page named baseName with no suffix; anything larger produces
// ceil(N/capacity) pages named baseName-1, baseName-2, and so on. An
// empty record set produces no pages at all.
func Paginate(records card.RecordSet, capacity int, baseName string) []Page {
	if records.N == 0 {
		return nil
	}
	if records.N <= capacity {
		return []Page{{Name: baseName, Records: records}}
	}

	nPages := (records.N + capacity - 1) / capacity
	pages := make([]Page, 0, nPages)
	for i := 0; i < nPages; i++ {
		lo := i * capacity
		hi := min(lo+capacity, records.N)
		pages = append(pages, Page{
			Name:    fmt.Sprintf("%s-%d", baseName, i+1),
			Records: records.Slice(lo, hi),
		})
	}
	return pages
}

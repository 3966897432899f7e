package disclosure

import "strings"

// Page is one window of a filtered listing.
type Page struct {
	// Total is the number of records that passed the filter.
	Total   int
	Skip    int
	Top     int
	Results []Document
}

func (p Page) Returned() int {
	return len(p.Results)
}

// Query keeps the records whose title contains filter case-insensitively
// (every record when filter is empty) and returns the window [skip, skip+top).
// Results is never nil.
func Query(records []Document, filter string, skip, top int) Page {
	filtered := records
	if filter != "" {
		needle := strings.ToLower(filter)
		filtered = make([]Document, 0, len(records))
		for _, r := range records {
			if strings.Contains(strings.ToLower(r.Title), needle) {
				filtered = append(filtered, r)
			}
		}
	}

	lo := max(skip, 0)
	lo = min(lo, len(filtered))
	hi := lo + max(top, 0)
	hi = min(hi, len(filtered))

	results := make([]Document, hi-lo)
	copy(results, filtered[lo:hi])

	return Page{
		Total:   len(filtered),
		Skip:    skip,
		Top:     top,
		Results: results,
	}
}

package pipeline

import "farmFilters/types"

// TotalPages is ceil(total/size), never less than 1 so an empty result
// still reads as page 1 of 1.
func TotalPages(total, size int) int {
	if size <= 0 {
		size = types.DefaultPageSize
	}
	pages := total / size
	if total%size != 0 {
		pages++
	}
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate returns a copy of the window [(n-1)*size, n*size) clipped to the
// record range. A page past the end yields an empty, non-nil slice.
func Paginate(records []types.Record, page types.PageSpec) []types.Record {
	page = page.Normalize()
	// checked before multiplying so huge page numbers cannot wrap
	if page.Number-1 >= TotalPages(len(records), page.Size) {
		return []types.Record{}
	}
	start := page.Offset()
	end := min(start+page.Size, len(records))
	out := make([]types.Record, end-start)
	copy(out, records[start:end])
	return out
}

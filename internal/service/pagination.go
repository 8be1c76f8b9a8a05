package service

// DefaultPageSize is used when a PageRequest leaves Size unset.
const DefaultPageSize = 10

// PageRequest selects one page of a filtered list. Pages are 1-based.
type PageRequest struct {
	Number int
	Size   int
}

// Page is one slice of a filtered collection plus the filtered total, so
// pagination controls can be computed without a second query.
type Page[T any] struct {
	Items  []T
	Total  int // Items matching the filter, across all pages
	Number int
	Size   int
}

// TotalPages is ceil(Total / Size).
func (p Page[T]) TotalPages() int {
	return pageCount(p.Total, p.Size)
}

func pageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return pages
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages() }

// Paginate returns the requested page of items. Out-of-range pages are empty.
func Paginate[T any](items []T, req PageRequest) Page[T] {
	if req.Size <= 0 {
		req.Size = DefaultPageSize
	}
	if req.Number < 1 {
		req.Number = 1
	}
	page := Page[T]{Items: []T{}, Total: len(items), Number: req.Number, Size: req.Size}

	if req.Number > pageCount(len(items), req.Size) {
		return page
	}
	start := (req.Number - 1) * req.Size
	end := start + req.Size
	if end > len(items) {
		end = len(items)
	}
	page.Items = append(page.Items, items[start:end]...)
	return page
}

func filterItems[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out
}

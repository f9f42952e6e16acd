package query

// Pagination defaults.
const (
	DefaultPerPage = 10
	DefaultPage    = 1
)

// Page describes the current position within a paginated result.
type Page struct {
	Previous *int `json:"previous,omitempty"`
	Current  int  `json:"current"`
	Next     *int `json:"next,omitempty"`
}

// Paginator describes a paginated result set.
type Paginator struct {
	PerPage int  `json:"per_page"`
	Items   int  `json:"items"`
	Pages   int  `json:"pages"`
	Page    Page `json:"page"`
}

// Paginate slices items into the requested page. perPage is clamped to at
// least 1 and page into [1, pages]; out-of-range requests return the nearest
// valid page rather than failing.
func Paginate[T any](items []T, perPage, page int) ([]T, Paginator) {
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	pages := (len(items) + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	p := Paginator{
		PerPage: perPage,
		Items:   len(items),
		Pages:   pages,
		Page:    Page{Current: page},
	}

	if page > 1 {
		prev := page - 1
		p.Page.Previous = &prev
	}
	if page < pages {
		next := page + 1
		p.Page.Next = &next
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return items[start:end], p
}

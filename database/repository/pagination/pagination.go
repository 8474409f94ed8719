package pagination

import "math"

const MinPage = 1
const MaxLimit = 100
const DefaultLimit = 10

// Meta mirrors the pagination block of list responses.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// Page holds the data for a single page along with its pagination metadata.
// It's generic and can be used for any data type.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Pagination Meta `json:"pagination"`
}

func MakePage[T any](items []T, paginate Paginate) *Page[T] {
	limit := paginate.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	pages := int(
		math.Ceil(paginate.GetNumItemsAsFloat() / float64(limit)),
	)

	return &Page[T]{
		Items: items,
		Pagination: Meta{
			Page:  paginate.Page,
			Limit: limit,
			Total: paginate.GetNumItemsAsInt(),
			Pages: pages,
		},
	}
}

// HydratePage transforms a page containing items of a source type (S) into a
// new page containing items of a destination type (D), preserving all
// pagination metadata. The mapper defines the S -> D conversion.
func HydratePage[S any, D any](source *Page[S], mapper func(S) D) *Page[D] {
	items := make([]D, len(source.Items))

	for i, item := range source.Items {
		items[i] = mapper(item)
	}

	return &Page[D]{
		Items:      items,
		Pagination: source.Pagination,
	}
}

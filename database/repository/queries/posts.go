package queries

import (
	"gorm.io/gorm"
)

// ApplyPostFilters The given query master table is "posts".
//
// The tags cast keeps the text match portable: postgres renders text[] as its
// array literal and sqlite already stores it as text.
func ApplyPostFilters(filters *PostFilters, query *gorm.DB) {
	if filters == nil {
		return
	}

	if filters.GetStatus() != "" {
		query.Where("posts.status = ?", filters.GetStatus())
	}

	if filters.GetText() != "" {
		like := "%" + filters.GetText() + "%"

		query.Where(
			"LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ? OR LOWER(CAST(posts.tags AS text)) LIKE ?",
			like,
			like,
			like,
		)
	}
}

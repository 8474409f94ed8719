package paginate

import (
	"net/url"
	"strconv"

	"github.com/inkwell/database/repository/pagination"
)

func MakeFrom(url url.Values) pagination.Paginate {
	page := pagination.MinPage
	limit := pagination.DefaultLimit

	if url.Get("page") != "" {
		if tPage, err := strconv.Atoi(url.Get("page")); err == nil {
			page = tPage
		}
	}

	if url.Get("limit") != "" {
		if tLimit, err := strconv.Atoi(url.Get("limit")); err == nil {
			limit = tLimit
		}
	}

	if page < pagination.MinPage {
		page = pagination.MinPage
	}

	if limit > pagination.MaxLimit {
		limit = pagination.MaxLimit
	}

	if limit < 1 {
		limit = pagination.DefaultLimit
	}

	return pagination.Paginate{
		Page:  page,
		Limit: limit,
	}
}

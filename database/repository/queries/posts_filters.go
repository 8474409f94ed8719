package queries

import (
	"strings"

	"github.com/inkwell/pkg/portal"
)

type PostFilters struct {
	Status string // admin-only dimension; empty means any status
	Text   string // case-insensitive partial match over title/body/tags
}

func (f PostFilters) GetStatus() string {
	return f.sanitiseString(f.Status)
}

func (f PostFilters) GetText() string {
	return f.sanitiseString(f.Text)
}

func (f PostFilters) sanitiseString(seed string) string {
	str := portal.MakeStringable(seed)

	return strings.TrimSpace(str.ToLower())
}

package repository

import (
	"context"
	"fmt"

	"github.com/inkwell/database"
	"github.com/inkwell/pkg/fault"
)

// Images answers questions about stored post attachments that do not fit a
// single post, such as which files on disk are still referenced.
type Images struct {
	DB *database.Connection
}

// StorageNames returns the storage name of every attached image as a set.
func (i Images) StorageNames(ctx context.Context) (map[string]struct{}, error) {
	var names []string

	result := i.DB.Sql().
		WithContext(ctx).
		Model(&database.PostImage{}).
		Pluck("storage_name", &names)

	if result.Error != nil {
		return nil, fault.NewInternal(fmt.Errorf("issue listing attached images: %w", result.Error))
	}

	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}

	return set, nil
}

package pagination

import "gorm.io/gorm"

func Count[T *int64](numItems T, query *gorm.DB, session *gorm.Session, distinct string) error {
	sql := query.
		Session(session).  // clone the base query.
		Distinct(distinct) // remove duplicates, if any, to get the actual count.

	if sql.Count(numItems).Error != nil {
		return sql.Error
	}

	return nil
}

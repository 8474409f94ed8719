package auth

import "github.com/inkwell/database"

// CanModify implements the owner-or-super-admin rule for post mutations.
func CanModify(actor *database.Admin, authorID uint64) bool {
	if actor == nil {
		return false
	}

	if actor.IsSuperAdmin() {
		return true
	}

	return actor.ID == authorID
}

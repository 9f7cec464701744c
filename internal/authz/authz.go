// Package authz holds the single ownership check used by every mutating route.
package authz

import "blogicum/internal/models"

// Owned is anything with an author.
type Owned interface {
	OwnerID() uint
}

// CanModify reports whether the viewer may edit or delete the entity.
// Anonymous viewers (nil) can modify nothing.
func CanModify(entity Owned, viewer *models.User) bool {
	if viewer == nil || viewer.ID == 0 {
		return false
	}
	return entity.OwnerID() == viewer.ID
}

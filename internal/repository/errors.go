// Package repository provides data access for posts, comments, categories,
// locations and users.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a row is absent or hidden from the viewer.
// Callers cannot tell the two apart.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique value is already taken.
var ErrConflict = errors.New("already exists")

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	}
	return err
}

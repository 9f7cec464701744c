package models

import (
	"time"
)

// Category groups posts under a URL slug. Unpublishing a category hides
// every post filed under it from public listings.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Slug        string    `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	IsPublished bool      `gorm:"not null;index" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

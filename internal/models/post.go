package models

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	PubDate     time.Time `gorm:"not null;index" json:"pub_date"` // future dates schedule the post
	IsPublished bool      `gorm:"not null;index" json:"is_published"`
	Image       string    `gorm:"size:255" json:"image"` // path relative to the media root
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	LocationID  *uint     `gorm:"index" json:"location_id"`
	Location    *Location `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"location"`
	CategoryID  *uint     `gorm:"index" json:"category_id"`
	Category    *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category"`
	CreatedAt   time.Time `json:"created_at"`

	// 非数据库字段，查询时由子查询填充
	CommentCount int64 `gorm:"->;-:migration" json:"comment_count"`
}

// OwnerID reports the author of the post.
func (p Post) OwnerID() uint {
	return p.AuthorID
}

// BeforeSave stores publish dates in UTC so they compare consistently
// across drivers.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	p.PubDate = p.PubDate.UTC()
	return nil
}

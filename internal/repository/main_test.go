package repository

import (
	"testing"
	"time"

	"blogicum/internal/db"
	"blogicum/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	return database
}

type fixture struct {
	t  *testing.T
	db *gorm.DB
}

func (f fixture) user(name string) models.User {
	f.t.Helper()
	u := models.User{Username: name, Password: "hash"}
	require.NoError(f.t, f.db.Create(&u).Error)
	return u
}

func (f fixture) category(slug string, published bool) models.Category {
	f.t.Helper()
	c := models.Category{Title: slug, Slug: slug, IsPublished: published}
	require.NoError(f.t, f.db.Create(&c).Error)
	return c
}

func (f fixture) post(author models.User, category *models.Category, published bool, pubDate time.Time) models.Post {
	f.t.Helper()
	p := models.Post{
		Title:       "post",
		Text:        "text",
		PubDate:     pubDate,
		IsPublished: published,
		AuthorID:    author.ID,
	}
	if category != nil {
		p.CategoryID = &category.ID
	}
	require.NoError(f.t, f.db.Omit("Author", "Category", "Location").Create(&p).Error)
	return p
}

func (f fixture) comment(post models.Post, author models.User, at time.Time) models.Comment {
	f.t.Helper()
	c := models.Comment{Text: "comment", PostID: post.ID, AuthorID: author.ID, CreatedAt: at}
	require.NoError(f.t, f.db.Omit("Post", "Author").Create(&c).Error)
	return c
}

func ids(posts []models.Post) []uint {
	out := make([]uint, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

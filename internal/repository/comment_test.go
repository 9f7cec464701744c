package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_ListForPostIsChronological(t *testing.T) {
	database := setupTestDB(t)
	f := fixture{t: t, db: database}
	repo := NewCommentRepository(database)
	ctx := context.Background()

	author := f.user("author")
	post := f.post(author, nil, true, now)
	second := f.comment(post, author, now.Add(2*time.Minute))
	first := f.comment(post, author, now.Add(time.Minute))
	tie := f.comment(post, author, now.Add(2*time.Minute))

	comments, err := repo.ListForPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, []uint{first.ID, second.ID, tie.ID}, []uint{comments[0].ID, comments[1].ID, comments[2].ID})
	assert.Equal(t, "author", comments[0].Author.Username)
}

func TestCommentRepository_FindChecksPost(t *testing.T) {
	database := setupTestDB(t)
	f := fixture{t: t, db: database}
	repo := NewCommentRepository(database)
	ctx := context.Background()

	author := f.user("author")
	post := f.post(author, nil, true, now)
	other := f.post(author, nil, true, now)
	comment := f.comment(post, author, now)

	found, err := repo.Find(ctx, post.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, comment.ID, found.ID)

	_, err = repo.Find(ctx, other.ID, comment.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentRepository_UpdateKeepsCreatedAt(t *testing.T) {
	database := setupTestDB(t)
	f := fixture{t: t, db: database}
	repo := NewCommentRepository(database)
	ctx := context.Background()

	author := f.user("author")
	post := f.post(author, nil, true, now)
	comment := f.comment(post, author, now)

	comment.Text = "edited"
	comment.CreatedAt = now.Add(time.Hour)
	require.NoError(t, repo.UpdateText(ctx, &comment))

	found, err := repo.Find(ctx, post.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", found.Text)
	assert.True(t, found.CreatedAt.Equal(now))
}

func TestCommentRepository_CreateDelete(t *testing.T) {
	database := setupTestDB(t)
	f := fixture{t: t, db: database}
	repo := NewCommentRepository(database)
	ctx := context.Background()

	author := f.user("author")
	post := f.post(author, nil, true, now)

	comments, err := repo.ListForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	comment := f.comment(post, author, now)
	comments, err = repo.ListForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	require.NoError(t, repo.Delete(ctx, comment.ID))
	comments, err = repo.ListForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.ErrorIs(t, repo.Delete(ctx, comment.ID), ErrNotFound)
}

package repository

import (
	"context"
	"testing"
	"time"

	"blogicum/internal/models"
	"blogicum/internal/visibility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_ListMatchesVisibilityPredicate(t *testing.T) {
	database := setupTestDB(t)
	f := fixture{t: t, db: database}
	repo := NewPostRepository(database)
	ctx := context.Background()

	alice := f.user("alice")
	bob := f.user("bob")
	open := f.category("open", true)
	closed := f.category("closed", false)

	var all []models.Post
	for _, author := range []models.User{alice, bob} {
		for _, cat := range []*models.Category{nil, &open, &closed} {
			for _, published := range []bool{true, false} {
				for _, offset := range []time.Duration{-time.Hour, 0, time.Hour} {
					all = append(all, f.post(author, cat, published, now.Add(offset)))
				}
			}
		}
	}
	// Reload with categories so the in-memory predicate sees their flags.
	require.NoError(t, database.Preload("Category").Order("pub_date DESC, id DESC").Find(&all).Error)

	rules := map[string]visibility.Rule{
		"anonymous": visibility.Public(now),
		"alice":     visibility.For(alice.ID, now),
		"bob":       visibility.For(bob.ID, now),
	}
	for name, rule := range rules {
		t.Run(name, func(t *testing.T) {
			res, err := repo.List(ctx, Listing{Rule: rule, PageSize: 100}, 1)
			require.NoError(t, err)
			assert.Equal(t, ids(rule.Filter(all)), ids(res.Posts))
		})
	}

	res, err := repo.List(ctx, Listing{Rule: visibility.Public(now), PageSize: 100}, 1)
	require.NoError(t, err)
	// published, released (two boundary cases), uncategorised or open: 2 authors x 2 categories x 2 dates
	assert.Len(t, res.Posts, 8)
	for _, p := range res.Posts {
		assert.True(t, p.IsPublished)
		assert.False(t, p.PubDate.After(now))
		if p.Category != nil {
			assert.True(t, p.Category.IsPublished)
		}
	}
}

func TestPostRepository_ListOrdersNewestFirst(t *testing.T) {
	database := setupTestDB(t)
	f := fixture{t: t, db: database}
	repo := NewPostRepository(database)

	author := f.user("author")
	older := f.post(author, nil, true, now.Add(-2*time.Hour))
	newer := f.post(author, nil, true, now.Add(-time.Hour))

	res, err := repo.List(context.Background(), Listing{Rule: visibility.Public(now)}, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{newer.ID, older.ID}, ids(res.Posts))
	assert.Equal(t, "author", res.Posts[0].Author.Username)
}

func TestPostRepository_ListCommentCountIsLive(t *testing.T) {
	database := setupTestDB(t)
	f := fixture{t: t, db: database}
	repo := NewPostRepository(database)
	ctx := context.Background()

	author := f.user("author")
	post := f.post(author, nil, true, now.Add(-time.Hour))
	quiet := f.post(author, nil, true, now.Add(-2*time.Hour))
	f.comment(post, author, now)
	f.comment(post, author, now)

	res, err := repo.List(ctx, Listing{Rule: visibility.Public(now)}, 1)
	require.NoError(t, err)
	require.Len(t, res.Posts, 2)
	assert.Equal(t, int64(2), res.Posts[0].CommentCount)
	assert.Equal(t, int64(0), res.Posts[1].CommentCount)

	f.comment(post, author, now.Add(time.Minute))

	res, err = repo.List(ctx, Listing{Rule: visibility.Public(now)}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Posts[0].CommentCount)

	got, err := repo.Get(ctx, post.ID, visibility.Public(now))
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.CommentCount)

	got, err = repo.Get(ctx, quiet.ID, visibility.Public(now))
	require.NoError(t, err)
	assert.Zero(t, got.CommentCount)
}

func TestPostRepository_ListCategoryScope(t *testing.T) {
	database := setupTestDB(t)
	f := fixture{t: t, db: database}
	repo := NewPostRepository(database)
	categories := NewCategoryRepository(database)
	ctx := context.Background()

	author := f.user("author")
	travel := f.category("travel", false)
	other := f.category("other", true)
	inTravel := f.post(author, &travel, true, now.Add(-time.Hour))
	f.post(author, &other, true, now.Add(-time.Hour))

	_, err := repo.List(ctx, Listing{CategorySlug: "travel", Rule: visibility.Public(now)}, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.List(ctx, Listing{CategorySlug: "missing", Rule: visibility.Public(now)}, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, categories.SetPublished(ctx, "travel", true))

	res, err := repo.List(ctx, Listing{CategorySlug: "travel", Rule: visibility.Public(now)}, 1)
	require.NoError(t, err)
	assert.Equal(t, "travel", res.Category.Slug)
	assert.Equal(t, []uint{inTravel.ID}, ids(res.Posts))

	_, err = repo.List(ctx, Listing{CategorySlug: "Travel", Rule: visibility.Public(now)}, 1)
	assert.ErrorIs(t, err, ErrNotFound, "slug match is exact")
}

func TestPostRepository_ListAuthorScopeOwnerOverride(t *testing.T) {
	database := setupTestDB(t)
	f := fixture{t: t, db: database}
	repo := NewPostRepository(database)
	ctx := context.Background()

	alice := f.user("alice")
	bob := f.user("bob")
	public := f.post(alice, nil, true, now.Add(-time.Hour))
	draft := f.post(alice, nil, false, now.Add(-time.Hour))
	scheduled := f.post(alice, nil, true, now.Add(time.Hour))
	bobsDraft := f.post(bob, nil, false, now.Add(-time.Hour))

	own, err := repo.List(ctx, Listing{AuthorID: alice.ID, Rule: visibility.For(alice.ID, now)}, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{public.ID, draft.ID, scheduled.ID}, ids(own.Posts))

	visitor, err := repo.List(ctx, Listing{AuthorID: alice.ID, Rule: visibility.For(bob.ID, now)}, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{public.ID}, ids(visitor.Posts))
	assert.NotContains(t, ids(visitor.Posts), bobsDraft.ID)

	anonymous, err := repo.List(ctx, Listing{AuthorID: alice.ID, Rule: visibility.Public(now)}, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{public.ID}, ids(anonymous.Posts))
}

func TestPostRepository_ListPagination(t *testing.T) {
	database := setupTestDB(t)
	f := fixture{t: t, db: database}
	repo := NewPostRepository(database)
	ctx := context.Background()

	author := f.user("author")
	for i := 0; i < 25; i++ {
		f.post(author, nil, true, now.Add(-time.Duration(i+1)*time.Minute))
	}

	listing := Listing{Rule: visibility.Public(now), PageSize: 10}
	tests := []struct {
		requested int
		number    int
		size      int
	}{
		{requested: 1, number: 1, size: 10},
		{requested: 2, number: 2, size: 10},
		{requested: 3, number: 3, size: 5},
		{requested: 4, number: 3, size: 5},
		{requested: 0, number: 1, size: 10},
	}
	for _, tt := range tests {
		res, err := repo.List(ctx, listing, tt.requested)
		require.NoError(t, err)
		assert.Equal(t, tt.number, res.Page.Number, "requested %d", tt.requested)
		assert.Len(t, res.Posts, tt.size, "requested %d", tt.requested)
		assert.Equal(t, 3, res.Page.TotalPages)
		assert.Equal(t, int64(25), res.Page.Total)
	}
}

func TestPostRepository_Get(t *testing.T) {
	database := setupTestDB(t)
	f := fixture{t: t, db: database}
	repo := NewPostRepository(database)
	ctx := context.Background()

	alice := f.user("alice")
	bob := f.user("bob")
	closed := f.category("closed", false)
	draft := f.post(alice, nil, false, now.Add(-time.Hour))
	hiddenByCategory := f.post(alice, &closed, true, now.Add(-time.Hour))
	boundary := f.post(alice, nil, true, now)

	_, err := repo.Get(ctx, draft.ID, visibility.Public(now))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Get(ctx, draft.ID, visibility.For(bob.ID, now))
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := repo.Get(ctx, draft.ID, visibility.For(alice.ID, now))
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)

	_, err = repo.Get(ctx, hiddenByCategory.ID, visibility.Public(now))
	assert.ErrorIs(t, err, ErrNotFound)
	got, err = repo.Get(ctx, hiddenByCategory.ID, visibility.For(alice.ID, now))
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "closed", got.Category.Slug)

	_, err = repo.Get(ctx, boundary.ID, visibility.Public(now))
	assert.NoError(t, err, "publish date equal to now is visible")

	_, err = repo.Get(ctx, 9999, visibility.For(alice.ID, now))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostRepository_UpdateAndDelete(t *testing.T) {
	database := setupTestDB(t)
	f := fixture{t: t, db: database}
	repo := NewPostRepository(database)
	ctx := context.Background()

	author := f.user("author")
	travel := f.category("travel", true)
	post := f.post(author, &travel, true, now.Add(-time.Hour))
	f.comment(post, author, now)

	found, err := repo.Find(ctx, post.ID)
	require.NoError(t, err)
	found.Title = "changed"
	found.CategoryID = nil
	found.IsPublished = false
	require.NoError(t, repo.Update(ctx, found))

	reloaded, err := repo.Find(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", reloaded.Title)
	assert.Nil(t, reloaded.CategoryID)
	assert.False(t, reloaded.IsPublished)

	require.NoError(t, repo.Delete(ctx, post.ID))
	_, err = repo.Find(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, post.ID), ErrNotFound)

	var comments int64
	database.Model(&models.Comment{}).Count(&comments)
	assert.Zero(t, comments, "comments cascade with their post")
}

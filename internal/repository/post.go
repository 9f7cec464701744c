package repository

import (
	"context"
	"fmt"

	"blogicum/internal/models"
	"blogicum/internal/pagination"
	"blogicum/internal/visibility"

	"gorm.io/gorm"
)

// commentCountSelect annotates each post with its live comment count.
const commentCountSelect = "posts.*, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

// Listing narrows the post feed. Zero values mean "no scope".
type Listing struct {
	CategorySlug string
	AuthorID     uint
	Rule         visibility.Rule
	PageSize     int
}

// ListResult is one page of a listing.
type ListResult struct {
	Category *models.Category
	Posts    []models.Post
	Page     pagination.Page
}

// PostRepository defines post data operations.
type PostRepository interface {
	List(ctx context.Context, listing Listing, page int) (*ListResult, error)
	Get(ctx context.Context, id uint, rule visibility.Rule) (*models.Post, error)
	Find(ctx context.Context, id uint) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db         *gorm.DB
	categories CategoryRepository
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, categories: NewCategoryRepository(db)}
}

// List returns one page of visible posts, newest publish date first.
// A category scope must name a published category, otherwise ErrNotFound.
// An author scope keeps the owner override only when the viewer is that author.
func (r *postRepository) List(ctx context.Context, listing Listing, page int) (*ListResult, error) {
	result := &ListResult{}
	rule := listing.Rule

	if listing.CategorySlug != "" {
		category, err := r.categories.GetPublished(ctx, listing.CategorySlug)
		if err != nil {
			return nil, err
		}
		result.Category = category
	}
	if listing.AuthorID != 0 && rule.ViewerID != listing.AuthorID {
		rule = rule.WithoutOwner()
	}

	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Post{}).Scopes(rule.Scope)
		if result.Category != nil {
			q = q.Where("posts.category_id = ?", result.Category.ID)
		}
		if listing.AuthorID != 0 {
			q = q.Where("posts.author_id = ?", listing.AuthorID)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	result.Page = pagination.New(page, listing.PageSize, total)

	err := withRelations(scoped()).
		Select(commentCountSelect).
		Order("posts.pub_date DESC, posts.id DESC").
		Scopes(result.Page.Scope).
		Find(&result.Posts).Error
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return result, nil
}

// Get resolves a single post the rule allows, or ErrNotFound.
func (r *postRepository) Get(ctx context.Context, id uint, rule visibility.Rule) (*models.Post, error) {
	var post models.Post
	err := withRelations(r.db.WithContext(ctx).Model(&models.Post{}).Scopes(rule.Scope)).
		Select(commentCountSelect).
		Where("posts.id = ?", id).
		Take(&post).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// Find loads a post regardless of visibility. Used for ownership checks.
func (r *postRepository) Find(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := withRelations(r.db.WithContext(ctx).Model(&models.Post{})).
		Select(commentCountSelect).
		Where("posts.id = ?", id).
		Take(&post).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Omit("Author", "Category", "Location").Create(post).Error
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Model(post).
		Select("Title", "Text", "PubDate", "IsPublished", "Image", "LocationID", "CategoryID").
		Updates(post).Error
	return translate(err)
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func withRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("Author").Preload("Category").Preload("Location")
}

package repository

import (
	"context"

	"blogicum/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines category data operations.
type CategoryRepository interface {
	GetPublished(ctx context.Context, slug string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	ListPublished(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	SetPublished(ctx context.Context, slug string, published bool) error
	Delete(ctx context.Context, slug string) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// GetPublished finds a published category by exact slug.
func (r *categoryRepository) GetPublished(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_published = ?", slug, true).
		Take(&category).Error
	if err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).Take(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("title ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) ListPublished(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("title ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error)
}

func (r *categoryRepository) SetPublished(ctx context.Context, slug string, published bool) error {
	res := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("slug = ?", slug).
		Update("is_published", published)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the category; its posts stay with the category cleared.
func (r *categoryRepository) Delete(ctx context.Context, slug string) error {
	res := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

package repository

import (
	"context"

	"blogicum/internal/models"

	"gorm.io/gorm"
)

// LocationRepository defines location data operations.
type LocationRepository interface {
	List(ctx context.Context) ([]models.Location, error)
	ListPublished(ctx context.Context) ([]models.Location, error)
	Get(ctx context.Context, id uint) (*models.Location, error)
	Create(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, id uint) error
}

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) List(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	err := r.db.WithContext(ctx).Order("name ASC").Find(&locations).Error
	return locations, err
}

func (r *locationRepository) ListPublished(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("name ASC").
		Find(&locations).Error
	return locations, err
}

func (r *locationRepository) Get(ctx context.Context, id uint) (*models.Location, error) {
	var location models.Location
	if err := r.db.WithContext(ctx).Take(&location, id).Error; err != nil {
		return nil, translate(err)
	}
	return &location, nil
}

func (r *locationRepository) Create(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

// Delete removes the location; posts keep existing without one.
func (r *locationRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Location{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

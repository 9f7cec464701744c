package repository

import (
	"context"

	"blogicum/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines comment data operations.
type CommentRepository interface {
	ListForPost(ctx context.Context, postID uint) ([]models.Comment, error)
	Find(ctx context.Context, postID, commentID uint) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	UpdateText(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// ListForPost returns comments oldest first.
func (r *commentRepository) ListForPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// Find loads a comment only if it belongs to the given post.
func (r *commentRepository) Find(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ? AND post_id = ?", commentID, postID).
		Take(&comment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit("Post", "Author").Create(comment).Error
}

// UpdateText changes only the text; the creation time never moves.
func (r *commentRepository) UpdateText(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Model(comment).Update("text", comment.Text).Error
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

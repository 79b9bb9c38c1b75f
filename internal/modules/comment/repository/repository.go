package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	"github.com/kunal592/MD-BlogApp/pkg/apperror"
)

type CommentRepository interface {
	WithTx(tx *gorm.DB) CommentRepository

	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)
	ListByBlog(ctx context.Context, blogID uuid.UUID) ([]entity.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListUnapproved(ctx context.Context) ([]entity.Comment, error)
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) error
	Count(ctx context.Context) (int64, error)
	CountUnapproved(ctx context.Context) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{db: tx}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: comment not found", apperror.ErrNotFound)
	}
	return err
}

func withUser(db *gorm.DB) *gorm.DB {
	return db.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "avatar")
	})
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).Omit("User", "Blog", "Parent").Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	var comment entity.Comment
	if err := withUser(r.db.WithContext(ctx)).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, notFound(err)
	}
	return &comment, nil
}

// ListByBlog returns every comment of the blog, newest first.
func (r *commentRepository) ListByBlog(ctx context.Context, blogID uuid.UUID) ([]entity.Comment, error) {
	var comments []entity.Comment
	err := withUser(r.db.WithContext(ctx)).
		Where("blog_id = ?", blogID).
		Order("created_at desc").
		Order("id desc").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Comment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: comment not found", apperror.ErrNotFound)
	}
	return nil
}

func (r *commentRepository) ListUnapproved(ctx context.Context) ([]entity.Comment, error) {
	var comments []entity.Comment
	err := withUser(r.db.WithContext(ctx)).
		Preload("Blog", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "slug", "author_id")
		}).
		Where("is_approved = ?", false).
		Order("created_at desc").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	res := r.db.WithContext(ctx).Model(&entity.Comment{}).
		Where("id = ?", id).
		Update("is_approved", approved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: comment not found", apperror.ErrNotFound)
	}
	return nil
}

func (r *commentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Comment{}).Count(&count).Error
	return count, err
}

func (r *commentRepository) CountUnapproved(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Comment{}).Where("is_approved = ?", false).Count(&count).Error
	return count, err
}

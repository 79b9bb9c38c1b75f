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

type ContactRepository interface {
	Create(ctx context.Context, req *entity.ContactRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ContactRequest, error)
	List(ctx context.Context, resolved *bool, limit, offset int) ([]entity.ContactRequest, int64, error)
	SetResolved(ctx context.Context, id uuid.UUID, resolved bool) error
	CountOpen(ctx context.Context) (int64, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, req *entity.ContactRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *contactRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ContactRequest, error) {
	var req entity.ContactRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contact request not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	return &req, nil
}

func (r *contactRepository) List(ctx context.Context, resolved *bool, limit, offset int) ([]entity.ContactRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.ContactRequest{})
	if resolved != nil {
		query = query.Where("is_resolved = ?", *resolved)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []entity.ContactRequest
	err := query.Order("created_at desc").Order("id desc").Limit(limit).Offset(offset).Find(&requests).Error
	return requests, total, err
}

func (r *contactRepository) SetResolved(ctx context.Context, id uuid.UUID, resolved bool) error {
	res := r.db.WithContext(ctx).Model(&entity.ContactRequest{}).
		Where("id = ?", id).
		Update("is_resolved", resolved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: contact request not found", apperror.ErrNotFound)
	}
	return nil
}

func (r *contactRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ContactRequest{}).Where("is_resolved = ?", false).Count(&count).Error
	return count, err
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kunal592/MD-BlogApp/internal/entity"
)

type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	List(ctx context.Context, limit, offset int) ([]entity.Report, int64, error)
	Count(ctx context.Context) (int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *entity.Report) error {
	return r.db.WithContext(ctx).Omit("Reporter").Create(report).Error
}

// List returns newest reports first with the reporter summary preloaded.
func (r *reportRepository) List(ctx context.Context, limit, offset int) ([]entity.Report, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Report{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []entity.Report
	err := r.db.WithContext(ctx).
		Preload("Reporter", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "avatar")
		}).
		Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	return reports, total, err
}

func (r *reportRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Report{}).Count(&count).Error
	return count, err
}

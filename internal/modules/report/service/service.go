package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	"github.com/kunal592/MD-BlogApp/internal/modules/report/dto"
	"github.com/kunal592/MD-BlogApp/internal/modules/report/repository"
	"github.com/kunal592/MD-BlogApp/pkg/apperror"
	commonDto "github.com/kunal592/MD-BlogApp/pkg/dto"
	"github.com/kunal592/MD-BlogApp/pkg/ratelimiter"
)

const defaultPageSize = 20

type ReportService interface {
	Create(ctx context.Context, reporterID uuid.UUID, req dto.CreateReportRequest) (*dto.ReportResponse, error)
	List(ctx context.Context, q commonDto.PageQuery) (*commonDto.Paginated[dto.ReportResponse], error)
}

type reportService struct {
	repo    repository.ReportRepository
	limiter *ratelimiter.Limiter
}

func NewReportService(repo repository.ReportRepository, limiter *ratelimiter.Limiter) ReportService {
	return &reportService{repo: repo, limiter: limiter}
}

// Create stores a report without checking that the content exists: reports
// outlive what they point at.
func (s *reportService) Create(ctx context.Context, reporterID uuid.UUID, req dto.CreateReportRequest) (*dto.ReportResponse, error) {
	contentID := strings.TrimSpace(req.ContentID)
	reason := strings.TrimSpace(req.Reason)
	if contentID == "" || reason == "" {
		return nil, fmt.Errorf("%w: content id and reason are required", apperror.ErrInvalidInput)
	}

	switch req.ContentType {
	case entity.ReportContentBlog, entity.ReportContentComment, entity.ReportContentUser:
	default:
		return nil, fmt.Errorf("%w: unknown content type %q", apperror.ErrInvalidInput, req.ContentType)
	}

	release, err := s.limiter.Acquire(ctx, reporterID, ratelimiter.ScopeReport)
	if err != nil {
		return nil, err
	}

	report := &entity.Report{
		ContentType: req.ContentType,
		ContentID:   contentID,
		Reason:      reason,
		ReporterID:  reporterID,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		release()
		return nil, err
	}

	log.Info().
		Str("report_id", report.ID.String()).
		Str("content_type", report.ContentType).
		Str("content_id", report.ContentID).
		Msg("content reported")

	resp := dto.FromEntity(*report)
	return &resp, nil
}

func (s *reportService) List(ctx context.Context, q commonDto.PageQuery) (*commonDto.Paginated[dto.ReportResponse], error) {
	q.Normalize(defaultPageSize)

	reports, total, err := s.repo.List(ctx, q.Limit, q.Offset())
	if err != nil {
		return nil, err
	}

	return &commonDto.Paginated[dto.ReportResponse]{
		Items: dto.FromEntities(reports),
		Meta:  commonDto.NewPaginationMeta(q.Page, q.Limit, total),
	}, nil
}

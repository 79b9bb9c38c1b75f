package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	commonDto "github.com/kunal592/MD-BlogApp/pkg/dto"
)

type CreateReportRequest struct {
	ContentType string `json:"content_type" binding:"required,oneof=blog comment user"`
	ContentID   string `json:"content_id" binding:"required,max=64"`
	Reason      string `json:"reason" binding:"required,max=1000"`
}

type ReportResponse struct {
	ID          uuid.UUID                 `json:"id"`
	ContentType string                    `json:"content_type"`
	ContentID   string                    `json:"content_id"`
	Reason      string                    `json:"reason"`
	Reporter    *commonDto.AuthorResponse `json:"reporter,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
}

func FromEntity(r entity.Report) ReportResponse {
	resp := ReportResponse{
		ID:          r.ID,
		ContentType: r.ContentType,
		ContentID:   r.ContentID,
		Reason:      r.Reason,
		CreatedAt:   r.CreatedAt,
	}
	if r.Reporter != nil {
		resp.Reporter = &commonDto.AuthorResponse{ID: r.Reporter.ID, Name: r.Reporter.Name, Avatar: r.Reporter.Avatar}
	}
	return resp
}

func FromEntities(reports []entity.Report) []ReportResponse {
	out := make([]ReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, FromEntity(r))
	}
	return out
}

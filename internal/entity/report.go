package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReportContentBlog    = "blog"
	ReportContentComment = "comment"
	ReportContentUser    = "user"
)

// Report.ContentID is a weak reference: the reported item may be gone.
type Report struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContentType string    `gorm:"size:20;not null;index" json:"content_type"`
	ContentID   string    `gorm:"size:64;not null" json:"content_id"`
	Reason      string    `gorm:"type:text;not null" json:"reason"`
	ReporterID  uuid.UUID `gorm:"type:uuid;not null;index" json:"reporter_id"`
	Reporter    *User     `gorm:"foreignKey:ReporterID;constraint:OnDelete:CASCADE" json:"reporter,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	return assignID(&r.ID)
}

type ContactRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Email      string    `gorm:"size:255;not null" json:"email"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	IsResolved bool      `gorm:"not null;index" json:"is_resolved"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *ContactRequest) BeforeCreate(tx *gorm.DB) error {
	return assignID(&c.ID)
}

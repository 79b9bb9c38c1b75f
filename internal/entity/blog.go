package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Blog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Slug        string    `gorm:"size:300;uniqueIndex;not null" json:"slug"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Excerpt     *string   `gorm:"type:text" json:"excerpt"`
	Summary     *string   `gorm:"type:text" json:"summary"`
	CoverImage  *string   `gorm:"type:text" json:"cover_image"`
	Tags        []string  `gorm:"type:text;serializer:json" json:"tags"`
	IsPublished bool      `gorm:"not null;index" json:"is_published"`
	IsFeatured  bool      `gorm:"not null;index" json:"is_featured"`
	ViewCount   int64     `gorm:"not null;default:0;index" json:"view_count"`
	ReadTime    int       `gorm:"not null;default:1" json:"read_time"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author      *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return assignID(&b.ID)
}

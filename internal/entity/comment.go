package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	BlogID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"blog_id"`
	Blog       *Blog      `gorm:"constraint:OnDelete:CASCADE" json:"blog,omitempty"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User      `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	ParentID   *uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`
	Parent     *Comment   `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
	IsApproved bool       `gorm:"not null;index" json:"is_approved"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	return assignID(&c.ID)
}

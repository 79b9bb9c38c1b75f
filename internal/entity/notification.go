package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationLike         NotificationType = "LIKE"
	NotificationNewComment   NotificationType = "NEW_COMMENT"
	NotificationCommentReply NotificationType = "COMMENT_REPLY"
	NotificationCommentLike  NotificationType = "COMMENT_LIKE"
	NotificationFollow       NotificationType = "FOLLOW"
)

type Notification struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Type        NotificationType `gorm:"size:20;not null" json:"type"`
	Message     string           `gorm:"type:text;not null" json:"message"`
	SenderID    *uuid.UUID       `gorm:"type:uuid;index" json:"sender_id"`
	Sender      *User            `gorm:"foreignKey:SenderID;constraint:OnDelete:SET NULL" json:"sender,omitempty"`
	RecipientID uuid.UUID        `gorm:"type:uuid;not null;index:idx_notifications_recipient_read,priority:1" json:"recipient_id"`
	Recipient   *User            `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
	Read        bool             `gorm:"not null;index:idx_notifications_recipient_read,priority:2" json:"read"`
	CreatedAt   time.Time        `gorm:"autoCreateTime;index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	return assignID(&n.ID)
}

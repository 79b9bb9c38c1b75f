package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	commonDto "github.com/kunal592/MD-BlogApp/pkg/dto"
)

type NotificationResponse struct {
	ID        uuid.UUID                 `json:"id"`
	Type      entity.NotificationType   `json:"type"`
	Message   string                    `json:"message"`
	Sender    *commonDto.AuthorResponse `json:"sender"`
	Read      bool                      `json:"read"`
	CreatedAt time.Time                 `json:"created_at"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

func FromEntity(n entity.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if n.Sender != nil {
		resp.Sender = &commonDto.AuthorResponse{
			ID:     n.Sender.ID,
			Name:   n.Sender.Name,
			Avatar: n.Sender.Avatar,
		}
	}
	return resp
}

func FromEntities(ns []entity.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, FromEntity(n))
	}
	return out
}

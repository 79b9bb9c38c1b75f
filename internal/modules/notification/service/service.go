package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	notifDto "github.com/kunal592/MD-BlogApp/internal/modules/notification/dto"
	notifRepo "github.com/kunal592/MD-BlogApp/internal/modules/notification/repository"
	"github.com/kunal592/MD-BlogApp/internal/observability"
	"github.com/kunal592/MD-BlogApp/pkg/apperror"
	commonDto "github.com/kunal592/MD-BlogApp/pkg/dto"
)

// Event describes something an actor did that concerns a recipient.
// Subject is the blog title the message refers to.
type Event struct {
	Type        entity.NotificationType
	ActorID     uuid.UUID
	ActorName   string
	ActorAvatar *string
	RecipientID uuid.UUID
	Subject     string
}

func RenderMessage(ev Event) string {
	switch ev.Type {
	case entity.NotificationLike:
		return fmt.Sprintf("%s liked your blog \"%s\"", ev.ActorName, ev.Subject)
	case entity.NotificationNewComment:
		return fmt.Sprintf("%s commented on your blog \"%s\"", ev.ActorName, ev.Subject)
	case entity.NotificationCommentReply:
		return fmt.Sprintf("%s replied to your comment on \"%s\"", ev.ActorName, ev.Subject)
	case entity.NotificationCommentLike:
		return fmt.Sprintf("%s liked your comment on \"%s\"", ev.ActorName, ev.Subject)
	case entity.NotificationFollow:
		return fmt.Sprintf("%s started following you", ev.ActorName)
	}
	return fmt.Sprintf("%s interacted with your content", ev.ActorName)
}

func Channel(userID string) string {
	return "user_notifications:" + userID
}

type NotificationService interface {
	// Emit stores the notification with tx, or returns nil when the actor
	// is also the recipient.
	Emit(ctx context.Context, tx *gorm.DB, ev Event) (*entity.Notification, error)
	// Publish pushes a committed notification to the recipient's live stream.
	Publish(ctx context.Context, n *entity.Notification)
	List(ctx context.Context, recipientID uuid.UUID, q commonDto.PageQuery) (*commonDto.Paginated[notifDto.NotificationResponse], error)
	ListUnread(ctx context.Context, recipientID uuid.UUID) ([]notifDto.NotificationResponse, error)
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo        notifRepo.NotificationRepository
	redisClient *redis.Client
}

func NewNotificationService(repo notifRepo.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
	}
}

func (s *notificationService) Emit(ctx context.Context, tx *gorm.DB, ev Event) (*entity.Notification, error) {
	if ev.ActorID == ev.RecipientID {
		return nil, nil
	}

	repo := s.repo
	if tx != nil {
		repo = repo.WithTx(tx)
	}

	actorID := ev.ActorID
	n := &entity.Notification{
		Type:        ev.Type,
		Message:     RenderMessage(ev),
		SenderID:    &actorID,
		RecipientID: ev.RecipientID,
	}
	if err := repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	observability.NotificationsCreated.WithLabelValues(string(ev.Type)).Inc()
	n.Sender = &entity.User{ID: ev.ActorID, Name: ev.ActorName, Avatar: ev.ActorAvatar}
	return n, nil
}

func (s *notificationService) Publish(ctx context.Context, n *entity.Notification) {
	if n == nil || s.redisClient == nil {
		return
	}

	payload, err := json.Marshal(notifDto.FromEntity(*n))
	if err != nil {
		log.Error().Err(err).Msg("failed to encode notification")
		return
	}

	if err := s.redisClient.Publish(ctx, Channel(n.RecipientID.String()), payload).Err(); err != nil {
		log.Warn().Err(err).Str("recipient_id", n.RecipientID.String()).Msg("failed to publish notification")
	}
}

func (s *notificationService) List(ctx context.Context, recipientID uuid.UUID, q commonDto.PageQuery) (*commonDto.Paginated[notifDto.NotificationResponse], error) {
	q.Normalize(20)

	notifications, total, err := s.repo.ListByRecipient(ctx, recipientID, q.Limit, q.Offset())
	if err != nil {
		return nil, err
	}

	return &commonDto.Paginated[notifDto.NotificationResponse]{
		Items: notifDto.FromEntities(notifications),
		Meta:  commonDto.NewPaginationMeta(q.Page, q.Limit, total),
	}, nil
}

func (s *notificationService) ListUnread(ctx context.Context, recipientID uuid.UUID) ([]notifDto.NotificationResponse, error) {
	notifications, err := s.repo.ListUnread(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	return notifDto.FromEntities(notifications), nil
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, recipientID)
}

func (s *notificationService) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	affected, err := s.repo.MarkRead(ctx, id, recipientID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: notification not found", apperror.ErrNotFound)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, recipientID)
}

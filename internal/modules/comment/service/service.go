package comment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	blogRepo "github.com/kunal592/MD-BlogApp/internal/modules/blog/repository"
	commentDto "github.com/kunal592/MD-BlogApp/internal/modules/comment/dto"
	commentRepo "github.com/kunal592/MD-BlogApp/internal/modules/comment/repository"
	interactionDto "github.com/kunal592/MD-BlogApp/internal/modules/interaction/dto"
	interactionRepo "github.com/kunal592/MD-BlogApp/internal/modules/interaction/repository"
	interaction "github.com/kunal592/MD-BlogApp/internal/modules/interaction/service"
	notifService "github.com/kunal592/MD-BlogApp/internal/modules/notification/service"
	userRepo "github.com/kunal592/MD-BlogApp/internal/modules/user/repository"
	"github.com/kunal592/MD-BlogApp/pkg/apperror"
	"github.com/kunal592/MD-BlogApp/pkg/database"
	commonDto "github.com/kunal592/MD-BlogApp/pkg/dto"
	"github.com/kunal592/MD-BlogApp/pkg/ratelimiter"
)

// BlogRef addresses a blog by id or, when ID is nil, by slug.
type BlogRef struct {
	ID   *uuid.UUID
	Slug string
}

func ByID(id uuid.UUID) BlogRef { return BlogRef{ID: &id} }

func BySlug(slug string) BlogRef { return BlogRef{Slug: slug} }

type CommentService interface {
	Create(ctx context.Context, actorID uuid.UUID, ref BlogRef, req commentDto.CreateCommentRequest) (*commentDto.CommentResponse, error)
	List(ctx context.Context, viewer *commonDto.Actor, ref BlogRef) (*commentDto.CommentListResponse, error)
	ToggleLike(ctx context.Context, actorID, commentID uuid.UUID) (*interactionDto.ToggleLikeResponse, error)
	Delete(ctx context.Context, actorID uuid.UUID, role string, commentID uuid.UUID) error
}

type commentService struct {
	repo            commentRepo.CommentRepository
	blogRepo        blogRepo.BlogRepository
	userRepo        userRepo.UserRepository
	interactionRepo interactionRepo.InteractionRepository
	interactions    interaction.InteractionService
	notifications   notifService.NotificationService
	transactor      database.Transactor
	limiter         *ratelimiter.Limiter
	policy          *bluemonday.Policy
}

func NewCommentService(
	repo commentRepo.CommentRepository,
	blogRepo blogRepo.BlogRepository,
	userRepo userRepo.UserRepository,
	interactionRepo interactionRepo.InteractionRepository,
	interactions interaction.InteractionService,
	notifications notifService.NotificationService,
	transactor database.Transactor,
	limiter *ratelimiter.Limiter,
) CommentService {
	return &commentService{
		repo:            repo,
		blogRepo:        blogRepo,
		userRepo:        userRepo,
		interactionRepo: interactionRepo,
		interactions:    interactions,
		notifications:   notifications,
		transactor:      transactor,
		limiter:         limiter,
		policy:          bluemonday.UGCPolicy(),
	}
}

// resolveBlog loads the referenced blog. Drafts only resolve for their
// author and admins; everyone else gets not found.
func (s *commentService) resolveBlog(ctx context.Context, viewer *commonDto.Actor, ref BlogRef) (*entity.Blog, error) {
	var (
		blog *entity.Blog
		err  error
	)
	switch {
	case ref.ID != nil:
		blog, err = s.blogRepo.FindByID(ctx, *ref.ID)
	case ref.Slug != "":
		blog, err = s.blogRepo.FindBySlug(ctx, ref.Slug)
	default:
		return nil, fmt.Errorf("%w: blog id or slug is required", apperror.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}
	if !blog.IsPublished && (viewer == nil || !viewer.CanManage(blog.AuthorID)) {
		return nil, fmt.Errorf("%w: blog not found", apperror.ErrNotFound)
	}
	return blog, nil
}

func (s *commentService) Create(ctx context.Context, actorID uuid.UUID, ref BlogRef, req commentDto.CreateCommentRequest) (*commentDto.CommentResponse, error) {
	content := strings.TrimSpace(s.policy.Sanitize(req.Content))
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is required", apperror.ErrInvalidInput)
	}

	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	blog, err := s.resolveBlog(ctx, &commonDto.Actor{ID: actor.ID, Role: actor.Role}, ref)
	if err != nil {
		return nil, err
	}

	var parent *entity.Comment
	if req.ParentID != nil {
		parentID, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid parent id", apperror.ErrInvalidInput)
		}
		parent, err = s.repo.FindByID(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if parent.BlogID != blog.ID {
			return nil, fmt.Errorf("%w: parent comment belongs to another blog", apperror.ErrInvalidInput)
		}
	}

	release, err := s.limiter.Acquire(ctx, actorID, ratelimiter.ScopeComment)
	if err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		Content: content,
		BlogID:  blog.ID,
		UserID:  actor.ID,
	}
	event := notifService.Event{
		Type:        entity.NotificationNewComment,
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		ActorAvatar: actor.Avatar,
		RecipientID: blog.AuthorID,
		Subject:     blog.Title,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
		event.Type = entity.NotificationCommentReply
		event.RecipientID = parent.UserID
	}

	var sent *entity.Notification
	err = s.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, comment); err != nil {
			return err
		}
		var err error
		sent, err = s.notifications.Emit(ctx, tx, event)
		return err
	})
	if err != nil {
		release()
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.notifications.Publish(ctx, sent)

	comment.User = actor
	resp := commentDto.FromEntity(*comment, 0)
	return &resp, nil
}

func (s *commentService) List(ctx context.Context, viewer *commonDto.Actor, ref BlogRef) (*commentDto.CommentListResponse, error) {
	blog, err := s.resolveBlog(ctx, viewer, ref)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.ListByBlog(ctx, blog.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	likes, err := s.interactionRepo.CountCommentLikes(ctx, ids)
	if err != nil {
		return nil, err
	}

	flat := make([]commentDto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		flat = append(flat, commentDto.FromEntity(c, likes[c.ID]))
	}

	return &commentDto.CommentListResponse{
		Comments: flat,
		Tree:     commentDto.BuildTree(flat),
		Total:    len(flat),
	}, nil
}

func (s *commentService) ToggleLike(ctx context.Context, actorID, commentID uuid.UUID) (*interactionDto.ToggleLikeResponse, error) {
	return s.interactions.ToggleCommentLike(ctx, actorID, commentID)
}

// Delete is allowed for the comment author, the blog author and admins.
func (s *commentService) Delete(ctx context.Context, actorID uuid.UUID, role string, commentID uuid.UUID) error {
	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != actorID && role != entity.RoleAdmin {
		blog, err := s.blogRepo.FindByID(ctx, comment.BlogID)
		if err != nil {
			return err
		}
		if blog.AuthorID != actorID {
			return fmt.Errorf("%w: you can only delete your own comments", apperror.ErrForbidden)
		}
	}

	return s.repo.Delete(ctx, commentID)
}

package interaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	blogDto "github.com/kunal592/MD-BlogApp/internal/modules/blog/dto"
	blogRepo "github.com/kunal592/MD-BlogApp/internal/modules/blog/repository"
	commentRepo "github.com/kunal592/MD-BlogApp/internal/modules/comment/repository"
	interactionDto "github.com/kunal592/MD-BlogApp/internal/modules/interaction/dto"
	interactionRepo "github.com/kunal592/MD-BlogApp/internal/modules/interaction/repository"
	notifService "github.com/kunal592/MD-BlogApp/internal/modules/notification/service"
	userRepo "github.com/kunal592/MD-BlogApp/internal/modules/user/repository"
	"github.com/kunal592/MD-BlogApp/internal/observability"
	"github.com/kunal592/MD-BlogApp/pkg/apperror"
	"github.com/kunal592/MD-BlogApp/pkg/database"
)

const (
	kindLike        = "like"
	kindBookmark    = "bookmark"
	kindCommentLike = "comment_like"
	kindFollow      = "follow"
	kindUnfollow    = "unfollow"
)

type InteractionService interface {
	ToggleLike(ctx context.Context, actorID, blogID uuid.UUID) (*interactionDto.ToggleLikeResponse, error)
	ToggleBookmark(ctx context.Context, actorID, blogID uuid.UUID) (*interactionDto.ToggleBookmarkResponse, error)
	ToggleCommentLike(ctx context.Context, actorID, commentID uuid.UUID) (*interactionDto.ToggleLikeResponse, error)
	Follow(ctx context.Context, actorID, targetID uuid.UUID) (*interactionDto.FollowResponse, error)
	Unfollow(ctx context.Context, actorID, targetID uuid.UUID) (*interactionDto.FollowResponse, error)

	Followers(ctx context.Context, userID uuid.UUID) ([]interactionDto.UserSummary, error)
	Following(ctx context.Context, userID uuid.UUID) ([]interactionDto.UserSummary, error)
	LikedBlogs(ctx context.Context, actorID uuid.UUID) ([]blogDto.BlogResponse, error)
	BookmarkedBlogs(ctx context.Context, actorID uuid.UUID) ([]blogDto.BlogResponse, error)
	State(ctx context.Context, actorID, blogID uuid.UUID) (*interactionDto.InteractionState, error)
}

type interactionService struct {
	repo          interactionRepo.InteractionRepository
	blogRepo      blogRepo.BlogRepository
	userRepo      userRepo.UserRepository
	commentRepo   commentRepo.CommentRepository
	transactor    database.Transactor
	notifications notifService.NotificationService
}

func NewInteractionService(
	repo interactionRepo.InteractionRepository,
	blogRepo blogRepo.BlogRepository,
	userRepo userRepo.UserRepository,
	commentRepo commentRepo.CommentRepository,
	transactor database.Transactor,
	notifications notifService.NotificationService,
) InteractionService {
	return &interactionService{
		repo:          repo,
		blogRepo:      blogRepo,
		userRepo:      userRepo,
		commentRepo:   commentRepo,
		transactor:    transactor,
		notifications: notifications,
	}
}

// toggleOps describes one edge kind. notify runs in the same transaction
// as a successful insert and may be nil.
type toggleOps struct {
	kind   string
	remove func(repo interactionRepo.InteractionRepository) (int64, error)
	insert func(repo interactionRepo.InteractionRepository) (int64, error)
	notify func(tx *gorm.DB) (*entity.Notification, error)
}

// toggle removes the edge if present, otherwise inserts it. An insert that
// affects no rows lost a race with a concurrent toggle: the edge exists, so
// the result is "on" but nobody is notified twice.
func (s *interactionService) toggle(ctx context.Context, ops toggleOps) (bool, error) {
	var (
		on     bool
		result string
		sent   *entity.Notification
	)

	err := s.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		removed, err := ops.remove(repo)
		if err != nil {
			return err
		}
		if removed > 0 {
			result = "removed"
			return nil
		}

		on = true
		added, err := ops.insert(repo)
		if err != nil {
			return err
		}
		if added == 0 {
			result = "raced"
			return nil
		}

		result = "added"
		if ops.notify == nil {
			return nil
		}
		sent, err = ops.notify(tx)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle %s: %w", ops.kind, err)
	}

	s.notifications.Publish(ctx, sent)
	observability.InteractionsTotal.WithLabelValues(ops.kind, result).Inc()
	return on, nil
}

func (s *interactionService) ToggleLike(ctx context.Context, actorID, blogID uuid.UUID) (*interactionDto.ToggleLikeResponse, error) {
	blog, err := s.blogRepo.FindByID(ctx, blogID)
	if err != nil {
		return nil, err
	}
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	liked, err := s.toggle(ctx, toggleOps{
		kind: kindLike,
		remove: func(repo interactionRepo.InteractionRepository) (int64, error) {
			return repo.DeleteLike(ctx, actorID, blogID)
		},
		insert: func(repo interactionRepo.InteractionRepository) (int64, error) {
			return repo.InsertLike(ctx, actorID, blogID)
		},
		notify: func(tx *gorm.DB) (*entity.Notification, error) {
			return s.notifications.Emit(ctx, tx, notifService.Event{
				Type:        entity.NotificationLike,
				ActorID:     actor.ID,
				ActorName:   actor.Name,
				ActorAvatar: actor.Avatar,
				RecipientID: blog.AuthorID,
				Subject:     blog.Title,
			})
		},
	})
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountLikes(ctx, blogID)
	if err != nil {
		return nil, err
	}
	return &interactionDto.ToggleLikeResponse{Liked: liked, LikeCount: count}, nil
}

func (s *interactionService) ToggleBookmark(ctx context.Context, actorID, blogID uuid.UUID) (*interactionDto.ToggleBookmarkResponse, error) {
	if _, err := s.blogRepo.FindByID(ctx, blogID); err != nil {
		return nil, err
	}

	bookmarked, err := s.toggle(ctx, toggleOps{
		kind: kindBookmark,
		remove: func(repo interactionRepo.InteractionRepository) (int64, error) {
			return repo.DeleteBookmark(ctx, actorID, blogID)
		},
		insert: func(repo interactionRepo.InteractionRepository) (int64, error) {
			return repo.InsertBookmark(ctx, actorID, blogID)
		},
	})
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountBookmarks(ctx, blogID)
	if err != nil {
		return nil, err
	}
	return &interactionDto.ToggleBookmarkResponse{Bookmarked: bookmarked, BookmarkCount: count}, nil
}

func (s *interactionService) ToggleCommentLike(ctx context.Context, actorID, commentID uuid.UUID) (*interactionDto.ToggleLikeResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	blog, err := s.blogRepo.FindByID(ctx, comment.BlogID)
	if err != nil {
		return nil, err
	}
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	liked, err := s.toggle(ctx, toggleOps{
		kind: kindCommentLike,
		remove: func(repo interactionRepo.InteractionRepository) (int64, error) {
			return repo.DeleteCommentLike(ctx, actorID, commentID)
		},
		insert: func(repo interactionRepo.InteractionRepository) (int64, error) {
			return repo.InsertCommentLike(ctx, actorID, commentID)
		},
		notify: func(tx *gorm.DB) (*entity.Notification, error) {
			return s.notifications.Emit(ctx, tx, notifService.Event{
				Type:        entity.NotificationCommentLike,
				ActorID:     actor.ID,
				ActorName:   actor.Name,
				ActorAvatar: actor.Avatar,
				RecipientID: comment.UserID,
				Subject:     blog.Title,
			})
		},
	})
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.CountCommentLikes(ctx, []uuid.UUID{commentID})
	if err != nil {
		return nil, err
	}
	return &interactionDto.ToggleLikeResponse{Liked: liked, LikeCount: counts[commentID]}, nil
}

func (s *interactionService) Follow(ctx context.Context, actorID, targetID uuid.UUID) (*interactionDto.FollowResponse, error) {
	if actorID == targetID {
		return nil, fmt.Errorf("%w: you cannot follow yourself", apperror.ErrInvalidOperation)
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var sent *entity.Notification
	err = s.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		added, err := s.repo.WithTx(tx).InsertFollow(ctx, actorID, target.ID)
		if err != nil {
			return err
		}
		if added == 0 {
			return fmt.Errorf("%w: already following this user", apperror.ErrConflict)
		}

		sent, err = s.notifications.Emit(ctx, tx, notifService.Event{
			Type:        entity.NotificationFollow,
			ActorID:     actor.ID,
			ActorName:   actor.Name,
			ActorAvatar: actor.Avatar,
			RecipientID: target.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifications.Publish(ctx, sent)
	observability.InteractionsTotal.WithLabelValues(kindFollow, "added").Inc()

	count, err := s.repo.CountFollowers(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	return &interactionDto.FollowResponse{Following: true, FollowerCount: count}, nil
}

func (s *interactionService) Unfollow(ctx context.Context, actorID, targetID uuid.UUID) (*interactionDto.FollowResponse, error) {
	removed, err := s.repo.DeleteFollow(ctx, actorID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to unfollow: %w", err)
	}

	result := "removed"
	if removed == 0 {
		result = "noop"
	}
	observability.InteractionsTotal.WithLabelValues(kindUnfollow, result).Inc()

	count, err := s.repo.CountFollowers(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return &interactionDto.FollowResponse{Following: false, FollowerCount: count}, nil
}

func (s *interactionService) Followers(ctx context.Context, userID uuid.UUID) ([]interactionDto.UserSummary, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.repo.Followers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return interactionDto.UserSummaries(users), nil
}

func (s *interactionService) Following(ctx context.Context, userID uuid.UUID) ([]interactionDto.UserSummary, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.repo.Following(ctx, userID)
	if err != nil {
		return nil, err
	}
	return interactionDto.UserSummaries(users), nil
}

func (s *interactionService) LikedBlogs(ctx context.Context, actorID uuid.UUID) ([]blogDto.BlogResponse, error) {
	ids, err := s.repo.LikedBlogIDs(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.visibleBlogs(ctx, actorID, ids)
}

func (s *interactionService) BookmarkedBlogs(ctx context.Context, actorID uuid.UUID) ([]blogDto.BlogResponse, error) {
	ids, err := s.repo.BookmarkedBlogIDs(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.visibleBlogs(ctx, actorID, ids)
}

// visibleBlogs drops drafts of other authors that were unpublished after
// the actor interacted with them.
func (s *interactionService) visibleBlogs(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) ([]blogDto.BlogResponse, error) {
	blogs, err := s.blogRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	visible := make([]entity.Blog, 0, len(blogs))
	visibleIDs := make([]uuid.UUID, 0, len(blogs))
	for _, b := range blogs {
		if b.IsPublished || b.AuthorID == actorID {
			visible = append(visible, b)
			visibleIDs = append(visibleIDs, b.ID)
		}
	}

	counts, err := s.blogRepo.CountsFor(ctx, visibleIDs)
	if err != nil {
		return nil, err
	}
	return blogDto.ListItems(visible, counts), nil
}

func (s *interactionService) State(ctx context.Context, actorID, blogID uuid.UUID) (*interactionDto.InteractionState, error) {
	liked, err := s.repo.HasLiked(ctx, actorID, blogID)
	if err != nil {
		return nil, err
	}
	bookmarked, err := s.repo.HasBookmarked(ctx, actorID, blogID)
	if err != nil {
		return nil, err
	}
	return &interactionDto.InteractionState{IsLiked: liked, IsBookmarked: bookmarked}, nil
}

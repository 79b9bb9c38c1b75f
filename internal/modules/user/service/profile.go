package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	blogDto "github.com/kunal592/MD-BlogApp/internal/modules/blog/dto"
	blogRepo "github.com/kunal592/MD-BlogApp/internal/modules/blog/repository"
	interactionRepo "github.com/kunal592/MD-BlogApp/internal/modules/interaction/repository"
	"github.com/kunal592/MD-BlogApp/internal/modules/user/dto"
	"github.com/kunal592/MD-BlogApp/internal/modules/user/repository"
	"github.com/kunal592/MD-BlogApp/pkg/apperror"
	"github.com/kunal592/MD-BlogApp/pkg/storage"
)

const avatarFolder = "avatars"

type ProfileService interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest, avatar *dto.AvatarFile) (*dto.UserResponse, error)
	GetPublicProfile(ctx context.Context, viewerID *uuid.UUID, userID uuid.UUID) (*dto.PublicProfileResponse, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*dto.UserStatsResponse, error)
}

type profileService struct {
	repo            repository.UserRepository
	blogRepo        blogRepo.BlogRepository
	interactionRepo interactionRepo.InteractionRepository
	imageStorage    storage.ImageStorage
}

func NewProfileService(
	repo repository.UserRepository,
	blogRepo blogRepo.BlogRepository,
	interactionRepo interactionRepo.InteractionRepository,
	imageStorage storage.ImageStorage,
) ProfileService {
	return &profileService{
		repo:            repo,
		blogRepo:        blogRepo,
		interactionRepo: interactionRepo,
		imageStorage:    imageStorage,
	}
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest, avatar *dto.AvatarFile) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", apperror.ErrInvalidInput)
		}
		fields["name"] = name
	}
	if req.Bio != nil {
		fields["bio"] = strings.TrimSpace(*req.Bio)
	}
	if req.Avatar != nil {
		fields["avatar"] = *req.Avatar
	}

	if avatar != nil {
		if s.imageStorage == nil {
			return nil, fmt.Errorf("%w: avatar upload is not available", apperror.ErrInvalidOperation)
		}
		if !storage.IsImage(avatar.FileName) {
			return nil, fmt.Errorf("%w: avatar must be an image", apperror.ErrInvalidInput)
		}
		url, err := s.imageStorage.UploadImage(ctx, avatar.Reader, avatarFolder, avatar.FileName)
		if err != nil {
			return nil, err
		}
		fields["avatar"] = url
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, userID, fields); err != nil {
			return nil, err
		}
		if _, replaced := fields["avatar"]; replaced && user.Avatar != nil && s.imageStorage != nil {
			s.dropOldAvatar(ctx, *user.Avatar)
		}
		if user, err = s.repo.FindByID(ctx, userID); err != nil {
			return nil, err
		}
	}

	resp := dto.FromEntity(user)
	return &resp, nil
}

// dropOldAvatar only touches images hosted on our own storage; Google
// profile pictures are left alone.
func (s *profileService) dropOldAvatar(ctx context.Context, url string) {
	if !strings.Contains(url, "/"+avatarFolder+"/") {
		return
	}
	if err := s.imageStorage.DeleteImage(ctx, url); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("failed to delete previous avatar")
	}
}

func (s *profileService) GetPublicProfile(ctx context.Context, viewerID *uuid.UUID, userID uuid.UUID) (*dto.PublicProfileResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	followers, err := s.interactionRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.interactionRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	blogs, err := s.blogRepo.ListByAuthor(ctx, userID, blogDto.StatusPublished)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(blogs))
	for _, b := range blogs {
		ids = append(ids, b.ID)
	}
	counts, err := s.blogRepo.CountsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &dto.PublicProfileResponse{
		ID:             user.ID,
		Name:           user.Name,
		Avatar:         user.Avatar,
		Bio:            user.Bio,
		CreatedAt:      user.CreatedAt,
		FollowerCount:  followers,
		FollowingCount: following,
		Blogs:          blogDto.ListItems(blogs, counts),
	}

	if viewerID != nil && *viewerID != userID {
		isFollowing, err := s.interactionRepo.IsFollowing(ctx, *viewerID, userID)
		if err != nil {
			return nil, err
		}
		resp.IsFollowing = &isFollowing
	}

	return resp, nil
}

func (s *profileService) GetStats(ctx context.Context, userID uuid.UUID) (*dto.UserStatsResponse, error) {
	var (
		stats dto.UserStatsResponse
		err   error
	)

	if stats.TotalBlogs, err = s.blogRepo.CountByAuthor(ctx, userID, false); err != nil {
		return nil, err
	}
	if stats.PublishedBlogs, err = s.blogRepo.CountByAuthor(ctx, userID, true); err != nil {
		return nil, err
	}
	if stats.TotalViews, err = s.blogRepo.SumViews(ctx, &userID); err != nil {
		return nil, err
	}
	if stats.LikesReceived, err = s.blogRepo.CountLikesReceived(ctx, userID); err != nil {
		return nil, err
	}
	if stats.Followers, err = s.interactionRepo.CountFollowers(ctx, userID); err != nil {
		return nil, err
	}
	if stats.Following, err = s.interactionRepo.CountFollowing(ctx, userID); err != nil {
		return nil, err
	}

	return &stats, nil
}

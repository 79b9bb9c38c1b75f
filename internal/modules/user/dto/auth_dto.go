package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	blogDto "github.com/kunal592/MD-BlogApp/internal/modules/blog/dto"
	commonDto "github.com/kunal592/MD-BlogApp/pkg/dto"
)

const TokenType = "Bearer"

type GoogleSignInRequest struct {
	Credential string `json:"credential" binding:"required"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    *string   `json:"avatar"`
	Bio       *string   `json:"bio"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func FromEntity(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Avatar:    u.Avatar,
		Bio:       u.Bio,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// UpdateProfileRequest is bound from a multipart form so an avatar file can
// travel with the text fields.
type UpdateProfileRequest struct {
	Name   *string `form:"name" json:"name" binding:"omitempty,min=1,max=100"`
	Bio    *string `form:"bio" json:"bio" binding:"omitempty,max=500"`
	Avatar *string `form:"avatar" json:"avatar" binding:"omitempty,url"`
}

type PublicProfileResponse struct {
	ID             uuid.UUID              `json:"id"`
	Name           string                 `json:"name"`
	Avatar         *string                `json:"avatar"`
	Bio            *string                `json:"bio"`
	CreatedAt      time.Time              `json:"created_at"`
	FollowerCount  int64                  `json:"follower_count"`
	FollowingCount int64                  `json:"following_count"`
	IsFollowing    *bool                  `json:"is_following,omitempty"`
	Blogs          []blogDto.BlogResponse `json:"blogs"`
}

type UserStatsResponse struct {
	TotalBlogs     int64 `json:"total_blogs"`
	PublishedBlogs int64 `json:"published_blogs"`
	TotalViews     int64 `json:"total_views"`
	LikesReceived  int64 `json:"likes_received"`
	Followers      int64 `json:"followers"`
	Following      int64 `json:"following"`
}

// AvatarFile is an uploaded avatar awaiting storage.
type AvatarFile = commonDto.UploadFile

package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/kunal592/MD-BlogApp/internal/entity"
)

type ToggleLikeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

type ToggleBookmarkResponse struct {
	Bookmarked    bool  `json:"bookmarked"`
	BookmarkCount int64 `json:"bookmark_count"`
}

type FollowResponse struct {
	Following     bool  `json:"following"`
	FollowerCount int64 `json:"follower_count"`
}

type InteractionState struct {
	IsLiked      bool `json:"is_liked"`
	IsBookmarked bool `json:"is_bookmarked"`
}

type UserSummary struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar *string   `json:"avatar"`
	Bio    *string   `json:"bio"`
	Since  time.Time `json:"created_at"`
}

func UserSummaries(users []entity.User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, UserSummary{
			ID:     u.ID,
			Name:   u.Name,
			Avatar: u.Avatar,
			Bio:    u.Bio,
			Since:  u.CreatedAt,
		})
	}
	return out
}

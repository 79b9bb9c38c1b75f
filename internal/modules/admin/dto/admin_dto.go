package dto

import (
	"github.com/google/uuid"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	blogDto "github.com/kunal592/MD-BlogApp/internal/modules/blog/dto"
	commentDto "github.com/kunal592/MD-BlogApp/internal/modules/comment/dto"
	userDto "github.com/kunal592/MD-BlogApp/internal/modules/user/dto"
	commonDto "github.com/kunal592/MD-BlogApp/pkg/dto"
)

const (
	QueueAll      = "all"
	QueueComments = "comments"
	QueueReports  = "reports"
)

type ModerationQueueQuery struct {
	Type string `form:"type"`
}

type BlogSummary struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
}

type ModerationComment struct {
	commentDto.CommentResponse
	Blog *BlogSummary `json:"blog"`
}

func ModerationComments(comments []entity.Comment) []ModerationComment {
	out := make([]ModerationComment, 0, len(comments))
	for _, c := range comments {
		item := ModerationComment{CommentResponse: commentDto.FromEntity(c, 0)}
		if c.Blog != nil {
			item.Blog = &BlogSummary{ID: c.Blog.ID, Title: c.Blog.Title, Slug: c.Blog.Slug}
		}
		out = append(out, item)
	}
	return out
}

// ModerationQueueResponse leaves out the sections the caller did not ask for.
type ModerationQueueResponse struct {
	Comments *[]ModerationComment `json:"comments,omitempty"`
	Reports  *[]any               `json:"reports,omitempty"`
}

type ModerateCommentRequest struct {
	IsApproved *bool `json:"is_approved" binding:"required"`
}

type UpdateBlogRequest struct {
	IsPublished *bool     `json:"is_published"`
	IsFeatured  *bool     `json:"is_featured"`
	Tags        *[]string `json:"tags" binding:"omitempty,max=10,dive,max=40"`
}

type UpdateUserRequest struct {
	Role     *string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
	IsActive *bool   `json:"is_active"`
}

type UserFilter struct {
	commonDto.PageQuery
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=USER ADMIN"`
	IsActive *bool  `form:"is_active"`
}

type UserDetailResponse struct {
	User  userDto.UserResponse       `json:"user"`
	Stats *userDto.UserStatsResponse `json:"stats"`
}

type Overview struct {
	TotalUsers      int64   `json:"total_users"`
	TotalBlogs      int64   `json:"total_blogs"`
	PublishedBlogs  int64   `json:"published_blogs"`
	DraftBlogs      int64   `json:"draft_blogs"`
	TotalLikes      int64   `json:"total_likes"`
	TotalBookmarks  int64   `json:"total_bookmarks"`
	TotalComments   int64   `json:"total_comments"`
	PendingComments int64   `json:"pending_comments"`
	TotalReports    int64   `json:"total_reports"`
	OpenContacts    int64   `json:"open_contacts"`
	UserGrowth      float64 `json:"user_growth"`
}

type RecentActivity struct {
	RecentUsers []userDto.UserResponse `json:"recent_users"`
	RecentBlogs []blogDto.BlogResponse `json:"recent_blogs"`
	TopBlogs    []blogDto.BlogResponse `json:"top_blogs"`
}

type StatsResponse struct {
	Overview       Overview           `json:"overview"`
	RecentActivity RecentActivity     `json:"recent_activity"`
	TrendingTags   []blogDto.TagCount `json:"trending_tags"`
}

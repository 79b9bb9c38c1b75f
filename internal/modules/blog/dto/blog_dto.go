package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	commonDto "github.com/kunal592/MD-BlogApp/pkg/dto"
)

const (
	SortCreatedAt = "created_at"
	SortUpdatedAt = "updated_at"
	SortViewCount = "view_count"
	SortTitle     = "title"

	StatusAll       = "all"
	StatusPublished = "published"
	StatusDraft     = "draft"
)

type BlogFilter struct {
	commonDto.PageQuery
	Search    string `form:"search"`
	Tag       string `form:"tag"`
	Author    string `form:"author" binding:"omitempty,uuid"`
	Featured  *bool  `form:"featured"`
	Published *bool  `form:"published"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=created_at updated_at view_count title"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`

	// PublishedOnly is set by the service, never bound from the query.
	PublishedOnly bool `form:"-"`
}

type MyBlogsFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=all published draft"`
}

type CreateBlogRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Content     string   `json:"content" binding:"required"`
	Excerpt     *string  `json:"excerpt"`
	CoverImage  *string  `json:"cover_image"`
	Tags        []string `json:"tags" binding:"omitempty,max=10,dive,max=40"`
	IsPublished bool     `json:"is_published"`
	IsFeatured  bool     `json:"is_featured"`
}

type UpdateBlogRequest struct {
	Title       *string   `json:"title" binding:"omitempty,min=1,max=255"`
	Content     *string   `json:"content" binding:"omitempty,min=1"`
	Excerpt     *string   `json:"excerpt"`
	CoverImage  *string   `json:"cover_image"`
	Tags        *[]string `json:"tags" binding:"omitempty,max=10,dive,max=40"`
	IsPublished *bool     `json:"is_published"`
	IsFeatured  *bool     `json:"is_featured"`
}

type SummarizeRequest struct {
	Content string `json:"content" binding:"required"`
}

type SummarizeResponse struct {
	Summary *string `json:"summary"`
}

// Counts are derived at query time, never stored.
type Counts struct {
	Likes     int64 `json:"likes"`
	Bookmarks int64 `json:"bookmarks"`
	Comments  int64 `json:"comments"`
}

type BlogResponse struct {
	ID           uuid.UUID                 `json:"id"`
	Title        string                    `json:"title"`
	Slug         string                    `json:"slug"`
	Content      string                    `json:"content,omitempty"`
	Excerpt      *string                   `json:"excerpt"`
	Summary      *string                   `json:"summary"`
	CoverImage   *string                   `json:"cover_image"`
	Tags         []string                  `json:"tags"`
	IsPublished  bool                      `json:"is_published"`
	IsFeatured   bool                      `json:"is_featured"`
	ViewCount    int64                     `json:"view_count"`
	ReadTime     int                       `json:"read_time"`
	Author       *commonDto.AuthorResponse `json:"author,omitempty"`
	Counts       Counts                    `json:"counts"`
	IsLiked      *bool                     `json:"is_liked,omitempty"`
	IsBookmarked *bool                     `json:"is_bookmarked,omitempty"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

func Author(u *entity.User) *commonDto.AuthorResponse {
	if u == nil {
		return nil
	}
	return &commonDto.AuthorResponse{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

// FromEntity maps a blog with its full content.
func FromEntity(b entity.Blog, counts Counts) BlogResponse {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	return BlogResponse{
		ID:          b.ID,
		Title:       b.Title,
		Slug:        b.Slug,
		Content:     b.Content,
		Excerpt:     b.Excerpt,
		Summary:     b.Summary,
		CoverImage:  b.CoverImage,
		Tags:        tags,
		IsPublished: b.IsPublished,
		IsFeatured:  b.IsFeatured,
		ViewCount:   b.ViewCount,
		ReadTime:    b.ReadTime,
		Author:      Author(b.Author),
		Counts:      counts,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// ListItems maps blogs for list views, which leave the body out.
func ListItems(blogs []entity.Blog, counts map[uuid.UUID]Counts) []BlogResponse {
	out := make([]BlogResponse, 0, len(blogs))
	for _, b := range blogs {
		item := FromEntity(b, counts[b.ID])
		item.Content = ""
		out = append(out, item)
	}
	return out
}

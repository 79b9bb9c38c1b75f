package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	commonDto "github.com/kunal592/MD-BlogApp/pkg/dto"
)

type CreateCommentRequest struct {
	Content  string  `json:"content" binding:"required,max=5000"`
	ParentID *string `json:"parent_id" binding:"omitempty,uuid"`
}

type CommentResponse struct {
	ID         uuid.UUID                 `json:"id"`
	Content    string                    `json:"content"`
	BlogID     uuid.UUID                 `json:"blog_id"`
	ParentID   *uuid.UUID                `json:"parent_id"`
	IsApproved bool                      `json:"is_approved"`
	Author     *commonDto.AuthorResponse `json:"author"`
	LikeCount  int64                     `json:"like_count"`
	CreatedAt  time.Time                 `json:"created_at"`
	UpdatedAt  time.Time                 `json:"updated_at"`
}

type CommentNode struct {
	CommentResponse
	Replies []*CommentNode `json:"replies"`
}

// CommentListResponse carries the flat newest-first list and the same
// comments arranged by parent links.
type CommentListResponse struct {
	Comments []CommentResponse `json:"comments"`
	Tree     []*CommentNode    `json:"tree"`
	Total    int               `json:"total"`
}

func FromEntity(c entity.Comment, likes int64) CommentResponse {
	resp := CommentResponse{
		ID:         c.ID,
		Content:    c.Content,
		BlogID:     c.BlogID,
		ParentID:   c.ParentID,
		IsApproved: c.IsApproved,
		LikeCount:  likes,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	if c.User != nil {
		resp.Author = &commonDto.AuthorResponse{ID: c.User.ID, Name: c.User.Name, Avatar: c.User.Avatar}
	}
	return resp
}

// BuildTree nests comments under their parents at any depth. A comment
// whose parent is not in the list becomes a root. Sibling order follows
// the input order.
func BuildTree(comments []CommentResponse) []*CommentNode {
	nodes := make(map[uuid.UUID]*CommentNode, len(comments))
	for _, c := range comments {
		nodes[c.ID] = &CommentNode{CommentResponse: c, Replies: []*CommentNode{}}
	}

	roots := make([]*CommentNode, 0)
	for _, c := range comments {
		node := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok && parent != node {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

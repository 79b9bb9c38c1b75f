package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	commentDto "github.com/kunal592/MD-BlogApp/internal/modules/comment/dto"
	comment "github.com/kunal592/MD-BlogApp/internal/modules/comment/service"
	"github.com/kunal592/MD-BlogApp/pkg/response"
)

type CommentHandler struct {
	service comment.CommentService
}

func NewCommentHandler(service comment.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func blogRef(c *gin.Context) (comment.BlogRef, bool) {
	if slug := c.Param("slug"); slug != "" {
		return comment.BySlug(slug), true
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid blog id")
		return comment.BlogRef{}, false
	}
	return comment.ByID(id), true
}

// CreateComment serves both /blogs/:id/comments and /blogs/slug/:slug/comments.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	ref, ok := blogRef(c)
	if !ok {
		return
	}

	var req commentDto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), userID, ref, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Created(c, "comment created", created)
}

func (h *CommentHandler) GetComments(c *gin.Context) {
	ref, ok := blogRef(c)
	if !ok {
		return
	}

	list, err := h.service.List(c.Request.Context(), response.OptionalActor(c), ref)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, list)
}

func (h *CommentHandler) ToggleLike(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid comment id")
		return
	}

	resp, err := h.service.ToggleLike(c.Request.Context(), userID, commentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, resp)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid comment id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, response.GetUserRole(c), commentID); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, "comment deleted")
}

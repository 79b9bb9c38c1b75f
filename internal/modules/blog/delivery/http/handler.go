package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	blogDto "github.com/kunal592/MD-BlogApp/internal/modules/blog/dto"
	blog "github.com/kunal592/MD-BlogApp/internal/modules/blog/service"
	"github.com/kunal592/MD-BlogApp/pkg/response"
)

type BlogHandler struct {
	service blog.BlogService
}

func NewBlogHandler(service blog.BlogService) *BlogHandler {
	return &BlogHandler{service: service}
}

func blogID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid blog id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *BlogHandler) ListBlogs(c *gin.Context) {
	var filter blogDto.BlogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, page)
}

func (h *BlogHandler) GetBlogBySlug(c *gin.Context) {
	resp, err := h.service.GetBySlug(c.Request.Context(), response.OptionalActor(c), c.Param("slug"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, resp)
}

func (h *BlogHandler) GetBlog(c *gin.Context) {
	id, ok := blogID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), response.OptionalActor(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, resp)
}

func (h *BlogHandler) CreateBlog(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req blogDto.CreateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Created(c, "blog created", created)
}

func (h *BlogHandler) UpdateBlog(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := blogID(c)
	if !ok {
		return
	}

	var req blogDto.UpdateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.WithMessage(c, "blog updated", updated)
}

func (h *BlogHandler) DeleteBlog(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := blogID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, "blog deleted")
}

func (h *BlogHandler) setPublished(c *gin.Context, published bool) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := blogID(c)
	if !ok {
		return
	}

	updated, err := h.service.SetPublished(c.Request.Context(), actor, id, published)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	msg := "blog unpublished"
	if published {
		msg = "blog published"
	}
	response.WithMessage(c, msg, updated)
}

func (h *BlogHandler) PublishBlog(c *gin.Context) {
	h.setPublished(c, true)
}

func (h *BlogHandler) UnpublishBlog(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *BlogHandler) GetMyBlogs(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var filter blogDto.MyBlogsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	blogs, err := h.service.MyBlogs(c.Request.Context(), userID, filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, blogs)
}

func (h *BlogHandler) Summarize(c *gin.Context) {
	var req blogDto.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	response.OK(c, h.service.Summarize(c.Request.Context(), req.Content))
}

func (h *BlogHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if limit < 0 || limit > 50 {
		response.Fail(c, http.StatusBadRequest, "limit must be between 1 and 50")
		return
	}

	blogs, err := h.service.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, blogs)
}

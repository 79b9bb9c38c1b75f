package handler

import (
	"github.com/gin-gonic/gin"

	feedDto "github.com/kunal592/MD-BlogApp/internal/modules/feed/dto"
	feed "github.com/kunal592/MD-BlogApp/internal/modules/feed/service"
	"github.com/kunal592/MD-BlogApp/pkg/response"
)

type FeedHandler struct {
	service feed.FeedService
}

func NewFeedHandler(service feed.FeedService) *FeedHandler {
	return &FeedHandler{service: service}
}

func (h *FeedHandler) GetFeed(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var q feedDto.FeedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	blogs, err := h.service.GetFeed(c.Request.Context(), userID, q.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, blogs)
}

func (h *FeedHandler) GetTrending(c *gin.Context) {
	blogs, err := h.service.GetTrending(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, blogs)
}

func (h *FeedHandler) GetTags(c *gin.Context) {
	tags, err := h.service.GetTags(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, tags)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	interaction "github.com/kunal592/MD-BlogApp/internal/modules/interaction/service"
	"github.com/kunal592/MD-BlogApp/pkg/response"
)

type InteractionHandler struct {
	service interaction.InteractionService
}

func NewInteractionHandler(service interaction.InteractionService) *InteractionHandler {
	return &InteractionHandler{service: service}
}

// actorAndID reads the authenticated user and the :id path parameter,
// answering the request itself when either is missing.
func actorAndID(c *gin.Context, what string) (uuid.UUID, uuid.UUID, bool) {
	actorID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid "+what+" id")
		return uuid.Nil, uuid.Nil, false
	}
	return actorID, id, true
}

func (h *InteractionHandler) ToggleLike(c *gin.Context) {
	actorID, blogID, ok := actorAndID(c, "blog")
	if !ok {
		return
	}

	resp, err := h.service.ToggleLike(c.Request.Context(), actorID, blogID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, resp)
}

func (h *InteractionHandler) ToggleBookmark(c *gin.Context) {
	actorID, blogID, ok := actorAndID(c, "blog")
	if !ok {
		return
	}

	resp, err := h.service.ToggleBookmark(c.Request.Context(), actorID, blogID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, resp)
}

func (h *InteractionHandler) GetState(c *gin.Context) {
	actorID, blogID, ok := actorAndID(c, "blog")
	if !ok {
		return
	}

	state, err := h.service.State(c.Request.Context(), actorID, blogID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, state)
}

func (h *InteractionHandler) Follow(c *gin.Context) {
	actorID, targetID, ok := actorAndID(c, "user")
	if !ok {
		return
	}

	resp, err := h.service.Follow(c.Request.Context(), actorID, targetID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.WithMessage(c, "user followed", resp)
}

func (h *InteractionHandler) Unfollow(c *gin.Context) {
	actorID, targetID, ok := actorAndID(c, "user")
	if !ok {
		return
	}

	resp, err := h.service.Unfollow(c.Request.Context(), actorID, targetID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.WithMessage(c, "user unfollowed", resp)
}

func (h *InteractionHandler) GetFollowers(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}

	users, err := h.service.Followers(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, users)
}

func (h *InteractionHandler) GetFollowing(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}

	users, err := h.service.Following(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, users)
}

func (h *InteractionHandler) GetLikedBlogs(c *gin.Context) {
	actorID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	blogs, err := h.service.LikedBlogs(c.Request.Context(), actorID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, blogs)
}

func (h *InteractionHandler) GetBookmarkedBlogs(c *gin.Context) {
	actorID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	blogs, err := h.service.BookmarkedBlogs(c.Request.Context(), actorID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, blogs)
}

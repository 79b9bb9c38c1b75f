package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	adminDto "github.com/kunal592/MD-BlogApp/internal/modules/admin/dto"
	admin "github.com/kunal592/MD-BlogApp/internal/modules/admin/service"
	blogDto "github.com/kunal592/MD-BlogApp/internal/modules/blog/dto"
	"github.com/kunal592/MD-BlogApp/pkg/response"
)

type AdminHandler struct {
	adminService admin.AdminService
}

func NewAdminHandler(adminService admin.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func parseID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid "+what+" id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *AdminHandler) GetModerationQueue(c *gin.Context) {
	var q adminDto.ModerationQueueQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	queue, err := h.adminService.GetModerationQueue(c.Request.Context(), q.Type)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, queue)
}

func (h *AdminHandler) ModerateComment(c *gin.Context) {
	id, ok := parseID(c, "comment")
	if !ok {
		return
	}

	var req adminDto.ModerateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	comment, err := h.adminService.ModerateComment(c.Request.Context(), id, *req.IsApproved)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	message := "comment rejected successfully"
	if *req.IsApproved {
		message = "comment approved successfully"
	}
	response.WithMessage(c, message, comment)
}

func (h *AdminHandler) ListBlogs(c *gin.Context) {
	var filter blogDto.BlogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	page, err := h.adminService.ListBlogs(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, page)
}

func (h *AdminHandler) UpdateBlog(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := parseID(c, "blog")
	if !ok {
		return
	}

	var req adminDto.UpdateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	updated, err := h.adminService.UpdateBlog(c.Request.Context(), actor, id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.WithMessage(c, "blog updated successfully", updated)
}

func (h *AdminHandler) DeleteBlog(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := parseID(c, "blog")
	if !ok {
		return
	}

	if err := h.adminService.DeleteBlog(c.Request.Context(), actor, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, "blog deleted successfully")
}

func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	var filter adminDto.UserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	page, err := h.adminService.ListUsers(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, page)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}

	detail, err := h.adminService.GetUser(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, detail)
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := parseID(c, "user")
	if !ok {
		return
	}

	var req adminDto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	updated, err := h.adminService.UpdateUserRole(c.Request.Context(), actor, id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.WithMessage(c, "user updated successfully", updated)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := parseID(c, "user")
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), actor, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, "user deleted successfully")
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetStats(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, stats)
}

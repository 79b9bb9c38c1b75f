package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kunal592/MD-BlogApp/internal/modules/contact/dto"
	contact "github.com/kunal592/MD-BlogApp/internal/modules/contact/service"
	"github.com/kunal592/MD-BlogApp/pkg/response"
)

type ContactHandler struct {
	service contact.ContactService
}

func NewContactHandler(service contact.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

func (h *ContactHandler) CreateContactRequest(c *gin.Context) {
	var req dto.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Created(c, "your request has been submitted successfully", created)
}

func (h *ContactHandler) ListContactRequests(c *gin.Context) {
	var filter dto.ContactFilter
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

func (h *ContactHandler) ResolveContactRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid contact request id")
		return
	}

	var req dto.ResolveContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	updated, err := h.service.SetResolved(c.Request.Context(), id, *req.IsResolved)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.WithMessage(c, "contact request updated successfully", updated)
}

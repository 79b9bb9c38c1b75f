package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	media "github.com/kunal592/MD-BlogApp/internal/modules/media/service"
	commonDto "github.com/kunal592/MD-BlogApp/pkg/dto"
	"github.com/kunal592/MD-BlogApp/pkg/response"
)

type MediaHandler struct {
	service media.MediaService
}

func NewMediaHandler(service media.MediaService) *MediaHandler {
	return &MediaHandler{service: service}
}

func (h *MediaHandler) UploadImage(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "failed to read file")
		return
	}
	defer file.Close()

	uploaded, err := h.service.UploadImage(c.Request.Context(), userID, commonDto.UploadFile{
		Reader:   file,
		FileName: fileHeader.Filename,
	}, fileHeader.Size)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Created(c, "image uploaded", uploaded)
}

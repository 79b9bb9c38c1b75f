package dto

import (
	commonDto "github.com/kunal592/MD-BlogApp/pkg/dto"
)

type CreateContactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email,max=255"`
	Message string `json:"message" binding:"required,max=5000"`
}

type ContactFilter struct {
	commonDto.PageQuery
	Resolved *bool `form:"resolved"`
}

type ResolveContactRequest struct {
	IsResolved *bool `json:"is_resolved" binding:"required"`
}

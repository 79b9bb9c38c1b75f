package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	goValidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kunal592/MD-BlogApp/pkg/apperror"
	"github.com/kunal592/MD-BlogApp/pkg/dto"
	"github.com/kunal592/MD-BlogApp/pkg/ratelimiter"
	"github.com/kunal592/MD-BlogApp/pkg/validator"
)

const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

// Envelope is the body shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	s, ok := userIDStr.(string)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// OptionalUserID returns nil for anonymous requests.
func OptionalUserID(c *gin.Context) *uuid.UUID {
	userID, err := GetUserID(c)
	if err != nil {
		return nil
	}
	return &userID
}

func GetUserRole(c *gin.Context) string {
	return c.GetString(ContextUserRole)
}

func GetActor(c *gin.Context) (dto.Actor, error) {
	userID, err := GetUserID(c)
	if err != nil {
		return dto.Actor{}, err
	}
	return dto.Actor{ID: userID, Role: GetUserRole(c)}, nil
}

// OptionalActor returns nil for anonymous requests.
func OptionalActor(c *gin.Context) *dto.Actor {
	actor, err := GetActor(c)
	if err != nil {
		return nil
	}
	return &actor
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

func WithMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes an error envelope with an explicit status.
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, Envelope{Success: false, Message: message})
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	var validationErrs goValidator.ValidationErrors
	if errors.As(err, &validationErrs) {
		Fail(c, http.StatusBadRequest, validator.FormatValidationError(validationErrs))
		return
	}

	var rateLimitErr *ratelimiter.RateLimitError
	if errors.As(err, &rateLimitErr) {
		c.Header("Retry-After", fmt.Sprintf("%.0f", rateLimitErr.RetryAfter.Seconds()))
		Fail(c, http.StatusTooManyRequests, rateLimitErr.Message)
		return
	}

	code := apperror.MapErrorToStatus(err)
	if code == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("internal error")
		Fail(c, code, "internal server error")
		return
	}

	Fail(c, code, err.Error())
}

// BindError answers a request whose body or query failed to bind.
func BindError(c *gin.Context, err error) {
	var validationErrs goValidator.ValidationErrors
	if errors.As(err, &validationErrs) {
		Fail(c, http.StatusBadRequest, validator.FormatValidationError(validationErrs))
		return
	}
	Fail(c, http.StatusBadRequest, err.Error())
}

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	userRepo "github.com/kunal592/MD-BlogApp/internal/modules/user/repository"
	"github.com/kunal592/MD-BlogApp/pkg/apperror"
	"github.com/kunal592/MD-BlogApp/pkg/identity"
	"github.com/kunal592/MD-BlogApp/pkg/response"
)

const AccessTokenCookie = "accessToken"

var errNoToken = errors.New("authorization required")

type AuthMiddleware struct {
	userRepo userRepo.UserRepository
	tokens   *identity.TokenIssuer
}

func NewAuthMiddleware(userRepo userRepo.UserRepository, tokens *identity.TokenIssuer) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// tokenFrom checks the Authorization header, then the session cookie, then
// the "token" query parameter used by websocket clients.
func tokenFrom(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	return c.Query("token")
}

func (m *AuthMiddleware) authenticate(c *gin.Context) (*entity.User, error) {
	tokenString := tokenFrom(c)
	if tokenString == "" {
		return nil, errNoToken
	}

	subject, err := m.tokens.Parse(tokenString)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, identity.ErrInvalidToken
	}

	user, err := m.userRepo.FindByID(c.Request.Context(), userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func setIdentity(c *gin.Context, user *entity.User) {
	c.Set(response.ContextUserID, user.ID.String())
	c.Set(response.ContextUserRole, user.Role)
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.authenticate(c)
		if err != nil {
			switch {
			case errors.Is(err, errNoToken):
				response.Fail(c, http.StatusUnauthorized, errNoToken.Error())
			case errors.Is(err, apperror.ErrNotFound):
				response.Fail(c, http.StatusUnauthorized, "user not found")
			case errors.Is(err, identity.ErrInvalidToken):
				response.Fail(c, http.StatusUnauthorized, identity.ErrInvalidToken.Error())
			default:
				response.ResponseError(c, err)
			}
			c.Abort()
			return
		}

		if !user.IsActive {
			response.Fail(c, http.StatusForbidden, "account is deactivated")
			c.Abort()
			return
		}

		setIdentity(c, user)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through otherwise.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := m.authenticate(c); err == nil && user.IsActive {
			setIdentity(c, user)
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(response.ContextUserID); !exists {
			response.Fail(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		if response.GetUserRole(c) != entity.RoleAdmin {
			response.Fail(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

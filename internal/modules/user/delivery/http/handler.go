package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kunal592/MD-BlogApp/internal/middleware"
	"github.com/kunal592/MD-BlogApp/internal/modules/user/dto"
	user "github.com/kunal592/MD-BlogApp/internal/modules/user/service"
	"github.com/kunal592/MD-BlogApp/pkg/response"
)

const oauthStateCookie = "oauth_state"

type UserHandler struct {
	authService    user.AuthService
	profileService user.ProfileService
	frontendURL    string
	secureCookies  bool
}

func NewUserHandler(authService user.AuthService, profileService user.ProfileService, frontendURL string, secureCookies bool) *UserHandler {
	return &UserHandler{
		authService:    authService,
		profileService: profileService,
		frontendURL:    strings.TrimRight(frontendURL, "/"),
		secureCookies:  secureCookies,
	}
}

func (h *UserHandler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.secureCookies, true)
}

func (h *UserHandler) setSession(c *gin.Context, auth *dto.AuthResponse) {
	h.setCookie(c, middleware.AccessTokenCookie, auth.AccessToken, int(time.Until(auth.ExpiresAt).Seconds()))
}

// GoogleSignIn exchanges a Google ID token posted by the frontend.
func (h *UserHandler) GoogleSignIn(c *gin.Context) {
	var req dto.GoogleSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	auth, err := h.authService.GoogleSignIn(c.Request.Context(), req.Credential)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	h.setSession(c, auth)
	response.OK(c, auth)
}

func (h *UserHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	target, err := h.authService.GoogleLoginURL(state)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	h.setCookie(c, oauthStateCookie, state, 600)
	c.Redirect(http.StatusTemporaryRedirect, target)
}

// GoogleCallback finishes the redirect login and hands the token to the
// frontend.
func (h *UserHandler) GoogleCallback(c *gin.Context) {
	expected, _ := c.Cookie(oauthStateCookie)
	h.setCookie(c, oauthStateCookie, "", -1)

	if expected == "" || c.Query("state") != expected {
		h.redirectError(c, "invalid oauth state")
		return
	}

	auth, err := h.authService.GoogleCallback(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.redirectError(c, err.Error())
		return
	}

	h.setSession(c, auth)
	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/auth/google/callback?token="+url.QueryEscape(auth.AccessToken))
}

func (h *UserHandler) redirectError(c *gin.Context, message string) {
	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/login?error="+url.QueryEscape(message))
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	me, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, gin.H{"user": me})
}

func (h *UserHandler) Logout(c *gin.Context) {
	h.setCookie(c, middleware.AccessTokenCookie, "", -1)
	response.Message(c, "logged out successfully")
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindError(c, err)
		return
	}

	var avatar *dto.AvatarFile
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if fileHeader, err := c.FormFile("avatar_file"); err == nil && fileHeader != nil {
			file, err := fileHeader.Open()
			if err != nil {
				response.Fail(c, http.StatusBadRequest, "failed to read avatar")
				return
			}
			defer file.Close()

			avatar = &dto.AvatarFile{
				Reader:   file,
				FileName: fileHeader.Filename,
			}
		}
	}

	updated, err := h.profileService.UpdateProfile(c.Request.Context(), userID, req, avatar)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.WithMessage(c, "profile updated", updated)
}

func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}

	profile, err := h.profileService.GetPublicProfile(c.Request.Context(), response.OptionalUserID(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, profile)
}

func (h *UserHandler) GetStats(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	stats, err := h.profileService.GetStats(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, stats)
}

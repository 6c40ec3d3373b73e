package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dorincreciun/go-pizza-api/internal/auth"
	"github.com/dorincreciun/go-pizza-api/internal/httpx"
	"github.com/dorincreciun/go-pizza-api/internal/middleware"
)

const (
	refreshCookieName = "refreshToken"
	maxImageSize      = 5 * 1024 * 1024
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler adapts the session service to HTTP. It owns the refresh
// cookie; the service itself only ever sees plain token values.
type AuthHandler struct {
	Sessions     *auth.Service
	RefreshTTL   time.Duration
	CookieSecure bool
	Log          *zap.Logger
}

func NewAuthHandler(sessions *auth.Service, refreshTTL time.Duration, cookieSecure bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		Sessions:     sessions,
		RefreshTTL:   refreshTTL,
		CookieSecure: cookieSecure,
		Log:          log,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, h.Log, httpx.BadRequest("email and password are required and email must be valid"))
		return
	}
	if problems := auth.ValidatePassword(req.Password); len(problems) > 0 {
		httpx.Error(c, h.Log, httpx.BadRequest(strings.Join(problems, "; ")))
		return
	}

	sess, err := h.Sessions.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Error(c, h.Log, err)
		return
	}

	h.setRefreshCookie(c, sess.RefreshToken)
	httpx.Data(c, http.StatusCreated, gin.H{
		"accessToken": sess.AccessToken,
		"user":        sess.User,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, h.Log, httpx.BadRequest("email and password are required and email must be valid"))
		return
	}

	sess, err := h.Sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Error(c, h.Log, err)
		return
	}

	h.setRefreshCookie(c, sess.RefreshToken)
	httpx.Data(c, http.StatusOK, gin.H{
		"accessToken": sess.AccessToken,
		"user":        sess.User,
	})
}

// Refresh reads the token only from the cookie, never from the body.
func (h *AuthHandler) Refresh(c *gin.Context) {
	raw, err := c.Cookie(refreshCookieName)
	if err != nil || raw == "" {
		httpx.Error(c, h.Log, httpx.Unauthorized("refresh token cookie missing"))
		return
	}

	access, refresh, err := h.Sessions.Refresh(c.Request.Context(), raw)
	if err != nil {
		h.clearRefreshCookie(c)
		httpx.Error(c, h.Log, err)
		return
	}

	h.setRefreshCookie(c, refresh)
	httpx.Data(c, http.StatusOK, gin.H{"accessToken": access})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	raw, _ := c.Cookie(refreshCookieName)
	h.Sessions.Logout(c.Request.Context(), raw)
	h.clearRefreshCookie(c)
	httpx.Data(c, http.StatusOK, gin.H{"message": "logout successful"})
}

func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		httpx.Error(c, h.Log, httpx.Unauthorized("user not found in context"))
		return
	}
	httpx.Data(c, http.StatusOK, u)
}

// UpdateProfile accepts multipart form data: optional firstName and
// lastName fields plus an optional profileImage file.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		httpx.Error(c, h.Log, httpx.Unauthorized("user not found in context"))
		return
	}

	var upd auth.ProfileUpdate
	if v, present := c.GetPostForm("firstName"); present {
		upd.FirstName = &v
	}
	if v, present := c.GetPostForm("lastName"); present {
		upd.LastName = &v
	}

	img, err := h.readImage(c)
	if err != nil {
		httpx.Error(c, h.Log, err)
		return
	}

	resp, err := h.Sessions.UpdateProfile(c.Request.Context(), u.ID, upd, img)
	if err != nil {
		httpx.Error(c, h.Log, err)
		return
	}
	httpx.Data(c, http.StatusOK, resp)
}

func (h *AuthHandler) readImage(c *gin.Context) (*auth.ImageUpload, error) {
	file, err := c.FormFile("profileImage")
	if err != nil {
		// No file part, or no multipart body at all (profile fields may
		// come as ordinary form values). Anything else is a broken body.
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, httpx.BadRequest("invalid multipart body")
	}

	if file.Size > maxImageSize {
		return nil, httpx.BadRequest("image must not exceed 5MB")
	}
	contentType := strings.ToLower(file.Header.Get("Content-Type"))
	if !allowedImageTypes[contentType] {
		return nil, httpx.BadRequest("unsupported image type; accepted: JPG, PNG, WEBP, GIF")
	}

	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, httpx.BadRequest("image file is empty")
	}
	if len(data) > maxImageSize {
		return nil, httpx.BadRequest("image must not exceed 5MB")
	}

	return &auth.ImageUpload{Data: data, ContentType: contentType}, nil
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, raw string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, raw, int(h.RefreshTTL.Seconds()), "/", "", h.CookieSecure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, "", -1, "/", "", h.CookieSecure, true)
}

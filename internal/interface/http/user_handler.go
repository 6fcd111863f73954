package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/jobboard-api/internal/application"
	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	"github.com/oksasatya/jobboard-api/internal/interface/middleware"
	"github.com/oksasatya/jobboard-api/pkg/helpers"
	"github.com/oksasatya/jobboard-api/pkg/validation"
)

// UserService is the account surface the handler needs; *app.UserService implements it.
type UserService interface {
	Register(ctx context.Context, in app.RegisterInput) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*entity.User, app.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (app.TokenPair, error)
	Logout(ctx context.Context, userID string)
	GetProfile(ctx context.Context, userID string) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID string, in app.UpdateProfileInput) (*entity.User, error)
	UploadImage(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error)
}

type UserHandler struct {
	Svc           UserService
	Logger        *logrus.Logger
	Cookies       *helpers.CookieJar
	MaxImageBytes int64
}

func NewUserHandler(svc UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool, maxImageBytes int64) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookieJar(cookieDomain, cookieSecure), MaxImageBytes: maxImageBytes}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"omitempty,phone"`
	Password string `json:"password" binding:"required,pwd"`
	Bio      string `json:"bio" binding:"max=2000"`
	Location string `json:"location" binding:"max=200"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=120"`
	Phone    *string `json:"phone" binding:"omitempty,phone"`
	Bio      *string `json:"bio" binding:"omitempty,max=2000"`
	Location *string `json:"location" binding:"omitempty,max=200"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), app.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Bio:      req.Bio,
		Location: req.Location,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	ok(c, http.StatusCreated, toUserResponse(u), "account created", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetTokens(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	ok(c, http.StatusOK, toUserResponse(u), "login successful", gin.H{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.RefreshTokenCookie)
	if err != nil || refresh == "" {
		fail(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		fail(c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetTokens(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	ok(c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", gin.H{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	h.Svc.Logout(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	h.Cookies.Clear(c)
	ok(c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	ok(c, http.StatusOK, toUserResponse(u), "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), app.UpdateProfileInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Bio:      req.Bio,
		Location: req.Location,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	ok(c, http.StatusOK, toUserResponse(u), "profile updated", nil)
}

// UploadImage accepts a multipart "file" field.
func (h *UserHandler) UploadImage(c *gin.Context) {
	if h.MaxImageBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxImageBytes+1<<10)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "file is required", nil)
		return
	}
	if h.MaxImageBytes > 0 && fh.Size > h.MaxImageBytes {
		fail(c, http.StatusRequestEntityTooLarge, "file too large", gin.H{"max_bytes": h.MaxImageBytes})
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "cannot read file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadImage(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"image_url": url}, "image uploaded", nil)
}

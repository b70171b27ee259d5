package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/porter/core"
	"github.com/layer-3/porter/service"
)

const (
	// AccessCookie is the cookie name carrying the access token
	AccessCookie = "accessToken"

	// RefreshCookie is the cookie name carrying the refresh token
	RefreshCookie = "refreshToken"
)

// CookieConfig controls the token cookies. MaxAges must equal the token
// expiration windows; Secure is gated by the production setting.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Handlers contains the HTTP handlers for the auth and user endpoints
type Handlers struct {
	auth    *service.AuthService
	users   *service.UserService
	cookies CookieConfig
}

// NewHandlers creates new HTTP handlers
func NewHandlers(auth *service.AuthService, users *service.UserService, cookies CookieConfig) *Handlers {
	return &Handlers{auth: auth, users: users, cookies: cookies}
}

// Nonce handles GET /auth/nonce?address=
func (h *Handlers) Nonce(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}

	result, err := h.auth.GetNonce(c.Request.Context(), address)
	if err != nil {
		status, msg := statusFromError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, result)
}

// SignIn handles POST /auth/sign-in
func (h *Handlers) SignIn(c *gin.Context) {
	var req struct {
		Message   string `json:"message" binding:"required"`
		Signature string `json:"signature" binding:"required"`
		Nonce     string `json:"nonce" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.auth.SignIn(c.Request.Context(), service.SignInInput{
		Message:   req.Message,
		Signature: req.Signature,
		Nonce:     req.Nonce,
	})
	if err != nil {
		status, msg := statusFromError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	h.setTokenCookie(c, AccessCookie, result.AccessToken, h.cookies.AccessTTL)
	h.setTokenCookie(c, RefreshCookie, result.RefreshToken, h.cookies.RefreshTTL)

	c.JSON(http.StatusOK, gin.H{
		"address":     result.Address,
		"accessToken": result.AccessToken,
	})
}

// Refresh handles POST /auth/refresh
func (h *Handlers) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(RefreshCookie)
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refresh token cookie is required"})
		return
	}

	accessToken, err := h.auth.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		status, msg := statusFromError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	h.setTokenCookie(c, AccessCookie, accessToken, h.cookies.AccessTTL)

	c.JSON(http.StatusCreated, gin.H{"accessToken": accessToken})
}

// SignOut handles POST /auth/sign-out
func (h *Handlers) SignOut(c *gin.Context) {
	if accessToken, err := c.Cookie(AccessCookie); err == nil && accessToken != "" {
		if err := h.auth.SignOutToken(c.Request.Context(), accessToken); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign out"})
			return
		}
	}

	h.clearTokenCookie(c, AccessCookie)
	h.clearTokenCookie(c, RefreshCookie)

	c.Status(http.StatusNoContent)
}

// Session handles GET /auth/session; the access guard has already
// resolved the identity
func (h *Handlers) Session(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Profile handles GET /user/profile
func (h *Handlers) Profile(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	profile, err := h.users.Profile(c.Request.Context(), user.ID)
	if err != nil {
		status, msg := statusFromError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /user/profile
func (h *Handlers) UpdateProfile(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req service.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), user.ID, req)
	if err != nil {
		status, msg := statusFromError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handlers) setTokenCookie(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetCookie(name, value, int(ttl.Seconds()), "/", "", h.cookies.Secure, true)
}

func (h *Handlers) clearTokenCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, "/", "", h.cookies.Secure, true)
}

// currentUser returns the identity attached by the access guard
func currentUser(c *gin.Context) *core.User {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*core.User)
	if !ok {
		return nil
	}
	return user
}

package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/snacks-api/internal/constants"
	"github.com/yukikurage/snacks-api/internal/dto"
	apierrors "github.com/yukikurage/snacks-api/internal/errors"
	"github.com/yukikurage/snacks-api/internal/middleware"
	"github.com/yukikurage/snacks-api/internal/services"
)

// ProxyIdentity names the headers the upstream auth proxy sets on the callback.
type ProxyIdentity struct {
	UserHeader string
	NameHeader string
	// SecretHeader must carry Secret when Secret is not empty
	SecretHeader string
	Secret       string
}

// AuthHandler turns the identity asserted by the auth proxy into a session.
type AuthHandler struct {
	userService *services.UserService
	identity    ProxyIdentity
}

// NewAuthHandler creates a new AuthHandler reading identity from the given headers.
func NewAuthHandler(userService *services.UserService, identity ProxyIdentity) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		identity:    identity,
	}
}

// Callback finds or creates the user for the proxied identity and starts a session.
// Without a proxy secret the identity headers are trusted as sent, so the
// route must only be reachable through the auth proxy.
func (h *AuthHandler) Callback(c *gin.Context) {
	if !h.fromProxy(c) {
		slog.Warn("Callback rejected without proxy secret", "client_ip", c.ClientIP())
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.userService.FindOrCreateByUID(c.GetHeader(h.identity.UserHeader), c.GetHeader(h.identity.NameHeader))
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	slog.Info("User signed in", "user_id", user.ID)
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func (h *AuthHandler) fromProxy(c *gin.Context) bool {
	if h.identity.Secret == "" {
		return true
	}
	sent := c.GetHeader(h.identity.SecretHeader)
	return subtle.ConstantTimeCompare([]byte(sent), []byte(h.identity.Secret)) == 1
}

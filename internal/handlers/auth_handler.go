package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swasthsathi/telehealth-service/internal/auth"
	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/services"
	"github.com/swasthsathi/telehealth-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
	sessions    *auth.SessionManager
}

func NewAuthHandler(authService services.AuthService, sessions *auth.SessionManager, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
		sessions:    sessions,
	}
}

// Register creates a new patient, doctor or ASHA account.
func (h *AuthHandler) Register(c *gin.Context) {
	h.LogRequest(c, "Registering user")

	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login authenticates by email or username and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "User login", "identifier", req.Identifier)

	user, token, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, int(h.sessions.TTL().Seconds()), "/", "", false, true)

	c.JSON(http.StatusOK, user)
}

// Logout revokes the session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(auth.CookieName)
	if err == nil && token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			h.LogError(c, err, "Failed to revoke session")
		}
	}

	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// GetProfile returns the calling user's account.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	user, err := h.authService.GetProfile(c.Request.Context(), identity.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfilePhoto replaces the calling user's profile photo.
func (h *AuthHandler) UpdateProfilePhoto(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Updating profile photo", "user_id", identity.UserID)

	photo, closeUpload, err := h.formFileUpload(c, "photo")
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer closeUpload()

	user, err := h.authService.UpdateProfilePhoto(c.Request.Context(), identity, photo)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

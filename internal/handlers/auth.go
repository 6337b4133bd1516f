package handlers

import (
	"errors"
	"net/http"

	"github.com/confcfp/cfp-server/internal/constants"
	"github.com/confcfp/cfp-server/internal/dto"
	apierrors "github.com/confcfp/cfp-server/internal/errors"
	"github.com/confcfp/cfp-server/internal/middleware"
	"github.com/confcfp/cfp-server/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService  *services.AuthService
	clientURL    string
	secureCookie bool
	log          *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. clientURL is the only origin the
// callback page posts its result to.
func NewAuthHandler(authService *services.AuthService, clientURL string, secureCookie bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		clientURL:    clientURL,
		secureCookie: secureCookie,
		log:          log,
	}
}

// GitHubLogin stores a fresh state in the session and redirects to GitHub.
func (h *AuthHandler) GitHubLogin(c *gin.Context) {
	state, authURL, err := h.authService.BeginGitHubLogin()
	if err != nil {
		respondAuthError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(constants.OAuthStateMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	session.Set(constants.OAuthStateKey, state)
	if err := session.Save(); err != nil {
		_ = c.Error(err)
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

// GitHubCallback completes the login and reports the result to the opener window.
func (h *AuthHandler) GitHubCallback(c *gin.Context) {
	session := sessions.Default(c)
	storedState, _ := session.Get(constants.OAuthStateKey).(string)

	// A state is good for one callback only.
	session.Delete(constants.OAuthStateKey)
	if err := session.Save(); err != nil {
		h.log.Warn("failed to clear OAuth state", zap.Error(err))
	}

	result, err := h.authService.LoginWithGitHub(c.Request.Context(), services.GitHubCallbackInput{
		Code:        c.Query("code"),
		State:       c.Query("state"),
		StoredState: storedState,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidOAuthState) {
			apierrors.BadRequest(c, "Invalid state")
			return
		}

		message := services.ErrAuthenticationFailed.Error()
		if errors.Is(err, services.ErrNoUsableEmail) {
			message = err.Error()
		}
		renderCallbackPage(c, http.StatusUnauthorized, h.clientURL, callbackMessage{
			Type:    messageAuthError,
			Message: message,
		})
		return
	}

	h.setAccessToken(c, result.AccessToken, int(constants.SessionTokenTTL.Seconds()))
	renderCallbackPage(c, http.StatusOK, h.clientURL, callbackMessage{Type: messageAuthSuccess})
}

// GetCurrentMember returns the authenticated member.
func (h *AuthHandler) GetCurrentMember(c *gin.Context) {
	memberID, exists := middleware.GetMemberID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	member, err := h.authService.GetMember(memberID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberDTO(*member))
}

// Logout clears the session token cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setAccessToken(c, "", -1)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) setAccessToken(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.AccessTokenCookieName, token, maxAge, "/", "", h.secureCookie, true)
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidOAuthState):
		apierrors.BadRequest(c, "Invalid state")
	case errors.Is(err, services.ErrNoUsableEmail),
		errors.Is(err, services.ErrAuthenticationFailed),
		errors.Is(err, services.ErrInvalidToken):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "Internal server error")
	}
}

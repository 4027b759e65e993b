package handlers

import (
	"net/http"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pagebuilder_app_echo/internal/config"
	"pagebuilder_app_echo/internal/logging"
	"pagebuilder_app_echo/internal/middleware"
	"pagebuilder_app_echo/internal/render"
)

const sessionTTL = 5 * 24 * time.Hour

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authClient *auth.Client
	cfg        *config.Config
}

// NewAuthHandler creates a new AuthHandler; authClient may be nil when no identity provider is configured
func NewAuthHandler(authClient *auth.Client, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authClient: authClient, cfg: cfg}
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(c echo.Context) error {
	props := render.LoginProps{
		Next:               safeNext(c.QueryParam("next")),
		Error:              c.QueryParam("error"),
		Enabled:            h.authClient != nil,
		FirebaseAPIKey:     h.cfg.FirebaseAPIKey,
		FirebaseAuthDomain: h.cfg.FirebaseAuthDomain,
		FirebaseProjectID:  h.cfg.FirebaseProjectID,
	}
	return renderHTML(c, http.StatusOK, render.Document("Sign in", render.Login(props)))
}

// HandleLogin verifies the Firebase ID token and creates a session cookie
func (h *AuthHandler) HandleLogin(c echo.Context) error {
	if h.authClient == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Firebase not initialized",
		})
	}

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Missing authorization header",
		})
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Invalid authorization format",
		})
	}

	ctx := c.Request().Context()
	if _, err := h.authClient.VerifyIDToken(ctx, tokenString); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Invalid token",
		})
	}

	cookieValue, err := h.authClient.SessionCookie(ctx, tokenString, sessionTTL)
	if err != nil {
		logging.Error("Failed to create session cookie", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to create session",
		})
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    cookieValue,
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, map[string]string{
		"status": "success",
		"next":   safeNext(c.QueryParam("next")),
	})
}

// HandleLogout clears the session cookie
func (h *AuthHandler) HandleLogout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	})

	return c.JSON(http.StatusOK, map[string]string{
		"status": "logged out",
	})
}

// safeNext only allows same-site relative redirect targets
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	return next
}

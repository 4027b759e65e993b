package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pagebuilder_app_echo/internal/auth"
	"pagebuilder_app_echo/internal/logging"
)

// Context keys set by RequireAuthorization for downstream handlers
const (
	LookupPathKey = "lookupPath"
	UserUIDKey    = "userUID"
)

// SessionCookie is the cookie that carries the identity provider's session
const SessionCookie = "session"

// PathResolver derives the page lookup path a request is asking for
type PathResolver func(c echo.Context) string

// RequireAuthorization evaluates policy for the resolved lookup path before the
// handler runs. Anything but Allow ends in a temporary redirect to the login page.
func RequireAuthorization(policy auth.Policy, loginPath string, resolve PathResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := resolve(c)

			req := auth.Request{Path: path}
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				req.Session = cookie.Value
			}

			decision := policy(c.Request().Context(), req)
			if !decision.Allowed() {
				logging.Debug("Request not authorized",
					zap.String("path", path), zap.Stringer("effect", decision.Effect), zap.String("reason", decision.Reason))

				if req.Session != "" && decision.Reason == "invalid session" {
					c.SetCookie(&http.Cookie{
						Name:     SessionCookie,
						Value:    "",
						MaxAge:   -1,
						HttpOnly: true,
						Path:     "/",
					})
				}

				location := decision.Location
				if location == "" {
					location = auth.LoginURL(loginPath, path)
				}
				return c.Redirect(http.StatusTemporaryRedirect, location)
			}

			c.Set(LookupPathKey, path)
			c.Set(UserUIDKey, decision.Subject)
			return next(c)
		}
	}
}

package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pagebuilder_app_echo/internal/logging"
	"pagebuilder_app_echo/internal/render"
)

// CustomErrorHandler renders errors that reach echo as titled HTML pages
func CustomErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	errorTitle := "Internal Server Error"
	errorMessage := ""

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code

		if msg, ok := he.Message.(string); ok && msg != "" {
			errorMessage = msg
		}

		switch code {
		case http.StatusNotFound:
			errorTitle = "Page Not Found"
			if errorMessage == "" {
				errorMessage = "The page you're looking for doesn't exist."
			}
		case http.StatusForbidden:
			errorTitle = "Access Denied"
			if errorMessage == "" {
				errorMessage = "You don't have permission to access this resource."
			}
		case http.StatusUnauthorized:
			errorTitle = "Unauthorized"
			if errorMessage == "" {
				errorMessage = "Please log in to continue."
			}
		case http.StatusBadRequest:
			errorTitle = "Bad Request"
			if errorMessage == "" {
				errorMessage = "The request could not be processed."
			}
		default:
			if errorMessage == "" {
				errorMessage = "Something went wrong. Please try again later."
			}
		}
	} else {
		// upstream failures are not shown to visitors
		errorMessage = "Something went wrong. Please try again later."
	}

	if code >= http.StatusInternalServerError {
		logging.Error("Request failed", zap.String("path", c.Request().URL.Path), zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)

	page := render.Document(errorTitle, render.ErrorPage(code, errorTitle, errorMessage))
	if renderErr := page.Render(c.Request().Context(), c.Response()); renderErr != nil {
		logging.Error("Failed to render error page", zap.Error(fmt.Errorf("render error page: %w", renderErr)))
	}
}

package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pagebuilder_app_echo/internal/logging"
	"pagebuilder_app_echo/internal/models"
	"pagebuilder_app_echo/internal/pagedata"
)

// RevalidateSecretHeader carries the shared secret on revalidation webhooks
const RevalidateSecretHeader = "X-Revalidate-Secret"

// Refresher re-reads a page past any cache, as pagedata.CachedFetcher does
type Refresher interface {
	Refresh(ctx context.Context, path string, opts pagedata.FetchOptions) (*models.PageDescriptor, error)
}

// RevalidateHandler lets the page builder push "page changed" notifications
type RevalidateHandler struct {
	secret    string
	static    *StaticPage
	pages     *PageHandler
	refresher Refresher
}

// NewRevalidateHandler wires the webhook; refresher may be nil when no shared cache is configured
func NewRevalidateHandler(secret string, static *StaticPage, pages *PageHandler, refresher Refresher) *RevalidateHandler {
	return &RevalidateHandler{secret: secret, static: static, pages: pages, refresher: refresher}
}

// Revalidate handles POST /api/revalidate?path=...
func (h *RevalidateHandler) Revalidate(c echo.Context) error {
	if h.secret == "" {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	given := c.Request().Header.Get(RevalidateSecretHeader)
	if subtle.ConstantTimeCompare([]byte(given), []byte(h.secret)) != 1 {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid revalidation secret"})
	}

	path := c.QueryParam("path")
	if path == "" {
		path = "/"
	}
	ctx := c.Request().Context()

	if h.refresher != nil {
		if _, err := h.refresher.Refresh(ctx, path, pagedata.FetchOptions{Origin: pagedata.OriginServer}); err != nil {
			logging.Error("Revalidation refresh failed", zap.String("path", path), zap.Error(err))
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "failed to refresh page"})
		}
	}
	h.pages.Invalidate(path)

	if h.static != nil && path == h.static.Path() {
		if err := h.static.Build(ctx); err != nil {
			logging.Error("Static page rebuild failed", zap.String("path", path), zap.Error(err))
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "failed to rebuild page"})
		}
	}

	logging.Info("Page revalidated", zap.String("path", path))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"revalidated": true,
		"path":        path,
		"now":         time.Now().UTC().Format(time.RFC3339),
	})
}

// Health handles GET /healthz
func Health(strategy string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":   "ok",
			"strategy": strategy,
		})
	}
}

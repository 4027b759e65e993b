package handlers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"pagebuilder_app_echo/internal/components"
	"pagebuilder_app_echo/internal/config"
	"pagebuilder_app_echo/internal/middleware"
	"pagebuilder_app_echo/internal/models"
	"pagebuilder_app_echo/internal/pagedata"
	"pagebuilder_app_echo/internal/render"
	"pagebuilder_app_echo/internal/routing"
	"pagebuilder_app_echo/internal/swr"
)

// PageHandler serves the protected catch-all route with the configured render strategy
type PageHandler struct {
	strategy     config.RenderStrategy
	fetcher      pagedata.Fetcher
	registry     *components.Registry
	fragments    *swr.Cache[*models.PageDescriptor]
	fragmentWait time.Duration
}

// NewPageHandler creates a PageHandler. fragmentStale is how long the
// client-deferred cache serves a descriptor before revalidating it.
func NewPageHandler(strategy config.RenderStrategy, fetcher pagedata.Fetcher, registry *components.Registry, fragmentWait, fragmentStale time.Duration) *PageHandler {
	h := &PageHandler{
		strategy:     strategy,
		fetcher:      fetcher,
		registry:     registry,
		fragmentWait: fragmentWait,
	}
	h.fragments = swr.New(func(ctx context.Context, path string) (*models.PageDescriptor, error) {
		return fetcher.Fetch(ctx, path, pagedata.FetchOptions{Origin: pagedata.OriginClient})
	}, swr.Options{StaleAfter: fragmentStale})
	return h
}

// ResolveCatchAll derives the lookup path from the catch-all route segments.
// It reads the escaped request path instead of c.Param("*"), whose value echo
// may or may not have unescaped already.
func ResolveCatchAll(c echo.Context) string {
	return routing.ResolveLookupPath(routing.SegmentsFromPath(c.Request().URL.EscapedPath()))
}

// ResolveFragment reads the lookup path a fragment request is for
func ResolveFragment(c echo.Context) string {
	if path := c.QueryParam("path"); path != "" {
		return path
	}
	return "/"
}

func lookupPath(c echo.Context, resolve middleware.PathResolver) string {
	if path := getStringFromContext(c, middleware.LookupPathKey); path != "" {
		return path
	}
	return resolve(c)
}

// CatchAll handles GET /*
func (h *PageHandler) CatchAll(c echo.Context) error {
	path := lookupPath(c, ResolveCatchAll)
	query := c.QueryParams()
	noStore(c)

	if h.strategy == config.StrategyClient {
		// the browser fetches the body itself so navigation doesn't wait on an uncached fetch
		shell := render.Loading(render.FragmentURL(path, query), "load")
		return renderHTML(c, http.StatusOK, render.Document("Loading…", shell))
	}

	props, err := h.ServerProps(c.Request().Context(), path, query, getStringFromContext(c, middleware.UserUIDKey))
	if err != nil {
		return err
	}
	return renderHTML(c, http.StatusOK, render.Document(props.Title(), render.Page(h.registry, props)))
}

// ServerProps fetches the page and precomputes its data for a server-side render.
// An absent page yields props without a descriptor.
func (h *PageHandler) ServerProps(ctx context.Context, path string, query url.Values, subject string) (render.PageProps, error) {
	props := render.PageProps{Path: path, Query: query, Subject: subject}

	desc, err := h.fetcher.Fetch(ctx, path, pagedata.FetchOptions{Origin: pagedata.OriginServer})
	if err != nil {
		return props, err
	}
	if desc == nil {
		return props, nil
	}

	data, err := pagedata.Precompute(ctx, h.registry, desc)
	if err != nil {
		return props, err
	}
	props.Descriptor = desc
	props.Data = data
	return props, nil
}

// Fragment handles GET /_fragments/page, the body request of the client-deferred strategy
func (h *PageHandler) Fragment(c echo.Context) error {
	path := lookupPath(c, ResolveFragment)
	noStore(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.fragmentWait)
	defer cancel()

	snap := h.fragments.Load(ctx, path)
	view := render.ClientView(h.registry, snap, queryWithout(c, "path"), getStringFromContext(c, middleware.UserUIDKey))
	return renderHTML(c, http.StatusOK, view)
}

// Invalidate drops the client-deferred cache entry for path
func (h *PageHandler) Invalidate(path string) {
	h.fragments.Invalidate(path)
}

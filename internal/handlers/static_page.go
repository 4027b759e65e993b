package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pagebuilder_app_echo/internal/components"
	"pagebuilder_app_echo/internal/logging"
	"pagebuilder_app_echo/internal/middleware"
	"pagebuilder_app_echo/internal/pagedata"
	"pagebuilder_app_echo/internal/render"
)

// StaticPage serves a page generated ahead of requests. Once the generated
// props are older than the revalidation window, the next request still gets
// them while a single background regeneration replaces them.
type StaticPage struct {
	path            string
	fetcher         pagedata.Fetcher
	registry        *components.Registry
	revalidateAfter time.Duration
	now             func() time.Time

	mu      sync.RWMutex
	props   render.PageProps
	builtAt time.Time
	built   bool

	regenerating atomic.Bool
}

// NewStaticPage creates the public page for path; call Build before serving
func NewStaticPage(path string, fetcher pagedata.Fetcher, registry *components.Registry, revalidateAfter time.Duration) *StaticPage {
	return &StaticPage{
		path:            path,
		fetcher:         fetcher,
		registry:        registry,
		revalidateAfter: revalidateAfter,
		now:             time.Now,
	}
}

// Path is the lookup path this page is generated from
func (p *StaticPage) Path() string {
	return p.path
}

// Build fetches the page and precomputes its data. An absent page produces
// empty props, which render as the not-found state.
func (p *StaticPage) Build(ctx context.Context) error {
	props, err := p.generate(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.props = props
	p.builtAt = p.now()
	p.built = true
	p.mu.Unlock()

	logging.Info("Static page generated", zap.String("path", p.path), zap.Bool("found", props.Descriptor != nil))
	return nil
}

func (p *StaticPage) generate(ctx context.Context) (render.PageProps, error) {
	desc, err := p.fetcher.Fetch(ctx, p.path, pagedata.FetchOptions{Origin: pagedata.OriginServer})
	if err != nil {
		return render.PageProps{}, err
	}
	if desc == nil {
		return render.PageProps{Path: p.path}, nil
	}

	data, err := pagedata.Precompute(ctx, p.registry, desc)
	if err != nil {
		return render.PageProps{}, err
	}
	return render.PageProps{Path: p.path, Descriptor: desc, Data: data}, nil
}

// snapshot returns the current props and whether they are past the window
func (p *StaticPage) snapshot() (render.PageProps, bool, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.props, p.built, p.now().Sub(p.builtAt) >= p.revalidateAfter
}

func (p *StaticPage) regenerate() {
	if !p.regenerating.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer p.regenerating.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := p.Build(ctx); err != nil {
			logging.Error("Static page regeneration failed, serving previous version",
				zap.String("path", p.path), zap.Error(err))
		}
	}()
}

// Serve renders the generated page
func (p *StaticPage) Serve(c echo.Context) error {
	props, built, stale := p.snapshot()
	if !built {
		if err := p.Build(c.Request().Context()); err != nil {
			return err
		}
		props, _, _ = p.snapshot()
	} else if stale {
		p.regenerate()
	}

	props.Query = c.QueryParams()
	props.Subject = getStringFromContext(c, middleware.UserUIDKey)

	c.Response().Header().Set(echo.HeaderCacheControl,
		fmt.Sprintf("s-maxage=%d, stale-while-revalidate", int(p.revalidateAfter.Seconds())))
	return renderHTML(c, http.StatusOK, render.Document(props.Title(), render.Page(p.registry, props)))
}

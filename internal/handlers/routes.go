package handlers

import (
	"github.com/labstack/echo/v4"

	"pagebuilder_app_echo/internal/auth"
	"pagebuilder_app_echo/internal/middleware"
	"pagebuilder_app_echo/internal/render"
)

// Routes bundles the handlers the server mounts
type Routes struct {
	Static     *StaticPage
	Pages      *PageHandler
	Auth       *AuthHandler
	Revalidate *RevalidateHandler
	Policy     auth.Policy
	LoginPath  string
	Strategy   string
}

// Register mounts every route on e. Only the root page and the sign-in
// endpoints are public. A nil Policy allows everything.
func Register(e *echo.Echo, r Routes) {
	if r.Policy == nil {
		r.Policy = auth.AllowAll
	}
	e.GET("/healthz", Health(r.Strategy))

	// Public routes
	if r.Auth != nil {
		e.GET("/login", r.Auth.LoginPage)
		e.POST("/auth/login", r.Auth.HandleLogin)
		e.POST("/auth/logout", r.Auth.HandleLogout)
	}
	if r.Revalidate != nil {
		e.POST("/api/revalidate", r.Revalidate.Revalidate)
	}
	e.GET("/", r.Static.Serve)

	// Protected routes
	e.GET(render.FragmentPath, r.Pages.Fragment,
		middleware.RequireAuthorization(r.Policy, r.LoginPath, ResolveFragment))
	e.GET("/*", r.Pages.CatchAll,
		middleware.RequireAuthorization(r.Policy, r.LoginPath, ResolveCatchAll))
}

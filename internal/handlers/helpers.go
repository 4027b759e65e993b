package handlers

import (
	"bytes"
	"net/url"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// renderHTML buffers component so a failed render still reaches the error handler
func renderHTML(c echo.Context, status int, component templ.Component) error {
	var buf bytes.Buffer
	if err := component.Render(c.Request().Context(), &buf); err != nil {
		return err
	}
	return c.HTMLBlob(status, buf.Bytes())
}

// Helper to safely get string from context
func getStringFromContext(c echo.Context, key string) string {
	val := c.Get(key)
	if val == nil {
		return ""
	}
	strVal, ok := val.(string)
	if !ok {
		return ""
	}
	return strVal
}

// queryWithout copies the request query minus the given keys
func queryWithout(c echo.Context, keys ...string) url.Values {
	query := c.QueryParams()
	out := make(url.Values, len(query))
	for key, values := range query {
		out[key] = values
	}
	for _, key := range keys {
		delete(out, key)
	}
	return out
}

func noStore(c echo.Context) {
	c.Response().Header().Set(echo.HeaderCacheControl, "private, no-store")
}

package render

import (
	"net/url"

	"github.com/a-h/templ"

	"pagebuilder_app_echo/internal/components"
	"pagebuilder_app_echo/internal/models"
	"pagebuilder_app_echo/internal/swr"
)

// View is the state the client-deferred strategy shows for a lookup path
type View int

const (
	ViewLoading View = iota
	ViewError
	ViewNotFound
	ViewPage
)

func (v View) String() string {
	switch v {
	case ViewError:
		return "error"
	case ViewNotFound:
		return "not-found"
	case ViewPage:
		return "page"
	default:
		return "loading"
	}
}

// SelectView picks the state for a cache snapshot. An error wins over
// everything; with no data yet the page is still loading; a settled fetch
// without a usable descriptor is a 404.
func SelectView(snap swr.Snapshot[*models.PageDescriptor]) View {
	if snap.Err != nil {
		return ViewError
	}
	if !snap.HasData {
		return ViewLoading
	}
	if _, ok := snap.Data.FirstEntry(); !ok {
		return ViewNotFound
	}
	return ViewPage
}

// FragmentURL is where the browser loads the body for path from
func FragmentURL(path string, query url.Values) string {
	q := url.Values{}
	for key, values := range query {
		if key == "path" {
			continue
		}
		q[key] = values
	}
	q.Set("path", path)
	return FragmentPath + "?" + q.Encode()
}

// ClientView renders the fragment for a snapshot. Nothing is precomputed on
// this path, so the component always gets an empty data cache.
func ClientView(reg *components.Registry, snap swr.Snapshot[*models.PageDescriptor], query url.Values, subject string) templ.Component {
	fragmentURL := FragmentURL(snap.Key, query)

	switch SelectView(snap) {
	case ViewError:
		return Failed(fragmentURL)
	case ViewLoading:
		return Loading(fragmentURL, "load delay:1s")
	case ViewNotFound:
		return NotFound(snap.Key)
	}

	return Page(reg, PageProps{
		Path:       snap.Key,
		Descriptor: snap.Data,
		Data:       models.DataCache{},
		Query:      query,
		Subject:    subject,
	})
}

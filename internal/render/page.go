package render

import (
	"fmt"
	"net/url"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"pagebuilder_app_echo/internal/components"
	"pagebuilder_app_echo/internal/logging"
	"pagebuilder_app_echo/internal/models"
)

// FragmentPath serves page bodies to the client-deferred strategy
const FragmentPath = "/_fragments/page"

// PageProps is the render input produced by a page handler
type PageProps struct {
	Path       string
	Descriptor *models.PageDescriptor
	Data       models.DataCache
	Query      url.Values
	Subject    string
}

// Title picks the document title for props
func (p PageProps) Title() string {
	if p.Descriptor == nil || len(p.Descriptor.Entries) == 0 {
		return "Page not found"
	}
	if p.Descriptor.Title != "" {
		return p.Descriptor.Title
	}
	return p.Descriptor.Entries[0].DisplayName
}

// Page renders the first entry's component bound to props, or the not-found
// state when there is no descriptor, no entry or no such component
func Page(reg *components.Registry, props PageProps) templ.Component {
	entry, ok := props.Descriptor.FirstEntry()
	if !ok {
		return NotFound(props.Path)
	}

	component, err := resolve(reg, entry.DisplayName)
	if err != nil {
		logging.Warn("Page references unknown component",
			zap.String("path", props.Path), zap.String("component", entry.DisplayName), zap.Error(err))
		return NotFound(props.Path)
	}

	data := props.Data
	if data == nil {
		data = models.DataCache{}
	}

	rc := components.RenderContext{
		Path:       props.Path,
		Descriptor: props.Descriptor,
		Data:       data,
		Params:     entry.Params,
		Query:      props.Query,
		Subject:    props.Subject,
	}
	body := component.Render(rc)

	return pageFrame(component.Name, body)
}

func resolve(reg *components.Registry, name string) (components.Component, error) {
	component, ok := reg.Get(name)
	if !ok {
		return components.Component{}, fmt.Errorf("%q: %w", name, components.ErrComponentNotFound)
	}
	return component, nil
}

package components

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"sync"

	"github.com/a-h/templ"

	"pagebuilder_app_echo/internal/models"
)

// ErrComponentNotFound is returned when a page names a component nobody registered
var ErrComponentNotFound = errors.New("component not registered")

// RenderContext is everything a component sees when it renders: the page
// descriptor, the precomputed data, the entry's declared params and the query
// string of the current request
type RenderContext struct {
	Path       string
	Descriptor *models.PageDescriptor
	Data       models.DataCache
	Params     map[string]string
	Query      url.Values
	Subject    string
}

// Query declares a value a component needs before it can render
type Query struct {
	Key   string
	Fetch func(ctx context.Context, rc RenderContext) (any, error)
}

// Component is a renderable page body bound to a display name
type Component struct {
	Name    string
	Queries []Query
	Render  func(rc RenderContext) templ.Component
}

// Registry stores the mapping of display names to components
type Registry struct {
	mu         sync.RWMutex
	components map[string]Component
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{components: make(map[string]Component)}
}

// Register adds or replaces a component under its name
func (r *Registry) Register(component Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[component.Name] = component
}

// Get retrieves a component by display name
func (r *Registry) Get(name string) (Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	component, ok := r.components[name]
	return component, ok
}

// Names lists registered display names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package pagedata

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"pagebuilder_app_echo/internal/components"
	"pagebuilder_app_echo/internal/models"
)

// Precompute runs every query the first entry's component declares and
// collects the results into a data cache. A page without entries, or whose
// component is not registered, yields an empty cache.
func Precompute(ctx context.Context, reg *components.Registry, desc *models.PageDescriptor) (models.DataCache, error) {
	data := models.DataCache{}

	entry, ok := desc.FirstEntry()
	if !ok {
		return data, nil
	}
	component, ok := reg.Get(entry.DisplayName)
	if !ok || len(component.Queries) == 0 {
		return data, nil
	}

	rc := components.RenderContext{
		Path:       desc.Path,
		Descriptor: desc,
		Params:     entry.Params,
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for _, query := range component.Queries {
		g.Go(func() error {
			value, err := query.Fetch(ctx, rc)
			if err != nil {
				return fmt.Errorf("precompute %s.%s: %w", component.Name, query.Key, err)
			}
			mu.Lock()
			data[query.Key] = value
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

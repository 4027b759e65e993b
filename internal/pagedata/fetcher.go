package pagedata

import (
	"context"

	"pagebuilder_app_echo/internal/models"
)

// Origin tells a fetcher which side of the render initiated the request
type Origin int

const (
	OriginServer Origin = iota
	OriginClient
)

// FetchOptions parameterises a single page fetch
type FetchOptions struct {
	Origin Origin
}

// Fetcher loads a page descriptor by lookup path. An absent page is reported
// as a nil descriptor and a nil error.
type Fetcher interface {
	Fetch(ctx context.Context, path string, opts FetchOptions) (*models.PageDescriptor, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, path string, opts FetchOptions) (*models.PageDescriptor, error)

// Fetch calls f
func (f FetcherFunc) Fetch(ctx context.Context, path string, opts FetchOptions) (*models.PageDescriptor, error) {
	return f(ctx, path, opts)
}

package pagedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"pagebuilder_app_echo/internal/models"
)

// HTTPFetcher reads page definitions and content from the page-builder REST API
type HTTPFetcher struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPFetcher creates a fetcher for the page-builder API rooted at baseURL
func NewHTTPFetcher(baseURL, apiKey string) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch implements Fetcher. Server-initiated fetches carry ssr=1; fragment
// fetches on behalf of the browser do not. The API treats both the same.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string, opts FetchOptions) (*models.PageDescriptor, error) {
	query := url.Values{}
	query.Set("path", path)
	if opts.Origin == OriginServer {
		query.Set("ssr", "1")
	}

	var desc models.PageDescriptor
	found, err := f.getJSON(ctx, "/api/v1/pages?"+query.Encode(), &desc)
	if err != nil {
		return nil, fmt.Errorf("fetch page %q: %w", path, err)
	}
	if !found {
		return nil, nil
	}
	if desc.Path == "" {
		desc.Path = path
	}
	return &desc, nil
}

// Content implements components.ContentSource
func (f *HTTPFetcher) Content(ctx context.Context, slug string) (map[string]any, error) {
	var content map[string]any
	found, err := f.getJSON(ctx, "/api/v1/content/"+url.PathEscape(slug), &content)
	if err != nil {
		return nil, fmt.Errorf("fetch content %q: %w", slug, err)
	}
	if !found {
		return nil, nil
	}
	return content, nil
}

func (f *HTTPFetcher) getJSON(ctx context.Context, endpoint string, dest any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if f.apiKey != "" {
		req.Header.Set("X-Api-Key", f.apiKey)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return false, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}
	return true, nil
}

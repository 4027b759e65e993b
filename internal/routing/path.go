package routing

import (
	"net/url"
	"strings"
)

// ResolveLookupPath maps catch-all route segments to the key pages are fetched by.
// A single segment is used as-is, several are joined under a leading slash and
// no segments at all resolve to the root.
func ResolveLookupPath(segments []string) string {
	switch len(segments) {
	case 0:
		return "/"
	case 1:
		return segments[0]
	default:
		return "/" + strings.Join(segments, "/")
	}
}

// SegmentsFromPath splits an escaped request path (as from url.URL.EscapedPath)
// into catch-all segments, unescaping each segment exactly once. Splitting
// happens before unescaping, so an encoded slash stays inside its segment.
// Empty segments are dropped.
func SegmentsFromPath(rawPath string) []string {
	var segments []string
	for _, part := range strings.Split(rawPath, "/") {
		if part == "" {
			continue
		}
		if unescaped, err := url.PathUnescape(part); err == nil {
			part = unescaped
		}
		segments = append(segments, part)
	}
	return segments
}

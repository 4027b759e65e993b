package render

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagebuilder_app_echo/internal/components"
	"pagebuilder_app_echo/internal/models"
	"pagebuilder_app_echo/internal/swr"
)

// recordingRegistry registers a component that remembers the context it rendered with
func recordingRegistry(seen *components.RenderContext) *components.Registry {
	reg := components.NewRegistry()
	reg.Register(components.Component{
		Name: "Recorder",
		Render: func(rc components.RenderContext) templ.Component {
			*seen = rc
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				_, err := io.WriteString(w, "recorded:"+templ.EscapeString(rc.Params["id"]))
				return err
			})
		},
	})
	return reg
}

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestPageNotFoundStates(t *testing.T) {
	var seen components.RenderContext
	reg := recordingRegistry(&seen)

	tests := []struct {
		name string
		desc *models.PageDescriptor
	}{
		{name: "absent descriptor", desc: nil},
		{name: "empty entry list", desc: &models.PageDescriptor{Path: "/x"}},
		{name: "unregistered component", desc: &models.PageDescriptor{Entries: []models.EntryComponentMeta{{DisplayName: "Ghost"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderString(t, Page(reg, PageProps{Path: "/x", Descriptor: tt.desc}))
			assert.Contains(t, out, `data-state="not-found"`)
			assert.NotContains(t, out, "recorded:")
		})
	}
}

func TestPageBindsFirstEntryParamsAndQuery(t *testing.T) {
	var seen components.RenderContext
	reg := recordingRegistry(&seen)

	params := map[string]string{"id": "7", "lang": "en"}
	query := url.Values{"tab": {"specs"}, "q": {"a", "b"}}
	desc := &models.PageDescriptor{
		Path: "/products/7",
		Entries: []models.EntryComponentMeta{
			{DisplayName: "Recorder", Params: params},
			{DisplayName: "Other"},
		},
	}
	data := models.DataCache{"product": "widget"}

	out := renderString(t, Page(reg, PageProps{Path: "/products/7", Descriptor: desc, Data: data, Query: query, Subject: "u1"}))

	assert.Contains(t, out, `data-component="Recorder"`)
	assert.Contains(t, out, "recorded:7")
	assert.Equal(t, params, seen.Params)
	assert.Equal(t, query, seen.Query)
	assert.Equal(t, data, seen.Data)
	assert.Same(t, desc, seen.Descriptor)
	assert.Equal(t, "u1", seen.Subject)
}

func TestSelectViewPriority(t *testing.T) {
	page := &models.PageDescriptor{Entries: []models.EntryComponentMeta{{DisplayName: "Recorder"}}}
	boom := errors.New("boom")

	tests := []struct {
		name string
		snap swr.Snapshot[*models.PageDescriptor]
		want View
	}{
		{name: "idle", snap: swr.Snapshot[*models.PageDescriptor]{}, want: ViewLoading},
		{name: "in flight without data", snap: swr.Snapshot[*models.PageDescriptor]{Fetching: true}, want: ViewLoading},
		{name: "error beats loading", snap: swr.Snapshot[*models.PageDescriptor]{Fetching: true, Err: boom}, want: ViewError},
		{name: "error beats stale data", snap: swr.Snapshot[*models.PageDescriptor]{Data: page, HasData: true, Err: boom}, want: ViewError},
		{name: "settled absent", snap: swr.Snapshot[*models.PageDescriptor]{HasData: true}, want: ViewNotFound},
		{name: "settled empty entries", snap: swr.Snapshot[*models.PageDescriptor]{Data: &models.PageDescriptor{}, HasData: true}, want: ViewNotFound},
		{name: "populated", snap: swr.Snapshot[*models.PageDescriptor]{Data: page, HasData: true}, want: ViewPage},
		{name: "revalidating populated", snap: swr.Snapshot[*models.PageDescriptor]{Data: page, HasData: true, Fetching: true}, want: ViewPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectView(tt.snap); got != tt.want {
				t.Errorf("SelectView() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestClientViewRendersWithEmptyDataCache(t *testing.T) {
	var seen components.RenderContext
	reg := recordingRegistry(&seen)

	snap := swr.Snapshot[*models.PageDescriptor]{
		Key:     "/a/b",
		HasData: true,
		Data: &models.PageDescriptor{Entries: []models.EntryComponentMeta{
			{DisplayName: "Recorder", Params: map[string]string{"id": "9"}},
		}},
	}
	query := url.Values{"x": {"1"}}

	out := renderString(t, ClientView(reg, snap, query, ""))
	assert.Contains(t, out, "recorded:9")
	assert.NotNil(t, seen.Data)
	assert.Empty(t, seen.Data)
	assert.Equal(t, query, seen.Query)
}

func TestClientViewLoadingAndError(t *testing.T) {
	reg := components.NewRegistry()

	loading := renderString(t, ClientView(reg, swr.Snapshot[*models.PageDescriptor]{Key: "/a/b", Fetching: true}, nil, ""))
	assert.Contains(t, loading, `data-state="loading"`)
	assert.Contains(t, loading, "/_fragments/page?path=%2Fa%2Fb")

	failed := renderString(t, ClientView(reg, swr.Snapshot[*models.PageDescriptor]{Key: "/a/b", Err: errors.New("x")}, nil, ""))
	assert.Contains(t, failed, `data-state="error"`)
	assert.NotContains(t, failed, "x</")
}

func TestFragmentURLKeepsQueryButReplacesPath(t *testing.T) {
	got := FragmentURL("docs", url.Values{"path": {"/evil"}, "tab": {"2"}})
	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, FragmentPath, u.Path)
	assert.Equal(t, "docs", u.Query().Get("path"))
	assert.Equal(t, "2", u.Query().Get("tab"))
}

func TestDocumentEscapesTitle(t *testing.T) {
	out := renderString(t, Document("<Home>", NotFound("/")))
	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<title>&lt;Home&gt;</title>")
	assert.Contains(t, out, `data-state="not-found"`)
}

package pagedata

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagebuilder_app_echo/internal/components"
	"pagebuilder_app_echo/internal/models"
)

func registryWith(queries ...components.Query) *components.Registry {
	reg := components.NewRegistry()
	reg.Register(components.Component{
		Name:    "Widget",
		Queries: queries,
		Render: func(rc components.RenderContext) templ.Component {
			return templ.NopComponent
		},
	})
	return reg
}

func TestPrecomputeRunsFirstEntryQueries(t *testing.T) {
	reg := registryWith(
		components.Query{Key: "a", Fetch: func(ctx context.Context, rc components.RenderContext) (any, error) {
			return rc.Params["id"], nil
		}},
		components.Query{Key: "b", Fetch: func(ctx context.Context, rc components.RenderContext) (any, error) {
			return rc.Path, nil
		}},
	)
	desc := &models.PageDescriptor{
		Path: "/w",
		Entries: []models.EntryComponentMeta{
			{DisplayName: "Widget", Params: map[string]string{"id": "42"}},
			{DisplayName: "Ignored"},
		},
	}

	data, err := Precompute(context.Background(), reg, desc)
	require.NoError(t, err)
	assert.Equal(t, models.DataCache{"a": "42", "b": "/w"}, data)
}

func TestPrecomputeKeepsEachQueryResultUnderItsOwnKey(t *testing.T) {
	var queries []components.Query
	expected := models.DataCache{}
	for i := 0; i < 16; i++ {
		key := fmt.Sprintf("q%d", i)
		queries = append(queries, components.Query{Key: key, Fetch: func(ctx context.Context, rc components.RenderContext) (any, error) {
			return "value-" + key, nil
		}})
		expected[key] = "value-" + key
	}
	desc := &models.PageDescriptor{Entries: []models.EntryComponentMeta{{DisplayName: "Widget"}}}

	data, err := Precompute(context.Background(), registryWith(queries...), desc)
	require.NoError(t, err)
	assert.Equal(t, expected, data)
}

func TestPrecomputeEmptyCases(t *testing.T) {
	reg := registryWith()

	for name, desc := range map[string]*models.PageDescriptor{
		"nil descriptor":       nil,
		"no entries":           {Path: "/"},
		"unknown component":    {Entries: []models.EntryComponentMeta{{DisplayName: "Nope"}}},
		"component no queries": {Entries: []models.EntryComponentMeta{{DisplayName: "Widget"}}},
	} {
		t.Run(name, func(t *testing.T) {
			data, err := Precompute(context.Background(), reg, desc)
			require.NoError(t, err)
			assert.Empty(t, data)
		})
	}
}

func TestPrecomputePropagatesQueryErrors(t *testing.T) {
	boom := errors.New("boom")
	reg := registryWith(components.Query{Key: "a", Fetch: func(ctx context.Context, rc components.RenderContext) (any, error) {
		return nil, boom
	}})
	desc := &models.PageDescriptor{Entries: []models.EntryComponentMeta{{DisplayName: "Widget"}}}

	data, err := Precompute(context.Background(), reg, desc)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, data)
}

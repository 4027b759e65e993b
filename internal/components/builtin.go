package components

import (
	"context"
	"fmt"
	"time"

	"github.com/a-h/templ"
)

// ContentSource loads structured content referenced by a page entry
type ContentSource interface {
	Content(ctx context.Context, slug string) (map[string]any, error)
}

// DefineComponents registers the built-in page components on reg.
// content may be nil, in which case article bodies are left empty.
func DefineComponents(reg *Registry, content ContentSource) {
	reg.Register(HeroPage)
	reg.Register(RichTextPage)
	reg.Register(articlePage(content))
}

// HeroPage renders a headline banner for landing pages
var HeroPage = Component{
	Name: "HeroPage",
	Queries: []Query{
		{
			Key: "hero",
			Fetch: func(ctx context.Context, rc RenderContext) (any, error) {
				headline := rc.Params["headline"]
				if headline == "" && rc.Descriptor != nil {
					headline = rc.Descriptor.Title
				}
				return map[string]any{
					"headline":    headline,
					"generatedAt": time.Now().UTC().Format(time.RFC3339),
				}, nil
			},
		},
	},
	Render: func(rc RenderContext) templ.Component {
		hero, _ := rc.Data["hero"].(map[string]any)
		headline, _ := hero["headline"].(string)
		if headline == "" {
			headline = rc.Params["headline"]
		}
		return heroView(headline, rc.Params["tagline"])
	},
}

// RichTextPage renders a body of text declared directly in the entry params
var RichTextPage = Component{
	Name: "RichTextPage",
	Render: func(rc RenderContext) templ.Component {
		return richTextView(rc.Params["body"])
	},
}

func articlePage(content ContentSource) Component {
	return Component{
		Name: "ArticlePage",
		Queries: []Query{
			{
				Key: "article",
				Fetch: func(ctx context.Context, rc RenderContext) (any, error) {
					if content == nil {
						return nil, nil
					}
					slug := rc.Params["slug"]
					if slug == "" {
						return nil, fmt.Errorf("article entry on %s has no slug param", rc.Path)
					}
					return content.Content(ctx, slug)
				},
			},
		},
		Render: func(rc RenderContext) templ.Component {
			article, _ := rc.Data["article"].(map[string]any)
			title, _ := article["title"].(string)
			body, _ := article["body"].(string)
			if title == "" && rc.Descriptor != nil {
				title = rc.Descriptor.Title
			}
			return articleView(title, body)
		},
	}
}

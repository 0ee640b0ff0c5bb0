// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"net/http"

	"github.com/pdiddy/research-agent/pkg/types"
)

// Exa endpoints. Declared as vars so tests can substitute httptest servers.
var (
	exaSearchURL      = "https://api.exa.ai/search"
	exaFindSimilarURL = "https://api.exa.ai/findSimilar"
)

// codeDomains is the allow-list for code-biased search: hosts where
// implementation content actually lives.
var codeDomains = []string{
	"github.com",
	"stackoverflow.com",
	"dev.to",
	"medium.com",
	"hashnode.dev",
}

// exaResponse is the Exa API search response body.
type exaResponse struct {
	Results []exaResult `json:"results"`
}

type exaResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

// ExaSearch runs a general semantic search. The query is biased toward
// recent content; results carry extracted text snippets.
func (c *Client) ExaSearch(ctx context.Context, query string, numResults int) types.APIResult {
	build, err := postJSON(exaSearchURL, map[string]any{
		"query":      query + " 2025",
		"numResults": numResults,
		"type":       "auto",
		"contents": map[string]any{
			"text": map[string]any{"maxCharacters": 3000},
		},
	}, map[string]string{
		"x-api-key": c.exaKey,
	})
	if err != nil {
		return c.failure(types.SourceExa, err)
	}
	return c.exaCall(ctx, types.SourceExa, build)
}

// ExaCodeSearch runs a code-biased semantic search restricted to the
// code-hosting domain allow-list.
func (c *Client) ExaCodeSearch(ctx context.Context, query string, numResults int) types.APIResult {
	build, err := postJSON(exaSearchURL, map[string]any{
		"query":          query + " code example implementation",
		"numResults":     numResults,
		"type":           "auto",
		"includeDomains": codeDomains,
		"contents": map[string]any{
			"text": map[string]any{"maxCharacters": 5000},
		},
	}, map[string]string{
		"x-api-key": c.exaKey,
	})
	if err != nil {
		return c.failure(types.SourceExaCode, err)
	}
	return c.exaCall(ctx, types.SourceExaCode, build)
}

// ExaFindSimilar finds content similar to the given URL.
func (c *Client) ExaFindSimilar(ctx context.Context, url string, numResults int) types.APIResult {
	build, err := postJSON(exaFindSimilarURL, map[string]any{
		"url":        url,
		"numResults": numResults,
		"contents": map[string]any{
			"text": map[string]any{"maxCharacters": 2000},
		},
	}, map[string]string{
		"x-api-key": c.exaKey,
	})
	if err != nil {
		return c.failure(types.SourceExaSimilar, err)
	}

	var body exaResponse
	if err := c.doJSON(ctx, c.cfg.Timeout, build, &body); err != nil {
		return c.failure(types.SourceExaSimilar, err)
	}

	return types.APIResult{
		Source:  types.SourceExaSimilar,
		Success: true,
		Data:    types.SearchPayload{Results: exaItems(body)},
	}
}

func (c *Client) exaCall(ctx context.Context, source types.Source, build func() (*http.Request, error)) types.APIResult {
	var body exaResponse
	if err := c.doJSON(ctx, c.cfg.Timeout, build, &body); err != nil {
		return c.failure(source, err)
	}

	items := exaItems(body)
	return types.APIResult{
		Source:    source,
		Success:   true,
		Data:      types.SearchPayload{Results: items},
		URLsFound: itemURLs(items),
	}
}

func exaItems(body exaResponse) []types.SearchItem {
	items := make([]types.SearchItem, 0, len(body.Results))
	for _, r := range body.Results {
		items = append(items, types.SearchItem{Title: r.Title, URL: r.URL, Text: r.Text})
	}
	return items
}

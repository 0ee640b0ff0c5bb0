// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"

	"github.com/pdiddy/research-agent/pkg/types"
)

// refSearchURL is the Ref documentation search endpoint. Declared as a var
// so tests can substitute an httptest server.
var refSearchURL = "https://api.ref.dev/v1/search"

// refResponse is the Ref API search response body.
type refResponse struct {
	Results []refResult `json:"results"`
}

type refResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

// RefSearch queries the Ref API for official documentation and API
// references matching the query.
func (c *Client) RefSearch(ctx context.Context, query string) types.APIResult {
	build, err := postJSON(refSearchURL, map[string]any{
		"query": query,
		"limit": 10,
	}, map[string]string{
		"Authorization": "Bearer " + c.refKey,
	})
	if err != nil {
		return c.failure(types.SourceRef, err)
	}

	var body refResponse
	if err := c.doJSON(ctx, c.cfg.Timeout, build, &body); err != nil {
		return c.failure(types.SourceRef, err)
	}

	items := make([]types.SearchItem, 0, len(body.Results))
	for _, r := range body.Results {
		items = append(items, types.SearchItem{Title: r.Title, URL: r.URL, Text: r.Text})
	}

	return types.APIResult{
		Source:    types.SourceRef,
		Success:   true,
		Data:      types.SearchPayload{Results: items},
		URLsFound: itemURLs(items),
	}
}

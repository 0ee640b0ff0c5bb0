// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/research-agent/pkg/types"
)

// Jina endpoints. Declared as vars so tests can substitute httptest servers.
var (
	jinaSearchURL = "https://s.jina.ai/"
	jinaReaderURL = "https://r.jina.ai/"
)

// maxParallelReads bounds the batch URL read fan-out.
const maxParallelReads = 7

// jinaSearchResponse is the Jina search response body.
type jinaSearchResponse struct {
	Data []jinaSearchResult `json:"data"`
}

type jinaSearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	Description string `json:"description"`
}

// jinaReadResponse is the Jina reader response body. The reader nests the
// page under "data" but some deployments return it at the top level; both
// shapes are accepted and missing fields are treated as absent content.
type jinaReadResponse struct {
	Data    jinaPage `json:"data"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Text    string   `json:"text"`
	URL     string   `json:"url"`
}

type jinaPage struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Text    string `json:"text"`
	URL     string `json:"url"`
}

// JinaSearch runs a general web search biased toward recent content.
func (c *Client) JinaSearch(ctx context.Context, query string, numResults int) types.APIResult {
	return c.jinaCall(ctx, types.SourceJina, query+" 2025 latest", numResults)
}

// JinaArxivSearch runs a site-restricted search over arxiv.org for
// academic papers.
func (c *Client) JinaArxivSearch(ctx context.Context, query string, numResults int) types.APIResult {
	return c.jinaCall(ctx, types.SourceJinaArxiv, "site:arxiv.org "+query, numResults)
}

func (c *Client) jinaCall(ctx context.Context, source types.Source, q string, numResults int) types.APIResult {
	build, err := postJSON(jinaSearchURL, map[string]any{
		"q":     q,
		"count": numResults,
	}, map[string]string{
		"Authorization": "Bearer " + c.jinaKey,
		"Accept":        "application/json",
	})
	if err != nil {
		return c.failure(source, err)
	}

	var body jinaSearchResponse
	if err := c.doJSON(ctx, c.cfg.Timeout, build, &body); err != nil {
		return c.failure(source, err)
	}

	items := make([]types.SearchItem, 0, len(body.Data))
	for _, r := range body.Data {
		text := r.Content
		if text == "" {
			text = r.Description
		}
		items = append(items, types.SearchItem{Title: r.Title, URL: r.URL, Text: text})
	}

	return types.APIResult{
		Source:    source,
		Success:   true,
		Data:      types.SearchPayload{Results: items},
		URLsFound: itemURLs(items),
	}
}

// ReadURL fetches a single URL through the Jina reader and extracts its
// text content.
func (c *Client) ReadURL(ctx context.Context, url string) types.APIResult {
	target := jinaReaderURL + url
	build := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.jinaKey)
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	var body jinaReadResponse
	if err := c.doJSON(ctx, c.cfg.ReadTimeout, build, &body); err != nil {
		return c.failure(types.SourceJinaRead, err)
	}

	page := body.Data
	if page.Content == "" && page.Text == "" {
		page = jinaPage{Title: body.Title, Content: body.Content, Text: body.Text, URL: body.URL}
	}
	content := page.Content
	if content == "" {
		content = page.Text
	}
	pageURL := page.URL
	if pageURL == "" {
		pageURL = url
	}

	return types.APIResult{
		Source:  types.SourceJinaRead,
		Success: true,
		Data:    types.PagePayload{URL: pageURL, Title: page.Title, Content: content},
	}
}

// ReadURLs fetches up to maxParallelReads URLs concurrently. The returned
// slice is ordered like the input and one URL failing never fails the
// batch; each element is that URL's own result.
func (c *Client) ReadURLs(ctx context.Context, urls []string) []types.APIResult {
	if len(urls) > maxParallelReads {
		urls = urls[:maxParallelReads]
	}

	results := make([]types.APIResult, len(urls))
	var g errgroup.Group
	g.SetLimit(maxParallelReads)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			results[i] = c.ReadURL(ctx, u)
			return nil
		})
	}
	g.Wait()
	return results
}

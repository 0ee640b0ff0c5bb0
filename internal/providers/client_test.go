// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/httputil"
	"github.com/pdiddy/research-agent/pkg/types"
)

func init() {
	// Keep retried failures fast.
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

func testClient() *Client {
	cfg := types.ProviderConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test/0.1"},
	}
	return NewClient("ref-key", "exa-key", "jina-key", "pplx-key", cfg, zap.NewNop())
}

// --- Ref ---

func TestRefSearchSuccess(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"title": "FastAPI docs", "url": "https://fastapi.tiangolo.com", "text": "framework docs"},
				{"title": "no url here", "text": "orphan"},
			},
		})
	}))
	defer ts.Close()

	orig := refSearchURL
	refSearchURL = ts.URL
	defer func() { refSearchURL = orig }()

	res := testClient().RefSearch(context.Background(), "fastapi")
	if !res.Success {
		t.Fatalf("RefSearch failed: %s", res.Error)
	}
	if res.Source != types.SourceRef {
		t.Errorf("source = %q, want ref", res.Source)
	}
	if gotAuth != "Bearer ref-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	// Entries without a URL contribute content but no discovered URL.
	if len(res.URLsFound) != 1 || res.URLsFound[0] != "https://fastapi.tiangolo.com" {
		t.Errorf("URLsFound = %v", res.URLsFound)
	}
	sp, ok := res.Data.(types.SearchPayload)
	if !ok {
		t.Fatalf("Data is %T, want SearchPayload", res.Data)
	}
	if len(sp.Results) != 2 {
		t.Errorf("results = %d, want 2", len(sp.Results))
	}
}

func TestRefSearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	orig := refSearchURL
	refSearchURL = ts.URL
	defer func() { refSearchURL = orig }()

	res := testClient().RefSearch(context.Background(), "fastapi")
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error != "HTTP 403" {
		t.Errorf("error = %q, want HTTP 403", res.Error)
	}
	if res.Data != nil {
		t.Error("failed result must carry no data")
	}
}

func TestRefSearchTransientRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"results": []map[string]string{}})
	}))
	defer ts.Close()

	orig := refSearchURL
	refSearchURL = ts.URL
	defer func() { refSearchURL = orig }()

	res := testClient().RefSearch(context.Background(), "fastapi")
	if !res.Success {
		t.Fatalf("expected recovery on third attempt, got %s", res.Error)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestRefSearchMalformedJSON(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	orig := refSearchURL
	refSearchURL = ts.URL
	defer func() { refSearchURL = orig }()

	res := testClient().RefSearch(context.Background(), "fastapi")
	if res.Success {
		t.Fatal("expected failure on malformed body")
	}
	// Application errors are not transport errors; no retry.
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

// --- Exa ---

func TestExaCodeSearchRequestShape(t *testing.T) {
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"title": "repo", "url": "https://github.com/x/y", "text": "func main()"},
			},
		})
	}))
	defer ts.Close()

	orig := exaSearchURL
	exaSearchURL = ts.URL
	defer func() { exaSearchURL = orig }()

	res := testClient().ExaCodeSearch(context.Background(), "rate limiter", 10)
	if !res.Success {
		t.Fatalf("ExaCodeSearch failed: %s", res.Error)
	}
	if res.Source != types.SourceExaCode {
		t.Errorf("source = %q, want exa_code", res.Source)
	}
	q, _ := gotBody["query"].(string)
	if !strings.Contains(q, "code example implementation") {
		t.Errorf("query = %q, want code bias suffix", q)
	}
	domains, _ := gotBody["includeDomains"].([]any)
	if len(domains) != len(codeDomains) {
		t.Errorf("includeDomains = %v", domains)
	}
	if n, _ := gotBody["numResults"].(float64); n != 10 {
		t.Errorf("numResults = %v, want 10", n)
	}
}

func TestExaFindSimilar(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["url"] != "https://example.com/post" {
			t.Errorf("url = %v", body["url"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{{"title": "similar", "url": "https://example.com/other"}},
		})
	}))
	defer ts.Close()

	orig := exaFindSimilarURL
	exaFindSimilarURL = ts.URL
	defer func() { exaFindSimilarURL = orig }()

	res := testClient().ExaFindSimilar(context.Background(), "https://example.com/post", 5)
	if !res.Success {
		t.Fatalf("ExaFindSimilar failed: %s", res.Error)
	}
	if res.Source != types.SourceExaSimilar {
		t.Errorf("source = %q", res.Source)
	}
}

// --- Jina ---

func TestJinaSearchLenientExtraction(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{
				{"title": "a", "url": "https://a.example", "content": "body a"},
				{"title": "desc only", "url": "https://b.example", "description": "summary"},
				{"title": "no url"},
			},
		})
	}))
	defer ts.Close()

	orig := jinaSearchURL
	jinaSearchURL = ts.URL
	defer func() { jinaSearchURL = orig }()

	res := testClient().JinaSearch(context.Background(), "caching", 10)
	if !res.Success {
		t.Fatalf("JinaSearch failed: %s", res.Error)
	}
	if len(res.URLsFound) != 2 {
		t.Errorf("URLsFound = %v, want 2 entries", res.URLsFound)
	}
	sp := res.Data.(types.SearchPayload)
	if sp.Results[1].Text != "summary" {
		t.Errorf("description fallback: text = %q", sp.Results[1].Text)
	}
}

func TestJinaArxivSearchSiteRestricted(t *testing.T) {
	var gotQ string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		gotQ, _ = body["q"].(string)
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]string{}})
	}))
	defer ts.Close()

	orig := jinaSearchURL
	jinaSearchURL = ts.URL
	defer func() { jinaSearchURL = orig }()

	res := testClient().JinaArxivSearch(context.Background(), "attention", 10)
	if !res.Success {
		t.Fatalf("JinaArxivSearch failed: %s", res.Error)
	}
	if res.Source != types.SourceJinaArxiv {
		t.Errorf("source = %q", res.Source)
	}
	if !strings.HasPrefix(gotQ, "site:arxiv.org ") {
		t.Errorf("q = %q, want site restriction prefix", gotQ)
	}
}

func TestReadURLNestedShape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{
				"title":   "Page Title",
				"content": "page body",
				"url":     "https://example.com/final",
			},
		})
	}))
	defer ts.Close()

	orig := jinaReaderURL
	jinaReaderURL = ts.URL + "/"
	defer func() { jinaReaderURL = orig }()

	res := testClient().ReadURL(context.Background(), "https://example.com/page")
	if !res.Success {
		t.Fatalf("ReadURL failed: %s", res.Error)
	}
	page := res.Data.(types.PagePayload)
	if page.Title != "Page Title" || page.Content != "page body" {
		t.Errorf("page = %+v", page)
	}
}

func TestReadURLFlatShape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"title": "Flat", "text": "flat body"})
	}))
	defer ts.Close()

	orig := jinaReaderURL
	jinaReaderURL = ts.URL + "/"
	defer func() { jinaReaderURL = orig }()

	res := testClient().ReadURL(context.Background(), "https://example.com/page")
	if !res.Success {
		t.Fatalf("ReadURL failed: %s", res.Error)
	}
	page := res.Data.(types.PagePayload)
	if page.Content != "flat body" {
		t.Errorf("content = %q", page.Content)
	}
	// The requested URL backfills a missing payload URL.
	if page.URL != "https://example.com/page" {
		t.Errorf("url = %q", page.URL)
	}
}

func TestReadURLsOrderAndIsolation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.String(), "bad.example") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"content": "ok " + r.URL.String()})
	}))
	defer ts.Close()

	orig := jinaReaderURL
	jinaReaderURL = ts.URL + "/"
	defer func() { jinaReaderURL = orig }()

	urls := []string{"https://a.example", "https://bad.example", "https://c.example"}
	results := testClient().ReadURLs(context.Background(), urls)

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if !results[0].Success || results[1].Success || !results[2].Success {
		t.Errorf("success flags = %v %v %v, want true false true",
			results[0].Success, results[1].Success, results[2].Success)
	}
	for _, r := range results {
		if r.Source != types.SourceJinaRead {
			t.Errorf("source = %q", r.Source)
		}
	}
}

func TestReadURLsCapsBatch(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(map[string]string{"content": "ok"})
	}))
	defer ts.Close()

	orig := jinaReaderURL
	jinaReaderURL = ts.URL + "/"
	defer func() { jinaReaderURL = orig }()

	urls := make([]string, 10)
	for i := range urls {
		urls[i] = "https://example.com/page"
	}
	results := testClient().ReadURLs(context.Background(), urls)

	if len(results) != maxParallelReads {
		t.Errorf("results = %d, want %d", len(results), maxParallelReads)
	}
	if n := atomic.LoadInt32(&calls); n != maxParallelReads {
		t.Errorf("calls = %d, want %d", n, maxParallelReads)
	}
}

// --- Perplexity ---

func TestOverviewCitationsFeedURLPool(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["model"] != overviewModel {
			t.Errorf("model = %v", body["model"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"model": "sonar",
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "an overview"}},
			},
			"citations": []string{"https://cite1.example", "https://cite2.example"},
		})
	}))
	defer ts.Close()

	orig := perplexityURL
	perplexityURL = ts.URL
	defer func() { perplexityURL = orig }()

	res := testClient().Overview(context.Background(), "what is raft")
	if !res.Success {
		t.Fatalf("Overview failed: %s", res.Error)
	}
	if len(res.URLsFound) != 2 {
		t.Errorf("URLsFound = %v", res.URLsFound)
	}
	chat := res.Data.(types.ChatPayload)
	if chat.Content != "an overview" {
		t.Errorf("content = %q", chat.Content)
	}
}

func TestSynthesizeCapsContext(t *testing.T) {
	var gotPrompt string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body perplexityRequest
		json.NewDecoder(r.Body).Decode(&body)
		if body.Model != synthesisModel {
			t.Errorf("model = %q", body.Model)
		}
		gotPrompt = body.Messages[len(body.Messages)-1].Content
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "synthesis text"}},
			},
		})
	}))
	defer ts.Close()

	orig := perplexityURL
	perplexityURL = ts.URL
	defer func() { perplexityURL = orig }()

	huge := strings.Repeat("x", synthesisContextBudget+5000)
	res := testClient().Synthesize(context.Background(), "compare a vs b", huge)
	if !res.Success {
		t.Fatalf("Synthesize failed: %s", res.Error)
	}
	if !strings.Contains(gotPrompt, "compare a vs b") {
		t.Error("prompt missing original query")
	}
	if strings.Count(gotPrompt, "x") > synthesisContextBudget {
		t.Errorf("context not capped: %d x's", strings.Count(gotPrompt, "x"))
	}
	chat := res.Data.(types.ChatPayload)
	if chat.Content != "synthesis text" {
		t.Errorf("content = %q", chat.Content)
	}
}

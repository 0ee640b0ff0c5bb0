// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Payload is the provider-specific response body carried by an APIResult.
// Modeling it as a closed union keyed by concrete type keeps the
// provider-specific content extraction in one place instead of probing
// loosely-typed fields at every call site.
type Payload interface {
	payload()
}

// SearchItem is one hit inside a search payload. Fields the provider did
// not supply are left empty; extraction treats missing fields as absent
// content, never as an error.
type SearchItem struct {
	// Title is the result title, if the provider returned one.
	Title string `json:"title,omitempty"`

	// URL is the result link.
	URL string `json:"url,omitempty"`

	// Text is the snippet, description or extracted content for this hit.
	Text string `json:"text,omitempty"`
}

// SearchPayload is the body returned by the search operations (ref, exa,
// exa_code, exa_similar, jina, jina_arxiv).
type SearchPayload struct {
	// Results lists hits in provider ranking order.
	Results []SearchItem `json:"results"`
}

func (SearchPayload) payload() {}

// ChatPayload is the body returned by the LLM operations (perplexity
// overview and synthesis).
type ChatPayload struct {
	// Model is the model identifier the provider reported.
	Model string `json:"model,omitempty"`

	// Content is the assistant message text of the first choice.
	Content string `json:"content"`

	// Citations lists URLs the provider cited, in citation order.
	Citations []string `json:"citations,omitempty"`
}

func (ChatPayload) payload() {}

// PagePayload is the body returned by the URL read operation (jina_read).
type PagePayload struct {
	// URL is the page that was read.
	URL string `json:"url,omitempty"`

	// Title is the extracted page title.
	Title string `json:"title,omitempty"`

	// Content is the extracted page text.
	Content string `json:"content"`
}

func (PagePayload) payload() {}

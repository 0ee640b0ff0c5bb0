// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research-agent pipeline.
package types

// Workflow identifies the orchestration strategy selected for a query.
type Workflow string

const (
	WorkflowDirect      Workflow = "direct"
	WorkflowExploratory Workflow = "exploratory"
	WorkflowSynthesis   Workflow = "synthesis"
)

// QueryType categorizes the content a query is after. It drives provider
// routing inside each workflow.
type QueryType string

const (
	QueryDocumentation QueryType = "documentation"
	QueryCode          QueryType = "code"
	QueryAcademic      QueryType = "academic"
	QueryGeneral       QueryType = "general"
)

// Source identifies the provider operation that produced an APIResult.
type Source string

const (
	SourceRef                 Source = "ref"
	SourceExa                 Source = "exa"
	SourceExaCode             Source = "exa_code"
	SourceExaSimilar          Source = "exa_similar"
	SourceJina                Source = "jina"
	SourceJinaRead            Source = "jina_read"
	SourceJinaArxiv           Source = "jina_arxiv"
	SourcePerplexity          Source = "perplexity"
	SourcePerplexitySynthesis Source = "perplexity_synthesis"
)

// FindingType labels what kind of content a finding carries.
type FindingType string

const (
	FindingDocumentation  FindingType = "documentation"
	FindingSemanticSearch FindingType = "semantic_search"
	FindingCodeExamples   FindingType = "code_examples"
	FindingAcademicPapers FindingType = "academic_papers"
	FindingWebSearch      FindingType = "web_search"
	FindingOverview       FindingType = "overview"
	FindingURLContent     FindingType = "url_content"
)

// APIResult is the uniform outcome of a single provider call. Provider
// clients never return transport errors; every failure mode is folded into
// a result with Success false and a descriptive Error.
//
// Invariant: Success implies Data is non-nil and Error is empty, and the
// reverse. Results are created once per call and never mutated.
type APIResult struct {
	// Source identifies the provider operation that produced this result.
	Source Source `json:"source"`

	// Success reports whether the call produced a usable payload.
	Success bool `json:"success"`

	// Data is the provider-specific payload, present only on success.
	Data Payload `json:"data,omitempty"`

	// Error is a human-readable failure description, present only on failure.
	Error string `json:"error,omitempty"`

	// URLsFound lists URLs extracted from the payload, in payload order.
	URLsFound []string `json:"urls_found,omitempty"`
}

// Finding is one successful provider call retained for reporting and
// synthesis, tagged with a content-type label.
type Finding struct {
	// Source identifies the provider operation behind this finding.
	Source Source `json:"source"`

	// Type labels the content kind (documentation, web_search, url_content, ...).
	Type FindingType `json:"type"`

	// URL is set for url_content findings: the page the content came from.
	URL string `json:"url,omitempty"`

	// Data is the provider payload backing this finding.
	Data Payload `json:"data"`
}

// WorkflowResult is the outcome of one workflow execution. Built
// incrementally by the executing strategy and never mutated after return.
//
// Invariant: SuccessfulSources <= SourcesConsulted. URLsDiscovered contains
// no duplicates; first occurrence wins.
type WorkflowResult struct {
	// Workflow is the strategy that produced this result.
	Workflow Workflow `json:"workflow"`

	// QueryType is the classified content type used for provider routing.
	QueryType QueryType `json:"query_type"`

	// Success is true iff at least one finding was collected.
	Success bool `json:"success"`

	// SourcesConsulted counts provider calls issued, including each URL
	// read as one unit.
	SourcesConsulted int `json:"sources_consulted"`

	// SuccessfulSources counts calls whose result succeeded.
	SuccessfulSources int `json:"successful_sources"`

	// Findings holds one entry per successful call, in call-issuance order.
	Findings []Finding `json:"findings"`

	// Synthesis is the LLM-produced analysis, set only when the synthesis
	// step itself succeeded over a non-empty context.
	Synthesis string `json:"synthesis,omitempty"`

	// URLsDiscovered is the deduplicated, order-preserving URL list.
	URLsDiscovered []string `json:"urls_discovered"`

	// Error is a top-level failure description, set only when the whole
	// workflow could not proceed. A single failed provider never sets it.
	Error string `json:"error,omitempty"`
}

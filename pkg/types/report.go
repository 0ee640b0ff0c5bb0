// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SourceContent is one extracted content block in the structured report,
// shaped for RAG and other downstream consumers.
type SourceContent struct {
	// Source identifies the provider operation that produced the content.
	Source Source `json:"source" yaml:"source"`

	// Type labels the content kind.
	Type FindingType `json:"type" yaml:"type"`

	// URL is the content's origin, empty for LLM-generated overviews.
	URL string `json:"url" yaml:"url"`

	// Title is the content title, if any.
	Title string `json:"title" yaml:"title"`

	// Content is the extracted text, capped per source kind.
	Content string `json:"content" yaml:"content"`

	// Relevance is "high" or "medium" based on the source kind.
	Relevance string `json:"relevance" yaml:"relevance"`
}

// Report is the structured record produced for one invocation. It is what
// the ledger persists and what downstream consumers read.
type Report struct {
	Query                string          `json:"query" yaml:"query"`
	Workflow             Workflow        `json:"workflow" yaml:"workflow"`
	WorkflowDescription  string          `json:"workflow_description" yaml:"workflow_description"`
	QueryType            QueryType       `json:"query_type" yaml:"query_type"`
	QueryTypeDescription string          `json:"query_type_description" yaml:"query_type_description"`
	DurationSeconds      float64         `json:"duration_seconds" yaml:"duration_seconds"`
	SourceCount          int             `json:"source_count" yaml:"source_count"`
	SuccessfulSources    int             `json:"successful_sources" yaml:"successful_sources"`
	FindingsSummary      string          `json:"findings_summary" yaml:"findings_summary"`
	Synthesis            string          `json:"synthesis,omitempty" yaml:"synthesis,omitempty"`
	SourceContent        []SourceContent `json:"source_content" yaml:"source_content"`
	URLsDiscovered       []string        `json:"urls_discovered" yaml:"urls_discovered"`
	ActorFee             float64         `json:"actor_fee" yaml:"actor_fee"`
	Timestamp            string          `json:"timestamp" yaml:"timestamp"`
	Success              bool            `json:"success" yaml:"success"`
	Error                string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders a workflow result into the two consumer-facing
// artifacts: the structured Report record and a human-readable markdown
// document. Rendering is pure; nothing here talks to providers or disk.
package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pdiddy/research-agent/internal/classify"
	"github.com/pdiddy/research-agent/pkg/types"
)

// Per-tier fees, in dollars. Synthesis costs the most because it issues
// the widest provider fan-out plus an LLM call.
const (
	FeeDirect      = 0.10
	FeeExploratory = 0.20
	FeeSynthesis   = 0.30
)

// Content caps for the structured source_content extraction.
const (
	pageContentCap = 8000
	itemContentCap = 4000
	itemsPerSource = 5
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// Fee returns the per-run fee for a workflow tier.
func Fee(wf types.Workflow) float64 {
	switch wf {
	case types.WorkflowDirect:
		return FeeDirect
	case types.WorkflowSynthesis:
		return FeeSynthesis
	}
	return FeeExploratory
}

// Generate builds the structured report record for one run.
func Generate(query string, res types.WorkflowResult, duration time.Duration) types.Report {
	return types.Report{
		Query:                query,
		Workflow:             res.Workflow,
		WorkflowDescription:  classify.WorkflowDescription(res.Workflow),
		QueryType:            res.QueryType,
		QueryTypeDescription: classify.QueryTypeDescription(res.QueryType),
		DurationSeconds:      math.Round(duration.Seconds()*100) / 100,
		SourceCount:          res.SourcesConsulted,
		SuccessfulSources:    res.SuccessfulSources,
		FindingsSummary:      extractSummary(res),
		Synthesis:            res.Synthesis,
		SourceContent:        extractSourceContent(res.Findings),
		URLsDiscovered:       res.URLsDiscovered,
		ActorFee:             Fee(res.Workflow),
		Timestamp:            timeNow().UTC().Format(time.RFC3339),
		Success:              res.Success,
		Error:                res.Error,
	}
}

// GenerateMarkdown builds the human-readable report document.
func GenerateMarkdown(query string, res types.WorkflowResult, duration time.Duration) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Deep Research Report\n\n")
	fmt.Fprintf(&b, "**Query:** %s\n\n", query)
	fmt.Fprintf(&b, "## Metadata\n\n")
	fmt.Fprintf(&b, "- **Workflow:** %s (%s)\n", res.Workflow, classify.WorkflowDescription(res.Workflow))
	fmt.Fprintf(&b, "- **Query Type:** %s (%s)\n", res.QueryType, classify.QueryTypeDescription(res.QueryType))
	fmt.Fprintf(&b, "- **Duration:** %.1f seconds\n", duration.Seconds())
	fmt.Fprintf(&b, "- **Sources Consulted:** %d\n", res.SourcesConsulted)
	fmt.Fprintf(&b, "- **Successful Sources:** %d\n", res.SuccessfulSources)
	fmt.Fprintf(&b, "- **Actor Fee:** $%.2f\n", Fee(res.Workflow))
	fmt.Fprintf(&b, "- **Timestamp:** %s\n\n", timeNow().UTC().Format(time.RFC3339))

	if res.Synthesis != "" {
		fmt.Fprintf(&b, "## Synthesis\n\n%s\n\n", res.Synthesis)
	}

	fmt.Fprintf(&b, "## Key Findings\n\n")
	for i, f := range res.Findings {
		fmt.Fprintf(&b, "### Source %d: %s (%s)\n\n", i+1, f.Source, f.Type)
		fmt.Fprintf(&b, "%s\n\n", summarize(f, 500))
	}

	if len(res.URLsDiscovered) > 0 {
		fmt.Fprintf(&b, "## Sources Consulted\n\n")
		for _, u := range res.URLsDiscovered {
			fmt.Fprintf(&b, "- %s\n", u)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// extractSummary produces the findings_summary field: the synthesis first
// paragraph when present, otherwise excerpts of the first findings.
func extractSummary(res types.WorkflowResult) string {
	if res.Synthesis != "" {
		para, _, _ := strings.Cut(res.Synthesis, "\n\n")
		return ellipsize(para, 500)
	}

	var summaries []string
	for _, f := range res.Findings {
		if len(summaries) == 3 {
			break
		}
		s := summarize(f, 200)
		if s == "" || s == noContent {
			continue
		}
		summaries = append(summaries, fmt.Sprintf("[%s] %s", f.Source, s))
	}
	if len(summaries) == 0 {
		return "No findings extracted."
	}
	return strings.Join(summaries, " | ")
}

// extractSourceContent flattens findings into the source_content blocks
// downstream RAG consumers ingest. Overviews and deep-read pages are high
// relevance; search hits are medium, except code and arXiv hits which are
// precision-targeted and rank high.
func extractSourceContent(findings []types.Finding) []types.SourceContent {
	sources := []types.SourceContent{}

	for _, f := range findings {
		switch data := f.Data.(type) {
		case types.ChatPayload:
			if data.Content == "" {
				continue
			}
			sources = append(sources, types.SourceContent{
				Source:    f.Source,
				Type:      types.FindingOverview,
				Title:     "AI-Generated Overview",
				Content:   data.Content,
				Relevance: "high",
			})

		case types.PagePayload:
			if data.Content == "" {
				continue
			}
			url := f.URL
			if url == "" {
				url = data.URL
			}
			sources = append(sources, types.SourceContent{
				Source:    f.Source,
				Type:      types.FindingURLContent,
				URL:       url,
				Title:     data.Title,
				Content:   ellipsizeNone(data.Content, pageContentCap),
				Relevance: "high",
			})

		case types.SearchPayload:
			relevance := "medium"
			if f.Source == types.SourceExaCode || f.Source == types.SourceJinaArxiv {
				relevance = "high"
			}
			for i, item := range data.Results {
				if i == itemsPerSource {
					break
				}
				if item.Text == "" {
					continue
				}
				sources = append(sources, types.SourceContent{
					Source:    f.Source,
					Type:      f.Type,
					URL:       item.URL,
					Title:     item.Title,
					Content:   ellipsizeNone(item.Text, itemContentCap),
					Relevance: relevance,
				})
			}
		}
	}

	return sources
}

const noContent = "No content extracted."

// summarize renders one finding's excerpt for the markdown report.
func summarize(f types.Finding, maxLen int) string {
	switch data := f.Data.(type) {
	case types.ChatPayload:
		if data.Content != "" {
			return ellipsize(data.Content, maxLen)
		}

	case types.PagePayload:
		if data.Content != "" {
			return ellipsize(data.Content, maxLen)
		}

	case types.SearchPayload:
		var parts []string
		for i, item := range data.Results {
			if i == 3 {
				break
			}
			if item.Title != "" {
				parts = append(parts, "**"+item.Title+"**")
			}
			if item.Text != "" {
				parts = append(parts, ellipsize(item.Text, 150))
			}
		}
		if len(parts) == 0 {
			return "Results found but no text content."
		}
		return strings.Join(parts, "\n\n")
	}

	return noContent
}

// ellipsize truncates s to at most n bytes on a rune boundary, appending
// an ellipsis when anything was cut.
func ellipsize(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return ellipsizeNone(s, n) + "..."
}

// ellipsizeNone truncates without the trailing marker.
func ellipsizeNone(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}

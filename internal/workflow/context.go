// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"fmt"
	"strings"

	"github.com/pdiddy/research-agent/pkg/types"
)

// contextCaps bounds the text excerpted from each finding kind when
// assembling a synthesis context.
type contextCaps struct {
	// OverviewChars caps LLM overview content.
	OverviewChars int

	// ItemsPerSource caps how many search hits per finding contribute.
	ItemsPerSource int

	// ItemChars caps each contributed search hit's text.
	ItemChars int

	// PageChars caps deep-read page content.
	PageChars int
}

// contextSeparator joins finding excerpts in the synthesis context.
const contextSeparator = "\n\n---\n\n"

// buildContext assembles the bounded synthesis context from findings.
// The payload union keeps the per-provider extraction in one switch;
// findings whose payload carries no text contribute nothing.
func buildContext(findings []types.Finding, caps contextCaps) string {
	var parts []string

	for _, f := range findings {
		switch data := f.Data.(type) {
		case types.ChatPayload:
			if data.Content != "" {
				parts = append(parts, "[Perplexity Overview] "+clip(data.Content, caps.OverviewChars))
			}

		case types.SearchPayload:
			count := 0
			for _, item := range data.Results {
				if item.Text == "" {
					continue
				}
				parts = append(parts, fmt.Sprintf("[%s] %s", f.Source, clip(item.Text, caps.ItemChars)))
				count++
				if count >= caps.ItemsPerSource {
					break
				}
			}

		case types.PagePayload:
			if data.Content != "" {
				url := f.URL
				if url == "" {
					url = data.URL
				}
				parts = append(parts, fmt.Sprintf("[URL: %s] %s", url, clip(data.Content, caps.PageChars)))
			}
		}
	}

	return strings.Join(parts, contextSeparator)
}

// clip truncates s to at most n bytes without splitting a UTF-8 sequence.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}

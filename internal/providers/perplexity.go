// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"bytes"
	"context"
	"text/template"
	"time"

	"github.com/pdiddy/research-agent/pkg/types"
)

// perplexityURL is the Perplexity chat completions endpoint. Declared as a
// var so tests can substitute an httptest server.
var perplexityURL = "https://api.perplexity.ai/chat/completions"

const (
	overviewModel  = "sonar"
	synthesisModel = "sonar-pro"

	// synthesisContextBudget caps the findings context submitted for
	// synthesis, keeping the prompt inside the model's input budget.
	synthesisContextBudget = 12000
)

// synthesisPromptTmpl instructs the model to synthesize collected findings
// into a structured analysis with per-source attribution.
var synthesisPromptTmpl = template.Must(template.New("synthesis").Parse(`Synthesize these research findings into a comprehensive analysis:

RESEARCH QUERY: {{.Query}}

COLLECTED FINDINGS:
{{.Context}}

Provide:
1. **Consensus** - What all sources agree on
2. **Conflicts** - Where sources disagree (with resolution if possible)
3. **Key Insights** - Most important findings
4. **Gaps** - What information is still missing
5. **Conclusion** - Final synthesis with confidence level (high/medium/low)

Be specific and cite which sources support each point.`))

// perplexityResponse is the chat completions response body.
type perplexityResponse struct {
	Model     string             `json:"model"`
	Choices   []perplexityChoice `json:"choices"`
	Citations []string           `json:"citations"`
}

type perplexityChoice struct {
	Message perplexityMessage `json:"message"`
}

type perplexityMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type perplexityRequest struct {
	Model               string              `json:"model"`
	Messages            []perplexityMessage `json:"messages"`
	SearchRecencyFilter string              `json:"search_recency_filter,omitempty"`
}

// Overview asks Perplexity for a cited overview of the query. The
// citations feed the workflow's URL pool.
func (c *Client) Overview(ctx context.Context, query string) types.APIResult {
	reqBody := perplexityRequest{
		Model: overviewModel,
		Messages: []perplexityMessage{
			{Role: "system", Content: "You are a research assistant. Provide comprehensive, well-cited answers."},
			{Role: "user", Content: query + " (focus on 2024-2025 information)"},
		},
		SearchRecencyFilter: "month",
	}

	body, err := c.chat(ctx, c.cfg.OverviewTimeout, reqBody)
	if err != nil {
		return c.failure(types.SourcePerplexity, err)
	}

	return types.APIResult{
		Source:  types.SourcePerplexity,
		Success: true,
		Data: types.ChatPayload{
			Model:     body.Model,
			Content:   firstChoice(body),
			Citations: body.Citations,
		},
		URLsFound: body.Citations,
	}
}

// Synthesize submits the query and the collected findings context to
// Perplexity and returns the synthesized analysis. The context is capped
// before submission.
func (c *Client) Synthesize(ctx context.Context, query, findings string) types.APIResult {
	if len(findings) > synthesisContextBudget {
		findings = findings[:synthesisContextBudget]
	}

	var prompt bytes.Buffer
	if err := synthesisPromptTmpl.Execute(&prompt, struct{ Query, Context string }{Query: query, Context: findings}); err != nil {
		return c.failure(types.SourcePerplexitySynthesis, err)
	}

	reqBody := perplexityRequest{
		Model: synthesisModel,
		Messages: []perplexityMessage{
			{Role: "system", Content: "You are an expert research analyst. Synthesize findings objectively."},
			{Role: "user", Content: prompt.String()},
		},
	}

	body, err := c.chat(ctx, c.cfg.SynthesisTimeout, reqBody)
	if err != nil {
		return c.failure(types.SourcePerplexitySynthesis, err)
	}

	return types.APIResult{
		Source:  types.SourcePerplexitySynthesis,
		Success: true,
		Data: types.ChatPayload{
			Model:     body.Model,
			Content:   firstChoice(body),
			Citations: body.Citations,
		},
	}
}

func (c *Client) chat(ctx context.Context, timeout time.Duration, reqBody perplexityRequest) (perplexityResponse, error) {
	build, err := postJSON(perplexityURL, reqBody, map[string]string{
		"Authorization": "Bearer " + c.perplexityKey,
	})
	if err != nil {
		return perplexityResponse{}, err
	}

	var body perplexityResponse
	if err := c.doJSON(ctx, timeout, build, &body); err != nil {
		return perplexityResponse{}, err
	}
	return body, nil
}

func firstChoice(body perplexityResponse) string {
	if len(body.Choices) == 0 {
		return ""
	}
	return body.Choices[0].Message.Content
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/classify"
	"github.com/pdiddy/research-agent/pkg/types"
)

// exploratoryCaps bounds the synthesis context built from exploratory
// findings.
var exploratoryCaps = contextCaps{
	OverviewChars:  2000,
	ItemsPerSource: 3,
	ItemChars:      800,
	PageChars:      1200,
}

// Exploratory runs the guided deep-dive strategy: an LLM overview seeds a
// URL pool, a content-type-routed secondary search extends it, the top
// URLs are read in a batch, and the collected findings are synthesized.
// No stage aborts the strategy; each works with whatever its predecessors
// produced.
func (e *Executor) Exploratory(ctx context.Context, query string) types.WorkflowResult {
	qt := classify.QueryType(query)
	e.log.Info("executing exploratory workflow",
		zap.String("query_type", string(qt)),
		zap.Int("max_urls", e.maxURLs))

	r := &run{}

	// Stage 1: overview with citations.
	r.call(e.gw.Overview(ctx, query), types.FindingOverview)

	// Stage 2: content-type-routed secondary search.
	switch qt {
	case types.QueryAcademic:
		r.call(e.gw.JinaArxivSearch(ctx, query, e.maxURLs), types.FindingAcademicPapers)
	case types.QueryCode:
		r.call(e.gw.ExaCodeSearch(ctx, query, e.maxURLs), types.FindingCodeExamples)
	case types.QueryDocumentation:
		r.call(e.gw.RefSearch(ctx, query), types.FindingDocumentation)
	default:
		r.call(e.gw.JinaSearch(ctx, query, e.maxURLs), types.FindingWebSearch)
	}

	// Stage 3: deep read the top URLs. Each read counts as one source.
	unique := dedupURLs(r.urls)
	if len(unique) > e.maxURLs {
		unique = unique[:e.maxURLs]
	}
	if len(unique) > 0 {
		r.consulted += len(unique)
		for i, res := range e.gw.ReadURLs(ctx, unique) {
			r.absorb(res, types.FindingURLContent, unique[i])
		}
	}

	// Stage 4: synthesize whatever was collected.
	synthesis := e.synthesize(ctx, query, r, exploratoryCaps)

	return r.result(types.WorkflowExploratory, qt, synthesis, unique)
}

// synthesize builds the findings context and issues the LLM synthesis
// call. It returns the synthesized text, or empty when there was nothing
// to synthesize or the call failed. Synthesis failure never flips the
// workflow's success.
func (e *Executor) synthesize(ctx context.Context, query string, r *run, caps contextCaps) string {
	if len(r.findings) == 0 {
		return ""
	}
	findingsCtx := buildContext(r.findings, caps)
	if findingsCtx == "" {
		return ""
	}

	r.consulted++
	res := e.gw.Synthesize(ctx, query, findingsCtx)
	if !res.Success {
		e.log.Warn("synthesis step failed", zap.String("error", res.Error))
		return ""
	}
	r.successful++

	if chat, ok := res.Data.(types.ChatPayload); ok {
		return chat.Content
	}
	return ""
}

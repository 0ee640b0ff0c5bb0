// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/research-agent/internal/classify"
	"github.com/pdiddy/research-agent/pkg/types"
)

// synthesisCaps bounds the synthesis context built from triple-stack
// findings. Search items get a larger budget than in the exploratory
// strategy because the triple stack is the primary evidence here.
var synthesisCaps = contextCaps{
	OverviewChars:  2000,
	ItemsPerSource: 3,
	ItemChars:      1000,
	PageChars:      1500,
}

// tripleCall is one slot of the triple stack: the search to run and the
// finding type its result is tagged with.
type tripleCall struct {
	run   func(ctx context.Context) types.APIResult
	ftype types.FindingType
}

// tripleStack returns the three concurrent searches for a content type.
// Slot order is fixed per route; findings are appended in this order
// regardless of completion order.
func (e *Executor) tripleStack(qt types.QueryType, query string) []tripleCall {
	n := e.maxSources
	switch qt {
	case types.QueryAcademic:
		return []tripleCall{
			{func(ctx context.Context) types.APIResult { return e.gw.JinaArxivSearch(ctx, query, n) }, types.FindingAcademicPapers},
			{func(ctx context.Context) types.APIResult { return e.gw.RefSearch(ctx, query) }, types.FindingDocumentation},
			{func(ctx context.Context) types.APIResult { return e.gw.ExaSearch(ctx, query, n) }, types.FindingSemanticSearch},
		}
	case types.QueryCode:
		return []tripleCall{
			{func(ctx context.Context) types.APIResult { return e.gw.ExaCodeSearch(ctx, query, n) }, types.FindingCodeExamples},
			{func(ctx context.Context) types.APIResult { return e.gw.ExaSearch(ctx, query, n) }, types.FindingSemanticSearch},
			{func(ctx context.Context) types.APIResult { return e.gw.JinaSearch(ctx, query, n) }, types.FindingWebSearch},
		}
	default: // documentation and general share a route
		return []tripleCall{
			{func(ctx context.Context) types.APIResult { return e.gw.RefSearch(ctx, query) }, types.FindingDocumentation},
			{func(ctx context.Context) types.APIResult { return e.gw.ExaSearch(ctx, query, n) }, types.FindingSemanticSearch},
			{func(ctx context.Context) types.APIResult { return e.gw.JinaSearch(ctx, query, n) }, types.FindingWebSearch},
		}
	}
}

// Synthesis runs the cross-validation strategy: three content-type-routed
// searches in parallel, a deep read over the pooled URLs, then one LLM
// synthesis call over everything collected.
func (e *Executor) Synthesis(ctx context.Context, query string) types.WorkflowResult {
	qt := classify.QueryType(query)
	e.log.Info("executing synthesis workflow",
		zap.String("query_type", string(qt)),
		zap.Int("max_sources", e.maxSources))

	r := &run{}

	// Step 1: triple stack, true fan-out/fan-in. Each slot writes only its
	// own index, so no synchronization beyond the join is needed; a slot
	// failing never cancels its siblings.
	calls := e.tripleStack(qt, query)
	slots := make([]types.APIResult, len(calls))
	var g errgroup.Group
	for i, tc := range calls {
		i, tc := i, tc
		g.Go(func() error {
			slots[i] = tc.run(ctx)
			return nil
		})
	}
	g.Wait()

	// Every slot counts as consulted, whatever its outcome. Results are
	// processed in slot order, not completion order.
	r.consulted += len(calls)
	for i, res := range slots {
		r.absorb(res, calls[i].ftype, "")
	}

	// Step 2: deep read the pooled URLs.
	unique := dedupURLs(r.urls)
	if len(unique) > synthesisReadLimit {
		unique = unique[:synthesisReadLimit]
	}
	if len(unique) > 0 {
		r.consulted += len(unique)
		for i, res := range e.gw.ReadURLs(ctx, unique) {
			r.absorb(res, types.FindingURLContent, unique[i])
		}
	}

	// Step 3: synthesize.
	synthesis := e.synthesize(ctx, query, r, synthesisCaps)

	return r.result(types.WorkflowSynthesis, qt, synthesis, unique)
}

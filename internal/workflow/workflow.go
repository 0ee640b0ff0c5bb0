// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workflow orchestrates provider calls into the three research
// strategies: direct, exploratory and synthesis. Each strategy is a fixed
// sequence of gateway calls routed by the query's content type, degrading
// gracefully when individual providers fail: partial success is success.
package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/classify"
	"github.com/pdiddy/research-agent/pkg/types"
)

// Gateway is the provider surface a strategy consults. Every operation
// returns a uniform APIResult and never an error; all transport faults are
// folded into failed results by the implementation.
type Gateway interface {
	RefSearch(ctx context.Context, query string) types.APIResult
	ExaSearch(ctx context.Context, query string, numResults int) types.APIResult
	ExaCodeSearch(ctx context.Context, query string, numResults int) types.APIResult
	ExaFindSimilar(ctx context.Context, url string, numResults int) types.APIResult
	JinaSearch(ctx context.Context, query string, numResults int) types.APIResult
	JinaArxivSearch(ctx context.Context, query string, numResults int) types.APIResult
	ReadURL(ctx context.Context, url string) types.APIResult
	ReadURLs(ctx context.Context, urls []string) []types.APIResult
	Overview(ctx context.Context, query string) types.APIResult
	Synthesize(ctx context.Context, query, findings string) types.APIResult
}

// Defaults for the executor's tunables. The fallback thresholds are
// empirically tuned; keep them overridable rather than inlined.
const (
	DefaultDocFallbackURLs = 3
	DefaultFallbackURLs    = 5
	DefaultMaxURLs         = 5
	DefaultMaxSources      = 10

	// synthesisReadLimit bounds the synthesis strategy's deep-read pass.
	synthesisReadLimit = 7
)

// Executor runs research strategies against a provider gateway.
type Executor struct {
	gw  Gateway
	log *zap.Logger

	// docFallbackURLs is the URL count below which the documentation
	// route of the direct strategy issues its fallback search.
	docFallbackURLs int

	// fallbackURLs is the URL count below which the other direct routes
	// issue their fallback search.
	fallbackURLs int

	maxURLs    int
	maxSources int
}

// NewExecutor builds an executor over gw. Zero config fields fall back to
// the package defaults.
func NewExecutor(gw Gateway, cfg types.ResearchConfig, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Executor{
		gw:              gw,
		log:             log,
		docFallbackURLs: cfg.DocFallbackURLs,
		fallbackURLs:    cfg.FallbackURLs,
		maxURLs:         cfg.MaxURLs,
		maxSources:      cfg.MaxSources,
	}
	if e.docFallbackURLs <= 0 {
		e.docFallbackURLs = DefaultDocFallbackURLs
	}
	if e.fallbackURLs <= 0 {
		e.fallbackURLs = DefaultFallbackURLs
	}
	if e.maxURLs <= 0 {
		e.maxURLs = DefaultMaxURLs
	}
	if e.maxSources <= 0 {
		e.maxSources = DefaultMaxSources
	}
	return e
}

// Execute dispatches to the strategy matching wf. An unrecognized workflow
// is a precondition failure: no provider is called.
func (e *Executor) Execute(ctx context.Context, wf types.Workflow, query string) (types.WorkflowResult, error) {
	switch wf {
	case types.WorkflowDirect:
		return e.Direct(ctx, query), nil
	case types.WorkflowExploratory:
		return e.Exploratory(ctx, query), nil
	case types.WorkflowSynthesis:
		return e.Synthesis(ctx, query), nil
	}
	return types.WorkflowResult{}, fmt.Errorf("unknown workflow type: %s", wf)
}

// run accumulates one strategy execution's state. It is only ever touched
// from the orchestrating goroutine, so it needs no synchronization.
type run struct {
	consulted  int
	successful int
	findings   []types.Finding
	urls       []string
}

// call counts one issued provider call and absorbs its result.
func (r *run) call(res types.APIResult, ftype types.FindingType) {
	r.consulted++
	r.absorb(res, ftype, "")
}

// absorb folds a result into the accumulator without counting a call.
// Successful results become findings; their URLs extend the pool.
func (r *run) absorb(res types.APIResult, ftype types.FindingType, url string) {
	if !res.Success || res.Data == nil {
		return
	}
	r.successful++
	r.findings = append(r.findings, types.Finding{
		Source: res.Source,
		Type:   ftype,
		URL:    url,
		Data:   res.Data,
	})
	r.urls = append(r.urls, res.URLsFound...)
}

// result assembles the final WorkflowResult. Success means at least one
// finding; urlsDiscovered is whatever URL list the strategy settled on.
func (r *run) result(wf types.Workflow, qt types.QueryType, synthesis string, urlsDiscovered []string) types.WorkflowResult {
	if urlsDiscovered == nil {
		urlsDiscovered = []string{}
	}
	return types.WorkflowResult{
		Workflow:          wf,
		QueryType:         qt,
		Success:           len(r.findings) > 0,
		SourcesConsulted:  r.consulted,
		SuccessfulSources: r.successful,
		Findings:          r.findings,
		Synthesis:         synthesis,
		URLsDiscovered:    urlsDiscovered,
	}
}

// dedupURLs removes duplicates preserving order; first occurrence wins.
func dedupURLs(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	var unique []string
	for _, u := range urls {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		unique = append(unique, u)
	}
	return unique
}

// Direct runs the single-authoritative-source strategy: one primary search
// routed by content type, plus a fallback search when the primary failed
// or discovered too few URLs.
func (e *Executor) Direct(ctx context.Context, query string) types.WorkflowResult {
	qt := classify.QueryType(query)
	e.log.Info("executing direct workflow",
		zap.String("query_type", string(qt)))

	r := &run{}

	switch qt {
	case types.QueryDocumentation:
		r.call(e.gw.RefSearch(ctx, query), types.FindingDocumentation)
		if len(r.findings) == 0 || len(r.urls) < e.docFallbackURLs {
			r.call(e.gw.ExaSearch(ctx, query, 5), types.FindingSemanticSearch)
		}

	case types.QueryCode:
		r.call(e.gw.ExaCodeSearch(ctx, query, 10), types.FindingCodeExamples)
		if len(r.urls) < e.fallbackURLs {
			r.call(e.gw.ExaSearch(ctx, query, 5), types.FindingSemanticSearch)
		}

	case types.QueryAcademic:
		r.call(e.gw.JinaArxivSearch(ctx, query, 10), types.FindingAcademicPapers)
		if len(r.urls) < e.fallbackURLs {
			r.call(e.gw.JinaSearch(ctx, query, 5), types.FindingWebSearch)
		}

	default:
		r.call(e.gw.JinaSearch(ctx, query, 10), types.FindingWebSearch)
		if len(r.urls) < e.fallbackURLs {
			r.call(e.gw.ExaSearch(ctx, query, 5), types.FindingSemanticSearch)
		}
	}

	return r.result(types.WorkflowDirect, qt, "", dedupURLs(r.urls))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify maps a research query to a workflow tier and a content
// type using ordered pattern groups. Both classifications are pure,
// case-insensitive and total: every input yields a label.
package classify

import (
	"regexp"
	"strings"

	"github.com/pdiddy/research-agent/pkg/types"
)

// Each group is an ordered list of independent word-boundary patterns.
// Groups are evaluated in priority order and the first group with any
// matching pattern wins, regardless of how many patterns matched.
// Overlapping patterns are common across groups, so group order alone
// decides the outcome.

// synthesisPatterns signal comparison, trade-off and consensus queries.
var synthesisPatterns = compileAll([]string{
	`\bcompare\b`,
	`\bvs\.?\b`,
	`\bversus\b`,
	`\bbest practices\b`,
	`\brecommended\b`,
	`\bwhich is better\b`,
	`\bwhich should\b`,
	`\bpros and cons\b`,
	`\btrade-?offs?\b`,
	`\bdifferences? between\b`,
	`\badvantages?\b.*\bdisadvantages?\b`,
	`\bstrengths?\b.*\bweaknesses?\b`,
})

// directPatterns signal specific technical queries with a likely
// authoritative source.
var directPatterns = compileAll([]string{
	`\bhow does [\w\s]+ work\b`,
	`\bexplain [\w\s]+\b`,
	`\bwhat is the [\w\s]+ (api|function|method|class)\b`,
	`\bdocumentation for\b`,
	`\bsyntax of\b`,
	`\bexample of\b`,
	`\bhow to use\b`,
	// Technology names that likely have official docs.
	`\b(asyncio|react|vue|angular|django|fastapi|flask|express|nextjs|nuxt)\b`,
	`\b(typescript|python|javascript|rust|go|java)\s+(api|docs|documentation)\b`,
	`\b(aws|azure|gcp|firebase|supabase)\s+\w+\b`,
})

// academicPatterns signal paper and research-literature queries.
var academicPatterns = compileAll([]string{
	`\bresearch\s+paper\b`,
	`\bscientific\s+study\b`,
	`\bacademic\b`,
	`\barxiv\b`,
	`\bpublication\b`,
	`\bjournal\b`,
	`\bpeer[\s-]?review(ed)?\b`,
	`\bstate[\s-]?of[\s-]?the[\s-]?art\b`,
	`\bnovel\s+approach\b`,
	`\btheoretical\b`,
	`\bempirical\s+(study|analysis|evidence)\b`,
	`\bbenchmark\s+results\b`,
	`\bexperimental\s+results\b`,
	`\bmachine\s+learning\s+(model|algorithm|approach)\b`,
	`\bdeep\s+learning\b`,
	`\bneural\s+network\b`,
	`\btransformer\s+(model|architecture)\b`,
	`\blarge\s+language\s+model\b`,
	`\bllm\b`,
})

// codePatterns signal implementation and source-code queries.
var codePatterns = compileAll([]string{
	`\bcode\s+example\b`,
	`\bimplementation\b`,
	`\bhow\s+to\s+implement\b`,
	`\bcode\s+snippet\b`,
	`\bsource\s+code\b`,
	`\bgithub\b`,
	`\brepository\b`,
	`\bfunction\s+to\b`,
	`\bclass\s+for\b`,
	`\bwrite\s+(a\s+)?(code|function|class|script)\b`,
	`\bboilerplate\b`,
	`\bstarter\s+(template|code)\b`,
	`\bworking\s+example\b`,
})

// documentationPatterns signal API-reference and official-docs queries.
var documentationPatterns = compileAll([]string{
	`\bdocumentation\b`,
	`\bdocs\b`,
	`\bapi\s+reference\b`,
	`\bofficial\s+(docs|guide)\b`,
	`\bmethod\s+signature\b`,
	`\bparameters?\s+(for|of)\b`,
	`\breturn\s+type\b`,
	`\btype\s+definition\b`,
	`\bconfiguration\s+options?\b`,
	`\bsettings?\s+for\b`,
})

func compileAll(exprs []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		compiled[i] = regexp.MustCompile(e)
	}
	return compiled
}

func anyMatch(patterns []*regexp.Regexp, query string) bool {
	for _, p := range patterns {
		if p.MatchString(query) {
			return true
		}
	}
	return false
}

// Workflow classifies a query into the orchestration strategy to run.
// Synthesis signals are checked before direct signals; everything else
// defaults to exploratory.
func Workflow(query string) types.Workflow {
	q := strings.ToLower(query)

	if anyMatch(synthesisPatterns, q) {
		return types.WorkflowSynthesis
	}
	if anyMatch(directPatterns, q) {
		return types.WorkflowDirect
	}
	return types.WorkflowExploratory
}

// QueryType classifies a query into the content type used for provider
// routing. Academic signals are checked first, then code, then
// documentation; everything else defaults to general.
func QueryType(query string) types.QueryType {
	q := strings.ToLower(query)

	if anyMatch(academicPatterns, q) {
		return types.QueryAcademic
	}
	if anyMatch(codePatterns, q) {
		return types.QueryCode
	}
	if anyMatch(documentationPatterns, q) {
		return types.QueryDocumentation
	}
	return types.QueryGeneral
}

// WorkflowDescription returns the human-readable description of a workflow.
func WorkflowDescription(w types.Workflow) string {
	switch w {
	case types.WorkflowDirect:
		return "Single authoritative source lookup"
	case types.WorkflowExploratory:
		return "Perplexity-guided deep dive with URL analysis"
	case types.WorkflowSynthesis:
		return "Triple Stack cross-validation with synthesis"
	}
	return "Unknown workflow"
}

// QueryTypeDescription returns the human-readable description of a query type.
func QueryTypeDescription(qt types.QueryType) string {
	switch qt {
	case types.QueryDocumentation:
		return "Official documentation and API references"
	case types.QueryCode:
		return "Code examples and implementations"
	case types.QueryAcademic:
		return "Research papers and academic literature"
	case types.QueryGeneral:
		return "General web content and articles"
	}
	return "Unknown query type"
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/research-agent/internal/classify"
	"github.com/pdiddy/research-agent/internal/report"
	"github.com/pdiddy/research-agent/pkg/types"
)

// End-to-end flow over a mocked gateway: classification, triple-stack
// execution and both report renderings for a comparison query.
func TestComparisonQueryEndToEnd(t *testing.T) {
	query := "Compare FastAPI vs Flask"

	wf := classify.Workflow(query)
	if wf != types.WorkflowSynthesis {
		t.Fatalf("workflow = %q, want synthesis", wf)
	}

	gw := newMockGateway()
	gw.set("ref", searchOK(types.SourceRef, "https://fastapi.tiangolo.com"))
	gw.set("exa", searchOK(types.SourceExa, "https://flask.palletsprojects.com"))
	gw.set("jina", searchOK(types.SourceJina, "https://blog.example/fastapi-vs-flask"))
	gw.set("synthesize", chatOK(types.SourcePerplexitySynthesis, "Both frameworks serve REST APIs well."))

	res, err := newExec(gw, types.ResearchConfig{}).Execute(context.Background(), wf, query)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success {
		t.Fatal("expected success")
	}
	if res.SourcesConsulted < 3 {
		t.Errorf("consulted = %d, want at least the triple stack", res.SourcesConsulted)
	}

	rep := report.Generate(query, res, 4200*time.Millisecond)
	if rep.Workflow != types.WorkflowSynthesis {
		t.Errorf("report workflow = %q", rep.Workflow)
	}
	if rep.ActorFee != report.FeeSynthesis {
		t.Errorf("fee = %v, want %v", rep.ActorFee, report.FeeSynthesis)
	}
	if rep.Synthesis == "" {
		t.Error("report missing synthesis text")
	}

	md := report.GenerateMarkdown(query, res, 4200*time.Millisecond)
	if !strings.HasPrefix(md, "# Deep Research Report") {
		t.Errorf("markdown does not open with the report heading: %q", md[:40])
	}
	if !strings.Contains(md, "## Metadata") {
		t.Error("markdown missing the metadata section")
	}
	if !strings.Contains(md, "- **Sources Consulted:** 7") {
		// 3 searches + 3 reads + synthesis
		t.Errorf("markdown metadata sources line missing; consulted = %d", res.SourcesConsulted)
	}
}

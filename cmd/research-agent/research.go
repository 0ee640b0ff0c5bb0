// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/classify"
	"github.com/pdiddy/research-agent/internal/ledger"
	"github.com/pdiddy/research-agent/internal/providers"
	"github.com/pdiddy/research-agent/internal/report"
	"github.com/pdiddy/research-agent/internal/secrets"
	"github.com/pdiddy/research-agent/internal/workflow"
	"github.com/pdiddy/research-agent/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [query]",
	Short: "Execute a research query through the matching workflow tier",
	Long: `Research classifies the query into a workflow tier, runs the tier's
provider calls, and writes two reports to the output directory: a
structured report.json and a human-readable report.md. Each run is also
recorded in the local run ledger.

The tier can be forced with --workflow; the default auto-classifies
from the query's phrasing.`,
	RunE: runResearch,
}

func runResearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	if missing := secrets.Missing(loadedSecrets, secrets.Required...); len(missing) > 0 {
		return fmt.Errorf("missing required API keys: %s", strings.Join(missing, ", "))
	}

	workflowFlag, _ := cmd.Flags().GetString("workflow")
	maxSources, _ := cmd.Flags().GetInt("max-sources")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	ledgerDir, _ := cmd.Flags().GetString("ledger-dir")

	wf, err := resolveWorkflow(workflowFlag, query)
	if err != nil {
		return err
	}

	qt := classify.QueryType(query)
	logger.Info("starting research",
		zap.String("query", query),
		zap.String("workflow", string(wf)),
		zap.String("query_type", string(qt)),
		zap.Int("max_sources", maxSources))

	client := providers.NewClient(
		loadedSecrets[secrets.KeyRef],
		loadedSecrets[secrets.KeyExa],
		loadedSecrets[secrets.KeyJina],
		loadedSecrets[secrets.KeyPerplexity],
		providerConfig(),
		logger,
	)

	exec := workflow.NewExecutor(client, researchConfig(maxSources), logger)

	ctx := context.Background()
	start := time.Now()
	res, err := exec.Execute(ctx, wf, query)
	if err != nil {
		return err
	}
	duration := time.Since(start)

	logger.Info("workflow completed",
		zap.Duration("duration", duration),
		zap.Int("sources_consulted", res.SourcesConsulted),
		zap.Int("successful_sources", res.SuccessfulSources))

	rep := report.Generate(query, res, duration)
	md := report.GenerateMarkdown(query, res, duration)

	if err := writeReports(outputDir, rep, md); err != nil {
		return err
	}

	runID, err := recordRun(ctx, ledgerDir, rep, len(res.Findings))
	if err != nil {
		// A ledger fault must not discard a completed run.
		logger.Warn("ledger record failed", zap.Error(err))
	}

	printSummary(cmd, rep, runID, outputDir)
	return nil
}

// resolveWorkflow maps the --workflow flag to a tier, auto-classifying by
// default. Anything else is rejected before any provider is touched.
func resolveWorkflow(flag, query string) (types.Workflow, error) {
	switch flag {
	case "auto", "":
		return classify.Workflow(query), nil
	case string(types.WorkflowDirect):
		return types.WorkflowDirect, nil
	case string(types.WorkflowExploratory):
		return types.WorkflowExploratory, nil
	case string(types.WorkflowSynthesis):
		return types.WorkflowSynthesis, nil
	}
	return "", fmt.Errorf("unknown workflow type: %s", flag)
}

func providerConfig() types.ProviderConfig {
	var cfg types.ProviderConfig
	cfg.Timeout = viper.GetDuration("providers.timeout")
	cfg.ReadTimeout = viper.GetDuration("providers.read_timeout")
	cfg.OverviewTimeout = viper.GetDuration("providers.overview_timeout")
	cfg.SynthesisTimeout = viper.GetDuration("providers.synthesis_timeout")
	return cfg
}

func researchConfig(maxSources int) types.ResearchConfig {
	return types.ResearchConfig{
		MaxSources:      maxSources,
		MaxURLs:         min(maxSources, workflow.DefaultMaxURLs),
		DocFallbackURLs: viper.GetInt("research.doc_fallback_urls"),
		FallbackURLs:    viper.GetInt("research.fallback_urls"),
	}
}

func writeReports(outputDir string, rep types.Report, md string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, "report.json"), data, 0o644); err != nil {
		return fmt.Errorf("writing report.json: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, "report.md"), []byte(md), 0o644); err != nil {
		return fmt.Errorf("writing report.md: %w", err)
	}
	return nil
}

func recordRun(ctx context.Context, ledgerDir string, rep types.Report, findings int) (string, error) {
	store, err := ledger.NewStore(types.LedgerConfig{LedgerDir: ledgerDir})
	if err != nil {
		return "", err
	}
	defer store.Close()
	return store.Record(ctx, rep, findings)
}

func printSummary(cmd *cobra.Command, rep types.Report, runID, outputDir string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Workflow: %s (%s)\n", rep.Workflow, rep.WorkflowDescription)
	fmt.Fprintf(out, "Query type: %s (%s)\n", rep.QueryType, rep.QueryTypeDescription)
	fmt.Fprintf(out, "Duration: %.2fs\n", rep.DurationSeconds)
	fmt.Fprintf(out, "Sources: %d/%d successful\n", rep.SuccessfulSources, rep.SourceCount)
	fmt.Fprintf(out, "Fee: $%.2f\n", rep.ActorFee)
	if runID != "" {
		fmt.Fprintf(out, "Run ID: %s\n", runID)
	}
	fmt.Fprintf(out, "Reports written to %s/report.md and %s/report.json\n", outputDir, outputDir)
}

func init() {
	researchCmd.Flags().String("workflow", "auto", "workflow tier: auto, direct, exploratory, or synthesis")
	researchCmd.Flags().Int("max-sources", 10, "maximum results per provider search")
	researchCmd.Flags().String("output-dir", "output", "directory for report.md and report.json")
	researchCmd.Flags().String("ledger-dir", "ledger", "directory for the run ledger database")

	rootCmd.AddCommand(researchCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-agent/internal/ledger"
	"github.com/pdiddy/research-agent/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the local run ledger (list, show, export)",
	Long: `Runs reads the local SQLite run ledger written by the research command.
Use subcommands to list recent runs, show one stored report, or export
the whole ledger to YAML.`,
}

// --- list subcommand ---

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE:  runRunsList,
}

func runRunsList(cmd *cobra.Command, args []string) error {
	store, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRunsOutput(runs, jsonOutput)
}

func formatRunsOutput(runs []ledger.Run, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-40s  %-11s  %-8s  %-6s  %-7s  %s\n",
		"ID", "Query", "Workflow", "Sources", "Fee", "Success", "Timestamp")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 125))

	for _, r := range runs {
		query := r.Query
		if len(query) > 40 {
			query = query[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-40s  %-11s  %3d/%-4d  $%.2f  %-7t  %s\n",
			r.ID, query, r.Workflow, r.SuccessfulSources, r.SourcesConsulted,
			r.ActorFee, r.Success, r.Timestamp)
	}

	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

// --- show subcommand ---

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Print one stored report as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	store, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	rep, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// --- export subcommand ---

var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the run ledger to YAML",
	RunE:  runRunsExport,
}

func runRunsExport(cmd *cobra.Command, args []string) error {
	store, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ExportYAML(context.Background()); err != nil {
		return err
	}

	ledgerDir, _ := cmd.Flags().GetString("ledger-dir")
	fmt.Println("Exported to", filepath.Join(ledgerDir, "export.yaml"))
	return nil
}

// --- shared helpers ---

func openLedger(cmd *cobra.Command) (*ledger.Store, error) {
	ledgerDir, _ := cmd.Flags().GetString("ledger-dir")
	maxListed, _ := cmd.Flags().GetInt("limit")
	return ledger.NewStore(types.LedgerConfig{LedgerDir: ledgerDir, MaxListed: maxListed})
}

func init() {
	runsCmd.PersistentFlags().String("ledger-dir", "ledger", "directory holding the run ledger database")
	runsCmd.PersistentFlags().Int("limit", 0, "maximum runs to list (0 = default)")

	runsListCmd.Flags().Bool("json", false, "output runs as JSON")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsExportCmd)

	rootCmd.AddCommand(runsCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-agent/pkg/types"
)

// ExportEntry is one exported run: the ledger row with its full report
// inlined.
type ExportEntry struct {
	Run    `yaml:",inline"`
	Report types.Report `json:"report" yaml:"report"`
}

const exportLimit = 100000

// ExportYAML writes the whole ledger to ledgerDir/export.yaml, newest
// run first.
func (s *Store) ExportYAML(ctx context.Context) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}

	path := filepath.Join(s.ledgerDir, "export.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, workflow, query_type, sources_consulted,
			successful_sources, findings, urls_discovered, actor_fee, success,
			timestamp, report
		 FROM runs ORDER BY timestamp DESC LIMIT ?`, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	defer rows.Close()

	entries := []ExportEntry{}
	for rows.Next() {
		var e ExportEntry
		var reportJSON string
		if err := rows.Scan(&e.ID, &e.Query, &e.Workflow, &e.QueryType,
			&e.SourcesConsulted, &e.SuccessfulSources, &e.Findings,
			&e.URLsDiscovered, &e.ActorFee, &e.Success, &e.Timestamp,
			&reportJSON); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if err := json.Unmarshal([]byte(reportJSON), &e.Report); err != nil {
			return nil, fmt.Errorf("parsing stored report %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sprite-ai/lintmux/internal/model"
)

// SARIF 2.1.0, minimal shape: the subset downstream code-scanning tools
// ingest uniformly across checkers.

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

// SARIFSink writes the report as an indented SARIF document. Output is
// byte-identical for identical reports: result order follows the report's
// stable diagnostic order.
type SARIFSink struct {
	Path    string
	Version string // tool version recorded in the driver block
}

func (s *SARIFSink) Name() string { return "sarif" }

func (s *SARIFSink) Emit(r *model.AggregateReport) error {
	doc := sarifLog{
		Version: "2.1.0",
		Schema:  "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json",
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: sarifDriver{Name: "lintmux", Version: s.Version}},
			Results: []sarifResult{},
		}},
	}

	for _, d := range r.Diagnostics {
		res := sarifResult{
			RuleID:  d.RuleID,
			Level:   sarifLevel(d.Severity),
			Message: sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: d.File},
				},
			}},
		}
		if d.Line > 0 {
			res.Locations[0].PhysicalLocation.Region = &sarifRegion{
				StartLine:   d.Line,
				StartColumn: d.Column,
			}
		}
		doc.Runs[0].Results = append(doc.Runs[0].Results, res)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encoding sarif: %w", err)
	}
	if err := os.WriteFile(s.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.Path, err)
	}
	return nil
}

func sarifLevel(s model.Severity) string {
	switch s {
	case model.SeverityError:
		return "error"
	case model.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

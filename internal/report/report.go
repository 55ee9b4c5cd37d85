package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"radarnet/internal/render"
	"radarnet/internal/risk"
)

type ReportMeta struct {
	RunID        string `json:"run_id"`
	Source       string `json:"source"`
	GeneratedAt  string `json:"generated_at"`
	FailOn       string `json:"fail_on"`
	ThresholdMet bool   `json:"threshold_met"`
}

// NewMeta stamps a fresh run id and the generation time.
func NewMeta(source, failOn string, thresholdMet bool, now time.Time) ReportMeta {
	return ReportMeta{
		RunID:        uuid.NewString(),
		Source:       source,
		GeneratedAt:  now.UTC().Format(time.RFC3339),
		FailOn:       failOn,
		ThresholdMet: thresholdMet,
	}
}

type Report struct {
	Meta   ReportMeta    `json:"meta"`
	Report risk.Document `json:"report"`
}

// Generate writes report.json and report.md into outDir.
func Generate(outDir string, meta ReportMeta, rep risk.Report, logger *slog.Logger) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	// 1. JSON Report
	doc := Report{
		Meta:   meta,
		Report: rep.Document(),
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	jsonPath := filepath.Join(outDir, "report.json")
	if err := os.WriteFile(jsonPath, jsonBytes, 0644); err != nil {
		return err
	}

	// 2. Markdown Report
	mdPath := filepath.Join(outDir, "report.md")
	if err := os.WriteFile(mdPath, []byte(generateMarkdown(meta, rep)), 0644); err != nil {
		return err
	}

	if logger != nil {
		logger.Debug("report written", "run_id", meta.RunID, "json", jsonPath, "markdown", mdPath)
	}
	return nil
}

func generateMarkdown(meta ReportMeta, rep risk.Report) string {
	var sb strings.Builder

	sb.WriteString("# RadarNet Report\n\n")
	fmt.Fprintf(&sb, "**Network:** `%s`\n", rep.NetworkName())
	fmt.Fprintf(&sb, "**Source:** `%s`\n", meta.Source)
	fmt.Fprintf(&sb, "**Run ID:** %s\n", meta.RunID)
	fmt.Fprintf(&sb, "**Generated:** %s\n", meta.GeneratedAt)
	if meta.FailOn != "" {
		status := "not met"
		if meta.ThresholdMet {
			status = "met"
		}
		fmt.Fprintf(&sb, "**Fail On:** %s (%s)\n", meta.FailOn, status)
	}
	sb.WriteString("\n")

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Score | Max Score | Ratio | Severity |\n")
	sb.WriteString("| :--- | :--- | :--- | :--- |\n")
	fmt.Fprintf(&sb, "| %d | %d | %s | %s |\n", rep.Score(), rep.MaxScore(), render.Percent(rep.Ratio()), rep.Severity())
	sb.WriteString("\n")

	findings := rep.Findings()
	fmt.Fprintf(&sb, "## Findings (%d)\n\n", len(findings))
	if len(findings) == 0 {
		sb.WriteString("_No findings._\n")
	}
	for _, f := range findings {
		fmt.Fprintf(&sb, "- %s\n", f)
	}

	return sb.String()
}

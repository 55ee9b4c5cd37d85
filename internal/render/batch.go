package render

import (
	"fmt"
	"io"
	"strings"

	"radarnet/internal/aggregate"
	"radarnet/internal/model"
)

type batchEntry struct {
	Source string `json:"source"`
	Report any    `json:"report"`
}

// Batch writes one block per entry, in the order given, then a tally line
// for text output. JSON output is an array of {source, report}.
func Batch(w io.Writer, format Format, entries []aggregate.Entry, opts Options) error {
	if format == FormatJSON {
		payload := make([]batchEntry, 0, len(entries))
		for _, e := range entries {
			payload = append(payload, batchEntry{Source: e.Source, Report: Payload(e.Report, opts.SummaryOnly)})
		}
		return encode(w, payload)
	}

	var sb strings.Builder
	p := newPalette(w, opts.Color)
	for _, e := range entries {
		rep := e.Report
		fmt.Fprintf(&sb, "%s\t%d/%d (%s)\t%s\t%s\n",
			p.severity(rep.Severity()), rep.Score(), rep.MaxScore(), Percent(rep.Ratio()), rep.NetworkName(), e.Source)
		if opts.SummaryOnly {
			continue
		}
		for _, f := range rep.Findings() {
			fmt.Fprintf(&sb, "  - %s\n", f)
		}
	}

	counts := aggregate.CountBySeverity(entries)
	fmt.Fprintf(&sb, "Networks: %d", len(entries))
	for i := len(model.Severities) - 1; i >= 0; i-- {
		sev := model.Severities[i]
		fmt.Fprintf(&sb, ", %s: %d", sev, counts[sev])
	}
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

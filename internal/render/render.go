package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"radarnet/internal/model"
	"radarnet/internal/risk"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (use text or json)", s)
	}
}

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", fmt.Errorf("invalid color mode: %s (use auto, always or never)", s)
	}
}

// UseColor resolves a colour mode for w. Auto enables colour only when w is
// a terminal and NO_COLOR is unset.
func UseColor(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Options control how a report is written.
type Options struct {
	SummaryOnly bool
	Color       bool
}

// Write renders the report in the given format.
func Write(w io.Writer, format Format, report risk.Report, opts Options) error {
	switch format {
	case FormatJSON:
		return JSON(w, report, opts)
	default:
		return Text(w, report, opts)
	}
}

// Percent formats a ratio the way the text report shows it: 0.1538 -> 15.38%.
func Percent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}

// Text writes the human-readable report.
func Text(w io.Writer, report risk.Report, opts Options) error {
	var sb strings.Builder
	sev := newPalette(w, opts.Color).severity(report.Severity())

	fmt.Fprintf(&sb, "Network: %s\n", report.NetworkName())
	fmt.Fprintf(&sb, "Score: %d/%d (%s)\n", report.Score(), report.MaxScore(), Percent(report.Ratio()))
	fmt.Fprintf(&sb, "Severity: %s\n", sev)

	findings := report.Findings()
	if len(findings) > 0 && !opts.SummaryOnly {
		sb.WriteString("Findings:\n")
		for _, f := range findings {
			fmt.Fprintf(&sb, "- %s\n", f)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// summaryDocument is risk.Document without the findings field.
type summaryDocument struct {
	NetworkName string         `json:"network_name"`
	Score       int            `json:"score"`
	MaxScore    int            `json:"max_score"`
	Severity    model.Severity `json:"severity"`
	Ratio       float64        `json:"ratio"`
}

// Payload returns the structured value JSON output encodes.
func Payload(report risk.Report, summaryOnly bool) any {
	doc := report.Document()
	if !summaryOnly {
		return doc
	}
	return summaryDocument{
		NetworkName: doc.NetworkName,
		Score:       doc.Score,
		MaxScore:    doc.MaxScore,
		Severity:    doc.Severity,
		Ratio:       doc.Ratio,
	}
}

// JSON writes the structured report, indented by two spaces.
func JSON(w io.Writer, report risk.Report, opts Options) error {
	return encode(w, Payload(report, opts.SummaryOnly))
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

type palette struct {
	enabled  bool
	renderer *lipgloss.Renderer
}

func newPalette(w io.Writer, enabled bool) palette {
	p := palette{enabled: enabled}
	if enabled {
		p.renderer = lipgloss.NewRenderer(w)
		p.renderer.SetColorProfile(termenv.ANSI256)
	}
	return p
}

var severityColors = map[model.Severity]lipgloss.Color{
	model.SeverityLow:      lipgloss.Color("42"),
	model.SeverityMedium:   lipgloss.Color("214"),
	model.SeverityHigh:     lipgloss.Color("202"),
	model.SeverityCritical: lipgloss.Color("196"),
}

func (p palette) severity(s model.Severity) string {
	if !p.enabled {
		return string(s)
	}
	style := p.renderer.NewStyle().Bold(true)
	if c, ok := severityColors[s]; ok {
		style = style.Foreground(c)
	}
	return style.Render(string(s))
}

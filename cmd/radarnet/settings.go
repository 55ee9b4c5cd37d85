package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"radarnet/internal/config"
	"radarnet/internal/loader"
	"radarnet/internal/render"
	"radarnet/internal/risk"
)

// flagValues are the raw flag values shared by every command.
type flagValues struct {
	configPath  string
	format      string
	inputFormat string
	failOn      string
	summaryOnly bool
	color       string
	metricsFile string
	verbose     bool

	outDir      string
	concurrency int
}

// settings are flag values merged over the config file and parsed.
type settings struct {
	format      render.Format
	inputFormat loader.Format
	failOn      string
	summaryOnly bool
	color       render.ColorMode
	metricsFile string
	outDir      string
	concurrency int
}

func bindSharedFlags(cmd *cobra.Command, fv *flagValues) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&fv.configPath, "config", config.DefaultPath,
		"Config file with default settings")
	flags.StringVar(&fv.format, "format", "text",
		"Output format: text or json")
	flags.StringVar(&fv.inputFormat, "input-format", "auto",
		"Input document format: auto, json or yaml")
	flags.StringVar(&fv.failOn, "fail-on", "",
		"Exit with code 2 if report severity is at or above this value (low, medium, high, critical)")
	flags.BoolVar(&fv.summaryOnly, "summary-only", false,
		"Only print summary fields (hide findings)")
	flags.StringVar(&fv.color, "color", "auto",
		"Colour severity in text output: auto, always or never")
	flags.StringVar(&fv.metricsFile, "metrics-file", "",
		"Write Prometheus gauges to this file")
	flags.BoolVarP(&fv.verbose, "verbose", "v", false,
		"Log progress to stderr")
}

// resolve merges config file values under explicitly set flags and parses
// every setting before any document is read.
func resolve(cmd *cobra.Command, fv *flagValues) (settings, error) {
	cfg, err := config.Load(fv.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return settings{}, err
	}

	changed := cmd.Flags().Changed
	if changed("format") {
		cfg.Format = fv.format
	}
	if changed("input-format") {
		cfg.InputFormat = fv.inputFormat
	}
	if changed("fail-on") {
		cfg.FailOn = fv.failOn
	}
	if changed("summary-only") {
		cfg.SummaryOnly = fv.summaryOnly
	}
	if changed("color") {
		cfg.Color = fv.color
	}
	if changed("metrics-file") {
		cfg.MetricsFile = fv.metricsFile
	}
	if changed("out") {
		cfg.OutDir = fv.outDir
	}
	if changed("concurrency") {
		cfg.Concurrency = fv.concurrency
	}

	s := settings{
		failOn:      cfg.FailOn,
		summaryOnly: cfg.SummaryOnly,
		metricsFile: cfg.MetricsFile,
		outDir:      cfg.OutDir,
		concurrency: cfg.Concurrency,
	}
	if s.format, err = render.ParseFormat(cfg.Format); err != nil {
		return settings{}, err
	}
	if s.inputFormat, err = loader.ParseFormat(cfg.InputFormat); err != nil {
		return settings{}, err
	}
	if s.color, err = render.ParseColorMode(cfg.Color); err != nil {
		return settings{}, err
	}
	if s.failOn != "" {
		if _, err := risk.ParseThreshold(s.failOn); err != nil {
			return settings{}, err
		}
	}
	return s, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

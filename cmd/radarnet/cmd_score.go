package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"radarnet/internal/loader"
	"radarnet/internal/metrics"
	"radarnet/internal/render"
	"radarnet/internal/report"
	"radarnet/internal/risk"
)

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	fv := &flagValues{}

	root := &cobra.Command{
		Use:   "radarnet <input>",
		Short: "RadarNet risk scorer",
		Long: `Score a declarative network description for risk.

The input is a JSON or YAML document describing nodes and the services they
expose. Use '-' to read the document from standard input.

Exit Codes:
  0 = Scored; severity below --fail-on (or no threshold given)
  1 = Invalid input or other failure
  2 = Severity at or above --fail-on`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolve(cmd, fv)
			if err != nil {
				return err
			}
			logger := newLogger(stderr, fv.verbose)
			return runScore(cmd.OutOrStdout(), loader.New(stdin, logger), args[0], s, logger)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	bindSharedFlags(root, fv)
	root.Flags().StringVar(&fv.outDir, "out", "",
		"Also write report.json and report.md to this directory")

	root.AddCommand(newBatchCmd(fv, stderr))
	return root
}

func runScore(stdout io.Writer, l *loader.Loader, input string, s settings, logger *slog.Logger) error {
	network, err := l.Load(input, s.inputFormat)
	if err != nil {
		return err
	}

	rep, err := risk.ScoreNetwork(network)
	if err != nil {
		return err
	}
	logger.Debug("scored network",
		"network", rep.NetworkName(),
		"score", rep.Score(),
		"max_score", rep.MaxScore(),
		"severity", rep.Severity())

	met := false
	if s.failOn != "" {
		if met, err = risk.MeetsSeverityThreshold(rep, s.failOn); err != nil {
			return err
		}
	}

	opts := render.Options{SummaryOnly: s.summaryOnly, Color: render.UseColor(s.color, stdout)}
	if err := render.Write(stdout, s.format, rep, opts); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if s.outDir != "" {
		meta := report.NewMeta(input, s.failOn, met, time.Now())
		if err := report.Generate(s.outDir, meta, rep, logger); err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}
	}

	if s.metricsFile != "" {
		exporter := metrics.NewExporter()
		exporter.Observe(input, rep)
		if err := exporter.WriteTextfile(s.metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		logger.Debug("metrics written", "path", s.metricsFile)
	}

	if met {
		return errThresholdMet
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"radarnet/internal/aggregate"
	"radarnet/internal/batch"
	"radarnet/internal/config"
	"radarnet/internal/detect"
	"radarnet/internal/loader"
	"radarnet/internal/metrics"
	"radarnet/internal/render"
	"radarnet/internal/risk"
)

func newBatchCmd(fv *flagValues, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <path>...",
		Short: "Score many network documents",
		Long: `Score every network document given, searching directories for
.json, .yaml and .yml files. Files found in a directory count only when
they have a top-level "nodes" key; radarnet.yaml and the --config file are
skipped. Each document is scored once, concurrently, and listed by
severity, highest first.

Any invalid document fails the whole run. With --fail-on the run exits
with code 2 if any network meets the threshold.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolve(cmd, fv)
			if err != nil {
				return err
			}
			for _, a := range args {
				if a == loader.StdinRef {
					return errors.New("batch does not read from stdin")
				}
			}

			logger := newLogger(stderr, fv.verbose)
			l := loader.New(nil, logger)
			sources, err := detect.Expand(args, networkFilter(l, s.inputFormat, fv.configPath, logger))
			if err != nil {
				return err
			}
			logger.Debug("batch sources resolved", "count", len(sources))

			runner := batch.NewRunner(l, s.inputFormat, s.concurrency, logger)
			entries, err := runner.ScoreAll(cmd.Context(), sources)
			if err != nil {
				return err
			}
			entries = aggregate.AggregateReports(entries)

			out := cmd.OutOrStdout()
			opts := render.Options{SummaryOnly: s.summaryOnly, Color: render.UseColor(s.color, out)}
			if err := render.Batch(out, s.format, entries, opts); err != nil {
				return fmt.Errorf("write report: %w", err)
			}

			if s.metricsFile != "" {
				exporter := metrics.NewExporter()
				for _, e := range entries {
					exporter.Observe(e.Source, e.Report)
				}
				if err := exporter.WriteTextfile(s.metricsFile); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}

			if top, ok := aggregate.Highest(entries); ok && s.failOn != "" {
				met, err := risk.MeetsSeverityThreshold(top.Report, s.failOn)
				if err != nil {
					return err
				}
				logger.Debug("batch threshold check",
					"source", top.Source, "severity", top.Report.Severity(), "fail_on", s.failOn, "met", met)
				if met {
					return errThresholdMet
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&fv.concurrency, "concurrency", 0,
		"Documents scored in parallel (0 = number of CPUs)")
	return cmd
}

// networkFilter keeps directory-found documents that are networks. Config
// files (radarnet.yaml anywhere, and the --config file itself) and documents
// without a top-level nodes key are skipped.
func networkFilter(l *loader.Loader, format loader.Format, configPath string, logger *slog.Logger) detect.Filter {
	configAbs, _ := filepath.Abs(configPath)
	return func(path string) (bool, error) {
		if filepath.Base(path) == config.DefaultPath {
			logger.Debug("skipping config file", "path", path)
			return false, nil
		}
		if abs, err := filepath.Abs(path); err == nil && abs == configAbs {
			logger.Debug("skipping config file", "path", path)
			return false, nil
		}

		ok, err := l.IsNetworkDocument(path, format)
		if err != nil {
			return false, err
		}
		if !ok {
			logger.Debug("skipping non-network document", "path", path)
		}
		return ok, nil
	}
}

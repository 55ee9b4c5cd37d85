// Package batch scores many network documents concurrently.
//
// Every document is independent, so scoring fans out over an errgroup with
// a bounded number of workers. The first failure cancels the rest and no
// partial result set is returned.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"radarnet/internal/aggregate"
	"radarnet/internal/loader"
	"radarnet/internal/risk"
)

// DefaultConcurrency is used when no positive limit is configured.
var DefaultConcurrency = runtime.GOMAXPROCS(0)

// Runner loads and scores documents.
type Runner struct {
	loader      *loader.Loader
	format      loader.Format
	concurrency int
	logger      *slog.Logger
}

// NewRunner creates a runner. concurrency <= 0 selects DefaultConcurrency.
func NewRunner(l *loader.Loader, format loader.Format, concurrency int, logger *slog.Logger) *Runner {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{loader: l, format: format, concurrency: concurrency, logger: logger}
}

// ScoreAll scores every source and returns entries in source order.
// Errors are wrapped with the offending source and keep their type for
// errors.As.
func (r *Runner) ScoreAll(ctx context.Context, sources []string) ([]aggregate.Entry, error) {
	entries := make([]aggregate.Entry, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			network, err := r.loader.Load(src, r.format)
			if err != nil {
				return fmt.Errorf("%s: %w", src, err)
			}
			report, err := risk.ScoreNetwork(network)
			if err != nil {
				return fmt.Errorf("%s: %w", src, err)
			}

			r.logger.Debug("scored network",
				"source", src,
				"network", report.NetworkName(),
				"score", report.Score(),
				"severity", report.Severity())
			entries[i] = aggregate.Entry{Source: src, Report: report}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

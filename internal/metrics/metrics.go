// Package metrics exports report values as Prometheus gauges.
//
// The tool is a one-shot process, so metrics are not served. They are
// written in the text exposition format for a node_exporter textfile
// collector to pick up.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"radarnet/internal/model"
	"radarnet/internal/risk"
)

const namespace = "radarnet"

var labels = []string{"network", "source"}

// Exporter holds report gauges on a private registry.
type Exporter struct {
	registry *prometheus.Registry
	score    *prometheus.GaugeVec
	maxScore *prometheus.GaugeVec
	ratio    *prometheus.GaugeVec
	findings *prometheus.GaugeVec
	severity *prometheus.GaugeVec
}

func newGaugeVec(name, help string, labelNames []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, labelNames)
}

func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		score:    newGaugeVec("score", "Risk score of the network.", labels),
		maxScore: newGaugeVec("max_score", "Theoretical maximum score of the network.", labels),
		ratio:    newGaugeVec("ratio", "Score divided by max score, rounded to four places.", labels),
		findings: newGaugeVec("findings", "Number of findings reported for the network.", labels),
		severity: newGaugeVec("severity", "1 for the network's current severity tier, 0 otherwise.",
			append(append([]string{}, labels...), "severity")),
	}
	e.registry.MustRegister(e.score, e.maxScore, e.ratio, e.findings, e.severity)
	return e
}

// Registry exposes the underlying registry for gathering.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Observe records one report under its network name and source.
func (e *Exporter) Observe(source string, rep risk.Report) {
	name := rep.NetworkName()
	e.score.WithLabelValues(name, source).Set(float64(rep.Score()))
	e.maxScore.WithLabelValues(name, source).Set(float64(rep.MaxScore()))
	e.ratio.WithLabelValues(name, source).Set(rep.Ratio())
	e.findings.WithLabelValues(name, source).Set(float64(len(rep.Findings())))

	for _, sev := range model.Severities {
		v := 0.0
		if sev == rep.Severity() {
			v = 1
		}
		e.severity.WithLabelValues(name, source, string(sev)).Set(v)
	}
}

// WriteTextfile writes all gauges to path in the text exposition format.
func (e *Exporter) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, e.registry)
}

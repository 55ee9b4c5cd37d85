package risk

import (
	"encoding/json"
	"slices"
	"strconv"

	"radarnet/internal/model"
)

// Report is the immutable result of scoring one network.
type Report struct {
	networkName string
	score       int
	maxScore    int
	severity    model.Severity
	findings    []string
}

func (r Report) NetworkName() string      { return r.networkName }
func (r Report) Score() int               { return r.score }
func (r Report) MaxScore() int            { return r.maxScore }
func (r Report) Severity() model.Severity { return r.severity }

// Findings returns a copy of the findings, grouped by node then service.
func (r Report) Findings() []string {
	return slices.Clone(r.findings)
}

// Ratio is score/max_score rounded to four decimal places. Exact halves
// round to even: 65/416 = 0.15625 gives 0.1562.
func (r Report) Ratio() float64 {
	if r.maxScore == 0 {
		return 0
	}
	return roundRatio(float64(r.score) / float64(r.maxScore))
}

// roundRatio rounds through the decimal form so ties are decided on the
// exact binary value, half to even.
func roundRatio(x float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 4, 64), 64)
	return v
}

// Document is the field-for-field structured form of a report.
type Document struct {
	NetworkName string         `json:"network_name"`
	Score       int            `json:"score"`
	MaxScore    int            `json:"max_score"`
	Severity    model.Severity `json:"severity"`
	Findings    []string       `json:"findings"`
	Ratio       float64        `json:"ratio"`
}

// Document returns the structured form, including the derived ratio.
func (r Report) Document() Document {
	findings := r.Findings()
	if findings == nil {
		findings = []string{}
	}
	return Document{
		NetworkName: r.networkName,
		Score:       r.score,
		MaxScore:    r.maxScore,
		Severity:    r.severity,
		Findings:    findings,
		Ratio:       r.Ratio(),
	}
}

func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Document())
}

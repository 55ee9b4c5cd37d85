package risk

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radarnet/internal/model"
)

func exposedService(name string, port int) model.Service {
	return model.Service{
		Name:          name,
		Port:          port,
		Public:        true,
		Encrypted:     false,
		Authenticated: false,
		Criticality:   5,
	}
}

func TestScoreNetwork_DemoNetwork(t *testing.T) {
	network := model.Network{
		Name: "demo",
		Nodes: []model.Node{
			{ID: "api-1", Role: "api", Services: []model.Service{exposedService("http", 80)}},
		},
	}

	report, err := ScoreNetwork(network)
	require.NoError(t, err)

	assert.Equal(t, "demo", report.NetworkName())
	assert.Equal(t, 13, report.Score())
	assert.Equal(t, 13, report.MaxScore())
	assert.Equal(t, 1.0, report.Ratio())
	assert.Equal(t, model.SeverityCritical, report.Severity())
	assert.Equal(t, []string{
		"[api-1] http:80 is public",
		"[api-1] http:80 is unencrypted",
		"[api-1] http:80 has no authentication",
	}, report.Findings())
}

func TestScoreNetwork_EmptyNetwork(t *testing.T) {
	report, err := ScoreNetwork(model.Network{Name: "empty"})
	require.NoError(t, err)

	assert.Equal(t, 0, report.Score())
	assert.Equal(t, 1, report.MaxScore())
	assert.Equal(t, 0.0, report.Ratio())
	assert.Equal(t, model.SeverityLow, report.Severity())
	assert.Empty(t, report.Findings())
}

func TestScoreNetwork_VisibilityGap(t *testing.T) {
	network := model.Network{Name: "demo", Nodes: []model.Node{{ID: "db-1", Role: "db"}}}

	report, err := ScoreNetwork(network)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Score())
	assert.Equal(t, []string{"[db-1] has no tracked services (visibility gap)"}, report.Findings())
	assert.Equal(t, 0.1538, report.Ratio())
	assert.Equal(t, model.SeverityLow, report.Severity())
}

func TestScoreNetwork_DefaultServiceContributesCriticalityOnly(t *testing.T) {
	network := model.Network{Name: "tiny", Nodes: []model.Node{
		{ID: "a", Role: "r", Services: []model.Service{model.NewService("s", 1)}},
	}}

	report, err := ScoreNetwork(network)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Score())
	assert.Empty(t, report.Findings())
	assert.Equal(t, model.SeverityLow, report.Severity())
}

func TestScoreNetwork_FindingsFollowSourceOrder(t *testing.T) {
	internal := model.NewService("grpc", 9090)
	internal.Authenticated = false

	network := model.Network{
		Name: "ordered",
		Nodes: []model.Node{
			{ID: "edge", Role: "gateway", Services: []model.Service{
				{Name: "http", Port: 80, Public: true, Encrypted: false, Authenticated: true, Criticality: 2},
				internal,
			}},
			{ID: "cache", Role: "cache"},
			{ID: "db", Role: "db", Services: []model.Service{model.NewService("pg", 5432)}},
		},
	}

	report, err := ScoreNetwork(network)
	require.NoError(t, err)

	// edge: (3+3+2) + (2+3) = 13, cache: 2, db: 3
	assert.Equal(t, 18, report.Score())
	assert.Equal(t, 39, report.MaxScore())
	assert.Equal(t, 0.4615, report.Ratio())
	assert.Equal(t, model.SeverityMedium, report.Severity())
	assert.Equal(t, []string{
		"[edge] http:80 is public",
		"[edge] http:80 is unencrypted",
		"[edge] grpc:9090 has no authentication",
		"[cache] has no tracked services (visibility gap)",
	}, report.Findings())
}

func TestScoreNetwork_RatioCanExceedOne(t *testing.T) {
	network := model.Network{Name: "dense", Nodes: []model.Node{
		{ID: "n", Role: "r", Services: []model.Service{
			exposedService("a", 1),
			exposedService("b", 2),
		}},
	}}

	report, err := ScoreNetwork(network)
	require.NoError(t, err)

	assert.Equal(t, 26, report.Score())
	assert.Equal(t, 13, report.MaxScore())
	assert.Equal(t, 2.0, report.Ratio())
	assert.Equal(t, model.SeverityCritical, report.Severity())
}

func TestScoreNetwork_RatioTiesRoundToEven(t *testing.T) {
	// 31 empty nodes (2 each) plus one default service (criticality 3):
	// 65/416 = 0.15625 exactly.
	network := model.Network{Name: "wide"}
	for i := 0; i < 31; i++ {
		network.Nodes = append(network.Nodes, model.Node{ID: fmt.Sprintf("n%02d", i), Role: "r"})
	}
	network.Nodes = append(network.Nodes, model.Node{ID: "svc", Role: "r", Services: []model.Service{
		model.NewService("s", 22),
	}})

	report, err := ScoreNetwork(network)
	require.NoError(t, err)

	assert.Equal(t, 65, report.Score())
	assert.Equal(t, 416, report.MaxScore())
	assert.Equal(t, 0.1562, report.Ratio())
	assert.Equal(t, model.SeverityLow, report.Severity())
}

func TestRoundRatio(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.15625, 0.1562},
		{0.15635, 0.1563}, // stored just below the half
		{2.0 / 13, 0.1538},
		{1, 1},
		{0, 0},
	}

	for _, tt := range tests {
		if got := roundRatio(tt.in); got != tt.want {
			t.Errorf("roundRatio(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestScoreNetwork_PropagatesValidationError(t *testing.T) {
	network := model.Network{Name: "demo", Nodes: []model.Node{
		{ID: "api-1", Role: "api", Services: []model.Service{model.NewService("x", 70000)}},
	}}

	report, err := ScoreNetwork(network)
	require.Error(t, err)

	var vErr *model.ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, Report{}, report)
}

func TestSeverityForRatio_Boundaries(t *testing.T) {
	tests := []struct {
		ratio float64
		want  model.Severity
	}{
		{1.5, model.SeverityCritical},
		{0.75, model.SeverityCritical},
		{0.749999, model.SeverityHigh},
		{0.5, model.SeverityHigh},
		{0.499999, model.SeverityMedium},
		{0.25, model.SeverityMedium},
		{0.249999, model.SeverityLow},
		{0, model.SeverityLow},
	}

	for _, tt := range tests {
		if got := SeverityForRatio(tt.ratio); got != tt.want {
			t.Errorf("SeverityForRatio(%v) = %s, want %s", tt.ratio, got, tt.want)
		}
	}
}

func TestReport_FindingsAreCopied(t *testing.T) {
	report, err := ScoreNetwork(model.Network{Name: "n", Nodes: []model.Node{{ID: "a", Role: "r"}}})
	require.NoError(t, err)

	findings := report.Findings()
	findings[0] = "tampered"

	assert.Equal(t, "[a] has no tracked services (visibility gap)", report.Findings()[0])
}

func TestReport_MarshalJSON(t *testing.T) {
	report, err := ScoreNetwork(model.Network{Name: "empty"})
	require.NoError(t, err)

	data, err := json.Marshal(report)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"network_name": "empty",
		"score": 0,
		"max_score": 1,
		"severity": "low",
		"findings": [],
		"ratio": 0
	}`, string(data))
}

package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radarnet/internal/aggregate"
	"radarnet/internal/model"
	"radarnet/internal/risk"
)

func demoReport(t *testing.T) risk.Report {
	t.Helper()
	rep, err := risk.ScoreNetwork(model.Network{
		Name: "demo",
		Nodes: []model.Node{
			{ID: "api-1", Role: "api", Services: []model.Service{
				{Name: "http", Port: 80, Public: true, Criticality: 5},
			}},
		},
	})
	require.NoError(t, err)
	return rep
}

func gapReport(t *testing.T) risk.Report {
	t.Helper()
	rep, err := risk.ScoreNetwork(model.Network{Name: "gap", Nodes: []model.Node{{ID: "db-1", Role: "db"}}})
	require.NoError(t, err)
	return rep
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, demoReport(t), Options{}))

	want := strings.Join([]string{
		"Network: demo",
		"Score: 13/13 (100.00%)",
		"Severity: critical",
		"Findings:",
		"- [api-1] http:80 is public",
		"- [api-1] http:80 is unencrypted",
		"- [api-1] http:80 has no authentication",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestText_SummaryOnlyAndEmptyFindings(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, demoReport(t), Options{SummaryOnly: true}))
	assert.NotContains(t, buf.String(), "Findings:")

	empty, err := risk.ScoreNetwork(model.Network{Name: "empty"})
	require.NoError(t, err)

	buf.Reset()
	require.NoError(t, Text(&buf, empty, Options{}))
	assert.Equal(t, "Network: empty\nScore: 0/1 (0.00%)\nSeverity: low\n", buf.String())
}

func TestText_Color(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, demoReport(t), Options{Color: true}))

	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "critical")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, gapReport(t), Options{}))

	assert.JSONEq(t, `{
		"network_name": "gap",
		"score": 2,
		"max_score": 13,
		"severity": "low",
		"findings": ["[db-1] has no tracked services (visibility gap)"],
		"ratio": 0.1538
	}`, buf.String())
	assert.True(t, strings.HasPrefix(buf.String(), "{\n  \"network_name\""), "output is indented by two spaces")
}

func TestJSON_SummaryOnlyDropsFindings(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, demoReport(t), Options{SummaryOnly: true}))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.NotContains(t, payload, "findings")
	assert.Equal(t, "critical", payload["severity"])
	assert.Equal(t, 1.0, payload["ratio"])
}

func TestWrite_DispatchesOnFormat(t *testing.T) {
	var text, js bytes.Buffer
	require.NoError(t, Write(&text, FormatText, gapReport(t), Options{}))
	require.NoError(t, Write(&js, FormatJSON, gapReport(t), Options{}))

	assert.True(t, strings.HasPrefix(text.String(), "Network: gap"))
	assert.True(t, json.Valid(js.Bytes()))
}

func TestBatch(t *testing.T) {
	entries := []aggregate.Entry{
		{Source: "a.json", Report: demoReport(t)},
		{Source: "b.yaml", Report: gapReport(t)},
	}

	var buf bytes.Buffer
	require.NoError(t, Batch(&buf, FormatText, entries, Options{SummaryOnly: true}))
	assert.Equal(t,
		"critical\t13/13 (100.00%)\tdemo\ta.json\n"+
			"low\t2/13 (15.38%)\tgap\tb.yaml\n"+
			"Networks: 2, critical: 1, high: 0, medium: 0, low: 1\n",
		buf.String())

	buf.Reset()
	require.NoError(t, Batch(&buf, FormatText, entries, Options{}))
	assert.Contains(t, buf.String(), "  - [db-1] has no tracked services (visibility gap)\n")

	buf.Reset()
	require.NoError(t, Batch(&buf, FormatJSON, entries, Options{}))
	var payload []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	require.Len(t, payload, 2)
	assert.Equal(t, "b.yaml", payload[1]["source"])
}

func TestParsers(t *testing.T) {
	_, err := ParseFormat("xml")
	assert.Error(t, err)
	_, err = ParseColorMode("rainbow")
	assert.Error(t, err)

	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, UseColor(ColorAlways, &buf))
	assert.False(t, UseColor(ColorNever, &buf))
	assert.False(t, UseColor(ColorAuto, &buf), "a buffer is never a terminal")
}

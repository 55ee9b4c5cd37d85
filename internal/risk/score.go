package risk

import (
	"fmt"

	"radarnet/internal/model"
)

// Points awarded per condition.
const (
	PublicPoints          = 3
	UnencryptedPoints     = 3
	UnauthenticatedPoints = 2
	VisibilityGapPoints   = 2

	// MaxPointsPerNode is the worst case a single fully exposed service at
	// criticality 5 can contribute: 3+3+2+5.
	MaxPointsPerNode = 13
)

// Ratio thresholds for each severity tier, inclusive.
const (
	ThresholdCritical = 0.75
	ThresholdHigh     = 0.50
	ThresholdMedium   = 0.25
)

// ScoreNetwork validates the network and computes its report.
// A validation failure is returned unchanged and no report is produced.
func ScoreNetwork(network model.Network) (Report, error) {
	if err := network.Validate(); err != nil {
		return Report{}, err
	}

	maxScore := max(1, len(network.Nodes)*MaxPointsPerNode)

	score := 0
	var findings []string
	for _, node := range network.Nodes {
		nodeScore, nodeFindings := scoreNode(node)
		score += nodeScore
		findings = append(findings, nodeFindings...)
	}

	return Report{
		networkName: network.Name,
		score:       score,
		maxScore:    maxScore,
		severity:    severityFor(score, maxScore),
		findings:    findings,
	}, nil
}

func scoreService(svc model.Service) (int, []string) {
	score := 0
	var findings []string
	label := fmt.Sprintf("%s:%d", svc.Name, svc.Port)

	if svc.Public {
		score += PublicPoints
		findings = append(findings, label+" is public")
	}
	if !svc.Encrypted {
		score += UnencryptedPoints
		findings = append(findings, label+" is unencrypted")
	}
	if !svc.Authenticated {
		score += UnauthenticatedPoints
		findings = append(findings, label+" has no authentication")
	}

	score += svc.Criticality
	return score, findings
}

func scoreNode(node model.Node) (int, []string) {
	if len(node.Services) == 0 {
		return VisibilityGapPoints, []string{
			fmt.Sprintf("[%s] has no tracked services (visibility gap)", node.ID),
		}
	}

	score := 0
	var findings []string
	for _, svc := range node.Services {
		svcScore, svcFindings := scoreService(svc)
		score += svcScore
		for _, f := range svcFindings {
			findings = append(findings, fmt.Sprintf("[%s] %s", node.ID, f))
		}
	}
	return score, findings
}

func severityFor(score, maxScore int) model.Severity {
	ratio := 0.0
	if maxScore != 0 {
		ratio = float64(score) / float64(maxScore)
	}
	return SeverityForRatio(ratio)
}

// SeverityForRatio maps an unrounded score ratio onto a severity tier.
func SeverityForRatio(ratio float64) model.Severity {
	switch {
	case ratio >= ThresholdCritical:
		return model.SeverityCritical
	case ratio >= ThresholdHigh:
		return model.SeverityHigh
	case ratio >= ThresholdMedium:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

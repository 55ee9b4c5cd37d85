package risk

import (
	"fmt"

	"radarnet/internal/model"
)

// InvalidArgumentError is returned for a threshold that is not a severity tier.
type InvalidArgumentError struct {
	Value string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid threshold '%s'. Use one of: %s", e.Value, model.SeverityNames())
}

// ParseThreshold resolves a threshold token to a severity tier.
func ParseThreshold(threshold string) (model.Severity, error) {
	sev, err := model.ParseSeverity(threshold)
	if err != nil {
		return model.SeverityUnknown, &InvalidArgumentError{Value: threshold}
	}
	return sev, nil
}

// MeetsSeverityThreshold reports whether the report's severity is at or
// above threshold in the order low < medium < high < critical.
func MeetsSeverityThreshold(report Report, threshold string) (bool, error) {
	sev, err := ParseThreshold(threshold)
	if err != nil {
		return false, err
	}
	return report.Severity().Rank() >= sev.Rank(), nil
}

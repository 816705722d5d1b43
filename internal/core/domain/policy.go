package domain

// ThresholdPolicy maps analyzer confidence onto severity and decides
// which findings are kept at all. The source material carries two
// incompatible threshold tables, so thresholds are configurable policy,
// not a hard-coded contract; these defaults use the numeric table.
type ThresholdPolicy struct {
	// CriticalMin, WarningMin and InfoMin are the inclusive lower
	// confidence bounds for each severity band. Below InfoMin a
	// finding is a hint.
	CriticalMin float64
	WarningMin  float64
	InfoMin     float64

	// MinConfidence drops findings below this bound entirely.
	MinConfidence float64
}

// DefaultThresholdPolicy returns the numeric threshold table.
func DefaultThresholdPolicy() ThresholdPolicy {
	return ThresholdPolicy{
		CriticalMin:   0.9,
		WarningMin:    0.7,
		InfoMin:       0.5,
		MinConfidence: 0.2,
	}
}

// Keep reports whether a finding with the given confidence survives.
func (p ThresholdPolicy) Keep(confidence float64) bool {
	return confidence >= p.MinConfidence
}

// SeverityFor bands a confidence value. Analyzer-supplied severities
// take precedence; this is the fallback for analyzers that only report
// confidence.
func (p ThresholdPolicy) SeverityFor(confidence float64) AlertSeverity {
	switch {
	case confidence >= p.CriticalMin:
		return SeverityCritical
	case confidence >= p.WarningMin:
		return SeverityWarning
	case confidence >= p.InfoMin:
		return SeverityInfo
	}
	return SeverityHint
}

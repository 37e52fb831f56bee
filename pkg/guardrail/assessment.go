package guardrail

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Recommendation string

const (
	RecommendationAllow Recommendation = "allow"
	RecommendationWarn  Recommendation = "warn"
	RecommendationBlock Recommendation = "block"
)

// RiskAssessment is the normalized output of one evaluation call. It is
// created fresh per call, never mutated afterwards and never shared
// across requests.
type RiskAssessment struct {
	IsFlagged      bool
	Confidence     float64
	Severity       Severity
	Recommendation Recommendation
	Reasons        []string
	RawDetails     map[string]any

	// Degraded marks a fail-open assessment produced because the
	// evaluation itself could not run (outage, timeout, bad JSON).
	Degraded bool
}

// degradedAssessment is the fail-open result: unreachable risk assessor
// must never block legitimate traffic.
func degradedAssessment(reason string, details map[string]any) *RiskAssessment {
	if details == nil {
		details = map[string]any{}
	}
	return &RiskAssessment{
		IsFlagged:      false,
		Confidence:     0.0,
		Severity:       SeverityLow,
		Recommendation: RecommendationAllow,
		Reasons:        []string{reason},
		RawDetails:     details,
		Degraded:       true,
	}
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// normalizeSeverity substitutes a safe default for unrecognized values
// rather than failing the whole evaluation; upstream model output is
// untrusted input.
func normalizeSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return Severity(s)
	default:
		return SeverityLow
	}
}

func normalizeRecommendation(s string) Recommendation {
	switch Recommendation(s) {
	case RecommendationAllow, RecommendationWarn, RecommendationBlock:
		return Recommendation(s)
	default:
		return RecommendationAllow
	}
}

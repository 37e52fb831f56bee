package guardrail

import (
	"github.com/partsdesk/partsdesk/pkg/config"
)

type Action string

const (
	ActionAllow Action = "allow"
	ActionWarn  Action = "warn"
	ActionBlock Action = "block"
	ActionLog   Action = "log"
)

// Decision is the final, authoritative verdict derived from one
// assessment. Same assessment and configuration always yield the same
// decision.
type Decision struct {
	Action Action
}

// hardBlockConfidence is the floor above which a high-severity finding
// blocks regardless of the configured threshold.
const hardBlockConfidence = 0.8

// warnConfidence is the floor above which any finding at least warns.
const warnConfidence = 0.3

// Decide maps an assessment to an action. Pure and total: every valid
// assessment maps to exactly one action and no code path can fail. Rules
// are evaluated in order and the first match wins.
func Decide(a *RiskAssessment, cfg config.GuardrailConfig) Decision {
	// A high-severity, high-confidence hazard always blocks, independent
	// of tuning. Boundary inclusive.
	if a.Confidence >= hardBlockConfidence && a.Severity == SeverityHigh {
		return Decision{Action: ActionBlock}
	}

	if a.Confidence >= cfg.Threshold || a.Recommendation == RecommendationBlock {
		if a.Severity == SeverityHigh || a.Severity == SeverityMedium {
			return Decision{Action: ActionBlock}
		}
		return Decision{Action: ActionWarn}
	}

	if a.Confidence >= warnConfidence || a.Recommendation == RecommendationWarn {
		return Decision{Action: ActionWarn}
	}

	if a.Recommendation == RecommendationAllow {
		return Decision{Action: ActionAllow}
	}

	// Capture for offline review without any user-visible effect.
	return Decision{Action: ActionLog}
}

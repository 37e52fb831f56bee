package guardrail

// blockFallbackMessage replaces a blocked response entirely. It never
// echoes any part of the flagged content, so hazardous material cannot
// resurface through a "corrected" rewrite.
const blockFallbackMessage = "I want to make sure I provide you with accurate information. " +
	"Let me search our database more carefully for your specific request. " +
	"Could you please provide your appliance's model number so I can give you " +
	"the most precise part recommendations and installation guidance?"

// warnSuffix is appended to a response that passed with concerns.
const warnSuffix = "\n\n⚠️ Please verify this information with your appliance manual " +
	"or contact our support team if you need additional confirmation."

// Metadata travels with every mitigated response so downstream
// observability can tell "passed evaluation" apart from "never evaluated".
type Metadata struct {
	Evaluated  bool     `json:"evaluated"`
	Action     Action   `json:"action"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons,omitempty"`
}

type Mitigator struct{}

func NewMitigator() *Mitigator {
	return &Mitigator{}
}

// Apply converts a decision into the final user-visible text. BLOCK
// discards the candidate entirely; WARN preserves it and appends the
// advisory; ALLOW and LOG pass it through untouched.
func (m *Mitigator) Apply(
	responseText string,
	decision Decision,
	assessment *RiskAssessment,
	_ string,
) (string, Metadata) {
	meta := Metadata{
		Evaluated:  true,
		Action:     decision.Action,
		Confidence: assessment.Confidence,
	}

	switch decision.Action {
	case ActionBlock:
		meta.Reasons = assessment.Reasons
		return blockFallbackMessage, meta
	case ActionWarn:
		meta.Reasons = assessment.Reasons
		return responseText + warnSuffix, meta
	default:
		return responseText, meta
	}
}

package guardrail

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/valyala/fastjson"
)

// verdict mirrors the JSON object the evaluation model is instructed to
// return. Every field is treated as untrusted.
type verdict struct {
	IsHallucination bool           `json:"is_hallucination"`
	ConfidenceScore float64        `json:"confidence_score"`
	Reasons         []string       `json:"reasons"`
	SpecificIssues  map[string]any `json:"specific_issues"`
	Severity        string         `json:"severity"`
	Recommendation  string         `json:"recommendation"`
}

// stripCodeFence removes optional markdown code-fence wrapping from a
// model reply, with or without a language tag.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// parseVerdict decodes the evaluation model's reply. Replies that are
// almost JSON (trailing commas, single quotes, stray prose) go through
// jsonrepair before being rejected.
func parseVerdict(raw string) (*verdict, error) {
	payload := stripCodeFence(raw)
	if payload == "" {
		return nil, fmt.Errorf("empty evaluation payload")
	}

	if fastjson.Validate(payload) != nil {
		repaired, err := jsonrepair.JSONRepair(payload)
		if err != nil {
			return nil, fmt.Errorf("invalid evaluation JSON: %w", err)
		}
		payload = repaired
	}

	var v verdict
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return nil, fmt.Errorf("failed to decode evaluation JSON: %w", err)
	}
	return &v, nil
}

// assessmentFromVerdict normalizes an untrusted verdict into a
// RiskAssessment, clamping and defaulting per field rather than failing
// the evaluation.
func assessmentFromVerdict(v *verdict, model string) *RiskAssessment {
	details := map[string]any{
		"specific_issues":  v.SpecificIssues,
		"severity":         v.Severity,
		"recommendation":   v.Recommendation,
		"evaluation_model": model,
	}
	reasons := v.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return &RiskAssessment{
		IsFlagged:      v.IsHallucination,
		Confidence:     clampConfidence(v.ConfidenceScore),
		Severity:       normalizeSeverity(v.Severity),
		Recommendation: normalizeRecommendation(v.Recommendation),
		Reasons:        reasons,
		RawDetails:     details,
	}
}

package guardrail

// EvaluationData is the structured payload attached to guardrail log
// lines and metric events for one pipeline pass.
type EvaluationData struct {
	QueryPreview    string   `json:"query_preview"`
	ResponsePreview string   `json:"response_preview"`
	IsFlagged       bool     `json:"is_flagged"`
	Confidence      float64  `json:"confidence"`
	Action          Action   `json:"action"`
	Severity        Severity `json:"severity"`
	Reasons         []string `json:"reasons"`
	Degraded        bool     `json:"degraded"`
	CacheHit        bool     `json:"cache_hit"`
	DurationMs      int64    `json:"duration_ms"`
}

const previewLen = 100

// preview cuts on rune boundaries so log payloads stay valid UTF-8.
func preview(s string) string {
	if len(s) <= previewLen {
		return s
	}
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen]) + "..."
}

func capReasons(reasons []string) []string {
	if len(reasons) > 3 {
		return reasons[:3]
	}
	return reasons
}

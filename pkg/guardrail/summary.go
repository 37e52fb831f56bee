package guardrail

import (
	"fmt"
	"strings"
)

const maxSummaryLen = 200

// ToolSummarizer condenses one tool's structured result into a short
// natural-language digest. The digest, not the raw result, is what the
// evaluator screens, which keeps prompt size bounded regardless of tool
// output size.
type ToolSummarizer func(args, result map[string]any) string

// toolSummarizers is the capability table keyed by tool name. Unknown
// tools fall back to truncated stringification, so Summarize is total.
var toolSummarizers = map[string]ToolSummarizer{
	"search_parts":              summarizeSearchParts,
	"check_compatibility":       summarizeCompatibility,
	"get_installation_guide":    summarizeInstallationGuide,
	"get_troubleshooting_guide": summarizeTroubleshootingGuide,
	"get_part_details":          summarizePartDetails,
}

// Summarize produces a digest of at most ~200 characters for any tool
// result, recognized or not.
func Summarize(toolName string, args, result map[string]any) string {
	if fn, ok := toolSummarizers[toolName]; ok {
		return truncate(fn(args, result), maxSummaryLen)
	}
	return truncate(fmt.Sprintf("%v", result), maxSummaryLen)
}

func summarizeSearchParts(_, result map[string]any) string {
	if !boolField(result, "found") {
		return "No parts found for search query"
	}
	parts := listField(result, "results")
	entries := make([]string, 0, 3)
	for i, p := range parts {
		if i == 3 {
			break
		}
		entries = append(entries, fmt.Sprintf("%s (%s) - $%v",
			stringFieldOr(p, "part_number", "Unknown"), stringFieldOr(p, "name", "Unknown"), p["price"]))
	}
	return fmt.Sprintf("Found %d parts: %s", len(parts), strings.Join(entries, ", "))
}

func summarizeCompatibility(_, result map[string]any) string {
	verdict := "not compatible"
	if boolField(result, "compatible") {
		verdict = "compatible"
	}
	return fmt.Sprintf("Part %s is %s with model %s",
		stringFieldOr(result, "part_number", "Unknown"), verdict, stringFieldOr(result, "model_number", "Unknown"))
}

func summarizeInstallationGuide(_, result map[string]any) string {
	if !boolField(result, "found") {
		return "No installation guide found"
	}
	name := stringFieldOr(result, "part_name", "part")
	timeEst := stringFieldOr(result, "time_estimate", "Unknown")
	return fmt.Sprintf("Installation guide for %s - %d steps, estimated time: %s",
		name, len(listField(result, "steps")), timeEst)
}

func summarizeTroubleshootingGuide(_, result map[string]any) string {
	issue := stringFieldOr(result, "issue", "unknown issue")
	if !boolField(result, "found") {
		return fmt.Sprintf("No troubleshooting guide found for %s", issue)
	}
	return fmt.Sprintf("Troubleshooting for %s - %d possible causes, %d solutions",
		issue, len(listField(result, "possible_causes")), len(listField(result, "solutions")))
}

func summarizePartDetails(_, result map[string]any) string {
	if !boolField(result, "found") {
		return fmt.Sprintf("No details found for part %s", stringFieldOr(result, "part_number", "Unknown"))
	}
	return fmt.Sprintf("Part details for %s: %s - $%v",
		stringFieldOr(result, "part_number", "Unknown"), stringFieldOr(result, "name", "Unknown"), result["price"])
}

// truncate cuts on rune boundaries so multi-byte text never ends up as
// invalid UTF-8 in the evaluation prompt.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func boolField(m map[string]any, key string) bool {
	v, ok := m[key].(bool)
	return ok && v
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func stringFieldOr(m map[string]any, key, fallback string) string {
	if v := stringField(m, key); v != "" {
		return v
	}
	return fallback
}

func listField(m map[string]any, key string) []map[string]any {
	switch v := m[key].(type) {
	case []map[string]any:
		return v
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if mm, ok := item.(map[string]any); ok {
				out = append(out, mm)
			} else {
				out = append(out, map[string]any{})
			}
		}
		return out
	default:
		return nil
	}
}

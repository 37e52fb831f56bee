package guardrail

import (
	"fmt"
	"strings"
)

// evaluationCriteria is the fixed parts-domain checklist embedded in every
// evaluation prompt. Order is stable so prompts stay cacheable upstream.
var evaluationCriteria = []struct {
	name, description string
}{
	{"part_accuracy", "Check if part numbers mentioned are realistic and properly formatted"},
	{"compatibility_claims", "Verify compatibility statements are not overly broad or specific without evidence"},
	{"safety_instructions", "Ensure safety instructions are accurate and complete"},
	{"pricing_claims", "Check if price ranges are reasonable for appliance parts"},
	{"installation_steps", "Verify installation steps are logical and safe"},
	{"troubleshooting_advice", "Ensure troubleshooting advice is sound and appropriate"},
	{"model_specificity", "Check if model-specific claims are appropriately qualified"},
}

const evaluatorSystemPrompt = "You are a precise evaluator. Always respond with valid JSON."

const maxContextSampleParts = 3

// buildEvaluationPrompt renders the fixed evaluation prompt embedding the
// criteria checklist, the exchange under review and whatever request
// context is available.
func buildEvaluationPrompt(userQuery, candidateResponse string, reqCtx *RequestContext) string {
	var contextInfo strings.Builder
	if reqCtx != nil {
		if len(reqCtx.ToolsUsed) > 0 {
			fmt.Fprintf(&contextInfo, "\nTools used: %s", strings.Join(reqCtx.ToolsUsed, ", "))
		}
		if len(reqCtx.PartsFound) > 0 {
			sample := reqCtx.PartsFound
			if len(sample) > maxContextSampleParts {
				sample = sample[:maxContextSampleParts]
			}
			fmt.Fprintf(&contextInfo, "\nParts found in database: %d (examples: %s)",
				len(reqCtx.PartsFound), strings.Join(sample, ", "))
		}
		if reqCtx.Turns > 0 {
			fmt.Fprintf(&contextInfo, "\nPrevious conversation turns: %d", reqCtx.Turns)
		}
		if reqCtx.IsToolResult {
			toolName := reqCtx.ToolName
			if toolName == "" {
				toolName = "unknown"
			}
			fmt.Fprintf(&contextInfo, "\nEvaluating tool result from: %s", toolName)
		}
	}

	var criteria strings.Builder
	for _, c := range evaluationCriteria {
		fmt.Fprintf(&criteria, "- %s: %s\n", c.name, c.description)
	}

	return fmt.Sprintf(`You are an expert evaluator for an appliance parts customer service system. Your job is to detect potential hallucinations or inaccuracies in assistant responses.

DOMAIN CONTEXT:
- This is a parts agent that helps customers find refrigerator and dishwasher parts
- The agent has access to a parts database and various tools
- Responses should be accurate, helpful, and safety-conscious

EVALUATION CRITERIA:
%s
USER QUERY:
%s

ASSISTANT RESPONSE:
%s

CONTEXT:
%s

TASK:
Evaluate the assistant's response for potential hallucinations or inaccuracies. Consider:

1. FACTUAL ACCURACY: Are part numbers, model numbers, prices, and technical details plausible?
2. SAFETY COMPLIANCE: Are safety instructions appropriate and complete?
3. SCOPE ADHERENCE: Does the response stay within the scope of refrigerator/dishwasher parts?
4. LOGICAL CONSISTENCY: Do the recommendations and advice make logical sense?
5. QUALIFICATION OF CLAIMS: Are uncertain statements properly qualified?

Return your evaluation as a JSON object with this exact structure:
{
    "is_hallucination": boolean,
    "confidence_score": float (0.0 to 1.0),
    "reasons": ["reason1", "reason2", ...],
    "specific_issues": {
        "part_accuracy": "assessment",
        "safety_concerns": "assessment",
        "scope_violations": "assessment",
        "logical_inconsistencies": "assessment"
    },
    "severity": "low|medium|high",
    "recommendation": "allow|warn|block"
}

Be conservative - only flag clear hallucinations or safety issues. Uncertainty or general advice should generally be allowed.`,
		criteria.String(), userQuery, candidateResponse, contextInfo.String())
}

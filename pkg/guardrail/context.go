package guardrail

const maxTrackedParts = 5

// RequestContext carries the per-request generation context the evaluator
// embeds in its prompt. It is threaded explicitly through the
// summarize -> evaluate -> decide -> mitigate chain; it is never attached
// to shared state, so concurrent requests cannot interleave writes.
type RequestContext struct {
	ConversationID string
	ToolsUsed      []string
	PartsFound     []string
	Turns          int

	// Set when a condensed tool result, not final chat text, is being
	// screened.
	IsToolResult bool
	ToolName     string
}

func (c *RequestContext) RecordTool(name string) {
	if c == nil {
		return
	}
	c.ToolsUsed = append(c.ToolsUsed, name)
}

func (c *RequestContext) RecordPart(partNumber string) {
	if c == nil || partNumber == "" {
		return
	}
	if len(c.PartsFound) >= maxTrackedParts {
		return
	}
	c.PartsFound = append(c.PartsFound, partNumber)
}

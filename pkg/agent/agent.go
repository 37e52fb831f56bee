package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/partsdesk/partsdesk/pkg/guardrail"
	"github.com/partsdesk/partsdesk/pkg/infra/providers"
)

const agentName = "PartsDeskAgent"

const outOfScopeMessage = "I'm sorry, but I can only help with refrigerator and dishwasher parts. " +
	"For other appliances like ovens, microwaves, or washing machines, please visit our main website " +
	"or contact our general support team."

const responderSystemPrompt = `You are a customer-support assistant for an appliance parts e-commerce site. You help customers find refrigerator and dishwasher parts, check compatibility, and walk through installation and troubleshooting.

Base every factual claim (part numbers, prices, compatibility) on the tool results provided. If the tools returned nothing useful, say so and ask for the appliance model number instead of guessing. Keep answers concise and safety-conscious.`

// toolResultFlagConfidence is the bar above which a flagged tool result
// gets a machine-readable warning annotation.
const toolResultFlagConfidence = 0.8

var inScopeKeywords = []string{
	"refrigerator", "fridge", "dishwasher", "dish washer",
	"ice maker", "freezer", "cooling", "chiller",
}

var outOfScopeKeywords = []string{
	"oven", "stove", "range", "microwave", "washer", "washing machine",
	"dryer", "air conditioner", "ac", "heater", "furnace", "vacuum",
	"blender", "toaster", "coffee maker", "grill", "cooktop",
}

var partNumberPattern = regexp.MustCompile(`\b[A-Z0-9]{6,12}\b`)

type Turn struct {
	Role    string
	Content string
}

type Reply struct {
	ConversationID string            `json:"conversation_id"`
	Message        string            `json:"message"`
	Agent          string            `json:"agent"`
	Timestamp      string            `json:"timestamp"`
	QueryType      QueryType         `json:"query_type,omitempty"`
	ApplianceType  string            `json:"appliance_type,omitempty"`
	RoutedAgent    string            `json:"routed_agent,omitempty"`
	OutOfScope     bool              `json:"out_of_scope,omitempty"`
	Error          bool              `json:"error,omitempty"`
	Evaluated      bool              `json:"guardrail_evaluated"`
	Action         guardrail.Action  `json:"guardrail_action,omitempty"`
	Confidence     float64           `json:"guardrail_confidence"`
	Reasons        []string          `json:"guardrail_reasons,omitempty"`
}

// Agent is the chat entry point: scope gate, triage, tool execution,
// answer generation and guardrail screening, in that order. Conversation
// history is the only mutable state and is guarded by a mutex; everything
// per-request travels in an explicit guardrail.RequestContext.
type Agent struct {
	client      providers.Client
	providerCfg *providers.Config
	triage      *Triage
	registry    *Registry
	pipeline    *guardrail.Pipeline
	logger      *logrus.Logger

	mu            sync.Mutex
	conversations map[string][]Turn
}

func New(
	logger *logrus.Logger,
	client providers.Client,
	providerCfg *providers.Config,
	triage *Triage,
	registry *Registry,
	pipeline *guardrail.Pipeline,
) *Agent {
	cfg := *providerCfg
	cfg.SystemPrompt = responderSystemPrompt
	return &Agent{
		client:        client,
		providerCfg:   &cfg,
		triage:        triage,
		registry:      registry,
		pipeline:      pipeline,
		logger:        logger,
		conversations: map[string][]Turn{},
	}
}

// ProcessMessage handles one chat turn end to end.
func (a *Agent) ProcessMessage(ctx context.Context, conversationID, message string) *Reply {
	if strings.TrimSpace(message) == "" {
		return a.errorReply(conversationID, "Message cannot be empty")
	}
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	if !a.inScope(message) {
		return &Reply{
			ConversationID: conversationID,
			Message:        outOfScopeMessage,
			Agent:          agentName,
			Timestamp:      timestamp(),
			OutOfScope:     true,
		}
	}

	reqCtx := &guardrail.RequestContext{
		ConversationID: conversationID,
		Turns:          a.turnCount(conversationID),
	}

	classification := a.triage.Classify(ctx, message)
	route := RouteFor(classification.QueryType)
	a.logger.WithFields(logrus.Fields{
		"conversation_id": conversationID,
		"query_type":      classification.QueryType,
		"routed_agent":    route.Primary,
	}).Debug("query triaged")

	if classification.QueryType == QueryOutOfScope {
		return &Reply{
			ConversationID: conversationID,
			Message:        outOfScopeMessage,
			Agent:          agentName,
			Timestamp:      timestamp(),
			QueryType:      classification.QueryType,
			RoutedAgent:    route.Primary,
			OutOfScope:     true,
		}
	}

	toolResults := a.runTools(ctx, classification, message, reqCtx)

	answer, err := a.generateAnswer(ctx, message, toolResults)
	if err != nil {
		a.logger.WithError(err).Error("failed to generate answer")
		return a.errorReply(conversationID, "I ran into a problem answering that. Could you try again, or share your appliance's model number so I can look it up directly?")
	}

	// Parts the answer claims to know about become evaluation context,
	// whether or not a tool surfaced them.
	for _, pn := range partNumberPattern.FindAllString(answer, 5) {
		reqCtx.RecordPart(pn)
	}

	res := a.pipeline.EvaluateAndMitigate(ctx, message, answer, reqCtx)

	a.appendHistory(conversationID, message, res.FinalText)

	return &Reply{
		ConversationID: conversationID,
		Message:        res.FinalText,
		Agent:          agentName,
		Timestamp:      timestamp(),
		QueryType:      classification.QueryType,
		ApplianceType:  classification.ApplianceType,
		RoutedAgent:    route.Primary,
		Evaluated:      res.Evaluated,
		Action:         res.Action,
		Confidence:     res.Confidence,
		Reasons:        res.Reasons,
	}
}

type toolRun struct {
	Name    string
	Summary string
	Result  map[string]any
}

// runTools picks catalog operations from the classification and screens
// each result before it can influence the answer.
func (a *Agent) runTools(
	ctx context.Context,
	classification Classification,
	message string,
	reqCtx *guardrail.RequestContext,
) []toolRun {
	var runs []toolRun
	for _, call := range a.planTools(classification, message) {
		result, err := a.registry.Execute(ctx, call.name, call.args, reqCtx)
		if err != nil {
			a.logger.WithError(err).WithField("tool", call.name).Warn("tool execution failed")
			continue
		}

		summary := guardrail.Summarize(call.name, call.args, result)
		if a.pipeline.Enabled() {
			assessment, screened := a.pipeline.ScreenToolResult(ctx, call.name, call.args, result)
			summary = screened
			if assessment.IsFlagged && assessment.Confidence > toolResultFlagConfidence {
				a.logger.WithField("tool", call.name).Warn("tool result flagged as potentially hallucinated")
				result["guardrail_warning"] = "Tool result may contain inaccurate information"
				result["guardrail_confidence"] = assessment.Confidence
			}
		}

		runs = append(runs, toolRun{Name: call.name, Summary: summary, Result: result})
	}
	return runs
}

type toolCall struct {
	name string
	args map[string]any
}

func (a *Agent) planTools(classification Classification, message string) []toolCall {
	applianceType := classification.ApplianceType
	if applianceType == "" {
		applianceType = "both"
	}
	entities := classification.ExtractedEntities
	partNumber := entities["part_number"]
	if partNumber == "" {
		partNumber = firstPartNumberIn(message)
	}

	switch classification.QueryType {
	case QueryCompatibilityCheck:
		if partNumber != "" && entities["model_number"] != "" {
			return []toolCall{{
				name: "check_compatibility",
				args: map[string]any{"part_number": partNumber, "model_number": entities["model_number"]},
			}}
		}
	case QueryInstallationGuide:
		if partNumber != "" {
			return []toolCall{{
				name: "get_installation_guide",
				args: map[string]any{"part_number": partNumber},
			}}
		}
	case QueryTroubleshooting:
		troubleshootType := applianceType
		if troubleshootType == "both" {
			troubleshootType = "refrigerator"
		}
		return []toolCall{{
			name: "get_troubleshooting_guide",
			args: map[string]any{"issue": message, "appliance_type": troubleshootType},
		}}
	}

	if partNumber != "" {
		return []toolCall{{
			name: "get_part_details",
			args: map[string]any{"part_number": partNumber},
		}}
	}
	query := entities["part_category"]
	if query == "" {
		query = message
	}
	return []toolCall{{
		name: "search_parts",
		args: map[string]any{"query": query, "appliance_type": applianceType},
	}}
}

func (a *Agent) generateAnswer(ctx context.Context, message string, runs []toolRun) (string, error) {
	var prompt strings.Builder
	prompt.WriteString("Customer question:\n")
	prompt.WriteString(message)
	if len(runs) > 0 {
		prompt.WriteString("\n\nTool results:\n")
		for _, run := range runs {
			fmt.Fprintf(&prompt, "- %s: %s\n", run.Name, run.Summary)
			if warning, ok := run.Result["guardrail_warning"].(string); ok {
				fmt.Fprintf(&prompt, "  (warning: %s)\n", warning)
			}
		}
	}
	prompt.WriteString("\nAnswer the customer using only the information above.")

	completion, err := a.client.Ask(ctx, a.providerCfg, prompt.String())
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	return strings.TrimSpace(completion.Response), nil
}

func (a *Agent) inScope(message string) bool {
	lower := strings.ToLower(strings.TrimSpace(message))
	for _, keyword := range inScopeKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	for _, keyword := range outOfScopeKeywords {
		if strings.Contains(lower, keyword) {
			return false
		}
	}
	// No clear indicator: assume it may concern our domain rather than
	// turning away a valid parts question.
	return true
}

func (a *Agent) turnCount(conversationID string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.conversations[conversationID])
}

func (a *Agent) appendHistory(conversationID, userMessage, assistantMessage string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.conversations[conversationID] = append(a.conversations[conversationID],
		Turn{Role: "user", Content: userMessage},
		Turn{Role: "assistant", Content: assistantMessage},
	)
}

func (a *Agent) errorReply(conversationID, message string) *Reply {
	return &Reply{
		ConversationID: conversationID,
		Message:        message,
		Agent:          agentName,
		Timestamp:      timestamp(),
		Error:          true,
	}
}

func firstPartNumberIn(message string) string {
	for _, candidate := range partNumberPattern.FindAllString(strings.ToUpper(message), -1) {
		if hasLetterAndDigit(candidate) {
			return candidate
		}
	}
	return ""
}

func hasLetterAndDigit(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return letter && digit
}

func timestamp() string {
	return time.Now().Format(time.RFC3339)
}

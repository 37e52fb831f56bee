package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partsdesk/partsdesk/pkg/agent"
	"github.com/partsdesk/partsdesk/pkg/catalog"
	"github.com/partsdesk/partsdesk/pkg/config"
	"github.com/partsdesk/partsdesk/pkg/guardrail"
	"github.com/partsdesk/partsdesk/pkg/infra/providers"
)

const cleanVerdict = `{"is_hallucination": false, "confidence_score": 0.05, "severity": "low", "recommendation": "allow", "reasons": []}`

const partSearchClassification = `{
	"query_type": "part_search",
	"appliance_type": "refrigerator",
	"urgency": "low",
	"confidence": "high",
	"extracted_entities": {"part_category": "door bin"}
}`

// newTestAgent wires an agent whose responder and guardrail evaluator run
// on separately scripted clients.
func newTestAgent(t *testing.T, responder, evaluator *scriptedClient, guardrailOn bool) *agent.Agent {
	t.Helper()
	logger := quietLogger()

	store, err := catalog.NewStoreFromBytes(logger, []byte(toolsTestDatabase))
	require.NoError(t, err)

	cfg := config.GuardrailPresetConfig(config.PresetBalanced)
	cfg.Enabled = guardrailOn
	eval := guardrail.NewEvaluator(logger, evaluator, &providers.Config{Model: "eval-model"}, cfg)
	pipeline := guardrail.NewPipeline(logger, eval, cfg, nil)

	providerCfg := &providers.Config{Model: "deepseek-chat"}
	triage := agent.NewTriage(logger, responder, providerCfg)
	registry := agent.NewRegistry(logger, store)

	return agent.New(logger, responder, providerCfg, triage, registry, pipeline)
}

func TestAgent_EmptyMessage(t *testing.T) {
	responder := &scriptedClient{responses: []string{"unused"}}
	a := newTestAgent(t, responder, &scriptedClient{responses: []string{cleanVerdict}}, false)

	reply := a.ProcessMessage(context.Background(), "", "   ")

	assert.True(t, reply.Error)
	assert.Zero(t, responder.calls)
}

func TestAgent_KeywordScopeGate(t *testing.T) {
	responder := &scriptedClient{responses: []string{"unused"}}
	a := newTestAgent(t, responder, &scriptedClient{responses: []string{cleanVerdict}}, false)

	reply := a.ProcessMessage(context.Background(), "", "my oven won't heat up")

	assert.True(t, reply.OutOfScope)
	assert.Contains(t, reply.Message, "refrigerator and dishwasher parts")
	// Out-of-scope queries never reach the model.
	assert.Zero(t, responder.calls)
}

func TestAgent_TriageScopeGate(t *testing.T) {
	responder := &scriptedClient{responses: []string{`{"query_type": "out_of_scope"}`}}
	a := newTestAgent(t, responder, &scriptedClient{responses: []string{cleanVerdict}}, false)

	reply := a.ProcessMessage(context.Background(), "", "do you sell replacement cooling pads for laptops")

	assert.True(t, reply.OutOfScope)
	assert.Equal(t, agent.QueryOutOfScope, reply.QueryType)
	assert.Equal(t, "OutOfScopeAgent", reply.RoutedAgent)
	assert.Equal(t, 1, responder.calls)
}

func TestAgent_HappyPath(t *testing.T) {
	responder := &scriptedClient{responses: []string{
		partSearchClassification,
		"The door bin you need is PS11752778, priced at $45.99.",
	}}
	evaluator := &scriptedClient{responses: []string{cleanVerdict}}
	a := newTestAgent(t, responder, evaluator, true)

	reply := a.ProcessMessage(context.Background(), "", "I need a new door bin for my refrigerator")

	assert.NotEmpty(t, reply.ConversationID)
	assert.Equal(t, agent.QueryPartSearch, reply.QueryType)
	assert.Equal(t, "refrigerator", reply.ApplianceType)
	assert.Equal(t, "ProductSearchAgent", reply.RoutedAgent)
	assert.False(t, reply.OutOfScope)
	assert.True(t, reply.Evaluated)
	assert.Equal(t, guardrail.ActionAllow, reply.Action)
	assert.Contains(t, reply.Message, "PS11752778")

	// Triage then answer generation on the responder; tool screening then
	// final screening on the evaluator.
	assert.Equal(t, 2, responder.calls)
	assert.Equal(t, 2, evaluator.calls)
	assert.Contains(t, responder.prompts[1], "Tool results:")
	assert.Contains(t, responder.prompts[1], "search_parts")
}

func TestAgent_BlockedAnswerIsReplaced(t *testing.T) {
	responder := &scriptedClient{responses: []string{
		partSearchClassification,
		"You should buy the PS-MAGIC-9000, it fits every refrigerator.",
	}}
	evaluator := &scriptedClient{responses: []string{
		cleanVerdict,
		`{"is_hallucination": true, "confidence_score": 0.9, "severity": "high", "recommendation": "block", "reasons": ["fabricated part number"]}`,
	}}
	a := newTestAgent(t, responder, evaluator, true)

	reply := a.ProcessMessage(context.Background(), "", "which part fixes my refrigerator door")

	assert.True(t, reply.Evaluated)
	assert.Equal(t, guardrail.ActionBlock, reply.Action)
	assert.NotContains(t, reply.Message, "PS-MAGIC-9000")
	assert.Contains(t, reply.Message, "model number")
	assert.Equal(t, []string{"fabricated part number"}, reply.Reasons)
}

func TestAgent_ResponderFailure(t *testing.T) {
	responder := &scriptedClient{err: errors.New("provider down")}
	a := newTestAgent(t, responder, &scriptedClient{responses: []string{cleanVerdict}}, false)

	reply := a.ProcessMessage(context.Background(), "", "my fridge is leaking water")

	assert.True(t, reply.Error)
	assert.NotEmpty(t, reply.Message)
}

func TestAgent_ConversationIDIsStable(t *testing.T) {
	responder := &scriptedClient{responses: []string{
		partSearchClassification,
		"Answer one.",
		partSearchClassification,
		"Answer two.",
	}}
	a := newTestAgent(t, responder, &scriptedClient{responses: []string{cleanVerdict}}, false)

	first := a.ProcessMessage(context.Background(), "", "refrigerator door bin")
	second := a.ProcessMessage(context.Background(), first.ConversationID, "and the matching shelf?")

	require.NotEmpty(t, first.ConversationID)
	assert.Equal(t, first.ConversationID, second.ConversationID)
}

func TestAgent_GuardrailDisabledPassesThrough(t *testing.T) {
	responder := &scriptedClient{responses: []string{
		partSearchClassification,
		"Here is an unchecked answer about your refrigerator.",
	}}
	evaluator := &scriptedClient{responses: []string{cleanVerdict}}
	a := newTestAgent(t, responder, evaluator, false)

	reply := a.ProcessMessage(context.Background(), "", "refrigerator door bin")

	assert.False(t, reply.Evaluated)
	assert.Equal(t, guardrail.ActionAllow, reply.Action)
	assert.Zero(t, evaluator.calls)
	assert.Equal(t, "Here is an unchecked answer about your refrigerator.", reply.Message)
}

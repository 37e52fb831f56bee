package agent_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/partsdesk/partsdesk/pkg/agent"
	"github.com/partsdesk/partsdesk/pkg/infra/providers"
)

// scriptedClient returns canned completions keyed by call order.
type scriptedClient struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
	prompts   []string
	configs   []*providers.Config
}

func (s *scriptedClient) Ask(_ context.Context, cfg *providers.Config, prompt string) (*providers.CompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.configs = append(s.configs, cfg)
	if s.err != nil {
		return nil, s.err
	}
	idx := s.calls - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return &providers.CompletionResponse{Model: cfg.Model, Response: s.responses[idx]}, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestTriage_Classify(t *testing.T) {
	client := &scriptedClient{responses: []string{`{
		"query_type": "compatibility_check",
		"appliance_type": "refrigerator",
		"urgency": "low",
		"confidence": "high",
		"requires_model_number": true,
		"extracted_entities": {"model_number": "WRS325SDHZ", "part_category": "door bin"},
		"reasoning": "user asks whether a part fits a model"
	}`}}
	triage := agent.NewTriage(quietLogger(), client, &providers.Config{Model: "deepseek-chat"})

	c := triage.Classify(context.Background(), "will PS11752778 fit my WRS325SDHZ fridge?")

	assert.Equal(t, agent.QueryCompatibilityCheck, c.QueryType)
	assert.Equal(t, "refrigerator", c.ApplianceType)
	assert.True(t, c.RequiresModelNumber)
	assert.Equal(t, "WRS325SDHZ", c.ExtractedEntities["model_number"])
	assert.Contains(t, client.prompts[0], "will PS11752778 fit")
}

func TestTriage_FencedClassification(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"```json\n{\"query_type\": \"troubleshooting\", \"appliance_type\": \"dishwasher\"}\n```",
	}}
	triage := agent.NewTriage(quietLogger(), client, &providers.Config{})

	c := triage.Classify(context.Background(), "my dishwasher won't drain")
	assert.Equal(t, agent.QueryTroubleshooting, c.QueryType)
}

func TestTriage_ErrorFallsBackToKeywords(t *testing.T) {
	client := &scriptedClient{err: errors.New("rate limited")}
	triage := agent.NewTriage(quietLogger(), client, &providers.Config{})

	c := triage.Classify(context.Background(), "my fridge makes a weird noise")

	assert.Equal(t, agent.QueryGeneralInfo, c.QueryType)
	assert.Equal(t, "refrigerator", c.ApplianceType)
	assert.NotNil(t, c.ExtractedEntities)
}

func TestTriage_MalformedJSONFallsBack(t *testing.T) {
	client := &scriptedClient{responses: []string{"this query is about a dishwasher part"}}
	triage := agent.NewTriage(quietLogger(), client, &providers.Config{})

	c := triage.Classify(context.Background(), "dishwasher rack wheels")

	assert.Equal(t, agent.QueryGeneralInfo, c.QueryType)
	assert.Equal(t, "dishwasher", c.ApplianceType)
}

func TestTriage_UnknownQueryTypeNormalized(t *testing.T) {
	client := &scriptedClient{responses: []string{`{"query_type": "chitchat"}`}}
	triage := agent.NewTriage(quietLogger(), client, &providers.Config{})

	c := triage.Classify(context.Background(), "hello")
	assert.Equal(t, agent.QueryGeneralInfo, c.QueryType)
}

func TestRouteFor(t *testing.T) {
	assert.Equal(t, "ProductSearchAgent", agent.RouteFor(agent.QueryPartSearch).Primary)
	assert.Equal(t, "OutOfScopeAgent", agent.RouteFor(agent.QueryOutOfScope).Primary)
	assert.True(t, agent.RouteFor(agent.QueryBrandInquiry).Parallel)
	// Unknown types take the general-info route.
	assert.Equal(t, "WebSearchAgent", agent.RouteFor(agent.QueryType("mystery")).Primary)
}

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/partsdesk/partsdesk/pkg/infra/providers"
)

type QueryType string

const (
	QueryPartSearch         QueryType = "part_search"
	QueryModelLookup        QueryType = "model_lookup"
	QueryCompatibilityCheck QueryType = "compatibility_check"
	QueryInstallationGuide  QueryType = "installation_guide"
	QueryTroubleshooting    QueryType = "troubleshooting"
	QueryBrandInquiry       QueryType = "brand_inquiry"
	QueryGeneralInfo        QueryType = "general_info"
	QueryOutOfScope         QueryType = "out_of_scope"
)

type Classification struct {
	QueryType           QueryType         `json:"query_type"`
	ApplianceType       string            `json:"appliance_type"`
	Urgency             string            `json:"urgency"`
	Confidence          string            `json:"confidence"`
	RequiresModelNumber bool              `json:"requires_model_number"`
	ExtractedEntities   map[string]string `json:"extracted_entities"`
	Reasoning           string            `json:"reasoning"`
}

// Route names the handler agents for one query type.
type Route struct {
	Primary   string
	Secondary []string
	Parallel  bool
}

// routingTable is static: classification is a categorical lookup, not a
// planning problem.
var routingTable = map[QueryType]Route{
	QueryPartSearch:         {Primary: "ProductSearchAgent", Secondary: []string{"WebSearchAgent"}},
	QueryModelLookup:        {Primary: "ModelLookupAgent", Secondary: []string{"ProductSearchAgent"}},
	QueryCompatibilityCheck: {Primary: "ProductSearchAgent", Secondary: []string{"WebSearchAgent"}},
	QueryInstallationGuide:  {Primary: "WebSearchAgent", Secondary: []string{"ProductSearchAgent"}},
	QueryTroubleshooting:    {Primary: "WebSearchAgent", Secondary: []string{"ProductSearchAgent"}},
	QueryBrandInquiry:       {Primary: "WebSearchAgent", Secondary: []string{"ProductSearchAgent"}, Parallel: true},
	QueryGeneralInfo:        {Primary: "WebSearchAgent"},
	QueryOutOfScope:         {Primary: "OutOfScopeAgent"},
}

func RouteFor(qt QueryType) Route {
	if route, ok := routingTable[qt]; ok {
		return route
	}
	return routingTable[QueryGeneralInfo]
}

const triageSystemPrompt = `You are a Triaging Agent for an appliance parts e-commerce site. Classify user queries for routing to specialized agents.

Classify queries into one of these types:
- part_search: User wants to find specific parts
- model_lookup: User wants information about a specific model
- compatibility_check: User wants to check if a part fits their model
- installation_guide: User needs installation instructions
- troubleshooting: User has an appliance problem to diagnose
- brand_inquiry: User asking about specific brands
- general_info: General questions about appliances/parts
- out_of_scope: Questions outside refrigerator/dishwasher domain

Extract entities like model numbers (alphanumeric, 6-15 characters), part names/types, brand names and appliance types.

RESPOND WITH VALID JSON IN THIS EXACT FORMAT:
{
  "query_type": "part_search|model_lookup|compatibility_check|installation_guide|troubleshooting|brand_inquiry|general_info|out_of_scope",
  "appliance_type": "refrigerator|dishwasher|both",
  "urgency": "low|medium|high|emergency",
  "confidence": "low|medium|high|very_high",
  "requires_model_number": true|false,
  "extracted_entities": {
    "model_number": "string or empty",
    "brand": "string or empty",
    "part_category": "string or empty"
  },
  "reasoning": "explanation for classification"
}`

type Triage struct {
	client      providers.Client
	providerCfg *providers.Config
	logger      *logrus.Logger
}

func NewTriage(logger *logrus.Logger, client providers.Client, providerCfg *providers.Config) *Triage {
	cfg := *providerCfg
	cfg.SystemPrompt = triageSystemPrompt
	cfg.Temperature = 0.1
	return &Triage{client: client, providerCfg: &cfg, logger: logger}
}

// Classify routes a query. Model or parse failures fall back to a keyword
// classification instead of failing the request.
func (t *Triage) Classify(ctx context.Context, query string) Classification {
	completion, err := t.client.Ask(ctx, t.providerCfg, fmt.Sprintf("Classify this query: %q", query))
	if err != nil {
		t.logger.WithError(err).Warn("triage call failed, using keyword fallback")
		return keywordClassification(query, "Error in classification, using fallback")
	}

	var classification Classification
	payload := stripFence(completion.Response)
	if err := json.Unmarshal([]byte(payload), &classification); err != nil {
		t.logger.WithError(err).Warn("failed to parse classification JSON, using keyword fallback")
		return keywordClassification(query, "Fallback classification due to parsing error")
	}
	if _, ok := routingTable[classification.QueryType]; !ok {
		classification.QueryType = QueryGeneralInfo
	}
	if classification.ExtractedEntities == nil {
		classification.ExtractedEntities = map[string]string{}
	}
	return classification
}

func keywordClassification(query, reasoning string) Classification {
	applianceType := "both"
	lower := strings.ToLower(query)
	if strings.Contains(lower, "refrigerator") || strings.Contains(lower, "fridge") {
		applianceType = "refrigerator"
	} else if strings.Contains(lower, "dishwasher") {
		applianceType = "dishwasher"
	}
	return Classification{
		QueryType:         QueryGeneralInfo,
		ApplianceType:     applianceType,
		Urgency:           "low",
		Confidence:        "medium",
		ExtractedEntities: map[string]string{},
		Reasoning:         reasoning,
	}
}

func stripFence(s string) string {
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

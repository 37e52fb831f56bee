package guardrail

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/partsdesk/partsdesk/pkg/config"
	"github.com/partsdesk/partsdesk/pkg/infra/httpx"
	"github.com/partsdesk/partsdesk/pkg/infra/providers"
)

const (
	evaluationTemperature = 0.1

	breakerProbeTimeout = 30 * time.Second
	breakerMaxFailures  = 5
)

// Evaluator asks the evaluation model whether a candidate response is
// safe to show. It never returns an error: every internal failure
// degrades to a fail-open assessment so the primary chat path can always
// proceed.
type Evaluator struct {
	client      providers.Client
	providerCfg *providers.Config
	cfg         config.GuardrailConfig
	breaker     httpx.CircuitBreaker
	logger      *logrus.Logger
}

func NewEvaluator(
	logger *logrus.Logger,
	client providers.Client,
	providerCfg *providers.Config,
	cfg config.GuardrailConfig,
) *Evaluator {
	pc := *providerCfg
	pc.Temperature = evaluationTemperature
	if pc.MaxTokens <= 0 {
		pc.MaxTokens = 1000
	}
	pc.SystemPrompt = evaluatorSystemPrompt

	return &Evaluator{
		client:      client,
		providerCfg: &pc,
		cfg:         cfg,
		breaker:     httpx.NewCircuitBreaker("guardrail_evaluator", breakerProbeTimeout, breakerMaxFailures),
		logger:      logger,
	}
}

// Evaluate screens a candidate response against its generation context.
// The upstream call is bounded by the configured evaluation timeout;
// timeouts, outages, an open breaker and malformed verdicts all degrade
// to the fail-open assessment.
func (e *Evaluator) Evaluate(
	ctx context.Context,
	userQuery string,
	candidateResponse string,
	reqCtx *RequestContext,
) *RiskAssessment {
	prompt := buildEvaluationPrompt(userQuery, candidateResponse, reqCtx)

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.EvaluationTimeout)
	defer cancel()

	var completion *providers.CompletionResponse
	err := e.breaker.Execute(func() error {
		var askErr error
		completion, askErr = e.client.Ask(callCtx, e.providerCfg, prompt)
		return askErr
	})
	if err != nil {
		e.logger.WithError(err).Warn("guardrail evaluation call failed, failing open")
		return degradedAssessment(
			fmt.Sprintf("Evaluation error: %s", err.Error()),
			map[string]any{"error": err.Error()},
		)
	}

	v, err := parseVerdict(completion.Response)
	if err != nil {
		e.logger.WithError(err).WithField("raw_response", completion.Response).
			Error("failed to parse evaluation verdict")
		return degradedAssessment(
			"Evaluation service error",
			map[string]any{"error": err.Error(), "raw_response": completion.Response},
		)
	}

	return assessmentFromVerdict(v, e.providerCfg.Model)
}

package guardrail

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/partsdesk/partsdesk/pkg/cache"
	"github.com/partsdesk/partsdesk/pkg/config"
	"github.com/partsdesk/partsdesk/pkg/infra/metrics"
)

// Result is what the surrounding chat agent consumes. FinalText is always
// safe to render; the remaining fields are observability metadata and are
// never shown to the end user.
type Result struct {
	FinalText  string   `json:"final_text"`
	Evaluated  bool     `json:"evaluated"`
	Action     Action   `json:"action"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons"`
}

// Pipeline runs summarize -> evaluate -> decide -> mitigate for one
// request. It holds no per-request state; concurrent requests share only
// the immutable configuration and the verdict cache.
type Pipeline struct {
	evaluator *Evaluator
	mitigator *Mitigator
	cfg       config.GuardrailConfig
	verdicts  *cache.VerdictCache
	logger    *logrus.Logger
}

// NewPipeline assembles the guardrail. verdicts may be nil to disable
// caching.
func NewPipeline(
	logger *logrus.Logger,
	evaluator *Evaluator,
	cfg config.GuardrailConfig,
	verdicts *cache.VerdictCache,
) *Pipeline {
	return &Pipeline{
		evaluator: evaluator,
		mitigator: NewMitigator(),
		cfg:       cfg,
		verdicts:  verdicts,
		logger:    logger,
	}
}

// EvaluateAndMitigate screens a candidate response and returns the text
// that should reach the user. It never returns an error: a failed
// evaluation yields the original text with Evaluated=false so the primary
// chat path is never blocked by its own safety net.
func (p *Pipeline) EvaluateAndMitigate(
	ctx context.Context,
	userQuery string,
	candidateResponse string,
	reqCtx *RequestContext,
) Result {
	if !p.cfg.Enabled {
		return Result{
			FinalText: candidateResponse,
			Evaluated: false,
			Action:    ActionAllow,
			Reasons:   []string{},
		}
	}

	start := time.Now()

	assessment, cacheHit := p.cachedAssessment(ctx, userQuery, candidateResponse)
	if assessment == nil {
		assessment = p.evaluator.Evaluate(ctx, userQuery, candidateResponse, reqCtx)
	}

	if assessment.Degraded {
		elapsed := time.Since(start)
		metrics.ObserveEvaluation(string(ActionLog), true, elapsed)
		p.logOutcome(userQuery, candidateResponse, assessment, ActionLog, cacheHit, elapsed)
		// Mitigation is never applied to a failed evaluation.
		return Result{
			FinalText:  candidateResponse,
			Evaluated:  false,
			Action:     ActionLog,
			Confidence: 0.0,
			Reasons:    assessment.Reasons,
		}
	}

	decision := Decide(assessment, p.cfg)
	finalText, meta := p.mitigator.Apply(candidateResponse, decision, assessment, userQuery)

	elapsed := time.Since(start)
	metrics.ObserveEvaluation(string(decision.Action), false, elapsed)
	p.logOutcome(userQuery, candidateResponse, assessment, decision.Action, cacheHit, elapsed)

	if !cacheHit {
		p.storeVerdict(ctx, userQuery, candidateResponse, assessment)
	}

	reasons := meta.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return Result{
		FinalText:  finalText,
		Evaluated:  true,
		Action:     decision.Action,
		Confidence: assessment.Confidence,
		Reasons:    reasons,
	}
}

// ScreenToolResult condenses a structured tool result and runs it through
// the same evaluation path as final chat text.
func (p *Pipeline) ScreenToolResult(
	ctx context.Context,
	toolName string,
	args map[string]any,
	result map[string]any,
) (*RiskAssessment, string) {
	summary := Summarize(toolName, args, result)
	reqCtx := &RequestContext{IsToolResult: true, ToolName: toolName}
	query := fmt.Sprintf("Tool: %s with args: %v", toolName, args)
	return p.evaluator.Evaluate(ctx, query, summary, reqCtx), summary
}

func (p *Pipeline) Enabled() bool {
	return p.cfg.Enabled
}

func (p *Pipeline) cachedAssessment(ctx context.Context, userQuery, candidateResponse string) (*RiskAssessment, bool) {
	verdict, ok := p.verdicts.Get(ctx, cache.Key(userQuery, candidateResponse))
	if !ok {
		return nil, false
	}
	metrics.ObserveVerdictCacheHit()
	return &RiskAssessment{
		IsFlagged:      verdict.IsFlagged,
		Confidence:     clampConfidence(verdict.Confidence),
		Severity:       normalizeSeverity(verdict.Severity),
		Recommendation: normalizeRecommendation(verdict.Recommendation),
		Reasons:        verdict.Reasons,
		RawDetails:     map[string]any{"cache_hit": true},
	}, true
}

func (p *Pipeline) storeVerdict(ctx context.Context, userQuery, candidateResponse string, a *RiskAssessment) {
	err := p.verdicts.Set(ctx, cache.Key(userQuery, candidateResponse), &cache.CachedVerdict{
		IsFlagged:      a.IsFlagged,
		Confidence:     a.Confidence,
		Severity:       string(a.Severity),
		Recommendation: string(a.Recommendation),
		Reasons:        a.Reasons,
	})
	if err != nil {
		p.logger.WithError(err).Debug("failed to cache guardrail verdict")
	}
}

func (p *Pipeline) logOutcome(
	userQuery string,
	candidateResponse string,
	a *RiskAssessment,
	action Action,
	cacheHit bool,
	elapsed time.Duration,
) {
	data := EvaluationData{
		QueryPreview:    preview(userQuery),
		ResponsePreview: preview(candidateResponse),
		IsFlagged:       a.IsFlagged,
		Confidence:      a.Confidence,
		Action:          action,
		Severity:        a.Severity,
		Reasons:         capReasons(a.Reasons),
		Degraded:        a.Degraded,
		CacheHit:        cacheHit,
		DurationMs:      elapsed.Milliseconds(),
	}

	entry := p.logger.WithField("guardrail", data)
	switch {
	case action == ActionBlock:
		entry.Warn("guardrail blocked response")
	case action == ActionWarn:
		entry.Info("guardrail warned on response")
	case p.cfg.LogAllEvaluations:
		entry.Info("guardrail evaluated response")
	default:
		entry.Debug("guardrail evaluated response")
	}
}

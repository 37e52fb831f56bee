package guardrail_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/partsdesk/partsdesk/pkg/guardrail"
)

func TestMitigator_Block(t *testing.T) {
	m := guardrail.NewMitigator()
	flagged := "Use part PS-MAGIC-9000, it fits every refrigerator ever made."
	a := &guardrail.RiskAssessment{
		IsFlagged:  true,
		Confidence: 0.9,
		Severity:   guardrail.SeverityHigh,
		Reasons:    []string{"fabricated part number"},
	}

	text, meta := m.Apply(flagged, guardrail.Decision{Action: guardrail.ActionBlock}, a, "what part do I need")

	// The flagged content must not survive in any form.
	assert.NotContains(t, text, "PS-MAGIC-9000")
	assert.NotContains(t, text, "fits every refrigerator")
	assert.Contains(t, text, "model number")

	assert.True(t, meta.Evaluated)
	assert.Equal(t, guardrail.ActionBlock, meta.Action)
	assert.Equal(t, 0.9, meta.Confidence)
	assert.Equal(t, []string{"fabricated part number"}, meta.Reasons)
}

func TestMitigator_Warn(t *testing.T) {
	m := guardrail.NewMitigator()
	original := "The water filter is usually behind the lower grille."
	a := &guardrail.RiskAssessment{
		IsFlagged:  true,
		Confidence: 0.5,
		Reasons:    []string{"unverified location claim"},
	}

	text, meta := m.Apply(original, guardrail.Decision{Action: guardrail.ActionWarn}, a, "where is my filter")

	assert.True(t, strings.HasPrefix(text, original))
	assert.Contains(t, text, "verify this information")
	assert.Equal(t, guardrail.ActionWarn, meta.Action)
	assert.Equal(t, []string{"unverified location claim"}, meta.Reasons)
}

func TestMitigator_AllowAndLogPassThrough(t *testing.T) {
	m := guardrail.NewMitigator()
	original := "PS11752778 is the door bin for your model."
	a := &guardrail.RiskAssessment{Confidence: 0.1}

	for _, action := range []guardrail.Action{guardrail.ActionAllow, guardrail.ActionLog} {
		text, meta := m.Apply(original, guardrail.Decision{Action: action}, a, "q")
		assert.Equal(t, original, text)
		assert.True(t, meta.Evaluated)
		assert.Equal(t, action, meta.Action)
		assert.Empty(t, meta.Reasons)
	}
}

package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	PresetStrict         = "strict"
	PresetBalanced       = "balanced"
	PresetLenient        = "lenient"
	PresetMonitoringOnly = "monitoring_only"
)

const (
	minEvaluationTimeout = 1 * time.Second
	maxEvaluationTimeout = 30 * time.Second
)

// GuardrailConfig is loaded once at startup and never mutated afterwards;
// it is safe for unlimited concurrent readers.
type GuardrailConfig struct {
	Enabled              bool          `mapstructure:"enabled"`
	Preset               string        `mapstructure:"preset"`
	Threshold            float64       `mapstructure:"threshold"`
	BlockHighConfidence  bool          `mapstructure:"block_high_confidence"`
	WarnMediumConfidence bool          `mapstructure:"warn_medium_confidence"`
	LogAllEvaluations    bool          `mapstructure:"log_all_evaluations"`
	EvaluationTimeout    time.Duration `mapstructure:"evaluation_timeout"`
}

var guardrailPresets = map[string]GuardrailConfig{
	PresetStrict: {
		Enabled:              true,
		Preset:               PresetStrict,
		Threshold:            0.5,
		BlockHighConfidence:  true,
		WarnMediumConfidence: true,
		LogAllEvaluations:    true,
		EvaluationTimeout:    10 * time.Second,
	},
	PresetBalanced: {
		Enabled:              true,
		Preset:               PresetBalanced,
		Threshold:            0.7,
		BlockHighConfidence:  true,
		WarnMediumConfidence: true,
		LogAllEvaluations:    false,
		EvaluationTimeout:    8 * time.Second,
	},
	PresetLenient: {
		Enabled:              true,
		Preset:               PresetLenient,
		Threshold:            0.85,
		BlockHighConfidence:  false,
		WarnMediumConfidence: true,
		LogAllEvaluations:    false,
		EvaluationTimeout:    5 * time.Second,
	},
	PresetMonitoringOnly: {
		Enabled:              true,
		Preset:               PresetMonitoringOnly,
		Threshold:            0.3,
		BlockHighConfidence:  false,
		WarnMediumConfidence: false,
		LogAllEvaluations:    true,
		EvaluationTimeout:    5 * time.Second,
	},
}

// GuardrailPresetConfig returns the named preset bundle. Unknown names
// fall back to the balanced preset.
func GuardrailPresetConfig(name string) GuardrailConfig {
	if preset, ok := guardrailPresets[strings.ToLower(strings.TrimSpace(name))]; ok {
		return preset
	}
	return guardrailPresets[PresetBalanced]
}

// ResolveGuardrail layers explicit settings on top of the selected preset.
// Only keys the operator actually set override preset values, so an unset
// threshold never silently becomes 0.
func ResolveGuardrail(loaded GuardrailConfig) GuardrailConfig {
	resolved := GuardrailPresetConfig(loaded.Preset)

	if viper.IsSet("guardrail.enabled") {
		resolved.Enabled = loaded.Enabled
	}
	if viper.IsSet("guardrail.threshold") || loaded.Threshold != 0 {
		resolved.Threshold = loaded.Threshold
	}
	if viper.IsSet("guardrail.block_high_confidence") {
		resolved.BlockHighConfidence = loaded.BlockHighConfidence
	}
	if viper.IsSet("guardrail.warn_medium_confidence") {
		resolved.WarnMediumConfidence = loaded.WarnMediumConfidence
	}
	if viper.IsSet("guardrail.log_all_evaluations") {
		resolved.LogAllEvaluations = loaded.LogAllEvaluations
	}
	if loaded.EvaluationTimeout != 0 {
		resolved.EvaluationTimeout = loaded.EvaluationTimeout
	}

	return resolved.Sanitize()
}

// Sanitize clamps values into operative ranges instead of failing startup:
// the guardrail must always come up in a well-defined state.
func (c GuardrailConfig) Sanitize() GuardrailConfig {
	if c.Preset == "" {
		c.Preset = PresetBalanced
	}
	if c.Threshold < 0 {
		c.Threshold = 0
	}
	if c.Threshold > 1 {
		c.Threshold = 1
	}
	if c.EvaluationTimeout < minEvaluationTimeout {
		c.EvaluationTimeout = minEvaluationTimeout
	}
	if c.EvaluationTimeout > maxEvaluationTimeout {
		c.EvaluationTimeout = maxEvaluationTimeout
	}
	return c
}

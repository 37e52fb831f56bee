package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Agent     AgentConfig     `mapstructure:"agent"`
	Guardrail GuardrailConfig `mapstructure:"guardrail"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

// AgentConfig selects the providers and models for the responder agent
// and the guardrail evaluator. The evaluator may run on a different
// (usually cheaper) model than the one writing answers.
type AgentConfig struct {
	Provider      string `mapstructure:"provider"`
	Model         string `mapstructure:"model"`
	ApiKey        string `mapstructure:"api_key"`
	BaseURL       string `mapstructure:"base_url"`
	EvalProvider  string `mapstructure:"eval_provider"`
	EvalModel     string `mapstructure:"eval_model"`
	EvalApiKey    string `mapstructure:"eval_api_key"`
	EvalBaseURL   string `mapstructure:"eval_base_url"`
	MaxTokens     int    `mapstructure:"max_tokens"`
	EvalMaxTokens int    `mapstructure:"eval_max_tokens"`
}

type CatalogConfig struct {
	DataFile string `mapstructure:"data_file"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

var globalConfig Config

func Load(configPath string) error {
	if err := loadConfigFile(configPath, "config", &globalConfig); err != nil {
		return fmt.Errorf("could not load main config file: %w", err)
	}

	setDefaultValues()
	globalConfig.Guardrail = ResolveGuardrail(globalConfig.Guardrail)

	return nil
}

func loadConfigFile(configPath, fileName string, out interface{}) error {
	viper.SetConfigName(fileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Environment variables alone are a valid configuration.
			return viper.Unmarshal(out)
		}
		return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
	}

	if err := viper.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}

	return nil
}

func setDefaultValues() {
	if globalConfig.Agent.Provider == "" {
		globalConfig.Agent.Provider = "deepseek"
	}
	if globalConfig.Agent.Model == "" {
		globalConfig.Agent.Model = "deepseek-chat"
	}
	if globalConfig.Agent.BaseURL == "" && globalConfig.Agent.Provider == "deepseek" {
		globalConfig.Agent.BaseURL = "https://api.deepseek.com"
	}
	if globalConfig.Agent.EvalProvider == "" {
		globalConfig.Agent.EvalProvider = globalConfig.Agent.Provider
	}
	if globalConfig.Agent.EvalModel == "" {
		globalConfig.Agent.EvalModel = globalConfig.Agent.Model
	}
	if globalConfig.Agent.EvalApiKey == "" {
		globalConfig.Agent.EvalApiKey = globalConfig.Agent.ApiKey
	}
	if globalConfig.Agent.EvalBaseURL == "" {
		globalConfig.Agent.EvalBaseURL = globalConfig.Agent.BaseURL
	}
	if globalConfig.Agent.MaxTokens == 0 {
		globalConfig.Agent.MaxTokens = 2048
	}
	if globalConfig.Agent.EvalMaxTokens == 0 {
		globalConfig.Agent.EvalMaxTokens = 1000
	}
	if globalConfig.Catalog.DataFile == "" {
		globalConfig.Catalog.DataFile = "data/parts_database.json"
	}
}

func GetConfig() *Config {
	return &globalConfig
}

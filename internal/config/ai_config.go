package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type AIConfig struct {
	Provider             string        `mapstructure:"provider" validate:"required,oneof=ollama gemini"`
	OllamaURL            string        `mapstructure:"ollama_url" validate:"required_if=Provider ollama"`
	OllamaModel          string        `mapstructure:"ollama_model"`
	GeminiKey            string        `mapstructure:"gemini_key" validate:"required_if=Provider gemini"`
	GeminiModel          string        `mapstructure:"gemini_model"`
	ProbeTimeout         time.Duration `mapstructure:"probe_timeout" validate:"gt=0"`
	GenerateTimeout      time.Duration `mapstructure:"generate_timeout" validate:"gt=0"`
	MaxRequestsPerMinute float32       `mapstructure:"max_requests_per_minute" validate:"gte=0"`
}

func (config AIConfig) validate() error {
	return validator.New().Struct(config)
}

func (config AIConfig) bindEnvironmentVariables() error {
	var errs []error

	bindings := map[string]string{
		"ai.provider":     "AI_PROVIDER",
		"ai.ollama_url":   "OLLAMA_URL",
		"ai.ollama_model": "OLLAMA_MODEL",
		"ai.gemini_key":   "GEMINI_KEY",
		"ai.gemini_model": "GEMINI_MODEL",
	}

	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

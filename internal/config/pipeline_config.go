package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type PipelineConfig struct {
	ProfilePath         string        `mapstructure:"profile_path" validate:"required"`
	TemplatePath        string        `mapstructure:"template_path" validate:"required"`
	OutputDir           string        `mapstructure:"output_dir" validate:"required"`
	MetricsAddress      string        `mapstructure:"metrics_address"`
	ProcessInterval     time.Duration `mapstructure:"process_interval" validate:"gt=0"`
	HighMatchThreshold  float64       `mapstructure:"high_match_threshold" validate:"gte=0,lte=100"`
	JobExpirationInDays int           `mapstructure:"job_expiration_days" validate:"gt=0"`
	UseAICustomization  bool          `mapstructure:"use_ai_customization"`
}

func (config PipelineConfig) validate() error {
	return validator.New().Struct(config)
}

func (config PipelineConfig) bindEnvironmentVariables() error {
	var errs []error

	bindings := map[string]string{
		"pipeline.profile_path":  "PROFILE_PATH",
		"pipeline.template_path": "TEMPLATE_PATH",
		"pipeline.output_dir":    "OUTPUT_DIR",
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

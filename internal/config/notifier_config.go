package config

import "github.com/spf13/viper"

type NotifierConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	TelegramToken  string `mapstructure:"telegram_token"`
	TelegramChatID int64  `mapstructure:"telegram_chat_id"`
}

func (config NotifierConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("notifier.telegram_token", "TELEGRAM_TOKEN"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("notifier.telegram_chat_id", "TELEGRAM_CHAT_ID"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

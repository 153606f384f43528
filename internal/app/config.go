package app

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/cadolab/giftbot/core/config"
	coredatabase "github.com/cadolab/giftbot/core/database"
)

// AIConfig configures the Gemini-backed recommendation capability.
type AIConfig struct {
	APIKey         string `yaml:"api_key" envconfig:"GEMINI_API_KEY"`
	Model          string `yaml:"model" envconfig:"GEMINI_MODEL"`
	TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"AI_TIMEOUT_SECONDS"`
}

// PaymentsConfig configures the Telegram payment provider.
type PaymentsConfig struct {
	ProviderToken string `yaml:"provider_token" envconfig:"PAYMENT_PROVIDER_TOKEN"`
}

// OperatorConfig configures the operator side channel.
type OperatorConfig struct {
	// ChatID receives order summaries, support requests and reports.
	// Falls back to telegram.admin_id when zero.
	ChatID int64 `yaml:"chat_id" envconfig:"OPERATOR_CHAT_ID"`
	// DailyReport enables the scheduled end-of-day report.
	DailyReport bool `yaml:"daily_report" envconfig:"OPERATOR_DAILY_REPORT"`
	// ReportHour is the local hour the report is sent at (default 21).
	ReportHour int `yaml:"report_hour" envconfig:"OPERATOR_REPORT_HOUR"`
}

// Config is the full bot configuration.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	AI       AIConfig            `yaml:"ai"`
	Payments PaymentsConfig      `yaml:"payments"`
	Operator OperatorConfig      `yaml:"operator"`
}

// CoreConfig satisfies the runner's ConfigCarrier.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// OperatorChatID resolves the effective operator chat.
func (c *Config) OperatorChatID() int64 {
	if c.Operator.ChatID != 0 {
		return c.Operator.ChatID
	}
	return c.Core.Telegram.AdminID
}

// Load reads configuration from YAML and the environment.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if cfg.Operator.ReportHour < 0 || cfg.Operator.ReportHour > 23 {
		return nil, fmt.Errorf("operator.report_hour must be within 0..23")
	}
	if cfg.Operator.ReportHour == 0 {
		cfg.Operator.ReportHour = 21
	}
	return &cfg, nil
}

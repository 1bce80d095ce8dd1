package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Query        string           `yaml:"query"`
	MaxResults   int              `yaml:"max_results"`
	LookbackDays int              `yaml:"lookback_days"`
	Schedule     string           `yaml:"schedule"`
	RunOnStart   bool             `yaml:"run_on_start"`
	Store        StoreConfig      `yaml:"store"`
	Report       ReportConfig     `yaml:"report"`
	Summarizer   SummarizerConfig `yaml:"summarizer"`
	Publisher    PublisherConfig  `yaml:"publisher"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type ReportConfig struct {
	ChunkSize int `yaml:"chunk_size"`
}

type SummarizerConfig struct {
	Type        string `yaml:"type"`
	Model       string `yaml:"model"`
	APIKey      string `yaml:"api_key"`
	MaxTokens   int    `yaml:"max_tokens"`
	TimeoutSec  int    `yaml:"timeout_sec"`
	MaxAttempts int    `yaml:"max_attempts"`
}

type PublisherConfig struct {
	Type    string        `yaml:"type"`
	File    FileConfig    `yaml:"file"`
	Email   EmailConfig   `yaml:"email"`
	Web     WebConfig     `yaml:"web"`
	Discord DiscordConfig `yaml:"discord"`
}

type FileConfig struct {
	Dir string `yaml:"dir"`
}

type DiscordConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

type EmailConfig struct {
	SMTPHost string   `yaml:"smtp_host"`
	SMTPPort int      `yaml:"smtp_port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

type WebConfig struct {
	Addr string `yaml:"addr"`
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func setDefaults(cfg *Config) {
	if cfg.Query == "" {
		cfg.Query = "(cat:cond-mat.supr-con OR cat:cond-mat.mes-hall)"
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = 200
	}
	if cfg.LookbackDays == 0 {
		cfg.LookbackDays = 5
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "0 8 * * *"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "arxiv.db"
	}
	if cfg.Report.ChunkSize == 0 {
		cfg.Report.ChunkSize = 10
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "openai"
	}
	if cfg.Summarizer.Model == "" {
		switch cfg.Summarizer.Type {
		case "anthropic":
			cfg.Summarizer.Model = "claude-sonnet-4-20250514"
		default:
			cfg.Summarizer.Model = "gpt-5-mini"
		}
	}
	if cfg.Summarizer.MaxTokens == 0 {
		cfg.Summarizer.MaxTokens = 4096
	}
	if cfg.Summarizer.TimeoutSec == 0 {
		cfg.Summarizer.TimeoutSec = 60
	}
	if cfg.Summarizer.MaxAttempts == 0 {
		cfg.Summarizer.MaxAttempts = 3
	}
	if cfg.Publisher.Type == "" {
		cfg.Publisher.Type = "file"
	}
	if cfg.Publisher.File.Dir == "" {
		cfg.Publisher.File.Dir = "."
	}
	if cfg.Publisher.Web.Addr == "" {
		cfg.Publisher.Web.Addr = ":8080"
	}
	if cfg.Publisher.Email.SMTPPort == 0 {
		cfg.Publisher.Email.SMTPPort = 587
	}
}

func validate(cfg *Config) error {
	if cfg.MaxResults < 0 {
		return fmt.Errorf("config: max_results must not be negative, got %d", cfg.MaxResults)
	}
	if cfg.LookbackDays < 0 {
		return fmt.Errorf("config: lookback_days must not be negative, got %d", cfg.LookbackDays)
	}
	if cfg.Report.ChunkSize <= 0 {
		return fmt.Errorf("config: report.chunk_size must be positive, got %d", cfg.Report.ChunkSize)
	}
	switch cfg.Summarizer.Type {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("config: unsupported summarizer type %q (supported: openai, anthropic)", cfg.Summarizer.Type)
	}
	if cfg.Summarizer.TimeoutSec <= 0 {
		return fmt.Errorf("config: summarizer.timeout_sec must be positive, got %d", cfg.Summarizer.TimeoutSec)
	}
	if cfg.Summarizer.MaxAttempts <= 0 {
		return fmt.Errorf("config: summarizer.max_attempts must be positive, got %d", cfg.Summarizer.MaxAttempts)
	}
	switch cfg.Publisher.Type {
	case "file", "stdout", "email", "web", "discord":
	default:
		return fmt.Errorf("config: unsupported publisher type %q (supported: file, stdout, email, web, discord)", cfg.Publisher.Type)
	}
	if cfg.Publisher.Type == "discord" {
		if cfg.Publisher.Discord.WebhookURL == "" {
			return fmt.Errorf("config: publisher.discord.webhook_url is required for discord publisher")
		}
	}
	if cfg.Publisher.Type == "email" {
		if cfg.Publisher.Email.SMTPHost == "" {
			return fmt.Errorf("config: publisher.email.smtp_host is required for email publisher")
		}
		if len(cfg.Publisher.Email.To) == 0 {
			return fmt.Errorf("config: publisher.email.to is required for email publisher")
		}
		if cfg.Publisher.Email.From == "" {
			return fmt.Errorf("config: publisher.email.from is required for email publisher")
		}
	}
	return nil
}

// Load reads the config file, expands environment variables, applies defaults,
// and validates the configuration. A missing summarizer API key is not a
// validation error: the run still completes and the report says the summary
// was skipped.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

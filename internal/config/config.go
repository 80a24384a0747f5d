package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/example/ballethq/pkg/models"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting of the quiz service
type Config struct {
	Server    ServerConfig
	App       AppConfig
	Session   SessionConfig
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig
	Telegram  TelegramConfig
}

type ServerConfig struct {
	Port string
	Mode string // "debug" or "release"
}

// AppConfig describes the quiz content
type AppConfig struct {
	Title    string
	Workbook string           // Path to the .xlsx (or .csv) question source
	Logo     string           // Optional logo shown on every page
	Sections []models.Section // Landing page entries in display order
}

type SessionConfig struct {
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type RateLimitConfig struct {
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

type LogConfig struct {
	File string
}

type TelegramConfig struct {
	Token string
}

// DefaultSections returns the curriculum sections offered when none are configured
func DefaultSections() []models.Section {
	return []models.Section{
		{Title: "Grade 1", Sheet: "Grade 1"},
		{Title: "Grade 2", Sheet: "Grade 2"},
		{Title: "Additional Information – Flash Cards"},
	}
}

// Load reads .env, then configs/config.yaml under path (optional), then the environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BALLET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("telegram.token", "BALLET_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind telegram token: %w", err)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("app.title", "Ballet Theory")
	v.SetDefault("app.workbook", "grade 1 Ballet Theory.xlsx")
	v.SetDefault("app.logo", "Dance HQ Logo.jpg")
	v.SetDefault("session.idle_timeout", 2*time.Hour)
	v.SetDefault("session.cleanup_interval", 10*time.Minute)
	v.SetDefault("rate_limit.max_requests", 60)
	v.SetDefault("rate_limit.window", time.Minute)
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("telegram.token", "")
}

func (c *Config) validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if c.App.Workbook == "" {
		return fmt.Errorf("app.workbook must be set")
	}
	if len(c.App.Sections) == 0 {
		c.App.Sections = DefaultSections()
	}
	seen := make(map[string]bool, len(c.App.Sections))
	for _, s := range c.App.Sections {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("app.sections: section title cannot be empty")
		}
		if seen[s.Title] {
			return fmt.Errorf("app.sections: duplicate section %q", s.Title)
		}
		seen[s.Title] = true
	}
	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit: max_requests and window must be positive")
	}
	if c.Session.IdleTimeout <= 0 || c.Session.CleanupInterval <= 0 {
		return fmt.Errorf("session: idle_timeout and cleanup_interval must be positive")
	}
	return nil
}

package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/company-search/internal/cost"
)

// Config holds the full application configuration. It is loaded once at
// startup and treated as read-only afterwards.
type Config struct {
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Gemini     GeminiConfig     `yaml:"gemini" mapstructure:"gemini"`
	Pricing    cost.Rates       `yaml:"pricing" mapstructure:"pricing"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// PerplexityConfig holds search provider settings.
type PerplexityConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Model       string `yaml:"model" mapstructure:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// GeminiConfig holds normalizer provider settings. The API key is supplied
// per request and is deliberately absent here.
type GeminiConfig struct {
	Model    string `yaml:"model" mapstructure:"model"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// SearchConfig holds settings read only by the one-shot search command. The
// HTTP server never reads it; its callers supply their own Gemini key.
type SearchConfig struct {
	GeminiKey string `yaml:"gemini_key" mapstructure:"gemini_key"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config file and environment.
func Load() (*Config, error) {
	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("COMPANY_SEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Legacy variable names used by existing deployments.
	if err := v.BindEnv("perplexity.key", "COMPANY_SEARCH_PERPLEXITY_KEY", "PER_API_KEY"); err != nil {
		return nil, eris.Wrap(err, "config: bind perplexity key")
	}
	if err := v.BindEnv("server.port", "COMPANY_SEARCH_SERVER_PORT", "PORT"); err != nil {
		return nil, eris.Wrap(err, "config: bind server port")
	}
	if err := v.BindEnv("search.gemini_key", "COMPANY_SEARCH_SEARCH_GEMINI_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, eris.Wrap(err, "config: bind search gemini key")
	}

	// Defaults
	rates := cost.DefaultRates()
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-reasoning-pro")
	v.SetDefault("perplexity.timeout_secs", 120)
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("server.port", 3002)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("pricing.perplexity.per_query", rates.Perplexity.PerQuery)
	v.SetDefault("pricing.perplexity.input", rates.Perplexity.Input)
	v.SetDefault("pricing.perplexity.output", rates.Perplexity.Output)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if len(cfg.Pricing.Gemini) == 0 {
		cfg.Pricing.Gemini = rates.Gemini
	}

	return &cfg, nil
}

// Validate checks that the settings required by mode are present. Modes are
// "serve" and "search".
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be between 1 and 65535")
		}
	case "search":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if strings.TrimSpace(c.Perplexity.Key) == "" {
		problems = append(problems, "perplexity.key is required (set PER_API_KEY)")
	}
	if c.Perplexity.TimeoutSecs < 0 {
		problems = append(problems, "perplexity.timeout_secs must be >= 0")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

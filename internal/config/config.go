package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Database    DatabaseConfig    `yaml:"database" mapstructure:"database"`
	FEC         FECConfig         `yaml:"fec" mapstructure:"fec"`
	Kalshi      KalshiConfig      `yaml:"kalshi" mapstructure:"kalshi"`
	CivicEngine CivicEngineConfig `yaml:"civicengine" mapstructure:"civicengine"`
	Anthropic   AnthropicConfig   `yaml:"anthropic" mapstructure:"anthropic"`
	Scoring     ScoringConfig     `yaml:"scoring" mapstructure:"scoring"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the local run/cache database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// DatabaseConfig configures the Postgres backend for the county partisan
// dataset.
type DatabaseConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

// FECConfig holds campaign-finance API settings.
type FECConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// KalshiConfig holds prediction-market API settings.
type KalshiConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// CivicEngineConfig holds election data API settings.
type CivicEngineConfig struct {
	Token    string `yaml:"token" mapstructure:"token"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
}

// AnthropicConfig holds classification model settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// ScoringConfig configures the scoring pipeline.
type ScoringConfig struct {
	WeightsFile string `yaml:"weights_file" mapstructure:"weights_file"`
	YearsBack   int    `yaml:"years_back" mapstructure:"years_back"`
	BatchSize   int    `yaml:"batch_size" mapstructure:"batch_size"`
	Workers     int    `yaml:"workers" mapstructure:"workers"`
	MonthsAhead int    `yaml:"months_ahead" mapstructure:"months_ahead"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEVERAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "leverage.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("fec.base_url", "https://api.open.fec.gov/v1")
	v.SetDefault("kalshi.base_url", "https://api.elections.kalshi.com/v1")
	v.SetDefault("civicengine.endpoint", "https://bpi.civicengine.com/graphql")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("scoring.years_back", 6)
	v.SetDefault("scoring.batch_size", 10)
	v.SetDefault("scoring.workers", 4)
	v.SetDefault("scoring.months_ahead", 18)

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

	return &cfg, nil
}

// Validate checks the fields a command mode depends on. Provider keys are
// deliberately optional: a missing provider degrades the affected estimator
// instead of blocking the run.
func (c *Config) Validate(mode string) error {
	var problems []string

	check := func() {
		if c.CivicEngine.Token == "" {
			problems = append(problems, "civicengine.token is required")
		}
		if c.Scoring.BatchSize < 1 || c.Scoring.BatchSize > 100 {
			problems = append(problems, "scoring.batch_size must be between 1 and 100")
		}
		if c.Scoring.Workers < 1 || c.Scoring.Workers > 32 {
			problems = append(problems, "scoring.workers must be between 1 and 32")
		}
	}

	switch mode {
	case "score", "races":
		check()
	case "serve":
		check()
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	case "runs", "demographics":
		// Local database access only.
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
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

// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/ppc-cli/internal/model"
	"github.com/sells-group/ppc-cli/internal/optimizer"
)

// Config holds the full application configuration.
type Config struct {
	Client    model.ClientConfig   `yaml:"client" mapstructure:"client"`
	Rules     optimizer.RuleConfig `yaml:"rules" mapstructure:"rules"`
	Store     StoreConfig          `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig      `yaml:"anthropic" mapstructure:"anthropic"`
	Server    ServerConfig         `yaml:"server" mapstructure:"server"`
	Optimize  OptimizeConfig       `yaml:"optimize" mapstructure:"optimize"`
	Log       LogConfig            `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the optional run-history database.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds Anthropic API settings for prose recommendations.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	Model       string `yaml:"model" mapstructure:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ServerConfig configures the upload server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// OptimizeConfig configures the optimize command.
type OptimizeConfig struct {
	MaxConcurrentReports int `yaml:"max_concurrent_reports" mapstructure:"max_concurrent_reports"`
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
	v.SetEnvPrefix("PPC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("store.driver", "")
	v.SetDefault("optimize.max_concurrent_reports", 4)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.timeout_secs", 30)
	v.SetDefault("rules.target_acos", model.DefaultTargetACOS)
	v.SetDefault("rules.min_conversion_rate", model.DefaultMinConversionRate)
	v.SetDefault("rules.pause_clicks", model.DefaultPauseClicks)
	v.SetDefault("rules.bid_clicks", model.DefaultBidClicks)
	v.SetDefault("rules.bid_change_threshold", 0.05)

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

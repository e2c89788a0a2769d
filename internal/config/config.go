// Package config loads and validates pagewatch configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Output  OutputConfig  `mapstructure:"output"`
	Status  StatusConfig  `mapstructure:"status"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig controls access to the PageSpeed Insights service.
type APIConfig struct {
	Key            string  `mapstructure:"key"`
	Endpoint       string  `mapstructure:"endpoint"`
	Strategy       string  `mapstructure:"strategy"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	MaxRetries     int     `mapstructure:"max_retries"`
	BackoffSeconds float64 `mapstructure:"backoff_seconds"`
}

// BatchConfig governs the sequential batch run.
type BatchConfig struct {
	URLsFile     string  `mapstructure:"urls_file"`
	DelaySeconds float64 `mapstructure:"delay_seconds"`
}

// OutputConfig sets the dataset file locations.
type OutputConfig struct {
	JSONPath string `mapstructure:"json_path"`
	CSVPath  string `mapstructure:"csv_path"`
}

// StatusConfig configures the optional status/metrics HTTP listener.
// An empty Addr disables the listener.
type StatusConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PAGEWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The credential keeps its historical environment name.
	if err := v.BindEnv("api.key", "PAGEWATCH_API_KEY", "PAGESPEED_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind api key env: %w", err)
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("pagewatch")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.pagewatch")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.endpoint", "https://www.googleapis.com/pagespeedonline/v5/runPagespeed")
	v.SetDefault("api.strategy", "desktop")
	v.SetDefault("api.timeout_seconds", 60)
	v.SetDefault("api.max_retries", 3)
	v.SetDefault("api.backoff_seconds", 1.0)
	v.SetDefault("batch.urls_file", "urls.txt")
	v.SetDefault("batch.delay_seconds", 2.0)
	v.SetDefault("output.json_path", "performance_data.json")
	v.SetDefault("output.csv_path", "performance_data.csv")
	v.SetDefault("status.addr", "")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.API.Key == "" {
		return fmt.Errorf("api.key must be set (PAGESPEED_API_KEY)")
	}
	if c.API.Endpoint == "" {
		return fmt.Errorf("api.endpoint must be set")
	}
	if c.API.Strategy != "desktop" && c.API.Strategy != "mobile" {
		return fmt.Errorf("api.strategy must be %q or %q", "desktop", "mobile")
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be > 0")
	}
	if c.API.MaxRetries <= 0 {
		return fmt.Errorf("api.max_retries must be > 0")
	}
	if c.API.BackoffSeconds <= 0 {
		return fmt.Errorf("api.backoff_seconds must be > 0")
	}
	if c.Batch.URLsFile == "" {
		return fmt.Errorf("batch.urls_file must be set")
	}
	if c.Batch.DelaySeconds < 0 {
		return fmt.Errorf("batch.delay_seconds must be >= 0")
	}
	if c.Output.JSONPath == "" {
		return fmt.Errorf("output.json_path must be set")
	}
	if c.Output.CSVPath == "" {
		return fmt.Errorf("output.csv_path must be set")
	}
	return nil
}

// Timeout converts the per-request timeout into a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// Backoff converts the base backoff unit into a duration.
func (c Config) Backoff() time.Duration {
	return time.Duration(c.API.BackoffSeconds * float64(time.Second))
}

// Delay converts the inter-request delay into a duration.
func (c Config) Delay() time.Duration {
	return time.Duration(c.Batch.DelaySeconds * float64(time.Second))
}

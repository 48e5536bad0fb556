package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime settings. It is loaded once at startup and
// passed to each component at construction; nothing reads configuration
// from ambient global state afterwards.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	DataAPI    DataAPIConfig    `mapstructure:"data_api"`
	Evaluation EvaluationConfig `mapstructure:"evaluation"`
	API        APIConfig        `mapstructure:"api"`
	Features   FeatureConfig    `mapstructure:"features"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Port        string `mapstructure:"port"`
	Env         string `mapstructure:"env"`
	ServiceName string `mapstructure:"service_name"`
}

// DataAPIConfig covers the role-metadata collaborator. Its timeout and
// retry budget are independent of the evaluator's: role lookups are short,
// evaluations are long-running.
type DataAPIConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	RetryMaxAttempts int           `mapstructure:"retry_max_attempts"`
}

type EvaluationConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	RetryMaxAttempts int           `mapstructure:"retry_max_attempts"`
}

type APIConfig struct {
	// SupportedVersion is the single accepted X-API-Version value.
	SupportedVersion string `mapstructure:"supported_version"`

	// PreserveContainerKeys lists free-form containers whose immediate
	// child keys must survive response normalization verbatim.
	PreserveContainerKeys []string `mapstructure:"preserve_container_keys"`
}

type FeatureConfig struct {
	// RoleContext enables building a prompt-ready role description from
	// the role-metadata payload for the evaluator call.
	RoleContext bool `mapstructure:"role_context"`

	// DebugMetadata enables evaluator timing/cost fields in response
	// metadata and the matching debug log records.
	DebugMetadata bool `mapstructure:"debug_metadata"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// Load reads configuration with the precedence: defaults, parameters.yaml
// (optional), then CVORCH_* environment variables. Required collaborator
// URLs fail fast here rather than on the first request.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment as-is.")
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("parameters")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./parameters")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read parameters file: %w", err)
		}
	}

	v.SetEnvPrefix("CVORCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var missing []string
	if cfg.DataAPI.BaseURL == "" {
		missing = append(missing, "data_api.base_url")
	}
	if cfg.Evaluation.BaseURL == "" {
		missing = append(missing, "evaluation.base_url")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf(
			"missing required settings: %s (set them in parameters.yaml or as CVORCH_* environment variables)",
			strings.Join(missing, ", "),
		)
	}

	cfg.DataAPI.BaseURL = strings.TrimRight(cfg.DataAPI.BaseURL, "/")
	cfg.Evaluation.BaseURL = strings.TrimRight(cfg.Evaluation.BaseURL, "/")

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.service_name", "cvresume-orchestrator")

	// Base URLs default to empty so the keys are known to viper and can be
	// filled from the environment; Load rejects them if they stay empty.
	v.SetDefault("data_api.base_url", "")
	v.SetDefault("data_api.timeout", "60s")
	v.SetDefault("data_api.retry_max_attempts", 2)

	v.SetDefault("evaluation.base_url", "")
	v.SetDefault("evaluation.timeout", "180s")
	v.SetDefault("evaluation.retry_max_attempts", 2)

	v.SetDefault("api.supported_version", "1")
	v.SetDefault("api.preserve_container_keys", []string{"scores"})

	v.SetDefault("features.role_context", false)
	v.SetDefault("features.debug_metadata", false)

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/samvad-hq/pocket-cli/pkg/pocket"
)

const (
	ConsumerKeyEnv = "POCKET_CONSUMER_KEY"
	AccessTokenEnv = "POCKET_ACCESS_TOKEN"

	defaultEnvFile = ".env"
)

// Config holds the application configuration loaded from .env files and environment variables.
type Config struct {
	ConsumerKey string `mapstructure:"pocket_consumer_key"`
	AccessToken string `mapstructure:"pocket_access_token"`
	APIBaseURL  string `mapstructure:"pocket_api_base_url"`
	LogLevel    string `mapstructure:"pocket_log_level"`
}

// ConfigurationError reports a required environment variable that is missing.
type ConfigurationError struct {
	Variable string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not set", e.Variable)
}

// Load reads configuration from the given .env files (".env" when none are
// given) and the process environment. Variables already present in the
// environment win over .env entries. A credential variable that is set but
// empty or whitespace-only counts as missing and yields a ConfigurationError.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{defaultEnvFile}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	v := viper.New()

	v.SetDefault("pocket_api_base_url", pocket.DefaultBaseURL)
	v.SetDefault("pocket_log_level", "warn")
	for _, key := range []string{ConsumerKeyEnv, AccessTokenEnv} {
		if err := v.BindEnv(strings.ToLower(key), key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.ConsumerKey = strings.TrimSpace(cfg.ConsumerKey)
	cfg.AccessToken = strings.TrimSpace(cfg.AccessToken)
	if cfg.ConsumerKey == "" {
		return nil, &ConfigurationError{Variable: ConsumerKeyEnv}
	}
	if cfg.AccessToken == "" {
		return nil, &ConfigurationError{Variable: AccessTokenEnv}
	}

	cfg.APIBaseURL = strings.TrimSpace(cfg.APIBaseURL)
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = pocket.DefaultBaseURL
	}

	return &cfg, nil
}

// Credentials returns the credential pair attached to every API call.
func (c *Config) Credentials() pocket.Credentials {
	return pocket.Credentials{
		ConsumerKey: c.ConsumerKey,
		AccessToken: c.AccessToken,
	}
}

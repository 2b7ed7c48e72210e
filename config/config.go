package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyTempoBaseURL   = "tempo.base_url"
	KeyTempoAPIToken  = "tempo.api_token"
	KeyTempoAccountID = "tempo.account_id"

	// EnvAPIToken and EnvAccountID are the credential environment variables.
	// Environment values win over config file entries.
	EnvAPIToken  = "TEMPO_API_TOKEN"
	EnvAccountID = "JIRA_USER_ACCOUNT_ID"

	DefaultBaseURL = "https://api.tempo.io/4"
)

type Config struct {
	Tempo TempoConfig `mapstructure:"tempo" validate:"required"`
}

type TempoConfig struct {
	BaseURL   string `mapstructure:"base_url" validate:"required,url"`
	APIToken  string `mapstructure:"api_token" validate:"required"`
	AccountID string `mapstructure:"account_id" validate:"required"`
}

// RedactedToken masks the API token for display, keeping a short suffix so
// the user can tell which token is active.
func (c TempoConfig) RedactedToken() string {
	token := strings.TrimSpace(c.APIToken)
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// BindEnvironment registers the credential environment variables with Viper.
func BindEnvironment() {
	bindEnvironment(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content. The
// credential environment variables participate, as they do at runtime.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	bindEnvironment(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# tempoutils configuration
tempo:
  base_url: "https://api.tempo.io/4"
  # Jira account id of the worklog owner. Also read from JIRA_USER_ACCOUNT_ID.
  account_id: ""
  # Prefer exporting TEMPO_API_TOKEN over storing the token here.
  # api_token: ""
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if strings.TrimSpace(cfg.Tempo.APIToken) == "" {
		return nil, fmt.Errorf("validation failed: tempo.api_token is required (export %s or add it to the config file)", EnvAPIToken)
	}
	if strings.TrimSpace(cfg.Tempo.AccountID) == "" {
		return nil, fmt.Errorf("validation failed: tempo.account_id is required (export %s or add it to the config file)", EnvAccountID)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyTempoBaseURL, DefaultBaseURL)
}

func bindEnvironment(v *viper.Viper) {
	_ = v.BindEnv(KeyTempoAPIToken, EnvAPIToken)
	_ = v.BindEnv(KeyTempoAccountID, EnvAccountID)
}

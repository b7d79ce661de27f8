package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
	openrouterx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/pkg/openrouter"
)

// Role names a generative duty so the config can pick a per-role model and
// temperature without the callers knowing about model names.
type Role string

const (
	RoleSQLGenerator Role = "sql_generator"
	RoleInfo         Role = "info"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.2"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	SQLGeneratorModel       string  `envconfig:"SQL_GENERATOR_MODEL" split_words:"true"`
	InfoModel               string  `envconfig:"INFO_MODEL" split_words:"true"`
	SQLGeneratorTemperature float32 `envconfig:"SQL_GENERATOR_TEMPERATURE" split_words:"true" default:"-1"`
	InfoTemperature         float32 `envconfig:"INFO_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor resolves the effective model settings for a role, falling
// back to the shared defaults when no override is set. A negative temperature
// override means "use the default".
func (c Config) OpenRouterFor(role Role) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch role {
	case RoleSQLGenerator:
		if v := strings.TrimSpace(c.SQLGeneratorModel); v != "" {
			modelName = v
		}
		if c.SQLGeneratorTemperature >= 0 {
			temp = c.SQLGeneratorTemperature
		}
	case RoleInfo:
		if v := strings.TrimSpace(c.InfoModel); v != "" {
			modelName = v
		}
		if c.InfoTemperature >= 0 {
			temp = c.InfoTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}

package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/contract"
	retrievalx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/retrieval"
	openrouterx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/pkg/openrouter"
)

// Config selects the chat model driving the ordering conversation and the
// embedding model used for menu retrieval. Both default to the shared
// OpenRouter credentials unless overridden.
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	AssistantModel       string  `envconfig:"ASSISTANT_MODEL" split_words:"true"`
	AssistantTemperature float32 `envconfig:"ASSISTANT_TEMPERATURE" split_words:"true" default:"-1"`

	EmbeddingBaseURL string `envconfig:"EMBEDDING_BASE_URL" split_words:"true" default:"https://api.openai.com/v1"`
	EmbeddingAPIKey  string `envconfig:"EMBEDDING_API_KEY" split_words:"true"`
	EmbeddingModel   string `envconfig:"EMBEDDING_MODEL" split_words:"true" default:"text-embedding-3-small"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrInvalidInput)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrInvalidInput)
	}
	return nil
}

// OpenRouterForAssistant resolves the chat model config, applying the
// assistant-specific overrides when set.
func (c Config) OpenRouterForAssistant() openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	if v := strings.TrimSpace(c.AssistantModel); v != "" {
		modelName = v
	}
	if c.AssistantTemperature >= 0 {
		temp = c.AssistantTemperature
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

// EmbedderConfig resolves the embeddings endpoint. The embedding API key
// falls back to the chat key so a single-provider setup needs one secret.
func (c Config) EmbedderConfig() retrievalx.EmbedderConfig {
	apiKey := strings.TrimSpace(c.EmbeddingAPIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(c.APIKey)
	}
	return retrievalx.EmbedderConfig{
		BaseURL: strings.TrimSpace(c.EmbeddingBaseURL),
		APIKey:  apiKey,
		Model:   strings.TrimSpace(c.EmbeddingModel),
		Timeout: c.Timeout,
	}
}

package agents

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/dyike/ArenaGo/config"
)

const defaultMaxTokens = 8192

// NewChatModel builds a chat model for the configured provider. The
// model name is per capability so viewpoint generation and debate turns
// can run on different models.
func NewChatModel(ctx context.Context, cfg *config.Config, modelName string) (model.BaseChatModel, error) {
	switch cfg.LLMProvider {
	case "deepseek":
		return deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:    cfg.DeepSeekAPIKey,
			Model:     modelName,
			MaxTokens: defaultMaxTokens,
		})
	case "openai", "":
		maxTokens := defaultMaxTokens
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:   cfg.BackendURL,
			APIKey:    cfg.OpenAIAPIKey,
			Model:     modelName,
			MaxTokens: &maxTokens,
		})
	}
	return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLMProvider)
}

package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// CreateOpenAIChatModel also serves OpenAI-compatible gateways via baseURL.
func CreateOpenAIChatModel(ctx context.Context, apiKey, baseURL, modelName string, timeout time.Duration) (model.ToolCallingChatModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("create openai chat model failed: OPENAI_API_KEY is not set")
	}
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   modelName,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create openai chat model failed: %w", err)
	}
	return chatModel, nil
}

package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"nyaya-sahayak/types"
)

// GeminiCompleter calls Gemini through the generative-ai-go SDK.
type GeminiCompleter struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiCompleter(ctx context.Context, apiKey, modelName string, timeout time.Duration) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("create gemini client failed: GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client failed: %w", err)
	}
	return &GeminiCompleter{client: client, model: modelName, timeout: timeout}, nil
}

func (c *GeminiCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32, maxTokens int) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	m := c.client.GenerativeModel(c.model)
	m.SetTemperature(temperature)
	m.SetMaxOutputTokens(int32(maxTokens))
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	resp, err := m.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrCompletion, err)
	}

	var sb strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: empty gemini response", types.ErrCompletion)
	}
	return sb.String(), nil
}

func (c *GeminiCompleter) Close() error {
	return c.client.Close()
}

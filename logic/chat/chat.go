package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"nyaya-sahayak/types"
)

// Completer is the completion collaborator: prompt in, free text out.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32, maxTokens int) (string, error)
}

// EinoCompleter adapts an eino chat model (Ollama, OpenAI) to Completer.
type EinoCompleter struct {
	chatModel model.BaseChatModel
	timeout   time.Duration
}

func NewEinoCompleter(chatModel model.BaseChatModel, timeout time.Duration) *EinoCompleter {
	return &EinoCompleter{chatModel: chatModel, timeout: timeout}
}

func (c *EinoCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32, maxTokens int) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	}, model.WithTemperature(temperature), model.WithMaxTokens(maxTokens))
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrCompletion, err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("%w: empty model response", types.ErrCompletion)
	}
	return resp.Content, nil
}

// Config selects and configures the completion provider.
type Config struct {
	Provider      string
	Model         string
	OllamaURL     string
	OpenAIKey     string
	OpenAIBaseURL string
	GeminiKey     string
	Timeout       time.Duration
}

var ErrUnknownProvider = errors.New("unknown llm provider")

// NewCompleter builds the Completer for cfg.Provider.
func NewCompleter(ctx context.Context, cfg Config) (Completer, error) {
	switch cfg.Provider {
	case "ollama", "":
		cm, err := CreateOllamaChatModel(ctx, cfg.OllamaURL, cfg.Model, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return NewEinoCompleter(cm, cfg.Timeout), nil
	case "openai":
		cm, err := CreateOpenAIChatModel(ctx, cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.Model, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return NewEinoCompleter(cm, cfg.Timeout), nil
	case "gemini":
		return NewGeminiCompleter(ctx, cfg.GeminiKey, cfg.Model, cfg.Timeout)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}

// Close releases the client behind c when it holds one.
func Close(c Completer) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

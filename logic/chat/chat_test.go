package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"nyaya-sahayak/types"
)

type fakeChatModel struct {
	reply   string
	err     error
	block   bool
	gotMsgs []*schema.Message
	gotOpts *model.Options
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.gotMsgs = input
	f.gotOpts = model.GetCommonOptions(nil, opts...)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestEinoCompleter_PassesPromptsAndOptions(t *testing.T) {
	fake := &fakeChatModel{reply: "advice"}
	c := NewEinoCompleter(fake, time.Second)

	got, err := c.Complete(context.Background(), "sys", "user", 0.7, 1000)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "advice" {
		t.Errorf("Complete = %q, want advice", got)
	}
	if len(fake.gotMsgs) != 2 || fake.gotMsgs[0].Role != schema.System || fake.gotMsgs[1].Content != "user" {
		t.Errorf("unexpected messages: %+v", fake.gotMsgs)
	}
	if fake.gotOpts.Temperature == nil || *fake.gotOpts.Temperature != 0.7 {
		t.Errorf("temperature option not forwarded: %+v", fake.gotOpts.Temperature)
	}
	if fake.gotOpts.MaxTokens == nil || *fake.gotOpts.MaxTokens != 1000 {
		t.Errorf("max tokens option not forwarded: %+v", fake.gotOpts.MaxTokens)
	}
}

func TestEinoCompleter_Errors(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeChatModel
	}{
		{"provider error", &fakeChatModel{err: errors.New("connection refused")}},
		{"empty response", &fakeChatModel{reply: "   "}},
		{"timeout", &fakeChatModel{block: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewEinoCompleter(tt.model, 20*time.Millisecond)
			_, err := c.Complete(context.Background(), "sys", "user", 0.5, 10)
			if !errors.Is(err, types.ErrCompletion) {
				t.Errorf("err = %v, want ErrCompletion", err)
			}
		})
	}
}

func TestNewCompleter_UnknownProvider(t *testing.T) {
	_, err := NewCompleter(context.Background(), Config{Provider: "carrier-pigeon"})
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("err = %v, want ErrUnknownProvider", err)
	}
}

func TestNewCompleter_MissingKeys(t *testing.T) {
	for _, p := range []string{"openai", "gemini"} {
		t.Run(p, func(t *testing.T) {
			if _, err := NewCompleter(context.Background(), Config{Provider: p, Model: "m"}); err == nil {
				t.Errorf("expected error for %s without API key", p)
			}
		})
	}
}

type closingCompleter struct {
	closed bool
	err    error
}

func (c *closingCompleter) Complete(context.Context, string, string, float32, int) (string, error) {
	return "", nil
}

func (c *closingCompleter) Close() error {
	c.closed = true
	return c.err
}

func TestClose(t *testing.T) {
	cc := &closingCompleter{err: errors.New("boom")}
	if err := Close(cc); err == nil || !cc.closed {
		t.Errorf("Close = %v, closed = %v", err, cc.closed)
	}
	if err := Close(NewEinoCompleter(&fakeChatModel{}, time.Second)); err != nil {
		t.Errorf("Close on a completer without a client = %v", err)
	}
}

package assistant

import (
	"context"
	"fmt"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI model settings.
const (
	OpenAIModel       = "gpt-4o-mini"
	OpenAIMaxTokens   = 300
	OpenAITemperature = 0.7
)

// OpenAI is a Completer backed by the OpenAI chat completion API.
type OpenAI struct {
	cli   oa.Client
	Model string
}

// NewOpenAI returns an OpenAI completer. Options can override the API key or base URL.
func NewOpenAI(apiKey string, opts ...option.RequestOption) *OpenAI {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAI{cli: oa.NewClient(opts...), Model: OpenAIModel}
}

func (o *OpenAI) Complete(ctx context.Context, messages []Message) (string, error) {
	params := make([]oa.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case System:
			params = append(params, oa.SystemMessage(m.Content))
		case User:
			params = append(params, oa.UserMessage(m.Content))
		case Assistant:
			params = append(params, oa.AssistantMessage(m.Content))
		default:
			return "", fmt.Errorf("unknown message role %q", m.Role)
		}
	}
	resp, err := o.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model:       o.Model,
		Messages:    params,
		MaxTokens:   oa.Int(OpenAIMaxTokens),
		Temperature: oa.Float(OpenAITemperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}

package assistant

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiModel is the default Gemini model.
const GeminiModel = "gemini-2.5-flash"

// maxCalls bounds the function calls made while answering one message.
const maxCalls = 5

// generator is the part of genai.Models used by Gemini.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini is a Completer backed by Google's Gemini API.
//
// Functions are offered to the model as tools, the calls it makes are
// resolved before the final answer is returned.
type Gemini struct {
	models    generator
	Model     string
	Functions []Function
	logger    *zap.Logger
}

// NewGemini returns a Gemini completer. The client reads GEMINI_API_KEY or
// GOOGLE_API_KEY when apiKey is empty.
func NewGemini(ctx context.Context, apiKey string, logger *zap.Logger, functions ...Function) (*Gemini, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("cannot create Gemini client: %w", err)
	}
	return &Gemini{models: client.Models, Model: GeminiModel, Functions: functions, logger: logger}, nil
}

func (g *Gemini) config(system string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	if len(g.Functions) > 0 {
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: NewDeclaration(g.Functions)}}
	}
	return cfg
}

func (g *Gemini) Complete(ctx context.Context, messages []Message) (string, error) {
	var system string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case System:
			system = m.Content
		case User:
			contents = append(contents, &genai.Content{Role: string(genai.RoleUser), Parts: []*genai.Part{{Text: m.Content}}})
		case Assistant:
			contents = append(contents, &genai.Content{Role: string(genai.RoleModel), Parts: []*genai.Part{{Text: m.Content}}})
		default:
			return "", fmt.Errorf("unknown message role %q", m.Role)
		}
	}
	cfg := g.config(system)
	library := NewLibrary(g.Functions)

	for range maxCalls + 1 {
		resp, err := g.models.GenerateContent(ctx, g.Model, contents, cfg)
		if err != nil {
			return "", err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", ErrEmptyReply
		}
		content := resp.Candidates[0].Content
		part0 := content.Parts[0]
		if part0.FunctionCall == nil {
			return part0.Text, nil
		}
		g.logger.Debug("function call", zap.String("name", part0.FunctionCall.Name), zap.Any("args", part0.FunctionCall.Args))
		fresp := library(ctx, part0.FunctionCall)
		contents = append(contents, content, &genai.Content{Role: string(genai.RoleUser), Parts: []*genai.Part{{FunctionResponse: fresp}}})
	}
	return "", fmt.Errorf("model made more than %d function calls", maxCalls)
}

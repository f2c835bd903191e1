package assistant

import (
	"context"
	"testing"

	"google.golang.org/genai"
)

// scripted returns its responses in order and records the requests.
type scripted struct {
	responses []*genai.Content
	requests  [][]*genai.Content
	configs   []*genai.GenerateContentConfig
}

func (s *scripted) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.requests = append(s.requests, contents)
	s.configs = append(s.configs, config)
	c := s.responses[0]
	s.responses = s.responses[1:]
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: c}}}, nil
}

// clock is a function answering a fixed time.
type clock struct{ calls int }

func (*clock) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{Name: "clock", Description: "current time"}
}

func (c *clock) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	c.calls++
	return &genai.FunctionResponse{ID: id, Name: "clock", Response: map[string]any{"output": "noon"}}
}

func TestGeminiComplete(t *testing.T) {
	s := &scripted{responses: []*genai.Content{
		{Role: "model", Parts: []*genai.Part{{FunctionCall: &genai.FunctionCall{ID: "1", Name: "clock"}}}},
		{Role: "model", Parts: []*genai.Part{{Text: "It is noon."}}},
	}}
	c := &clock{}
	g := &Gemini{models: s, Model: GeminiModel, Functions: []Function{c}}

	got, err := g.Complete(context.Background(), []Message{
		{Role: System, Content: "be nice"},
		{Role: User, Content: "what time is it?"},
	})
	if err != nil {
		t.Fatalf("Complete() unexpected error: %v", err)
	}
	if got != "It is noon." {
		t.Errorf("Complete() = %q want %q", got, "It is noon.")
	}
	if c.calls != 1 {
		t.Errorf("function called %d times want 1", c.calls)
	}
	if len(s.requests) != 2 {
		t.Fatalf("made %d requests want 2", len(s.requests))
	}
	// second request carries the call and its response
	if n := len(s.requests[1]); n != 3 {
		t.Errorf("second request has %d contents want 3", n)
	}
	cfg := s.configs[0]
	if cfg.SystemInstruction == nil || cfg.SystemInstruction.Parts[0].Text != "be nice" {
		t.Errorf("system instruction = %v want %q", cfg.SystemInstruction, "be nice")
	}
	if len(cfg.Tools) != 1 || cfg.Tools[0].FunctionDeclarations[0].Name != "clock" {
		t.Errorf("tools = %v want the clock function", cfg.Tools)
	}
}

func TestGeminiUnknownFunction(t *testing.T) {
	s := &scripted{responses: []*genai.Content{
		{Role: "model", Parts: []*genai.Part{{FunctionCall: &genai.FunctionCall{ID: "1", Name: "nope"}}}},
		{Role: "model", Parts: []*genai.Part{{Text: "sorry"}}},
	}}
	g := &Gemini{models: s, Model: GeminiModel}
	if _, err := g.Complete(context.Background(), []Message{{Role: User, Content: "hi"}}); err != nil {
		t.Fatalf("Complete() unexpected error: %v", err)
	}
	resp := s.requests[1][2].Parts[0].FunctionResponse
	if resp == nil || resp.Response["error"] == nil {
		t.Errorf("unknown function response = %v want an error", resp)
	}
}

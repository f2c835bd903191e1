// Package assistant implements the portfolio chat assistant.
//
// A Session holds one conversation: a fixed system preamble followed by the
// user and assistant messages. Replies come from a Completer, a hosted
// language model.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Role of a message author.
type Role string

const (
	System    Role = "system"
	User      Role = "user"
	Assistant Role = "assistant"
)

// Message is one entry of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Completer returns the next assistant message of a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// ErrEmptyReply is returned when the model answers with no text.
var ErrEmptyReply = errors.New("empty reply")

// Preamble returns the system message introducing the assistant of owner.
// When knowledge is not empty the assistant is told to answer from it.
func Preamble(owner, knowledge string) string {
	if strings.TrimSpace(knowledge) == "" {
		return fmt.Sprintf("You are a helpful assistant. Your core functionality is to answer questions about %s. "+
			"You are the portfolio assistant for external people to interact with.", owner)
	}
	return fmt.Sprintf(`You are a helpful assistant. Your core functionality is to answer questions about %[1]s.
You are the personal coding portfolio assistant of %[1]s for external people to interact with.
Here is some information about %[1]s:
%[2]s
When responding to user questions, summarize or extract only the relevant information from the provided knowledge.
Limit your response length when talking specifically about %[1]s.
Encourage follow up questions and a flowing conversation.`, owner, knowledge)
}

// Session is a conversation with the assistant. It is not safe for concurrent use.
type Session struct {
	ID       uuid.UUID
	messages []Message
}

// NewSession starts a conversation with the given system preamble.
func NewSession(preamble string) *Session {
	return &Session{
		ID:       uuid.New(),
		messages: []Message{{Role: System, Content: preamble}},
	}
}

// Ask sends prompt and returns the assistant's reply, both are added to the conversation.
//
// On failure the conversation is left unchanged.
func (s *Session) Ask(ctx context.Context, c Completer, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("empty prompt")
	}
	s.messages = append(s.messages, Message{Role: User, Content: prompt})
	reply, err := c.Complete(ctx, slices.Clone(s.messages))
	if err == nil {
		reply = strings.TrimSpace(reply)
		if reply == "" {
			err = ErrEmptyReply
		}
	}
	if err != nil {
		s.messages = s.messages[:len(s.messages)-1]
		return "", fmt.Errorf("assistant failed to answer: %w", err)
	}
	s.messages = append(s.messages, Message{Role: Assistant, Content: reply})
	return reply, nil
}

// Messages returns the whole conversation, system preamble first.
func (s *Session) Messages() []Message { return slices.Clone(s.messages) }

// History returns the user and assistant messages, what a chat window displays.
func (s *Session) History() []Message {
	return slices.DeleteFunc(s.Messages(), func(m Message) bool { return m.Role == System })
}

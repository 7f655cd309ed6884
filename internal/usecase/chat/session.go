// Package chat orchestrates multi-turn conversations on top of the
// openai client: rolling history, optional persistence, logging.
package chat

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bkyoung/openai-client/internal/adapter/llm"
	"github.com/bkyoung/openai-client/internal/adapter/llm/openai"
	"github.com/bkyoung/openai-client/internal/store"
)

// Completer is the slice of the openai client the session depends on.
type Completer interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error)
}

// Options configures a Session.
type Options struct {
	// Model defaults to "gpt-4" when empty.
	Model string
	// SystemPrompt, when non-empty, leads every request's message list.
	SystemPrompt string
	// Store, when non-nil, records each successful exchange.
	Store store.Store
	// Logger defaults to a no-op logger when nil.
	Logger *zap.Logger
}

// Session holds the conversation state for one caller. It is not safe
// for concurrent use; each conversation gets its own session.
type Session struct {
	completer    Completer
	exchanges    store.Store
	logger       *zap.Logger
	model        string
	systemPrompt string
	history      []openai.Message
}

// NewSession creates a conversation session over the given completer.
func NewSession(completer Completer, opts Options) *Session {
	model := opts.Model
	if model == "" {
		model = "gpt-4"
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		completer:    completer,
		exchanges:    opts.Store,
		logger:       logger,
		model:        model,
		systemPrompt: opts.SystemPrompt,
	}
}

// Send appends content as a user message, requests a completion over
// the full conversation so far, and returns the assistant's reply.
// A response with no choices degrades to an empty reply, matching the
// client's SendMessage leniency. On failure the user message is rolled
// back so a retry does not double it.
func (s *Session) Send(ctx context.Context, content string) (string, error) {
	s.history = append(s.history, openai.Message{Role: openai.RoleUser, Content: content})

	messages := s.requestMessages()

	s.logger.Debug("sending conversation turn",
		zap.String("model", s.model),
		zap.Int("messages", len(messages)),
		zap.Int("estimated_prompt_tokens", estimateMessages(messages)),
	)

	response, err := s.completer.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: messages,
	})
	if err != nil {
		s.history = s.history[:len(s.history)-1]
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", nil
	}

	reply := response.Choices[0].Message
	s.history = append(s.history, reply)

	if s.exchanges != nil {
		if err := s.record(ctx, content, response); err != nil {
			// Persistence is best-effort; the reply already happened.
			s.logger.Warn("failed to record exchange", zap.Error(err))
		}
	}

	return reply.Content, nil
}

// History returns a copy of the conversation so far, excluding the
// system prompt.
func (s *Session) History() []openai.Message {
	history := make([]openai.Message, len(s.history))
	copy(history, s.history)
	return history
}

// Reset clears the conversation history. The system prompt is kept.
func (s *Session) Reset() {
	s.history = nil
}

// requestMessages assembles the wire message list: system prompt first
// when configured, then the rolling history.
func (s *Session) requestMessages() []openai.Message {
	messages := make([]openai.Message, 0, len(s.history)+1)
	if s.systemPrompt != "" {
		messages = append(messages, openai.Message{Role: openai.RoleSystem, Content: s.systemPrompt})
	}
	return append(messages, s.history...)
}

func (s *Session) record(ctx context.Context, prompt string, response *openai.ChatCompletionResponse) error {
	finishReason := ""
	if len(response.Choices) > 0 {
		finishReason = response.Choices[0].FinishReason
	}
	_, err := s.exchanges.SaveExchange(ctx, store.Exchange{
		CreatedAt:        time.Now().UTC(),
		Model:            response.Model,
		Prompt:           prompt,
		Reply:            response.Choices[0].Message.Content,
		FinishReason:     finishReason,
		PromptTokens:     response.Usage.PromptTokens,
		CompletionTokens: response.Usage.CompletionTokens,
		TotalTokens:      response.Usage.TotalTokens,
	})
	if err != nil {
		return fmt.Errorf("save exchange: %w", err)
	}
	return nil
}

// estimateMessages sums the token estimate over message contents. Role
// and framing overhead are ignored; this feeds logging only.
func estimateMessages(messages []openai.Message) int {
	total := 0
	for _, m := range messages {
		total += llm.EstimateTokens(m.Content)
	}
	return total
}

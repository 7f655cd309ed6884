package chat_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bkyoung/openai-client/internal/adapter/llm/openai"
	"github.com/bkyoung/openai-client/internal/adapter/store/sqlite"
	"github.com/bkyoung/openai-client/internal/usecase/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCompleter returns canned responses and records the requests
// it receives.
type scriptedCompleter struct {
	requests  []openai.ChatCompletionRequest
	responses []*openai.ChatCompletionResponse
	err       error
}

func (c *scriptedCompleter) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	c.requests = append(c.requests, request)
	if c.err != nil {
		return nil, c.err
	}
	response := c.responses[0]
	if len(c.responses) > 1 {
		c.responses = c.responses[1:]
	}
	return response, nil
}

func reply(content string) *openai.ChatCompletionResponse {
	return &openai.ChatCompletionResponse{
		ID:      "chatcmpl-123",
		Object:  "chat.completion",
		Created: 1700000000,
		Model:   "gpt-4",
		Choices: []openai.Choice{
			{
				Index:        0,
				Message:      openai.Message{Role: openai.RoleAssistant, Content: content},
				FinishReason: "stop",
			},
		},
		Usage: openai.Usage{PromptTokens: 9, CompletionTokens: 12, TotalTokens: 21},
	}
}

func TestSession_Send(t *testing.T) {
	completer := &scriptedCompleter{responses: []*openai.ChatCompletionResponse{reply("Hi there")}}
	session := chat.NewSession(completer, chat.Options{})

	got, err := session.Send(context.Background(), "Hello!")

	require.NoError(t, err)
	assert.Equal(t, "Hi there", got)

	require.Len(t, completer.requests, 1)
	req := completer.requests[0]
	assert.Equal(t, "gpt-4", req.Model)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, openai.Message{Role: openai.RoleUser, Content: "Hello!"}, req.Messages[0])
}

func TestSession_Send_SystemPromptLeadsEveryRequest(t *testing.T) {
	completer := &scriptedCompleter{responses: []*openai.ChatCompletionResponse{
		reply("first"),
		reply("second"),
	}}
	session := chat.NewSession(completer, chat.Options{SystemPrompt: "You are terse"})

	_, err := session.Send(context.Background(), "Hi")
	require.NoError(t, err)
	_, err = session.Send(context.Background(), "And again")
	require.NoError(t, err)

	require.Len(t, completer.requests, 2)

	first := completer.requests[0].Messages
	require.Len(t, first, 2)
	assert.Equal(t, openai.RoleSystem, first[0].Role)
	assert.Equal(t, "You are terse", first[0].Content)
	assert.Equal(t, openai.RoleUser, first[1].Role)

	second := completer.requests[1].Messages
	require.Len(t, second, 4)
	assert.Equal(t, openai.RoleSystem, second[0].Role)
	assert.Equal(t, openai.RoleUser, second[1].Role)
	assert.Equal(t, openai.RoleAssistant, second[2].Role)
	assert.Equal(t, "first", second[2].Content)
	assert.Equal(t, openai.RoleUser, second[3].Role)
	assert.Equal(t, "And again", second[3].Content)
}

func TestSession_Send_EmptyChoices(t *testing.T) {
	response := reply("unused")
	response.Choices = nil
	completer := &scriptedCompleter{responses: []*openai.ChatCompletionResponse{response}}
	session := chat.NewSession(completer, chat.Options{})

	got, err := session.Send(context.Background(), "Hello!")

	require.NoError(t, err)
	assert.Equal(t, "", got)
	assert.Len(t, session.History(), 1, "only the user message remains in history")
}

func TestSession_Send_RollsBackUserMessageOnError(t *testing.T) {
	completer := &scriptedCompleter{err: errors.New("boom")}
	session := chat.NewSession(completer, chat.Options{})

	_, err := session.Send(context.Background(), "Hello!")
	require.Error(t, err)
	assert.Empty(t, session.History(), "failed turns must not pollute history")
}

func TestSession_Send_RecordsExchange(t *testing.T) {
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	completer := &scriptedCompleter{responses: []*openai.ChatCompletionResponse{reply("Hi there")}}
	session := chat.NewSession(completer, chat.Options{Model: "gpt-4", Store: s})

	_, err = session.Send(context.Background(), "Hello!")
	require.NoError(t, err)

	exchanges, err := s.ListExchanges(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, exchanges, 1)
	assert.Equal(t, "Hello!", exchanges[0].Prompt)
	assert.Equal(t, "Hi there", exchanges[0].Reply)
	assert.Equal(t, "gpt-4", exchanges[0].Model)
	assert.Equal(t, 21, exchanges[0].TotalTokens)
}

func TestSession_Reset(t *testing.T) {
	completer := &scriptedCompleter{responses: []*openai.ChatCompletionResponse{reply("Hi")}}
	session := chat.NewSession(completer, chat.Options{})

	_, err := session.Send(context.Background(), "Hello!")
	require.NoError(t, err)
	require.Len(t, session.History(), 2)

	session.Reset()
	assert.Empty(t, session.History())
}

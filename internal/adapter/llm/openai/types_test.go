package openai_test

import (
	"encoding/json"
	"testing"

	"github.com/bkyoung/openai-client/internal/adapter/llm/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCompletionRequest_WireNames(t *testing.T) {
	req := openai.ChatCompletionRequest{
		Model: "gpt-4",
		Messages: []openai.Message{
			{Role: openai.RoleUser, Content: "Hello!", Name: "alice"},
		},
		Temperature:      openai.Float64(0.7),
		TopP:             openai.Float64(0.9),
		N:                openai.Int(2),
		Stream:           true,
		Stop:             []string{"\n", "END"},
		MaxTokens:        256,
		PresencePenalty:  openai.Float64(0.5),
		FrequencyPenalty: openai.Float64(-0.5),
		User:             "user-42",
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))

	assert.Equal(t, "gpt-4", wire["model"])
	assert.Equal(t, 0.7, wire["temperature"])
	assert.Equal(t, 0.9, wire["top_p"])
	assert.Equal(t, float64(2), wire["n"])
	assert.Equal(t, true, wire["stream"])
	assert.Equal(t, []any{"\n", "END"}, wire["stop"])
	assert.Equal(t, float64(256), wire["max_tokens"])
	assert.Equal(t, 0.5, wire["presence_penalty"])
	assert.Equal(t, -0.5, wire["frequency_penalty"])
	assert.Equal(t, "user-42", wire["user"])

	messages, ok := wire["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	message := messages[0].(map[string]any)
	assert.Equal(t, "user", message["role"])
	assert.Equal(t, "Hello!", message["content"])
	assert.Equal(t, "alice", message["name"])
}

func TestChatCompletionRequest_OmitsUnsetOptionalFields(t *testing.T) {
	req := openai.ChatCompletionRequest{
		Model:    "gpt-4",
		Messages: []openai.Message{{Role: openai.RoleUser, Content: "Hello!"}},
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))

	assert.Len(t, wire, 2, "only model and messages may appear on the wire")
	assert.Contains(t, wire, "model")
	assert.Contains(t, wire, "messages")

	message := wire["messages"].([]any)[0].(map[string]any)
	assert.NotContains(t, message, "name")
}

func TestChatCompletionRequest_ZeroValuedOptionalsAreTransmitted(t *testing.T) {
	// Temperature 0 is a meaningful setting and must survive encoding.
	req := openai.ChatCompletionRequest{
		Model:       "gpt-4",
		Messages:    []openai.Message{{Role: openai.RoleUser, Content: "Hello!"}},
		Temperature: openai.Float64(0),
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))

	require.Contains(t, wire, "temperature")
	assert.Equal(t, float64(0), wire["temperature"])
}

func TestChatCompletionResponse_Decode(t *testing.T) {
	body := `{
		"id": "chatcmpl-abc",
		"object": "chat.completion",
		"created": 1700000123,
		"model": "gpt-4",
		"choices": [
			{
				"index": 0,
				"message": {"role": "assistant", "content": "Hi there"},
				"finish_reason": "stop"
			},
			{
				"index": 1,
				"message": {"role": "assistant", "content": "Hello!"},
				"finish_reason": "length"
			}
		],
		"usage": {"prompt_tokens": 9, "completion_tokens": 12, "total_tokens": 21}
	}`

	var resp openai.ChatCompletionResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	assert.Equal(t, "chatcmpl-abc", resp.ID)
	assert.Equal(t, "chat.completion", resp.Object)
	assert.Equal(t, int64(1700000123), resp.Created)
	assert.Equal(t, "gpt-4", resp.Model)
	require.Len(t, resp.Choices, 2)
	assert.Equal(t, 0, resp.Choices[0].Index)
	assert.Equal(t, "Hi there", resp.Choices[0].Message.Content)
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
	assert.Equal(t, 1, resp.Choices[1].Index)
	assert.Equal(t, "length", resp.Choices[1].FinishReason)
	assert.Equal(t, 9, resp.Usage.PromptTokens)
	assert.Equal(t, 12, resp.Usage.CompletionTokens)
	assert.Equal(t, 21, resp.Usage.TotalTokens)
}

func TestChoice_NullFinishReason(t *testing.T) {
	body := `{"index": 0, "message": {"role": "assistant", "content": "hi"}, "finish_reason": null}`

	var choice openai.Choice
	require.NoError(t, json.Unmarshal([]byte(body), &choice))

	assert.Equal(t, "", choice.FinishReason, "a null finish_reason decodes leniently to the empty string")
}

func TestErrorResponse_Decode(t *testing.T) {
	body := `{"error": {"message": "Rate limit exceeded", "type": "rate_limit_error", "param": null, "code": "rate_limited"}}`

	var envelope openai.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &envelope))

	assert.Equal(t, "Rate limit exceeded", envelope.Error.Message)
	assert.Equal(t, "rate_limit_error", envelope.Error.Type)
	assert.Equal(t, "rate_limited", envelope.Error.Code)
}

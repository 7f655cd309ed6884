package http_test

import (
	"errors"
	"fmt"
	"testing"

	llmhttp "github.com/bkyoung/openai-client/internal/adapter/llm/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		errType llmhttp.ErrorType
		want    string
	}{
		{llmhttp.ErrTypeInvalidEndpoint, "invalid endpoint"},
		{llmhttp.ErrTypeAPI, "api error"},
		{llmhttp.ErrTypeDecoding, "decoding error"},
		{llmhttp.ErrTypeTimeout, "timeout"},
		{llmhttp.ErrTypeUnknown, "unknown error"},
		{llmhttp.ErrorType(99), "unknown error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.errType.String())
	}
}

func TestError_Error(t *testing.T) {
	err := llmhttp.NewAPIError(429, "Rate limit exceeded")
	assert.Equal(t, "api error: Rate limit exceeded (status: 429)", err.Error())

	err = llmhttp.NewTimeoutError("request timed out")
	assert.Equal(t, "timeout: request timed out", err.Error())
}

func TestError_Is(t *testing.T) {
	err := llmhttp.NewAPIError(500, "boom")

	assert.True(t, errors.Is(err, llmhttp.NewAPIError(404, "other message")),
		"errors with the same type match regardless of payload")
	assert.False(t, errors.Is(err, llmhttp.NewTimeoutError("timed out")))
	assert.False(t, errors.Is(err, errors.New("api error")))
}

func TestError_As(t *testing.T) {
	wrapped := fmt.Errorf("call failed: %w", llmhttp.NewAPIError(429, "Rate limit exceeded"))

	var clientErr *llmhttp.Error
	require.ErrorAs(t, wrapped, &clientErr)
	assert.Equal(t, llmhttp.ErrTypeAPI, clientErr.Type)
	assert.Equal(t, 429, clientErr.StatusCode)
	assert.Equal(t, "Rate limit exceeded", clientErr.Message)
}

func TestError_UnwrapPreservesCause(t *testing.T) {
	cause := errors.New("unexpected EOF")

	err := llmhttp.NewUnknownError(cause)
	assert.ErrorIs(t, err, cause)

	decodeErr := llmhttp.NewDecodingError("cannot parse response body", cause)
	assert.ErrorIs(t, decodeErr, cause)
}

func TestNewInvalidEndpointError(t *testing.T) {
	err := llmhttp.NewInvalidEndpointError(`cannot compose URL from "::/chat/completions"`)

	assert.Equal(t, llmhttp.ErrTypeInvalidEndpoint, err.Type)
	assert.Zero(t, err.StatusCode)
	assert.Nil(t, err.Err)
}

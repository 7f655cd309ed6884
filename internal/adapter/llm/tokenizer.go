// Package llm provides shared helpers for the LLM client adapters.
package llm

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	defaultEncoder *tiktoken.Tiktoken
	encoderOnce    sync.Once
	encoderErr     error
)

// getEncoder returns the shared tiktoken encoder, initializing it lazily.
// cl100k_base is the GPT-4 encoding and the right default for the
// chat completions endpoint.
func getEncoder() (*tiktoken.Tiktoken, error) {
	encoderOnce.Do(func() {
		defaultEncoder, encoderErr = tiktoken.GetEncoding("cl100k_base")
	})
	return defaultEncoder, encoderErr
}

// EstimateTokens returns an estimated token count for the given text
// using the cl100k_base encoding. It is an estimate for local
// budgeting and logging only; the usage block of a response is the
// billing authority.
func EstimateTokens(text string) int {
	enc, err := getEncoder()
	if err != nil {
		// Character-based approximation when the encoding is unavailable.
		return len(text) / 4
	}
	tokens := enc.Encode(text, nil, nil)
	return len(tokens)
}

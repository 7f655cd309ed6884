// Package openai is a typed client binding for the OpenAI
// Chat Completion API.
package openai

// Message roles defined by the API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatCompletionRequest represents the request to the Chat Completion API.
// Optional sampling parameters are pointers so that a value set to zero
// is still transmitted while an unset one is omitted from the wire.
// No range validation happens here; the server is the authority.
type ChatCompletionRequest struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	Temperature      *float64  `json:"temperature,omitempty"` // 0..2
	TopP             *float64  `json:"top_p,omitempty"`       // 0..1
	N                *int      `json:"n,omitempty"`           // >= 1
	Stream           bool      `json:"stream,omitempty"`
	Stop             []string  `json:"stop,omitempty"` // up to 4 sequences
	MaxTokens        int       `json:"max_tokens,omitempty"`
	PresencePenalty  *float64  `json:"presence_penalty,omitempty"`  // -2..2
	FrequencyPenalty *float64  `json:"frequency_penalty,omitempty"` // -2..2
	User             string    `json:"user,omitempty"`
}

// Message represents a chat message in the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

// ChatCompletionResponse represents the response from the Chat Completion API.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice represents a single completion choice.
// FinishReason is an open string set on the wire ("stop", "length",
// ...); a null or absent value decodes to the empty string.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage represents token usage statistics. The server guarantees
// TotalTokens = PromptTokens + CompletionTokens; it is not re-checked.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ErrorResponse represents an error response envelope from the API.
// It is decoded only to extract a message; callers never see it.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Param   string `json:"param,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Float64 returns a pointer to v, for optional request fields.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v, for optional request fields.
func Int(v int) *int { return &v }

package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	llmhttp "github.com/bkyoung/openai-client/internal/adapter/llm/http"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultTimeout = 60 * time.Second
	defaultModel   = "gpt-4"

	chatCompletionsEndpoint = "chat/completions"

	// fallbackErrorMessage is reported when a non-2xx body does not
	// decode as the error envelope. The original status is still kept.
	fallbackErrorMessage = "Unknown error"
)

// Doer executes a single HTTP exchange. Production wiring binds it to
// *http.Client; tests bind it to a scripted responder.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is an HTTP client for the OpenAI Chat Completion API.
// Configuration is write-once before first use; afterwards the client
// holds no per-call state and is safe for concurrent use.
type Client struct {
	apiKey    string
	baseURL   string
	timeout   time.Duration
	transport Doer
	logger    llmhttp.Logger
	metrics   llmhttp.Metrics
}

// NewClient creates a new client authenticated with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:    apiKey,
		baseURL:   defaultBaseURL,
		timeout:   defaultTimeout,
		transport: &http.Client{Timeout: defaultTimeout},
	}
}

// SetBaseURL sets a custom base URL (for testing or self-hosted gateways).
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// SetTimeout sets the per-call HTTP timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
	if hc, ok := c.transport.(*http.Client); ok {
		hc.Timeout = timeout
	}
}

// SetTransport replaces the HTTP transport. Tests use this to install
// a scripted responder without network access.
func (c *Client) SetTransport(transport Doer) {
	c.transport = transport
}

// SetLogger installs a structured logger. A nil logger disables logging.
func (c *Client) SetLogger(logger llmhttp.Logger) {
	c.logger = logger
}

// SetMetrics installs a metrics recorder. A nil recorder disables metrics.
func (c *Client) SetMetrics(metrics llmhttp.Metrics) {
	c.metrics = metrics
}

// newRequest builds an authenticated POST request for an endpoint
// relative to the base URL. No I/O happens here; an uncomposable URL
// fails with the invalid-endpoint kind before anything is sent.
func (c *Client) newRequest(ctx context.Context, endpoint string, body any) (*http.Request, error) {
	raw := c.baseURL + "/" + endpoint
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, llmhttp.NewInvalidEndpointError(fmt.Sprintf("cannot compose URL from %q", raw))
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, llmhttp.NewUnknownError(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(data))
	if err != nil {
		return nil, llmhttp.NewInvalidEndpointError(err.Error())
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

// do sends the request and decodes the body into out. This is the sole
// suspension point of a call: it returns when the transport completes
// or its timeout elapses. Every failure is one of the closed error
// kinds; no retry happens at this layer.
func (c *Client) do(req *http.Request, out any) (int, error) {
	resp, err := c.transport.Do(req)
	if err != nil {
		if isTimeout(err) {
			return 0, llmhttp.NewTimeoutError(err.Error())
		}
		return 0, llmhttp.NewUnknownError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return resp.StatusCode, llmhttp.NewTimeoutError(err.Error())
		}
		return resp.StatusCode, llmhttp.NewUnknownError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, apiErrorFromBody(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, llmhttp.NewDecodingError("cannot parse response body", err)
	}

	return resp.StatusCode, nil
}

// apiErrorFromBody extracts the server-reported message from an error
// envelope. The envelope failing to decode does not mask the status;
// the fallback message is used instead.
func apiErrorFromBody(statusCode int, body []byte) *llmhttp.Error {
	message := fallbackErrorMessage

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	return llmhttp.NewAPIError(statusCode, message)
}

// isTimeout reports whether a transport error is a timeout. The
// *http.Client deadline surfaces both as a net.Error with Timeout()
// true and as a wrapped context.DeadlineExceeded.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// CreateChatCompletion sends a chat completion request and returns the
// decoded response. No retries, no caching, no request mutation.
func (c *Client) CreateChatCompletion(ctx context.Context, request ChatCompletionRequest) (*ChatCompletionResponse, error) {
	req, err := c.newRequest(ctx, chatCompletionsEndpoint, request)
	if err != nil {
		c.recordError(request.Model, err)
		return nil, err
	}

	if c.logger != nil {
		c.logger.LogRequest(ctx, llmhttp.RequestLog{
			Model:     request.Model,
			Endpoint:  chatCompletionsEndpoint,
			Timestamp: time.Now(),
			Messages:  len(request.Messages),
			APIKey:    c.apiKey,
		})
	}
	if c.metrics != nil {
		c.metrics.RecordRequest(request.Model)
	}

	start := time.Now()
	var response ChatCompletionResponse
	status, err := c.do(req, &response)
	duration := time.Since(start)

	if c.metrics != nil {
		c.metrics.RecordDuration(request.Model, duration)
	}

	if err != nil {
		c.recordError(request.Model, err)
		if c.logger != nil {
			errLog := llmhttp.ErrorLog{
				Model:     request.Model,
				Timestamp: time.Now(),
				Duration:  duration,
				Error:     err,
			}
			var clientErr *llmhttp.Error
			if errors.As(err, &clientErr) {
				errLog.ErrorType = clientErr.Type
				errLog.StatusCode = clientErr.StatusCode
			}
			c.logger.LogError(ctx, errLog)
		}
		return nil, err
	}

	if c.metrics != nil {
		c.metrics.RecordTokens(request.Model, response.Usage.PromptTokens, response.Usage.CompletionTokens)
	}
	if c.logger != nil {
		finishReason := ""
		if len(response.Choices) > 0 {
			finishReason = response.Choices[0].FinishReason
		}
		c.logger.LogResponse(ctx, llmhttp.ResponseLog{
			Model:        response.Model,
			Timestamp:    time.Now(),
			Duration:     duration,
			TokensIn:     response.Usage.PromptTokens,
			TokensOut:    response.Usage.CompletionTokens,
			StatusCode:   status,
			FinishReason: finishReason,
		})
	}

	return &response, nil
}

func (c *Client) recordError(model string, err error) {
	if c.metrics == nil {
		return
	}
	errType := llmhttp.ErrTypeUnknown
	var clientErr *llmhttp.Error
	if errors.As(err, &clientErr) {
		errType = clientErr.Type
	}
	c.metrics.RecordError(model, errType)
}

// SendOptions contains optional settings for SendMessage.
type SendOptions struct {
	// Model overrides the default model ("gpt-4").
	Model string
	// SystemPrompt, when non-empty, is prepended as a system message.
	SystemPrompt string
}

// SendMessage is a convenience wrapper around CreateChatCompletion for
// a single user message. It returns the first choice's content, or the
// empty string when the response carries no choices. That leniency is
// deliberate; callers needing strict guarantees should use
// CreateChatCompletion directly.
func (c *Client) SendMessage(ctx context.Context, content string, opts SendOptions) (string, error) {
	model := opts.Model
	if model == "" {
		model = defaultModel
	}

	messages := make([]Message, 0, 2)
	if opts.SystemPrompt != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: opts.SystemPrompt})
	}
	messages = append(messages, Message{Role: RoleUser, Content: content})

	response, err := c.CreateChatCompletion(ctx, ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", nil
	}
	return response.Choices[0].Message.Content, nil
}

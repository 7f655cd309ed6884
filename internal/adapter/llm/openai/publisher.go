package openai

import (
	"context"
	"sync"
)

// CompletionResult is the single settle event of a CompletionPublisher:
// exactly one of Response or Err is set.
type CompletionResult struct {
	Response *ChatCompletionResponse
	Err      error
}

// CompletionPublisher adapts CreateChatCompletion into a push-based
// single-value stream. It emits exactly one result and then closes, or
// closes without emitting when cancelled first.
//
// Cancellation is drop-style: the in-flight exchange always runs to
// completion on the transport side (there is no finer-grained
// checkpoint to unwind), only delivery of its result is suppressed.
type CompletionPublisher struct {
	results chan CompletionResult
	cancel  chan struct{}
	once    sync.Once
}

// CreateChatCompletionPublisher starts the request immediately and
// returns a publisher for its single result. The underlying call is
// deliberately detached from any caller context so that dropping the
// subscription cannot abort it mid-flight.
func (c *Client) CreateChatCompletionPublisher(request ChatCompletionRequest) *CompletionPublisher {
	p := &CompletionPublisher{
		results: make(chan CompletionResult, 1),
		cancel:  make(chan struct{}),
	}

	go func() {
		defer close(p.results)

		response, err := c.CreateChatCompletion(context.Background(), request)

		select {
		case <-p.cancel:
			// Subscription dropped before the call settled.
		default:
			p.results <- CompletionResult{Response: response, Err: err}
		}
	}()

	return p
}

// Results returns the stream. It yields at most one result before
// closing; receiving from a cancelled publisher yields the closed
// channel's zero value.
func (p *CompletionPublisher) Results() <-chan CompletionResult {
	return p.results
}

// Cancel suppresses delivery of the result. It does not interrupt the
// underlying exchange. Calling Cancel more than once, or after the
// result was delivered, is a no-op.
func (p *CompletionPublisher) Cancel() {
	p.once.Do(func() {
		close(p.cancel)
	})
}

// Package store defines the persistence contract for chat exchange
// history. The core client never touches it; only the CLI records
// exchanges.
package store

import (
	"context"
	"time"
)

// Exchange is one completed request/response pair.
type Exchange struct {
	ID               int64
	CreatedAt        time.Time
	Model            string
	Prompt           string
	Reply            string
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Totals aggregates usage across stored exchanges.
type Totals struct {
	Exchanges        int
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Store persists chat exchanges.
type Store interface {
	// SaveExchange stores an exchange and returns its assigned ID.
	SaveExchange(ctx context.Context, exchange Exchange) (int64, error)

	// ListExchanges returns the most recent exchanges, newest first.
	ListExchanges(ctx context.Context, limit int) ([]Exchange, error)

	// Totals returns aggregate token usage across all exchanges.
	Totals(ctx context.Context) (Totals, error)

	// Close releases underlying resources.
	Close() error
}

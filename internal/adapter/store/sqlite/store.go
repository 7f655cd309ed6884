// Package sqlite implements the exchange history store on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bkyoung/openai-client/internal/store"
	_ "github.com/mattn/go-sqlite3"
)

// Store implements the store.Store interface using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store at the given path.
// Use ":memory:" for an in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

// createSchema creates tables and indexes if they don't exist.
func (s *Store) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exchanges (
		exchange_id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at INTEGER NOT NULL,
		model TEXT NOT NULL,
		prompt TEXT NOT NULL,
		reply TEXT NOT NULL,
		finish_reason TEXT,
		prompt_tokens INTEGER NOT NULL DEFAULT 0,
		completion_tokens INTEGER NOT NULL DEFAULT 0,
		total_tokens INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_exchanges_created ON exchanges(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_exchanges_model ON exchanges(model);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveExchange stores an exchange and returns its assigned ID.
func (s *Store) SaveExchange(ctx context.Context, exchange store.Exchange) (int64, error) {
	query := `
		INSERT INTO exchanges (created_at, model, prompt, reply, finish_reason, prompt_tokens, completion_tokens, total_tokens)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		exchange.CreatedAt.Unix(),
		exchange.Model,
		exchange.Prompt,
		exchange.Reply,
		exchange.FinishReason,
		exchange.PromptTokens,
		exchange.CompletionTokens,
		exchange.TotalTokens,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save exchange: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get exchange id: %w", err)
	}

	return id, nil
}

// ListExchanges returns the most recent exchanges, newest first.
func (s *Store) ListExchanges(ctx context.Context, limit int) ([]store.Exchange, error) {
	query := `
		SELECT exchange_id, created_at, model, prompt, reply, finish_reason, prompt_tokens, completion_tokens, total_tokens
		FROM exchanges
		ORDER BY created_at DESC, exchange_id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []store.Exchange
	for rows.Next() {
		var e store.Exchange
		var createdAt int64
		var finishReason sql.NullString

		if err := rows.Scan(
			&e.ID,
			&createdAt,
			&e.Model,
			&e.Prompt,
			&e.Reply,
			&finishReason,
			&e.PromptTokens,
			&e.CompletionTokens,
			&e.TotalTokens,
		); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}

		e.CreatedAt = unixTime(createdAt)
		e.FinishReason = finishReason.String
		exchanges = append(exchanges, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exchanges: %w", err)
	}

	return exchanges, nil
}

// Totals returns aggregate token usage across all exchanges.
func (s *Store) Totals(ctx context.Context) (store.Totals, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(prompt_tokens), 0),
		       COALESCE(SUM(completion_tokens), 0),
		       COALESCE(SUM(total_tokens), 0)
		FROM exchanges
	`

	var totals store.Totals
	err := s.db.QueryRowContext(ctx, query).Scan(
		&totals.Exchanges,
		&totals.PromptTokens,
		&totals.CompletionTokens,
		&totals.TotalTokens,
	)
	if err != nil {
		return store.Totals{}, fmt.Errorf("failed to aggregate totals: %w", err)
	}

	return totals, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

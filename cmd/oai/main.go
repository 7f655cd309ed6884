package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/bkyoung/openai-client/internal/adapter/cli"
	llmhttp "github.com/bkyoung/openai-client/internal/adapter/llm/http"
	"github.com/bkyoung/openai-client/internal/adapter/llm/openai"
	"github.com/bkyoung/openai-client/internal/adapter/observability"
	"github.com/bkyoung/openai-client/internal/adapter/store/sqlite"
	"github.com/bkyoung/openai-client/internal/config"
	"github.com/bkyoung/openai-client/internal/store"
	"github.com/bkyoung/openai-client/internal/usecase/chat"
	"github.com/bkyoung/openai-client/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "oai",
		EnvPrefix:   "OAI",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.Logging)
	defer func() { _ = logger.Sync() }()

	client, err := buildClient(cfg, logger)
	if err != nil {
		return err
	}

	var exchangeStore store.Store
	if cfg.Store.Enabled {
		if dir := filepath.Dir(cfg.Store.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create store directory: %w", err)
			}
		}
		sqliteStore, err := sqlite.NewStore(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer sqliteStore.Close()
		exchangeStore = sqliteStore
	}

	newSession := func(model, systemPrompt string) cli.Sender {
		if model == "" {
			model = cfg.API.Model
		}
		if systemPrompt == "" {
			systemPrompt = cfg.API.SystemPrompt
		}
		return chat.NewSession(client, chat.Options{
			Model:        model,
			SystemPrompt: systemPrompt,
			Store:        exchangeStore,
			Logger:       logger,
		})
	}

	root := cli.NewRootCommand(cli.Options{
		Version:    version.Version(),
		NewSession: newSession,
		Store:      exchangeStore,
	})

	return root.ExecuteContext(ctx)
}

// buildClient assembles the openai client from config.
func buildClient(cfg config.Config, logger *zap.Logger) (*openai.Client, error) {
	client := openai.NewClient(cfg.API.Key)

	if cfg.API.BaseURL != "" {
		client.SetBaseURL(cfg.API.BaseURL)
	}

	timeout, err := cfg.API.ParseTimeout()
	if err != nil {
		return nil, err
	}
	client.SetTimeout(timeout)

	if cfg.Logging.Enabled {
		client.SetLogger(llmhttp.NewZapLogger(logger, cfg.Logging.RedactAPIKeys))
	}
	client.SetMetrics(llmhttp.NewDefaultMetrics())

	return client, nil
}

// defaultConfigPaths lists where a config file is searched, in order.
func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "oai"))
	}
	return paths
}

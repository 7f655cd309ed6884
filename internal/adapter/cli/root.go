// Package cli wires the cobra command tree for the oai binary.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bkyoung/openai-client/internal/store"
)

// Sender executes one conversation turn.
type Sender interface {
	Send(ctx context.Context, content string) (string, error)
}

// SessionFactory builds a Sender for the given model and system prompt.
// Empty arguments fall back to the configured defaults.
type SessionFactory func(model, systemPrompt string) Sender

// Options carries the collaborators the command tree needs.
type Options struct {
	Version    string
	NewSession SessionFactory
	// Store is nil when history persistence is disabled.
	Store store.Store
}

// NewRootCommand builds the oai command tree.
func NewRootCommand(opts Options) *cobra.Command {
	root := &cobra.Command{
		Use:           "oai",
		Short:         "Chat with the OpenAI chat completions API",
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(sendCommand(opts))
	root.AddCommand(historyCommand(opts))
	root.AddCommand(statsCommand(opts))

	return root
}

// sendCommand sends a single message and prints the reply. The message
// comes from the arguments, or from stdin when none are given.
func sendCommand(opts Options) *cobra.Command {
	var model string
	var systemPrompt string

	cmd := &cobra.Command{
		Use:   "send [message]",
		Short: "Send a message and print the assistant's reply",
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args, " ")
			if content == "" {
				var err error
				content, err = readMessage(cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
			}
			if strings.TrimSpace(content) == "" {
				return fmt.Errorf("nothing to send")
			}

			session := opts.NewSession(model, systemPrompt)
			reply, err := session.Send(cmd.Context(), content)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Model to use (default from config)")
	cmd.Flags().StringVar(&systemPrompt, "system", "", "System prompt to prepend (default from config)")

	return cmd
}

// historyCommand lists recent exchanges from the store.
func historyCommand(opts Options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent exchanges",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Store == nil {
				return fmt.Errorf("history is unavailable: enable the store in the config")
			}

			exchanges, err := opts.Store.ListExchanges(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(exchanges) == 0 {
				_, _ = fmt.Fprintln(out, "no exchanges recorded")
				return nil
			}

			for _, e := range exchanges {
				_, _ = fmt.Fprintf(out, "[%s] %s (%d tokens)\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Model, e.TotalTokens)
				_, _ = fmt.Fprintf(out, "  > %s\n", firstLine(e.Prompt))
				_, _ = fmt.Fprintf(out, "  < %s\n", firstLine(e.Reply))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of exchanges to list")

	return cmd
}

// statsCommand prints aggregate token usage from the store.
func statsCommand(opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate token usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Store == nil {
				return fmt.Errorf("stats are unavailable: enable the store in the config")
			}

			totals, err := opts.Store.Totals(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "exchanges:         %d\n", totals.Exchanges)
			_, _ = fmt.Fprintf(out, "prompt tokens:     %d\n", totals.PromptTokens)
			_, _ = fmt.Fprintf(out, "completion tokens: %d\n", totals.CompletionTokens)
			_, _ = fmt.Fprintf(out, "total tokens:      %d\n", totals.TotalTokens)
			return nil
		},
	}
}

// readMessage reads the message from the input stream. When the input
// is an interactive terminal a prompt is shown first.
func readMessage(in io.Reader, out io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(out, "> ")
		reader := bufio.NewReader(in)
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

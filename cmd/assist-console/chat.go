// ABOUTME: chat command: one-shot message or an interactive REPL with the assistant
// ABOUTME: Transcripts are recorded to SQLite and can be resumed by conversation id

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/assist-console/internal/chat"
	"github.com/2389/assist-console/internal/store"
)

type chatOptions struct {
	conversation string
	forget       string
	noReply      bool
	noHistory    bool
}

func newChatCmd() *cobra.Command {
	var opts chatOptions
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the assistant",
		Long: `Chat with the assistant.

With a message argument, sends it and prints the reply. Without one, starts an
interactive session (Ctrl+D to exit). Inside the session, "/auto on|off"
toggles automatic replies and "/id" prints the conversation id. --forget
deletes a recorded conversation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				if opts.forget != "" {
					db, err := e.database()
					if err != nil {
						return err
					}
					return forgetConversation(cmd.Context(), cmd.OutOrStdout(), db, opts.forget)
				}

				ex, err := e.newExchange(cmd.Context(), opts)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(args) > 0 {
					return sendAndPrint(cmd.Context(), out, ex, strings.Join(args, " "))
				}
				return chatREPL(cmd.Context(), cmd.InOrStdin(), out, ex)
			})
		},
	}
	cmd.Flags().StringVar(&opts.conversation, "conversation", "", "resume a recorded conversation by id")
	cmd.Flags().StringVar(&opts.forget, "forget", "", "delete a recorded conversation by id and exit")
	cmd.Flags().BoolVar(&opts.noReply, "no-reply", false, "start with automatic replies off")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "do not record the transcript")
	return cmd
}

// newExchange builds an exchange against the public reply endpoint, seeded
// with recorded history when resuming.
func (e *env) newExchange(ctx context.Context, opts chatOptions) (*chat.Exchange, error) {
	exOpts := []chat.Option{
		chat.WithUserID(e.cfg.Chat.UserID),
		chat.WithAutoReply(e.cfg.Chat.AutoReply && !opts.noReply),
	}

	if !opts.noHistory {
		db, err := e.database()
		if err != nil {
			return nil, err
		}
		exOpts = append(exOpts, chat.WithRecorder(db))

		if opts.conversation != "" {
			records, err := db.ListChatMessages(ctx, opts.conversation, e.cfg.Chat.HistoryLimit)
			if err != nil {
				return nil, fmt.Errorf("loading conversation: %w", err)
			}
			exOpts = append(exOpts, chat.WithHistory(chat.FromRecords(records)))
		}
	}
	exOpts = append(exOpts, chat.WithConversationID(opts.conversation))

	return chat.NewExchange(e.chatClient, exOpts...), nil
}

// conversationDeleter removes recorded conversations.
type conversationDeleter interface {
	DeleteConversation(ctx context.Context, conversationID string) error
}

// forgetConversation deletes the recorded history of one conversation.
func forgetConversation(ctx context.Context, w io.Writer, db conversationDeleter, id string) error {
	err := db.DeleteConversation(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no recorded conversation %s", id)
	}
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	color.New(color.FgGreen).Fprintf(w, "✓ Forgot conversation %s\n", id)
	return nil
}

// sendAndPrint sends one message and prints whatever the bot added.
func sendAndPrint(ctx context.Context, w io.Writer, ex *chat.Exchange, input string) error {
	before := len(ex.Messages())
	if err := ex.Send(ctx, input); err != nil {
		return err
	}
	msgs := ex.Messages()
	if before > len(msgs) {
		before = len(msgs)
	}
	for _, m := range msgs[before:] {
		if !m.IsUser() {
			printMessage(w, m)
		}
	}
	return nil
}

func printMessage(w io.Writer, m chat.Message) {
	if m.IsUser() {
		color.New(color.FgGreen).Fprint(w, "you> ")
	} else {
		color.New(color.FgCyan).Fprint(w, "bot> ")
	}
	fmt.Fprintln(w, m.Content)
}

func chatREPL(ctx context.Context, in io.Reader, w io.Writer, ex *chat.Exchange) error {
	green := color.New(color.FgGreen)
	gray := color.New(color.FgHiBlack)

	color.New(color.FgCyan).Fprintf(w, "Chat as %s (Ctrl+D to exit)\n", ex.UserID())
	gray.Fprintf(w, "conversation: %s\n\n", ex.ID())
	for _, m := range ex.Messages() {
		printMessage(w, m)
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), 1024*1024) // 1MB max input
	for {
		green.Fprint(w, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/id":
			fmt.Fprintln(w, ex.ID())
			continue
		case strings.HasPrefix(line, "/auto"):
			switch strings.TrimSpace(strings.TrimPrefix(line, "/auto")) {
			case "on":
				ex.SetAutoReply(true)
			case "off":
				ex.SetAutoReply(false)
			}
			gray.Fprintf(w, "auto-reply: %t\n", ex.AutoReply())
			continue
		}

		if err := sendAndPrint(ctx, w, ex, line); err != nil {
			color.New(color.FgRed).Fprintf(w, "Error: %v\n", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// ABOUTME: Dashboard commands: logs, fallbacks, session, source and train
// ABOUTME: Output mirrors the web views; a 401 points the operator at login

package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/assist-console/internal/api"
	"github.com/2389/assist-console/internal/dashboard"
)

// explain adds a hint to failures the operator can act on.
func explain(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case api.StatusCode(err) == http.StatusUnauthorized:
		return fmt.Errorf("%w (the token was rejected; run `assist-console login` again)", err)
	case api.IsNetwork(err):
		return fmt.Errorf("%w (is the backend running?)", err)
	}
	return err
}

func newLogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logs <user-id>",
		Short: "Show the log records kept for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLoggedInEnv(func(e *env) error {
				logs, err := e.views().Logs(cmd.Context(), args[0])
				if err != nil {
					return explain(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), dashboard.Pretty(logs))
				return nil
			})
		},
	}
}

func newSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session <user-id>",
		Short: "Show the session context kept for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLoggedInEnv(func(e *env) error {
				sc, err := e.views().Session(cmd.Context(), args[0])
				if err != nil {
					return explain(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), dashboard.Pretty(sc))
				return nil
			})
		},
	}
}

func newFallbacksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fallbacks",
		Short: "List recorded fallback events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLoggedInEnv(func(e *env) error {
				events, err := e.views().Fallbacks(cmd.Context())
				if err != nil {
					return explain(err)
				}
				printFallbacks(cmd.OutOrStdout(), events)
				return nil
			})
		},
	}
}

func printFallbacks(w io.Writer, events []api.FallbackEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No fallbacks recorded.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "USER\tTIME\tINTENT\tCONFIDENCE\tMESSAGE")
	for _, ev := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n", ev.UserID, ev.Timestamp, ev.Intent, ev.Confidence, ev.Message)
	}
	tw.Flush()
}

func newSourceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "source <user-id>",
		Short: "Show which engine last answered a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLoggedInEnv(func(e *env) error {
				tag, err := e.views().FallbackSource(cmd.Context(), args[0])
				if errors.Is(err, dashboard.ErrUserIDRequired) {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), tag.Terminal())
				return explain(err)
			})
		},
	}
}

func newTrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Trigger a model training run and wait for it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLoggedInEnv(func(e *env) error {
				color.New(color.FgHiBlack).Fprintln(cmd.ErrOrStderr(), "Training…")
				status, err := dashboard.NewTrainer(e.client).Run(cmd.Context())
				if err != nil {
					return err
				}
				if !status.Succeeded {
					return errors.New(status.Text)
				}
				color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), status.Text)
				return nil
			})
		},
	}
}

// ABOUTME: serve command running the web dashboard and chat widget
// ABOUTME: Shuts the HTTP server down gracefully on SIGINT or SIGTERM

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/2389/assist-console/internal/webadmin"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return withEnv(func(e *env) error {
				if addr != "" {
					e.cfg.Server.HTTPAddr = addr
				}
				return runServe(ctx, e)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.http_addr)")
	return cmd
}

func runServe(ctx context.Context, e *env) error {
	printBanner()
	printField("Config", e.configPath)
	printField("HTTP", "http://"+e.cfg.Server.HTTPAddr)
	printField("Backend", e.cfg.Backend.BaseURL)
	printField("Chat", e.cfg.Backend.ChatURL)
	printField("Database", e.cfg.Database.Path)
	fmt.Println()

	history, err := e.database()
	if err != nil {
		return err
	}

	admin := webadmin.New(e.client, e.chatClient, history, webadmin.Config{
		CheckExpiry:  e.cfg.Auth.CheckExpiry,
		ChatUserID:   e.cfg.Chat.UserID,
		AutoReply:    e.cfg.Chat.AutoReply,
		HistoryLimit: e.cfg.Chat.HistoryLimit,
	})
	defer admin.Close()

	srv := &http.Server{
		Addr:              e.cfg.Server.HTTPAddr,
		Handler:           admin.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info("starting assist-console", "http_addr", srv.Addr, "backend", e.cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	e.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// ABOUTME: login, logout and status commands managing the stored credential
// ABOUTME: Passwords are read without echo when stdin is a terminal

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/2389/assist-console/internal/auth"
	"github.com/2389/assist-console/internal/session"
)

func newLoginCmd() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the backend and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				in := bufio.NewReader(cmd.InOrStdin())
				if username == "" {
					var err error
					if username, err = prompt(in, "Username: "); err != nil {
						return err
					}
				}
				password, err := readPassword(in, "Password: ")
				if err != nil {
					return err
				}

				flow := auth.NewLoginFlow(e.client, e.store, e.gate)
				if _, err := flow.Login(cmd.Context(), username, password); err != nil {
					return err
				}
				color.Green("✓ Logged in as %s", username)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted when empty)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				if err := auth.NewLoginFlow(e.client, e.store, e.gate).Logout(); err != nil {
					return err
				}
				color.Green("✓ Logged out")
				return nil
			})
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show login state and configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				printStatus(cmd.OutOrStdout(), e)
				return nil
			})
		},
	}
}

func printStatus(w io.Writer, e *env) {
	state := color.RedString(e.gate.State().String())
	if e.gate.Authenticated() {
		state = color.GreenString(e.gate.State().String())
	}

	fmt.Fprintf(w, "Auth:      %s\n", state)
	if fs, ok := e.store.(*session.FileStore); ok {
		fmt.Fprintf(w, "Token:     %s\n", fs.Path())
	} else {
		fmt.Fprintf(w, "Token:     %s store\n", e.cfg.Session.Driver)
	}
	fmt.Fprintf(w, "Config:    %s\n", e.configPath)
	fmt.Fprintf(w, "Backend:   %s\n", e.cfg.Backend.BaseURL)
	fmt.Fprintf(w, "Chat:      %s\n", e.cfg.Backend.ChatURL)
	if e.cfg.Backend.Timeout > 0 {
		fmt.Fprintf(w, "Timeout:   %s\n", e.cfg.Backend.Timeout)
	} else {
		fmt.Fprintf(w, "Timeout:   none\n")
	}
}

func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads without echo from a terminal and falls back to a plain
// line read for piped input.
func readPassword(in *bufio.Reader, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(in, label)
	}
	fmt.Fprint(os.Stderr, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}

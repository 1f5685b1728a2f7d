// ABOUTME: Entry point for assist-console, the admin console for the assistant backend
// ABOUTME: Wires config, logging and the credential store behind a cobra command tree

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

const banner = `
                _     _                                  _
  __ _ ___ ___(_)___| |_       ___ ___  _ __  ___  ___ | | ___
 / _' / __/ __| / __| __|____ / __/ _ \| '_ \/ __|/ _ \| |/ _ \
| (_| \__ \__ \ \__ \ ||_____| (_| (_) | | | \__ \ (_) | |  __/
 \__,_|___/___/_|___/\__|     \___\___/|_| |_|___/\___/|_|\___|
`

var configPath string

var rootCmd = &cobra.Command{
	Use:   "assist-console",
	Short: "Admin console for the assistant backend",
	Long: `assist-console is an operator console for a conversational assistant backend.

It serves a web dashboard with a login gate, debug views, a training trigger
and a chat widget, and exposes the same operations on the command line.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/assist-console/config.yaml)")

	rootCmd.AddCommand(
		newServeCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newLogsCmd(),
		newFallbacksCmd(),
		newSessionCmd(),
		newSourceCmd(),
		newTrainCmd(),
		newChatCmd(),
	)
}

func main() {
	// A missing .env is fine; real environment variables win.
	_ = godotenv.Load()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

// printBanner writes the banner and version to stdout.
func printBanner() {
	color.New(color.FgCyan).Print(banner)
	color.New(color.FgHiBlack).Printf("    version: %s\n\n", version)
}

// printField writes one "▶ Label: value" startup line.
func printField(label, value string) {
	color.New(color.FgGreen).Print("    ▶ ")
	fmt.Printf("%-10s %s\n", label+":", value)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stackvity/tree-sweep/internal/cli"
	"github.com/stackvity/tree-sweep/internal/cli/config"
)

var (
	// These are set during build time using -ldflags
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "git-sync [directory]",
	Short: "Pulls every Git repository found under a directory.",
	Long: `git-sync finds every directory that contains a .git folder and runs a
pull in each of them in parallel.

Repositories are reported as updated, up to date, skipped because the remote
asks for credentials, or failed. Pulls never prompt for credentials.

Use --backend gogit to pull with the built-in Git implementation instead of
the git executable.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return cli.Execute(ctx, cli.GitSync, cmd, args)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	rootCmd.SetVersionTemplate(`{{.Name}} version {{.Version}}` + "\n")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	config.RegisterFlags(rootCmd.Flags(), cli.GitSync.Config)
}

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
	Use:   "check-zip [directory]",
	Short: "Recursively validates every ZIP archive under a directory.",
	Long: `check-zip walks a directory tree, opens every .zip archive it finds and
reads each entry so that checksum mismatches and truncation surface.

Archives are reported as valid, password protected or corrupted. After the
summary it offers to delete the corrupted ones.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return cli.Execute(ctx, cli.CheckZip, cmd, args)
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
	config.RegisterFlags(rootCmd.Flags(), cli.CheckZip.Config)
}

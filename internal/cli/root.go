// Package cli implements the socialforge command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"SocialForge/internal/app"
	"SocialForge/internal/config"
	"SocialForge/internal/logging"
	"SocialForge/internal/usecase"
)

var (
	cfg    config.Config
	logger *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "socialforge",
		Short: "Turn RSS digests into ready-to-post social content",
		Long: `socialforge reads a daily RSS digest, ranks its articles as post topics
with an AI provider and turns the best ones into Xiaohongshu-style notes
with rendered card images. Progress is tracked per day, so every step
can be re-run safely.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute loads configuration and runs the root command.
func Execute() error {
	_ = godotenv.Load()

	cfg = config.Load()
	logger = logging.New(cfg.Logging.Level)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// runUser prints expected workflow errors (nothing ranked yet, unknown
// topic number and so on) as plain messages instead of failing the
// process.
func runUser(err error) error {
	if err == nil {
		return nil
	}
	if usecase.IsUserError(err) {
		fmt.Println(err)
		return nil
	}
	return err
}

func newCommands() (*usecase.Commands, error) {
	return app.New(cfg, logger).Commands()
}

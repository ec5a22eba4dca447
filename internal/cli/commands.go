package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"SocialForge/internal/app"
	"SocialForge/internal/schedule"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch subscribed feeds and build today's digest",
	Args:  cobra.NoArgs,
	RunE:  runFetch,
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the day's digest into scored post topics",
	Args:  cobra.NoArgs,
	RunE:  runRank,
}

var genCmd = &cobra.Command{
	Use:   "gen <n>",
	Short: "Generate the note and card images for topic n",
	Args:  cobra.ExactArgs(1),
	RunE:  runGen,
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Rank the day and generate the top topics in one pass",
	Args:  cobra.NoArgs,
	RunE:  runBatch,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every tracked day and its topic status",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var previewCmd = &cobra.Command{
	Use:   "preview <n>",
	Short: "Print the generated note and images for topic n",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

var publishCmd = &cobra.Command{
	Use:   "publish <n>",
	Short: "Mark topic n published and print its publish payload",
	Args:  cobra.ExactArgs(1),
	RunE:  runPublish,
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the model names the configured provider exposes",
	Args:  cobra.NoArgs,
	RunE:  runModels,
}

func init() {
	fetchCmd.Flags().String("opml", "", "OPML subscription file (overrides config)")
	fetchCmd.Flags().Int("hours", 0, "fetch window in hours (overrides config)")

	rankCmd.Flags().String("digest", "", "digest file to rank (default: today's, then the newest)")

	batchCmd.Flags().String("digest", "", "digest file to rank (default: today's, then the newest)")
	batchCmd.Flags().Int("top", 5, "how many of the top topics to generate")

	publishCmd.Flags().String("slot", "",
		fmt.Sprintf("publish slot (%s); empty publishes immediately", strings.Join(schedule.Names(), ", ")))

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(modelsCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if opml, _ := cmd.Flags().GetString("opml"); opml != "" {
		cfg.Feeds.OPMLFile = opml
	}
	if hours, _ := cmd.Flags().GetInt("hours"); hours > 0 {
		cfg.Feeds.WindowHours = hours
	}

	cmds, err := app.New(cfg, logger).FetchCommands()
	if err != nil {
		return err
	}
	return runUser(cmds.Fetch(cmd.Context()))
}

func runRank(cmd *cobra.Command, args []string) error {
	digestPath, _ := cmd.Flags().GetString("digest")

	cmds, err := newCommands()
	if err != nil {
		return err
	}
	return runUser(cmds.Rank(cmd.Context(), digestPath))
}

func runGen(cmd *cobra.Command, args []string) error {
	n, err := topicNumber(args[0])
	if err != nil {
		return err
	}

	cmds, err := newCommands()
	if err != nil {
		return err
	}
	return runUser(cmds.Gen(cmd.Context(), n))
}

func runBatch(cmd *cobra.Command, args []string) error {
	digestPath, _ := cmd.Flags().GetString("digest")
	top, _ := cmd.Flags().GetInt("top")

	cmds, err := newCommands()
	if err != nil {
		return err
	}
	return runUser(cmds.Batch(cmd.Context(), digestPath, top))
}

func runList(cmd *cobra.Command, args []string) error {
	cmds, err := newCommands()
	if err != nil {
		return err
	}
	return runUser(cmds.List())
}

func runPreview(cmd *cobra.Command, args []string) error {
	n, err := topicNumber(args[0])
	if err != nil {
		return err
	}

	cmds, err := newCommands()
	if err != nil {
		return err
	}
	return runUser(cmds.Preview(n))
}

func runPublish(cmd *cobra.Command, args []string) error {
	n, err := topicNumber(args[0])
	if err != nil {
		return err
	}
	slot, _ := cmd.Flags().GetString("slot")

	cmds, err := newCommands()
	if err != nil {
		return err
	}
	return runUser(cmds.Publish(n, slot))
}

func runModels(cmd *cobra.Command, args []string) error {
	cmds, err := newCommands()
	if err != nil {
		return err
	}
	return cmds.Models(cmd.Context())
}

func topicNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("topic number must be an integer, got %q", arg)
	}
	return n, nil
}

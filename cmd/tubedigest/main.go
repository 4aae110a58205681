// Package main provides the tubedigest CLI entry point.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/tubedigest/internal/digest"
	"github.com/gauthierbraillon/tubedigest/internal/display"
	"github.com/gauthierbraillon/tubedigest/internal/feed"
	"github.com/gauthierbraillon/tubedigest/internal/notify"
	"github.com/gauthierbraillon/tubedigest/internal/runner"
	"github.com/gauthierbraillon/tubedigest/internal/store"
	"github.com/gauthierbraillon/tubedigest/internal/summarize"
	"github.com/gauthierbraillon/tubedigest/internal/transcript"
	"github.com/gauthierbraillon/tubedigest/pkg/gitcmd"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// getStoreDir returns the artifact store directory.
func getStoreDir() string {
	if dir := os.Getenv("TUBEDIGEST_STORE_DIR"); dir != "" {
		return dir
	}
	return "."
}

// getSMTPAddr returns the SMTP host and port (overridable via environment).
func getSMTPAddr() (string, int, error) {
	host := os.Getenv("TUBEDIGEST_SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := 587
	if raw := os.Getenv("TUBEDIGEST_SMTP_PORT"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p <= 0 {
			return "", 0, fmt.Errorf("invalid TUBEDIGEST_SMTP_PORT %q", raw)
		}
		port = p
	}
	return host, port, nil
}

// newRootCmd creates the root command for the tubedigest CLI.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tubedigest",
		Short:   "Summarize new videos from a YouTube channel",
		Long:    "Tubedigest polls a YouTube channel feed, summarizes each new video's transcript, stores one Markdown file per video and emails a digest of the batch.",
		Version: version,
	}

	rootCmd.SetVersionTemplate("tubedigest version {{.Version}}\n")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// newRunCmd creates the run subcommand.
func newRunCmd() *cobra.Command {
	var recipient string
	var commitEnabled bool
	var maxSummaries int
	var delay time.Duration
	var storeDir string

	cmd := &cobra.Command{
		Use:   "run <channel-id | feed-file>",
		Short: "Process a channel's new videos and email the digest",
		Long:  "Fetch the channel feed (or read a local feed capture), summarize every video not yet in the store, email the digest and optionally commit the new files.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env file is fine; the environment may be set directly.
			_ = godotenv.Load()

			target := args[0]
			if err := validateTarget(target); err != nil {
				return err
			}
			if recipient == "" {
				return fmt.Errorf("invalid recipient email %q", recipient)
			}
			if cmd.Flags().Changed("max") && maxSummaries <= 0 {
				return fmt.Errorf("--max must be a positive integer, got %d", maxSummaries)
			}

			apiKey := os.Getenv("OPENAI_API_KEY")
			if apiKey == "" {
				return fmt.Errorf("OPENAI_API_KEY not set in environment")
			}
			smtpUser := os.Getenv("TUBEDIGEST_SMTP_USERNAME")
			if smtpUser == "" {
				return fmt.Errorf("TUBEDIGEST_SMTP_USERNAME not set in environment")
			}
			smtpPass := os.Getenv("TUBEDIGEST_SMTP_PASSWORD")
			if smtpPass == "" {
				return fmt.Errorf("TUBEDIGEST_SMTP_PASSWORD not set in environment")
			}
			smtpHost, smtpPort, err := getSMTPAddr()
			if err != nil {
				return err
			}

			if storeDir == "" {
				storeDir = getStoreDir()
			}

			var sourceOpts []feed.SourceOption
			if url := os.Getenv("TUBEDIGEST_FEED_URL"); url != "" {
				sourceOpts = append(sourceOpts, feed.WithBaseURL(url))
			}
			var summarizeOpts []summarize.ClientOption
			if url := os.Getenv("TUBEDIGEST_OPENAI_URL"); url != "" {
				summarizeOpts = append(summarizeOpts, summarize.WithBaseURL(url))
			}
			if model := os.Getenv("TUBEDIGEST_OPENAI_MODEL"); model != "" {
				summarizeOpts = append(summarizeOpts, summarize.WithModel(model))
			}
			var transcriptOpts []transcript.ClientOption
			if url := os.Getenv("TUBEDIGEST_WATCH_URL"); url != "" {
				transcriptOpts = append(transcriptOpts, transcript.WithBaseURL(url))
			}

			summarizer := summarize.NewClient(apiKey, summarizeOpts...)
			artifacts := store.New(storeDir)

			run := runner.New(runner.Deps{
				Source:      feed.NewSource(sourceOpts...),
				Transcripts: transcript.NewClient(transcriptOpts...),
				Processor:   digest.NewProcessor(summarizer),
				Builder:     digest.NewBuilder(summarizer),
				Store:       artifacts,
				Notifier:    notify.NewMailer(smtpHost, smtpPort, smtpUser, smtpPass),
				Committer:   gitcmd.NewService(),
			}, runner.Config{
				Recipient:     recipient,
				MaxSummaries:  maxSummaries,
				Delay:         delay,
				CommitEnabled: commitEnabled,
				RepoDir:       storeDir,
				Out:           cmd.OutOrStdout(),
			})

			report, err := run.Run(cmd.Context(), target)
			if err != nil {
				return err
			}

			formatter := display.NewReportFormatter()
			fmt.Fprint(cmd.OutOrStdout(), formatter.Format(report))
			return nil
		},
	}

	cmd.Flags().StringVarP(&recipient, "to", "t", "", "Recipient email address for the digest (required)")
	cmd.Flags().BoolVarP(&commitEnabled, "commit", "c", false, "Commit and push new summaries to git")
	cmd.Flags().IntVarP(&maxSummaries, "max", "m", 0, "Maximum number of new videos to summarize per run")
	cmd.Flags().DurationVarP(&delay, "delay", "d", 5*time.Second, "Minimum spacing between consecutive summarization calls")
	cmd.Flags().StringVarP(&storeDir, "store", "s", "", "Artifact store directory (default TUBEDIGEST_STORE_DIR or .)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// validateTarget accepts a YouTube channel id or an existing local feed file.
func validateTarget(target string) error {
	if feed.IsFeedFile(target) {
		if _, err := os.Stat(target); err != nil {
			return fmt.Errorf("feed file %q not found", target)
		}
		return nil
	}
	if len(target) != 24 || !strings.HasPrefix(target, "UC") {
		return fmt.Errorf("invalid YouTube channel id %q: expected 24 characters starting with UC, or a feed file path", target)
	}
	return nil
}

// newConfigCmd creates the config subcommand.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show effective configuration",
		Long:  "Show the store directory, SMTP endpoint and credential status tubedigest would run with.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			host, port, err := getSMTPAddr()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Store directory: %s\n", getStoreDir())
			fmt.Fprintf(cmd.OutOrStdout(), "SMTP endpoint: %s:%d\n", host, port)
			fmt.Fprintf(cmd.OutOrStdout(), "OPENAI_API_KEY set: %t\n", os.Getenv("OPENAI_API_KEY") != "")
			fmt.Fprintf(cmd.OutOrStdout(), "SMTP credentials set: %t\n",
				os.Getenv("TUBEDIGEST_SMTP_USERNAME") != "" && os.Getenv("TUBEDIGEST_SMTP_PASSWORD") != "")
			return nil
		},
	}

	return cmd
}

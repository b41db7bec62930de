package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"trenddigest/internal/config"
	"trenddigest/internal/domain"
	"trenddigest/internal/infrastructure/httpx"
	"trenddigest/internal/infrastructure/rss"
	"trenddigest/internal/infrastructure/xapi"
	"trenddigest/internal/listfile"
	"trenddigest/internal/logging"
	"trenddigest/internal/source"
	"trenddigest/internal/usecase"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		var failure *domain.Failure
		if errors.As(err, &failure) {
			_ = writeJSON(os.Stdout, failure.Report())
			os.Exit(failure.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var (
		sinceHours  int
		limit       int
		mode        string
		keywords    string
		accounts    string
		feeds       string
		exclude     string
		feedTimeout int
		maxFeeds    int
	)

	cmd := &cobra.Command{
		Use:           "trends",
		Short:         "Fetch recent AI/LLM trends from the X API, account RSS mirrors, or RSS/Atom feeds",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch mode {
			case usecase.ModeAuto, usecase.ModeKeywords, usecase.ModeAccounts, usecase.ModeFeeds:
			default:
				return fmt.Errorf("invalid mode %q (expected auto, keywords, accounts, or feeds)", mode)
			}

			cfg := config.Load()
			logger := logging.New(cfg.Logging.Level)

			fetcher := httpx.NewFetcher(logger.With("component", "transport"),
				httpx.NewDirect(nil, ""),
				httpx.NewCommand(),
			)

			registry := source.NewRegistry()
			registry.Register(xapi.New(cfg.X.BearerToken, cfg.X.SearchURL,
				logger.With("component", "source.keywords")))
			registry.Register(rss.NewAccountSource(fetcher,
				logger.With("component", "source.accounts")))
			registry.Register(rss.NewFeedSource(fetcher,
				logger.With("component", "source.feeds")))

			req := source.Request{
				SinceHours:   sinceHours,
				Limit:        limit,
				Keywords:     listfile.Lines(keywords),
				KeywordsFile: keywords,
				Accounts:     listfile.Lines(accounts),
				AccountsFile: accounts,
				Feeds:        listfile.Feeds(feeds),
				FeedsFile:    feeds,
				MaxFeeds:     maxFeeds,
				Exclude:      listfile.ExcludeKeywords(exclude),
				Timeout:      time.Duration(feedTimeout) * time.Second,
			}

			pipeline := usecase.NewPipeline(registry, logger.With("component", "pipeline"))
			resolved := usecase.ResolveMode(mode, cfg.X.BearerToken != "")

			report, err := pipeline.Run(cmd.Context(), resolved, req)
			if err != nil {
				return err
			}
			return writeJSON(os.Stdout, report)
		},
	}

	cmd.Flags().IntVar(&sinceHours, "since-hours", 24, "Lookback window in hours")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of items to return")
	cmd.Flags().StringVar(&mode, "mode", "auto", "Fetch mode: auto, keywords, accounts, or feeds")
	cmd.Flags().StringVar(&keywords, "keywords-file", "references/keywords.txt", "Path to keyword list file")
	cmd.Flags().StringVar(&accounts, "accounts-file", "references/accounts.txt", "Path to account list file")
	cmd.Flags().StringVar(&feeds, "feeds-file", "references/feeds.txt", "Path to RSS/Atom feed list file")
	cmd.Flags().StringVar(&exclude, "exclude-keywords-file", "references/exclude_keywords.txt", "Path to exclude keyword list file")
	cmd.Flags().IntVar(&feedTimeout, "feed-timeout", 8, "Per-feed fetch timeout in seconds")
	cmd.Flags().IntVar(&maxFeeds, "max-feeds", 0, "Optional limit on number of feeds to fetch (0 = no limit)")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

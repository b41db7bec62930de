package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"trenddigest/internal/config"
	"trenddigest/internal/domain"
	"trenddigest/internal/infrastructure/wechat"
	"trenddigest/internal/logging"
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
		appID        string
		appSecret    string
		title        string
		htmlFile     string
		thumbMediaID string
		author       string
		sourceURL    string
		draftOnly    bool
	)

	cmd := &cobra.Command{
		Use:           "publish",
		Short:         "Publish a WeChat Official Account article via draft/add and freepublish/submit",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := logging.New(cfg.Logging.Level).With("component", "publish")

			if appID == "" {
				appID = cfg.WeChat.AppID
			}
			if appSecret == "" {
				appSecret = cfg.WeChat.AppSecret
			}
			if appID == "" || appSecret == "" {
				return fmt.Errorf("app id and app secret are required")
			}

			raw, err := os.ReadFile(htmlFile)
			if err != nil {
				return &domain.Failure{Code: domain.ExitEmptyInput, Message: "html file not found"}
			}
			html := strings.TrimSpace(string(raw))

			client := wechat.NewClient(cfg.WeChat.APIHost, cfg.WeChat.ResolveIPs, logger)

			token, err := client.AccessToken(cmd.Context(), appID, appSecret)
			if err != nil {
				return &domain.Failure{Code: domain.ExitUpstream, Message: err.Error()}
			}

			draft, err := client.AddDraft(cmd.Context(), token, wechat.Article{
				Title:            title,
				Author:           author,
				Digest:           wechat.BuildDigest(html, wechat.DigestLimit),
				Content:          html,
				ContentSourceURL: sourceURL,
				ThumbMediaID:     thumbMediaID,
			})
			if err != nil {
				return &domain.Failure{Code: domain.ExitUpstream, Message: err.Error()}
			}

			mediaID, ok := draft["media_id"].(string)
			if !ok || mediaID == "" {
				return &domain.Failure{Code: domain.ExitUpstream, Message: "draft_add failed", Details: draft}
			}

			result := map[string]any{"draft": draft, "publish": nil}
			if !draftOnly {
				// re-running submits again; publish is not idempotent
				published, err := client.Publish(cmd.Context(), token, mediaID)
				if err != nil {
					return &domain.Failure{Code: domain.ExitUpstream, Message: err.Error()}
				}
				result["publish"] = published
			}

			logger.Info("article submitted", "title", title, "draft_only", draftOnly)
			return writeJSON(os.Stdout, result)
		},
	}

	cmd.Flags().StringVar(&appID, "app-id", "", "Official Account AppID (or WECHAT_APP_ID)")
	cmd.Flags().StringVar(&appSecret, "app-secret", "", "Official Account AppSecret (or WECHAT_APP_SECRET)")
	cmd.Flags().StringVar(&title, "title", "", "Article title")
	cmd.Flags().StringVar(&htmlFile, "html-file", "", "Path to the formatted HTML body")
	cmd.Flags().StringVar(&thumbMediaID, "thumb-media-id", "", "Permanent media id of the cover thumb")
	cmd.Flags().StringVar(&author, "author", "", "Article author")
	cmd.Flags().StringVar(&sourceURL, "source-url", "", "Original content source URL")
	cmd.Flags().BoolVar(&draftOnly, "draft-only", false, "Create the draft without publishing")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("html-file")
	_ = cmd.MarkFlagRequired("thumb-media-id")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

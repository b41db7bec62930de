package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

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
		appID     string
		appSecret string
		mediaType string
		file      string
	)

	cmd := &cobra.Command{
		Use:           "material",
		Short:         "Upload permanent material to the WeChat Official Account",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch mediaType {
			case "image", "voice", "video", "thumb":
			default:
				return fmt.Errorf("invalid type %q (expected image, voice, video, or thumb)", mediaType)
			}

			cfg := config.Load()
			logger := logging.New(cfg.Logging.Level).With("component", "material")

			if appID == "" {
				appID = cfg.WeChat.AppID
			}
			if appSecret == "" {
				appSecret = cfg.WeChat.AppSecret
			}
			if appID == "" || appSecret == "" {
				return fmt.Errorf("app id and app secret are required")
			}

			if info, err := os.Stat(file); err != nil || info.IsDir() {
				return &domain.Failure{Code: domain.ExitEmptyInput, Message: "file not found"}
			}

			client := wechat.NewClient(cfg.WeChat.APIHost, cfg.WeChat.ResolveIPs, logger)

			token, err := client.AccessToken(cmd.Context(), appID, appSecret)
			if err != nil {
				return &domain.Failure{Code: domain.ExitUpstream, Message: err.Error()}
			}

			result, err := client.UploadMaterial(cmd.Context(), token, mediaType, file)
			if err != nil {
				return &domain.Failure{Code: domain.ExitUpstream, Message: err.Error()}
			}
			if _, ok := result["media_id"].(string); !ok {
				return &domain.Failure{Code: domain.ExitUpstream, Message: "material upload failed", Details: result}
			}

			logger.Info("material uploaded", "type", mediaType, "file", file)
			return writeJSON(os.Stdout, result)
		},
	}

	cmd.Flags().StringVar(&appID, "app-id", "", "Official Account AppID (or WECHAT_APP_ID)")
	cmd.Flags().StringVar(&appSecret, "app-secret", "", "Official Account AppSecret (or WECHAT_APP_SECRET)")
	cmd.Flags().StringVar(&mediaType, "type", "thumb", "Material type: image, voice, video, or thumb")
	cmd.Flags().StringVar(&file, "file", "", "Path of the file to upload")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"trenddigest/internal/config"
	"trenddigest/internal/infrastructure/cover"
	"trenddigest/internal/logging"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var (
		title   string
		out     string
		width   int
		height  int
		quality int
	)

	cmd := &cobra.Command{
		Use:           "cover",
		Short:         "Generate the WeChat cover image (thumb) for upload",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := logging.New(cfg.Logging.Level).With("component", "cover")

			if title == "" {
				title = cover.DefaultTitle(time.Now())
			}
			if width == 0 {
				width = cfg.Cover.Width
			}
			if height == 0 {
				height = cfg.Cover.Height
			}
			if quality == 0 {
				quality = cfg.Cover.Quality
			}

			opts := cover.Options{
				Title:     title,
				Subtitle:  cfg.Cover.Subtitle,
				Width:     width,
				Height:    height,
				Quality:   quality,
				FontPaths: cfg.Cover.FontPaths,
			}
			if err := cover.Render(opts, out); err != nil {
				return err
			}

			logger.Info("cover written", "out", out, "title", title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Cover title (defaults to today's digest title)")
	cmd.Flags().StringVar(&out, "out", "", "Output JPEG path")
	cmd.Flags().IntVar(&width, "width", 0, "Image width in pixels (default 900)")
	cmd.Flags().IntVar(&height, "height", 0, "Image height in pixels (default 383)")
	cmd.Flags().IntVar(&quality, "quality", 0, "JPEG quality (default 80)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

// Package cover renders the fixed-layout title image uploaded as the
// article thumb.
package cover

import (
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
)

// Options describes one cover rendering.
type Options struct {
	Title     string
	Subtitle  string
	Width     int
	Height    int
	Quality   int
	FontPaths []string
}

const (
	titleSize    = 42
	subtitleSize = 26
	textX        = 70
	textY        = 90
	titleGap     = 20
	frameInset   = 40
)

// DefaultTitle composes the date-stamped default title.
func DefaultTitle(now time.Time) string {
	return now.Format("2006-01-02") + " AI热点日报"
}

// Render draws the two-layer background with title and subtitle and writes
// a JPEG to outPath, creating parent directories as needed. Font loading or
// encoding failure is fatal; there is no recovery beyond directory creation.
func Render(opts Options, outPath string) error {
	dc := gg.NewContext(opts.Width, opts.Height)

	// outer wash and inner white card
	dc.SetRGB255(245, 247, 250)
	dc.Clear()
	dc.SetRGB255(255, 255, 255)
	dc.DrawRectangle(frameInset, frameInset,
		float64(opts.Width-2*frameInset), float64(opts.Height-2*frameInset))
	dc.Fill()

	fontPath, err := usableFont(opts.FontPaths)
	if err != nil {
		return err
	}

	if err := dc.LoadFontFace(fontPath, titleSize); err != nil {
		return fmt.Errorf("load title font %s: %w", fontPath, err)
	}
	dc.SetRGB255(20, 20, 20)
	dc.DrawStringAnchored(opts.Title, textX, textY, 0, 1)

	if err := dc.LoadFontFace(fontPath, subtitleSize); err != nil {
		return fmt.Errorf("load subtitle font %s: %w", fontPath, err)
	}
	dc.SetRGB255(90, 90, 90)
	dc.DrawStringAnchored(opts.Subtitle, textX, textY+titleSize+titleGap, 0, 1)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, dc.Image(), &jpeg.Options{Quality: opts.Quality}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}

// usableFont picks the first configured font file that exists on disk.
func usableFont(paths []string) (string, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no usable font found in %v", paths)
}

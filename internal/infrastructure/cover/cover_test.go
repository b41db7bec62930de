package cover

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultTitle(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 4, 9, 30, 0, 0, time.UTC)
	got := DefaultTitle(now)
	if got != "2026-02-04 AI热点日报" {
		t.Fatalf("unexpected title: %q", got)
	}
}

func TestRenderFailsWithoutFont(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "cover.jpg")
	err := Render(Options{
		Title:     "title",
		Subtitle:  "subtitle",
		Width:     100,
		Height:    50,
		Quality:   80,
		FontPaths: []string{"/nonexistent/font.ttf"},
	}, out)

	if err == nil || !strings.Contains(err.Error(), "no usable font") {
		t.Fatalf("expected missing-font error, got %v", err)
	}
}

package wechat

import (
	"strings"
	"testing"
)

func TestBuildDigestStripsMarkup(t *testing.T) {
	t.Parallel()

	html := `<h1>今日热点</h1><p>模型发布 &amp; 评测</p>`
	got := BuildDigest(html, DigestLimit)

	if strings.ContainsAny(got, "<>") {
		t.Fatalf("markup survived: %q", got)
	}
	if !strings.Contains(got, "模型发布 & 评测") {
		t.Fatalf("entity not unescaped: %q", got)
	}
}

func TestBuildDigestTruncatesWithEllipsis(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("热", 100)
	got := BuildDigest("<p>"+long+"</p>", 80)

	runes := []rune(got)
	if len(runes) != 80 {
		t.Fatalf("expected 80 characters, got %d", len(runes))
	}
	if runes[79] != '…' {
		t.Fatalf("expected ellipsis terminator, got %q", string(runes[79]))
	}
}

func TestBuildDigestShortTextUntouched(t *testing.T) {
	t.Parallel()

	if got := BuildDigest("<p>short</p>", 80); got != "short" {
		t.Fatalf("unexpected digest: %q", got)
	}
}

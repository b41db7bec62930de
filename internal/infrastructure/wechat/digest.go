package wechat

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DigestLimit is the WeChat character budget for the article digest.
const DigestLimit = 80

// BuildDigest derives the plain-text digest from the HTML body: markup is
// stripped, entities unescaped, and the text truncated to maxLen characters
// with the ellipsis occupying the final slot.
func BuildDigest(html string, maxLen int) string {
	text := stripTags(html)
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-1]) + "…"
}

func stripTags(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	return strings.TrimSpace(doc.Text())
}

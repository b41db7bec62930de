// Package listfile parses the plain-text configuration lists (keywords,
// accounts, feeds, exclusions) read fresh on every run. Parsing is pure and
// side-effect free; a missing or unreadable file reads as an empty list.
package listfile

import (
	"bufio"
	"io"
	"os"
	"strings"

	"trenddigest/internal/domain"
)

// ParseLines returns the non-empty, non-comment lines of r, trimmed.
// Lines starting with '#' are comments.
func ParseLines(r io.Reader) []string {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Lines reads path as a line list. A missing file is an empty list, not an error.
func Lines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	return ParseLines(f)
}

// ExcludeKeywords reads path and lowercases every entry for
// case-insensitive substring matching.
func ExcludeKeywords(path string) []string {
	raw := Lines(path)
	keywords := make([]string, 0, len(raw))
	for _, k := range raw {
		keywords = append(keywords, strings.ToLower(k))
	}
	return keywords
}

// ParseFeeds splits each line into "label|url" or a bare URL with no label.
func ParseFeeds(r io.Reader) []domain.FeedRef {
	var feeds []domain.FeedRef
	for _, line := range ParseLines(r) {
		label, url, found := strings.Cut(line, "|")
		if !found {
			feeds = append(feeds, domain.FeedRef{URL: line})
			continue
		}
		feeds = append(feeds, domain.FeedRef{
			Label: strings.TrimSpace(label),
			URL:   strings.TrimSpace(url),
		})
	}
	return feeds
}

// Feeds reads the feed list at path. A missing file is an empty list.
func Feeds(path string) []domain.FeedRef {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	return ParseFeeds(f)
}

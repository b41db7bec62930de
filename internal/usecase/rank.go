package usecase

import (
	"sort"
	"strings"
	"time"

	"trenddigest/internal/domain"
)

// officialKeywords mark organization-operated sources for the feeds-mode
// authority tier.
var officialKeywords = []string{
	"openai",
	"anthropic",
	"deepmind",
	"google",
	"microsoft",
	"cohere",
	"hugging face",
}

// SourceWeight assigns the authority tier used by feeds-mode ranking:
// 3 for known individuals, 2 for official organizations, 0 for preprint
// archives, 1 for everything else.
func SourceWeight(item domain.Item) int {
	source := item.Source
	if source == "" {
		source = item.Author
	}
	source = strings.ToLower(source)

	if strings.Contains(source, "karpathy") {
		return 3
	}
	for _, key := range officialKeywords {
		if strings.Contains(source, key) {
			return 2
		}
	}
	if strings.Contains(source, "arxiv") {
		return 0
	}
	return 1
}

// FilterExcluded drops items whose text contains any exclude keyword,
// matched case-insensitively. Keywords are expected lowercased.
func FilterExcluded(items []domain.Item, exclude []string) []domain.Item {
	if len(exclude) == 0 {
		return items
	}

	filtered := make([]domain.Item, 0, len(items))
	for _, item := range items {
		text := strings.ToLower(item.Text)
		excluded := false
		for _, k := range exclude {
			if strings.Contains(text, k) {
				excluded = true
				break
			}
		}
		if !excluded {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// FilterSince keeps items created within the lookback window ending at now.
// Items with a missing or unparseable timestamp are dropped.
func FilterSince(items []domain.Item, sinceHours int, now time.Time) []domain.Item {
	cutoff := now.Add(-time.Duration(sinceHours) * time.Hour)

	filtered := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if item.CreatedAt == "" {
			continue
		}
		created, err := time.Parse(time.RFC3339, item.CreatedAt)
		if err != nil {
			continue
		}
		if !created.Before(cutoff) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// Dedupe collapses duplicates by URL, then id, then text; the first
// occurrence wins and keyless items are dropped.
func Dedupe(items []domain.Item) []domain.Item {
	seen := make(map[string]struct{}, len(items))
	deduped := make([]domain.Item, 0, len(items))
	for _, item := range items {
		key := item.DedupeKey()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, item)
	}
	return deduped
}

// SortByEngagement orders items by engagement score descending, breaking
// ties with the more recent timestamp first.
func SortByEngagement(items []domain.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].EngagementScore != items[j].EngagementScore {
			return items[i].EngagementScore > items[j].EngagementScore
		}
		return items[i].CreatedAt > items[j].CreatedAt
	})
}

// SortByRecency orders items newest first. Normalized UTC ISO-8601 strings
// compare lexicographically in chronological order.
func SortByRecency(items []domain.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})
}

// SortByWeight orders items by authority tier descending, then recency.
// A stale high-authority item outranks a fresh unweighted one inside the
// fetch window; that is deliberate editorial weighting.
func SortByWeight(items []domain.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		wi, wj := SourceWeight(items[i]), SourceWeight(items[j])
		if wi != wj {
			return wi > wj
		}
		return items[i].CreatedAt > items[j].CreatedAt
	})
}

// Truncate bounds the ranked list to at most limit items; a negative limit
// reads as zero.
func Truncate(items []domain.Item, limit int) []domain.Item {
	if limit < 0 {
		limit = 0
	}
	if len(items) <= limit {
		return items
	}
	return items[:limit]
}

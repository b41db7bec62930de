package domain

// Item is a core entity describing one normalized piece of fetched content:
// a tweet, an RSS/Atom entry, or a video entry.
type Item struct {
	ID              string         `json:"id"`
	Text            string         `json:"text"`
	Author          string         `json:"author"`
	Username        string         `json:"username,omitempty"`
	URL             string         `json:"url"`
	CreatedAt       string         `json:"created_at"`
	Metrics         map[string]int `json:"metrics"`
	EngagementScore int            `json:"engagement_score"`
	Source          string         `json:"source,omitempty"`
}

// DedupeKey returns the identity used when collapsing duplicates:
// canonical URL first, then source id, then raw text.
func (i Item) DedupeKey() string {
	if i.URL != "" {
		return i.URL
	}
	if i.ID != "" {
		return i.ID
	}
	return i.Text
}

// FeedRef is one entry of the feed list file. Label may be empty,
// in which case the URL doubles as the display label.
type FeedRef struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// SourceError records a single failed account or feed inside an
// otherwise successful batch.
type SourceError struct {
	Account string `json:"account,omitempty"`
	Feed    string `json:"feed,omitempty"`
	Error   string `json:"error"`
}

// Report is the top-level JSON object every fetch run prints to stdout.
type Report struct {
	Mode      string        `json:"mode"`
	Query     string        `json:"query,omitempty"`
	StartTime string        `json:"start_time,omitempty"`
	Accounts  []string      `json:"accounts,omitempty"`
	Feeds     []string      `json:"feeds,omitempty"`
	Limit     int           `json:"limit"`
	Fetched   int           `json:"fetched"`
	Items     []Item        `json:"items"`
	Errors    []SourceError `json:"errors,omitempty"`
	Notice    string        `json:"notice,omitempty"`
}

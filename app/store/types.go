package store

// Candidate lifecycle statuses. A candidate starts as pending and ends in
// exactly one of the terminal states.
const (
	StatusPending   = "pending"
	StatusGenerated = "generated"
	StatusSkipped   = "skipped"
)

// SkipReasonDuplicate marks candidates rejected by the dedup check.
const SkipReasonDuplicate = "duplicate-topic"

// Source describes the monitored channel a candidate came from.
type Source struct {
	Name      string   `json:"name"`
	URL       string   `json:"url,omitempty"`
	ChannelID string   `json:"channelId,omitempty"`
	Focus     []string `json:"focus,omitempty"`
}

// ResolveURL returns the source's explicit URL, falling back to the channel
// URL derivable from its channel ID.
func (s Source) ResolveURL() string {
	if s.URL != "" {
		return s.URL
	}
	if s.ChannelID != "" {
		return "https://www.youtube.com/channel/" + s.ChannelID
	}
	return ""
}

// Video is the origin payload captured at ingestion time.
type Video struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// SearchSummary is one research snippet gathered by the collector.
type SearchSummary struct {
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
	Summary string `json:"summary,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// Candidate is a unit of work awaiting a publish/skip decision. Timestamps
// are kept as the RFC 3339 strings the collections carry on disk; the site
// frontend reads the same files, so field names stay camelCase.
type Candidate struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	Source          Source          `json:"source"`
	Video           Video           `json:"video"`
	SearchSummaries []SearchSummary `json:"searchSummaries,omitempty"`
	TopicKey        string          `json:"topicKey,omitempty"`
	SkipReason      string          `json:"skipReason,omitempty"`
	GeneratedAt     string          `json:"generatedAt,omitempty"`
	UpdatedAt       string          `json:"updatedAt,omitempty"`
	PostDate        string          `json:"postDate,omitempty"`
	Slug            string          `json:"slug,omitempty"`
	OutputFile      string          `json:"outputFile,omitempty"`
}

// TopicHistoryEntry is one dedup ledger row. At most one entry exists per
// topic key; writes supersede rather than accumulate.
type TopicHistoryEntry struct {
	TopicKey        string `json:"topicKey"`
	FirstSeen       string `json:"firstSeen,omitempty"`
	LastPublishedAt string `json:"lastPublishedAt,omitempty"`
	SourceName      string `json:"sourceName,omitempty"`
	VideoTitle      string `json:"videoTitle,omitempty"`
	DraftURL        string `json:"draftUrl,omitempty"`
}

// Post is a published article summary. URL is the unique key; the Posts
// collection is kept sorted by date descending.
type Post struct {
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Summary  string   `json:"summary"`
	Tags     []string `json:"tags"`
	URL      string   `json:"url"`
	Slug     string   `json:"slug,omitempty"`
	TopicKey string   `json:"topicKey,omitempty"`
}

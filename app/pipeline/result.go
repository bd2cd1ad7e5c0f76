package pipeline

import (
	"github.com/ainewslab/autopress/app/drafting"
	"github.com/ainewslab/autopress/app/store"
)

// Run outcome reasons recorded in the status artifact.
const (
	ReasonNoPending = "no-pending-candidates"
	ReasonDuplicate = "duplicate-topic"
)

// SourceRef and VideoRef carry provenance into the article data file.
type SourceRef struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type VideoRef struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ArticleData is the full structured article handed to the external
// renderer. It contains everything needed to produce the final page without
// calling back into the pipeline.
type ArticleData struct {
	drafting.Article

	Slug            string                `json:"slug"`
	Date            string                `json:"date"`
	RelativePath    string                `json:"relativePath"`
	Source          SourceRef             `json:"source"`
	Video           VideoRef              `json:"video"`
	SearchSummaries []store.SearchSummary `json:"searchSummaries,omitempty"`
}

// Result summarizes one generator run. Exactly one of the three outcomes
// holds: no pending work, duplicate skip, or a successful generation with a
// post entry for the publication merger.
type Result struct {
	Generated   bool         `json:"generated"`
	Reason      string       `json:"reason,omitempty"`
	CandidateID string       `json:"candidateId,omitempty"`
	TopicKey    string       `json:"topicKey,omitempty"`
	DraftURL    string       `json:"draftUrl,omitempty"`
	PostEntry   *store.Post  `json:"postEntry,omitempty"`
	Article     *ArticleData `json:"article,omitempty"`
}

// Package pipeline drives the candidate lifecycle: select one pending
// candidate, decide duplicate vs novel, draft, and record the terminal
// state. One candidate transitions per run, which bounds drafting cost per
// invocation and keeps every store write a single read-modify-write step.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/ainewslab/autopress/app/drafting"
	"github.com/ainewslab/autopress/app/slug"
	"github.com/ainewslab/autopress/app/store"
	"github.com/ainewslab/autopress/app/topic"
)

// Store is the collection access the generator needs. Posts are read for the
// dedup check only; writing them is the publisher's job.
type Store interface {
	LoadCandidates() ([]store.Candidate, error)
	SaveCandidates([]store.Candidate) error
	LoadHistory() ([]store.TopicHistoryEntry, error)
	SaveHistory([]store.TopicHistoryEntry) error
	LoadPosts() ([]store.Post, error)
}

// Drafter is the generation side of the drafting service.
type Drafter interface {
	DraftArticle(ctx context.Context, candidate store.Candidate) (*drafting.Article, error)
}

// Enricher fills in research text before drafting. Optional.
type Enricher interface {
	Enrich(ctx context.Context, summaries []store.SearchSummary) []store.SearchSummary
}

type Generator struct {
	store      Store
	resolver   *topic.Resolver
	drafter    Drafter
	enricher   Enricher
	windowDays int
	now        func() time.Time
}

func NewGenerator(st Store, resolver *topic.Resolver, drafter Drafter, enricher Enricher, windowDays int) *Generator {
	return &Generator{
		store:      st,
		resolver:   resolver,
		drafter:    drafter,
		enricher:   enricher,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// Run executes one lifecycle step. Store I/O failures and drafting failures
// are fatal for the run; a drafting failure leaves every collection exactly
// as it was, so the candidate stays pending and is retried on the next
// scheduled invocation.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	candidates, err := g.store.LoadCandidates()
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	posts, err := g.store.LoadPosts()
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	history, err := g.store.LoadHistory()
	if err != nil {
		return nil, fmt.Errorf("failed to load topic history: %w", err)
	}

	idx := selectPending(candidates)
	if idx < 0 {
		slog.Info("No pending candidates, nothing to do")
		return &Result{Generated: false, Reason: ReasonNoPending}, nil
	}
	candidate := candidates[idx]

	slog.Info("Candidate selected",
		"candidate", candidate.ID,
		"source", candidate.Source.Name,
		"video", candidate.Video.Title)

	topicKey := g.resolver.Resolve(ctx, candidate)

	// A freshly derived key is persisted before anything else happens, so it
	// is never recomputed on a later run even if this one aborts.
	if candidate.TopicKey == "" {
		candidates[idx].TopicKey = topicKey
		candidate.TopicKey = topicKey
		if err := g.store.SaveCandidates(candidates); err != nil {
			return nil, fmt.Errorf("failed to persist topic key: %w", err)
		}
	}

	now := g.now()
	duplicate := topic.IsDuplicate(topicKey, posts, history, now, g.windowDays)
	slog.Info("Dedup decision", "candidate", candidate.ID, "topic_key", topicKey, "duplicate", duplicate)

	if duplicate {
		candidates[idx].Status = store.StatusSkipped
		candidates[idx].SkipReason = store.SkipReasonDuplicate
		candidates[idx].UpdatedAt = now.Format(time.RFC3339)
		if err := g.store.SaveCandidates(candidates); err != nil {
			return nil, fmt.Errorf("failed to save skipped candidate: %w", err)
		}
		return &Result{
			Generated:   false,
			Reason:      ReasonDuplicate,
			CandidateID: candidate.ID,
			TopicKey:    topicKey,
		}, nil
	}

	if g.enricher != nil && len(candidate.SearchSummaries) > 0 {
		candidate.SearchSummaries = g.enricher.Enrich(ctx, candidate.SearchSummaries)
	}
	if len(candidate.SearchSummaries) == 0 {
		slog.Info("No research summaries available, drafting from video metadata only",
			"candidate", candidate.ID)
	}

	article, err := g.drafter.DraftArticle(ctx, candidate)
	if err != nil {
		// No state has been modified beyond the topic key; the candidate
		// remains pending for the next invocation.
		return nil, fmt.Errorf("drafting failed for candidate %s: %w", candidate.ID, err)
	}
	slog.Info("Article draft received", "candidate", candidate.ID, "title", article.Title)

	today := now.Format("2006-01-02")
	postSlug := today + "-" + slug.MakeWithFallback(article.Title, topicKey)
	relativePath := path.Join("posts", postSlug+".html")
	nowStr := now.Format(time.RFC3339)

	candidates[idx].Status = store.StatusGenerated
	candidates[idx].GeneratedAt = nowStr
	candidates[idx].UpdatedAt = nowStr
	candidates[idx].PostDate = today
	candidates[idx].Slug = postSlug
	candidates[idx].OutputFile = relativePath
	if err := g.store.SaveCandidates(candidates); err != nil {
		return nil, fmt.Errorf("failed to save generated candidate: %w", err)
	}

	history = topic.UpdateHistory(history, topicKey, store.TopicHistoryEntry{
		SourceName:      candidate.Source.Name,
		VideoTitle:      candidate.Video.Title,
		DraftURL:        relativePath,
		LastPublishedAt: today,
	}, now)
	if err := g.store.SaveHistory(history); err != nil {
		return nil, fmt.Errorf("failed to save topic history: %w", err)
	}

	slog.Info("Candidate generated", "candidate", candidate.ID, "slug", postSlug, "output", relativePath)

	postEntry := &store.Post{
		Title:    article.Title,
		Date:     today,
		Summary:  article.Summary,
		Tags:     article.Tags,
		URL:      relativePath,
		Slug:     postSlug,
		TopicKey: topicKey,
	}

	articleData := &ArticleData{
		Article:      *article,
		Slug:         postSlug,
		Date:         today,
		RelativePath: relativePath,
		Source: SourceRef{
			Name: candidate.Source.Name,
			URL:  candidate.Source.ResolveURL(),
		},
		Video: VideoRef{
			Title: candidate.Video.Title,
			URL:   candidate.Video.URL,
		},
		SearchSummaries: candidate.SearchSummaries,
	}

	return &Result{
		Generated:   true,
		CandidateID: candidate.ID,
		TopicKey:    topicKey,
		DraftURL:    relativePath,
		PostEntry:   postEntry,
		Article:     articleData,
	}, nil
}

// selectPending returns the index of the first pending candidate in
// collection order, or -1.
func selectPending(candidates []store.Candidate) int {
	for i, c := range candidates {
		if c.Status == store.StatusPending {
			return i
		}
	}
	return -1
}

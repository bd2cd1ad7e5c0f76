// Package publisher owns all writes to the Posts collection and the
// published artifacts derived from it: posts.json, the article data file for
// the external renderer, feed.xml, and the run status artifact.
package publisher

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ainewslab/autopress/app/cfg"
	"github.com/ainewslab/autopress/app/pipeline"
	"github.com/ainewslab/autopress/app/store"
)

const statusFile = "pipeline-status.json"

// PostsStore is the posts access the publisher needs.
type PostsStore interface {
	LoadPosts() ([]store.Post, error)
	SavePosts([]store.Post) error
}

// PublisherStatus is the diagnostic tail of the status artifact.
type PublisherStatus struct {
	AddedPost  bool `json:"addedPost"`
	TotalPosts int  `json:"totalPosts"`
}

// Status is the run status artifact written after every invocation. It is a
// write-only record for dashboards; the pipeline never reads it back.
type Status struct {
	LastRun   string           `json:"lastRun"`
	Schedule  []string         `json:"schedule,omitempty"`
	Collector any              `json:"collector"`
	Generator *pipeline.Result `json:"generator"`
	Publisher PublisherStatus  `json:"publisher"`
}

type Publisher struct {
	store     PostsStore
	outputDir string
	publicDir string
	schedule  []string
	now       func() time.Time
}

func NewPublisher(st PostsStore) *Publisher {
	c := cfg.Get()

	var schedule []string
	for _, s := range strings.Split(c.Schedule, ",") {
		if s = strings.TrimSpace(s); s != "" {
			schedule = append(schedule, s)
		}
	}

	return &Publisher{
		store:     st,
		outputDir: c.OutputDir,
		publicDir: c.PublicDir,
		schedule:  schedule,
		now:       time.Now,
	}
}

// MergePosts merges entry into posts: any existing post with the same URL is
// replaced and the result is sorted by date descending. Merging the same
// entry twice converges to the same collection, so a re-run after a crash
// between generation and publication cannot produce duplicates.
func MergePosts(posts []store.Post, entry *store.Post) []store.Post {
	merged := make([]store.Post, 0, len(posts)+1)
	for _, post := range posts {
		if entry == nil || post.URL != entry.URL {
			merged = append(merged, post)
		}
	}
	if entry != nil {
		merged = append(merged, *entry)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date > merged[j].Date
	})

	return merged
}

// Run merges the generator outcome into the published collections and writes
// the status artifact. A run that generated nothing still records its status.
func (p *Publisher) Run(result *pipeline.Result) (*Status, error) {
	posts, err := p.store.LoadPosts()
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	addedPost := false
	if result != nil && result.Generated && result.PostEntry != nil {
		posts = MergePosts(posts, result.PostEntry)
		if err := p.store.SavePosts(posts); err != nil {
			return nil, fmt.Errorf("failed to save posts: %w", err)
		}
		addedPost = true

		if err := p.writeArticleData(result.Article); err != nil {
			return nil, err
		}
		if err := p.writeFeed(posts); err != nil {
			return nil, err
		}

		slog.Info("Post published", "url", result.PostEntry.URL, "total_posts", len(posts))
	}

	status := &Status{
		LastRun:   p.now().Format(time.RFC3339),
		Schedule:  p.schedule,
		Generator: result,
		Publisher: PublisherStatus{
			AddedPost:  addedPost,
			TotalPosts: len(posts),
		},
	}

	if err := p.writeStatus(status); err != nil {
		return nil, err
	}

	return status, nil
}

// writeArticleData hands the structured article to the external renderer as
// a JSON file next to the other published artifacts.
func (p *Publisher) writeArticleData(article *pipeline.ArticleData) error {
	if article == nil {
		return fmt.Errorf("generated result is missing article data")
	}

	dir := filepath.Join(p.publicDir, "articles")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create articles directory: %w", err)
	}

	data, err := json.MarshalIndent(article, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode article data: %w", err)
	}

	path := filepath.Join(dir, article.Slug+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write article data: %w", err)
	}

	slog.Debug("Article data written", "path", path)
	return nil
}

func (p *Publisher) writeFeed(posts []store.Post) error {
	if err := os.MkdirAll(p.publicDir, 0755); err != nil {
		return fmt.Errorf("failed to create public directory: %w", err)
	}

	feed := GenerateRSS(posts)
	path := filepath.Join(p.publicDir, "feed.xml")
	if err := os.WriteFile(path, []byte(feed), 0644); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}

	slog.Debug("Feed regenerated", "path", path, "items", len(posts))
	return nil
}

func (p *Publisher) writeStatus(status *Status) error {
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode status: %w", err)
	}

	path := filepath.Join(p.outputDir, statusFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write status artifact: %w", err)
	}

	return nil
}

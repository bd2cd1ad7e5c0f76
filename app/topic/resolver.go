package topic

import (
	"context"
	"log/slog"

	"github.com/ainewslab/autopress/app/drafting"
	"github.com/ainewslab/autopress/app/slug"
	"github.com/ainewslab/autopress/app/store"
)

// Classifier is the drafting-service side of topic key resolution.
type Classifier interface {
	ExtractTopicKey(ctx context.Context, video store.Video, source store.Source) (*drafting.TopicKeyResult, error)
}

// Resolver produces the topic key for a candidate. A key already stored on
// the candidate always wins: assignment happens exactly once, and the stored
// key is never recomputed on later runs.
type Resolver struct {
	classifier Classifier
}

// NewResolver builds a resolver. classifier may be nil, in which case keys
// are derived from the video title alone.
func NewResolver(classifier Classifier) *Resolver {
	return &Resolver{classifier: classifier}
}

// Resolve returns the candidate's topic key. Classification failures degrade
// to the slugified title rather than aborting the run: a worse key is still
// a stable key, and the dedup ledger stays consistent either way.
func (r *Resolver) Resolve(ctx context.Context, candidate store.Candidate) string {
	if candidate.TopicKey != "" {
		return candidate.TopicKey
	}

	if r.classifier != nil {
		result, err := r.classifier.ExtractTopicKey(ctx, candidate.Video, candidate.Source)
		if err != nil {
			slog.Warn("Topic key classification failed, falling back to title slug",
				"candidate", candidate.ID, "error", err)
		} else if result.TopicKey != "" {
			slog.Debug("Topic key classified",
				"candidate", candidate.ID,
				"topic_key", result.TopicKey,
				"confidence", result.Confidence)
			return result.TopicKey
		}
	}

	return slug.Make(candidate.Video.Title)
}

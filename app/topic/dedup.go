// Package topic owns topic key resolution and the deduplication decision.
// Both are side-effect free: the dedup check in particular is a pure function
// over already-loaded collections, so a run can decide before paying for any
// generation call.
package topic

import (
	"time"

	"github.com/ainewslab/autopress/app/slug"
	"github.com/ainewslab/autopress/app/store"
)

// timestamp layouts seen in the collections: full RFC 3339 from pipeline
// writes, bare dates from history entries recorded as post dates.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// IsDuplicate reports whether topicKey must not be regenerated.
//
// Published posts suppress a topic permanently: an article that exists is
// never re-published, no matter how old. Topic history only suppresses
// within the rolling window, so recurring stories (product updates, sequels)
// can resurface after the cooldown.
func IsDuplicate(topicKey string, posts []store.Post, history []store.TopicHistoryEntry, now time.Time, windowDays int) bool {
	for _, post := range posts {
		if post.TopicKey == topicKey {
			return true
		}
		if slug.Make(post.Title) == topicKey {
			return true
		}
	}

	cutoff := now.Add(-time.Duration(windowDays) * 24 * time.Hour)

	for _, entry := range history {
		if entry.TopicKey != topicKey {
			continue
		}

		raw := entry.LastPublishedAt
		if raw == "" {
			raw = entry.FirstSeen
		}

		last, ok := parseTimestamp(raw)
		if !ok {
			// An unparseable timestamp must not block regeneration.
			continue
		}

		if !last.Before(cutoff) {
			return true
		}
	}

	return false
}

func parseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// UpdateHistory supersedes the entry for topicKey with a fresh record. The
// result contains at most one entry per key; prior provenance is replaced,
// never accumulated.
func UpdateHistory(history []store.TopicHistoryEntry, topicKey string, record store.TopicHistoryEntry, now time.Time) []store.TopicHistoryEntry {
	updated := make([]store.TopicHistoryEntry, 0, len(history)+1)
	for _, entry := range history {
		if entry.TopicKey != topicKey {
			updated = append(updated, entry)
		}
	}

	nowStr := now.Format(time.RFC3339)
	if record.FirstSeen == "" {
		record.FirstSeen = nowStr
	}
	if record.LastPublishedAt == "" {
		record.LastPublishedAt = nowStr
	}
	record.TopicKey = topicKey

	return append(updated, record)
}

package topic

import (
	"testing"
	"time"

	"github.com/ainewslab/autopress/app/store"
)

var testNow = time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)

func daysAgo(days int) string {
	return testNow.Add(-time.Duration(days) * 24 * time.Hour).Format(time.RFC3339)
}

func TestIsDuplicate_EmptyCollections(t *testing.T) {
	if IsDuplicate("gpt-5-launch", nil, nil, testNow, 5) {
		t.Error("Expected novel topic with empty collections")
	}
}

func TestIsDuplicate_PublishedTopicIsPermanent(t *testing.T) {
	posts := []store.Post{
		{Title: "Old Story", URL: "posts/old.html", Date: "2024-01-01", TopicKey: "gpt-5-launch"},
	}

	// No history entry at all, and the post is far older than any window.
	if !IsDuplicate("gpt-5-launch", posts, nil, testNow, 5) {
		t.Error("Expected published topic key to be permanently duplicate")
	}
}

func TestIsDuplicate_PostTitleSlugMatches(t *testing.T) {
	// Posts without an explicit topic key still suppress via slugified title.
	posts := []store.Post{
		{Title: "GPT-5 Launch", URL: "posts/gpt5.html", Date: "2024-01-01"},
	}

	if !IsDuplicate("gpt-5-launch", posts, nil, testNow, 5) {
		t.Error("Expected slugified post title to match topic key")
	}
}

func TestIsDuplicate_WindowBoundary(t *testing.T) {
	tests := []struct {
		name            string
		lastPublishedAt string
		expected        bool
	}{
		{"4 days ago is inside the window", daysAgo(4), true},
		{"6 days ago is outside the window", daysAgo(6), false},
		{"exactly at the cutoff counts as duplicate", daysAgo(5), true},
		{"just now", daysAgo(0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := []store.TopicHistoryEntry{
				{TopicKey: "gpt-5-launch", LastPublishedAt: tt.lastPublishedAt},
			}

			got := IsDuplicate("gpt-5-launch", nil, history, testNow, 5)
			if got != tt.expected {
				t.Errorf("IsDuplicate with lastPublishedAt=%s: got %v, want %v",
					tt.lastPublishedAt, got, tt.expected)
			}
		})
	}
}

func TestIsDuplicate_FallsBackToFirstSeen(t *testing.T) {
	history := []store.TopicHistoryEntry{
		{TopicKey: "gpt-5-launch", FirstSeen: daysAgo(2)},
	}

	if !IsDuplicate("gpt-5-launch", nil, history, testNow, 5) {
		t.Error("Expected firstSeen to be used when lastPublishedAt is absent")
	}
}

func TestIsDuplicate_UnparseableTimestampAllowsRegeneration(t *testing.T) {
	history := []store.TopicHistoryEntry{
		{TopicKey: "gpt-5-launch", LastPublishedAt: "not-a-date"},
	}

	// Conservative recovery: a corrupt timestamp must not crash and must not
	// block regeneration.
	if IsDuplicate("gpt-5-launch", nil, history, testNow, 5) {
		t.Error("Expected unparseable timestamp to be treated as outside the window")
	}
}

func TestIsDuplicate_BareDateTimestamp(t *testing.T) {
	history := []store.TopicHistoryEntry{
		{TopicKey: "gpt-5-launch", LastPublishedAt: testNow.Add(-3 * 24 * time.Hour).Format("2006-01-02")},
	}

	if !IsDuplicate("gpt-5-launch", nil, history, testNow, 5) {
		t.Error("Expected bare-date lastPublishedAt to parse and count as duplicate")
	}
}

func TestIsDuplicate_OtherTopicsIgnored(t *testing.T) {
	posts := []store.Post{
		{Title: "Different Story", URL: "posts/other.html", Date: "2025-08-29", TopicKey: "other-topic"},
	}
	history := []store.TopicHistoryEntry{
		{TopicKey: "another-topic", LastPublishedAt: daysAgo(1)},
	}

	if IsDuplicate("gpt-5-launch", posts, history, testNow, 5) {
		t.Error("Expected unrelated posts and history entries to be ignored")
	}
}

func TestIsDuplicate_Scenario(t *testing.T) {
	// Candidate with topicKey "gpt-5-launch", empty posts, history entry
	// 3 days old, window of 5 days: duplicate.
	history := []store.TopicHistoryEntry{
		{TopicKey: "gpt-5-launch", LastPublishedAt: daysAgo(3)},
	}

	if !IsDuplicate("gpt-5-launch", []store.Post{}, history, testNow, 5) {
		t.Error("Expected scenario to report duplicate")
	}
}

func TestUpdateHistory_Supersedes(t *testing.T) {
	history := []store.TopicHistoryEntry{
		{TopicKey: "gpt-5-launch", FirstSeen: daysAgo(30), LastPublishedAt: daysAgo(30), SourceName: "Old Channel"},
		{TopicKey: "other-topic", LastPublishedAt: daysAgo(10)},
	}

	updated := UpdateHistory(history, "gpt-5-launch", store.TopicHistoryEntry{
		SourceName: "AI Explained",
		VideoTitle: "GPT-5 Launch Deep Dive",
		DraftURL:   "posts/2025-08-30-gpt-5-launch.html",
	}, testNow)

	count := 0
	var entry store.TopicHistoryEntry
	for _, e := range updated {
		if e.TopicKey == "gpt-5-launch" {
			count++
			entry = e
		}
	}

	if count != 1 {
		t.Fatalf("Expected exactly one entry for the topic key, got %d", count)
	}
	if entry.SourceName != "AI Explained" {
		t.Errorf("Expected new provenance, got %q", entry.SourceName)
	}
	if entry.LastPublishedAt != testNow.Format(time.RFC3339) {
		t.Errorf("Expected lastPublishedAt stamped to now, got %q", entry.LastPublishedAt)
	}
	if len(updated) != 2 {
		t.Errorf("Expected 2 entries total, got %d", len(updated))
	}
}

func TestUpdateHistory_PreservesProvidedTimestamps(t *testing.T) {
	updated := UpdateHistory(nil, "gpt-5-launch", store.TopicHistoryEntry{
		FirstSeen:       daysAgo(20),
		LastPublishedAt: "2025-08-30",
	}, testNow)

	if len(updated) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(updated))
	}
	if updated[0].FirstSeen != daysAgo(20) {
		t.Errorf("Expected firstSeen preserved, got %q", updated[0].FirstSeen)
	}
	if updated[0].LastPublishedAt != "2025-08-30" {
		t.Errorf("Expected lastPublishedAt preserved, got %q", updated[0].LastPublishedAt)
	}
}

func TestUpdateHistory_NewKeyAppends(t *testing.T) {
	history := []store.TopicHistoryEntry{
		{TopicKey: "other-topic", LastPublishedAt: daysAgo(1)},
	}

	updated := UpdateHistory(history, "gpt-5-launch", store.TopicHistoryEntry{}, testNow)
	if len(updated) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(updated))
	}
	if updated[1].TopicKey != "gpt-5-launch" {
		t.Errorf("Expected new entry appended, got %+v", updated[1])
	}
}

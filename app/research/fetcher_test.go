package research

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ainewslab/autopress/app/store"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Test Article</title><script>var tracking = true;</script></head>
<body>
  <nav>Home | About | Contact</nav>
  <article>
    <h1>GPT-5 Launch Coverage</h1>
    <p>OpenAI announced the general availability of GPT-5 today, citing major improvements
    in long-horizon reasoning and tool use. Early benchmarks suggest the model substantially
    outperforms its predecessor on agentic coding tasks.</p>
    <p>Analysts expect the release to intensify competition between frontier labs over the
    coming quarters, with enterprise adoption as the key battleground.</p>
  </article>
  <footer>Copyright 2025</footer>
</body>
</html>`

func newTestFetcher() *Fetcher {
	return NewFetcher(&http.Client{}, "test-agent/1.0")
}

func TestFetchPageText_ExtractsArticleBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent/1.0" {
			t.Errorf("Expected custom user agent, got %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	fetcher := newTestFetcher()
	text, err := fetcher.FetchPageText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchPageText failed: %v", err)
	}

	if !strings.Contains(text, "general availability of GPT-5") {
		t.Errorf("Expected article body in extracted text, got: %s", text)
	}
	if strings.Contains(text, "var tracking") {
		t.Errorf("Expected script content stripped, got: %s", text)
	}
}

func TestFetchPageText_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	fetcher := newTestFetcher()
	if _, err := fetcher.FetchPageText(context.Background(), server.URL); err == nil {
		t.Error("Expected error for 404 response")
	}
}

func TestFetchPageText_RejectsShortContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>Too short.</p></body></html>"))
	}))
	defer server.Close()

	fetcher := newTestFetcher()
	if _, err := fetcher.FetchPageText(context.Background(), server.URL); err == nil {
		t.Error("Expected quality check to reject short content")
	}
}

func TestEnrich_FillsMissingSummaries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	fetcher := newTestFetcher()
	summaries := []store.SearchSummary{
		{Title: "Already summarized", URL: server.URL, Summary: "existing summary"},
		{Title: "Needs text", URL: server.URL},
		{Title: "No URL"},
	}

	enriched := fetcher.Enrich(context.Background(), summaries)

	if enriched[0].Summary != "existing summary" {
		t.Errorf("Expected existing summary untouched, got %q", enriched[0].Summary)
	}
	if !strings.Contains(enriched[1].Summary, "GPT-5") {
		t.Errorf("Expected fetched text for second entry, got %q", enriched[1].Summary)
	}
	if enriched[2].Summary != "" {
		t.Errorf("Expected entry without URL untouched, got %q", enriched[2].Summary)
	}

	// Input slice must not be mutated.
	if summaries[1].Summary != "" {
		t.Error("Expected original slice untouched")
	}
}

func TestEnrich_FetchFailureLeavesEntryUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := newTestFetcher()
	summaries := []store.SearchSummary{{Title: "Broken", URL: server.URL}}

	enriched := fetcher.Enrich(context.Background(), summaries)
	if enriched[0].Summary != "" {
		t.Errorf("Expected failed fetch to leave summary empty, got %q", enriched[0].Summary)
	}
}

func TestIsQualityContent(t *testing.T) {
	long := strings.Repeat("Substantial article content here. ", 10)

	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"empty", "", false},
		{"short", "too short", false},
		{"long enough", long, true},
		{"error page", "404 not found " + long, false},
		{"captcha wall", "please solve this captcha to continue " + long, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isQualityContent(tt.text); got != tt.expected {
				t.Errorf("isQualityContent(%q...) = %v, want %v", tt.text[:min(len(tt.text), 30)], got, tt.expected)
			}
		})
	}
}

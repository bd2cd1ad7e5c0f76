// Package research fetches body text for search-result pages so the drafting
// prompt can quote real article content instead of bare links. Fetch failures
// degrade the prompt, they never abort a run.
package research

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	readability "codeberg.org/readeck/go-readability"
	"github.com/PuerkitoBio/goquery"

	"github.com/ainewslab/autopress/app/store"
)

const (
	fetchTimeout  = 10 * time.Second
	maxTextLength = 4000
	minTextLength = 100
	maxBodySize   = 2 << 20 // 2 MB cap on fetched HTML
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// Phrases that indicate an error or interstitial page rather than an
	// article body.
	errorPageMarkers = []string{
		"404 not found",
		"page not found",
		"access denied",
		"enable javascript",
		"are you a robot",
		"captcha",
	}
)

type Fetcher struct {
	httpClient *http.Client
	userAgent  string
}

func NewFetcher(httpClient *http.Client, userAgent string) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: fetchTimeout}
	}
	return &Fetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// Enrich fills in missing summary text for research snippets that carry a
// URL. Entries that already have a summary or snippet are left untouched.
func (f *Fetcher) Enrich(ctx context.Context, summaries []store.SearchSummary) []store.SearchSummary {
	enriched := make([]store.SearchSummary, len(summaries))
	copy(enriched, summaries)

	for i, item := range enriched {
		if item.URL == "" || item.Summary != "" || item.Snippet != "" {
			continue
		}

		text, err := f.FetchPageText(ctx, item.URL)
		if err != nil {
			slog.Warn("Research page fetch failed", "url", item.URL, "error", err)
			continue
		}

		enriched[i].Summary = text
		slog.Debug("Research page enriched", "url", item.URL, "length", len(text))
	}

	return enriched
}

// FetchPageText downloads a page and extracts its readable body text,
// normalized and capped at maxTextLength.
func (f *Fetcher) FetchPageText(ctx context.Context, url string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	html, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	text := extractText(html)
	if !isQualityContent(text) {
		return "", fmt.Errorf("extracted content failed quality check (length=%d)", len(text))
	}

	return text, nil
}

// extractText prefers readability's article extraction and falls back to
// stripping boilerplate elements from the raw document.
func extractText(html []byte) string {
	if article, err := readability.FromReader(strings.NewReader(string(html)), nil); err == nil {
		if text := normalizeText(article.TextContent); text != "" {
			return text
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return ""
	}

	doc.Find("script, style, noscript, svg, iframe, nav, footer, header, .ad, .ads, .advertisement").Remove()

	return normalizeText(doc.Find("body").Text())
}

func normalizeText(text string) string {
	text = whitespaceRegex.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if len(text) > maxTextLength {
		text = text[:maxTextLength]
	}
	return text
}

// isQualityContent rejects extractions that are too short or look like an
// error page instead of an article.
func isQualityContent(text string) bool {
	if len(text) < minTextLength {
		return false
	}

	head := strings.ToLower(text)
	if len(head) > 500 {
		head = head[:500]
	}
	for _, marker := range errorPageMarkers {
		if strings.Contains(head, marker) {
			return false
		}
	}

	return true
}

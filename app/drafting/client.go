// Package drafting is the adapter for the external text-generation service.
// It turns a validated candidate plus research context into structured
// article data, and classifies raw video metadata into normalized topic keys.
// Everything beyond this boundary is opaque to the rest of the pipeline.
package drafting

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ainewslab/autopress/app/slug"
	"github.com/ainewslab/autopress/app/store"
)

const articleSystemPrompt = "You are an SEO-focused AI editor. Always respond with valid JSON. " +
	"Keep tone factual, include concrete insights, and avoid speculation."

const topicKeySystemPrompt = "You classify AI news videos into stable topic identifiers. " +
	"Always respond with valid JSON."

type Client struct {
	client *anthropic.Client
	models ModelsConfig
}

// NewClient builds a drafting client. The API key is a hard precondition:
// without it no run may proceed, so the constructor fails rather than
// deferring the error to the first call.
func NewClient(apiKey string, models ModelsConfig) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("drafting service API key is not set (ANTHROPIC_API_KEY)")
	}

	c := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Client{
		client: &c,
		models: models,
	}, nil
}

// DraftArticle asks the drafting service for a structured article draft.
// The response is validated strictly; a missing field is an upstream failure
// and aborts the run without touching any collection.
func (c *Client) DraftArticle(ctx context.Context, candidate store.Candidate) (*Article, error) {
	prompt := buildArticlePrompt(candidate, time.Now().Format("2006-01-02"))

	params := c.models.ArticleGeneration
	responseText, err := c.complete(ctx, articleSystemPrompt, prompt, params)
	if err != nil {
		return nil, fmt.Errorf("article draft request failed: %w", err)
	}

	var article Article
	if err := decodeJSON(responseText, &article); err != nil {
		return nil, fmt.Errorf("failed to parse article draft: %w", err)
	}

	if err := article.Validate(); err != nil {
		return nil, fmt.Errorf("drafting service returned incomplete article: %w", err)
	}

	slog.Debug("Article draft received",
		"title", article.Title,
		"sections", len(article.Sections),
		"tags", len(article.Tags))

	return &article, nil
}

// ExtractTopicKey classifies video metadata into a normalized topic key.
// The raw key from the service is slugified so that classification output
// and title-derived keys live in the same namespace.
func (c *Client) ExtractTopicKey(ctx context.Context, video store.Video, source store.Source) (*TopicKeyResult, error) {
	if video.Title == "" {
		return nil, fmt.Errorf("cannot derive topic key: video title is empty")
	}

	prompt := buildTopicKeyPrompt(video, source)

	params := c.models.TopicKeyExtraction
	responseText, err := c.complete(ctx, topicKeySystemPrompt, prompt, params)
	if err != nil {
		return nil, fmt.Errorf("topic key request failed: %w", err)
	}

	var payload struct {
		TopicKey   string  `json:"topic_key"`
		Product    string  `json:"product"`
		Feature    string  `json:"feature"`
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	}
	if err := decodeJSON(responseText, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse topic key response: %w", err)
	}

	result := normalizeTopicKey(payload.TopicKey, payload.Product, payload.Feature, video.Title)
	result.Category = strings.TrimSpace(payload.Category)
	result.Confidence = payload.Confidence
	result.Reasoning = strings.TrimSpace(payload.Reasoning)

	return result, nil
}

func (c *Client) complete(ctx context.Context, system, prompt string, params ModelParams) (string, error) {
	response, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(params.Model),
		MaxTokens:   params.MaxTokens,
		Temperature: anthropic.Float(params.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return text.String(), nil
}

// normalizeTopicKey folds the classification payload into a single slug,
// preferring the explicit key, then product+feature, then the video title.
func normalizeTopicKey(rawKey, product, feature, fallbackTitle string) *TopicKeyResult {
	product = strings.TrimSpace(product)
	feature = strings.TrimSpace(feature)
	rawKey = strings.TrimSpace(rawKey)

	source := rawKey
	if source == "" {
		parts := []string{}
		if product != "" {
			parts = append(parts, product)
		}
		if feature != "" {
			parts = append(parts, feature)
		}
		source = strings.Join(parts, "-")
	}
	if source == "" {
		source = fallbackTitle
	}

	return &TopicKeyResult{
		TopicKey: slug.Make(source),
		Product:  product,
		Feature:  feature,
	}
}

func buildArticlePrompt(candidate store.Candidate, today string) string {
	var b strings.Builder

	sourceURL := candidate.Source.ResolveURL()
	if sourceURL == "" {
		sourceURL = "unknown"
	}

	fmt.Fprintf(&b, "You are given metadata from a monitored video and research summaries. Generate a blog article draft for an AI news site.\n")
	fmt.Fprintf(&b, "Video Title: %s\n", candidate.Video.Title)
	fmt.Fprintf(&b, "Video URL: %s\n", candidate.Video.URL)
	fmt.Fprintf(&b, "Published At: %s\n", candidate.Video.PublishedAt)
	fmt.Fprintf(&b, "Channel: %s (%s)\n", candidate.Source.Name, sourceURL)
	fmt.Fprintf(&b, "Channel Focus: %s\n", strings.Join(candidate.Source.Focus, " / "))
	fmt.Fprintf(&b, "Video Description:\n%s\n\n", candidate.Video.Description)
	fmt.Fprintf(&b, "Research summaries:\n%s\n\n", formatSearchSummaries(candidate.SearchSummaries))

	b.WriteString(`Requirements:
- Return valid JSON with keys: title, summary, intro, sections, conclusion, tags.
- title: at most 60 characters, descriptive and SEO-friendly.
- summary: 1-2 sentences that highlight the main takeaway for previews.
- intro: 2-3 paragraphs referencing both the video context and research insights.
- sections: 3 to 4 entries. Each section must include "heading" (H2 title), "overview" (3-4 sentences), and "subSections" (array of 1-2 items with "heading" for H3 and "body" paragraphs tying back to research insights).
- tags: 2-4 concise keywords relevant to the topic.
- conclusion: summarize the guidance for readers and mention real-world implications.
- Weave important phrases from the research summaries and video description naturally.
`)
	fmt.Fprintf(&b, "- Treat %s as the publication date.\n\n", today)

	b.WriteString(`Output JSON schema:
{
  "title": "...",
  "summary": "...",
  "intro": "...",
  "tags": ["..."],
  "sections": [
    {
      "heading": "...",
      "overview": "...",
      "subSections": [
        { "heading": "...", "body": "..." }
      ]
    }
  ],
  "conclusion": "..."
}`)

	return b.String()
}

func buildTopicKeyPrompt(video store.Video, source store.Source) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Classify this video into a stable topic identifier.\n")
	fmt.Fprintf(&b, "Title: %s\n", video.Title)
	fmt.Fprintf(&b, "Description: %s\n", video.Description)
	fmt.Fprintf(&b, "Channel: %s\n", source.Name)
	fmt.Fprintf(&b, "Channel Focus: %s\n", strings.Join(source.Focus, " / "))
	fmt.Fprintf(&b, "Published At: %s\n\n", video.PublishedAt)

	b.WriteString(`Two videos about the same underlying story must map to the same topic_key, regardless of wording.
Return valid JSON with keys: topic_key, product, feature, category, confidence, reasoning.
- topic_key: short lowercase hyphenated identifier for the underlying story (e.g. "gpt-5-launch").
- product: primary product or company the story is about, empty if unclear.
- feature: the specific capability or event, empty if unclear.
- category: one of "release", "research", "business", "tutorial", "opinion".
- confidence: 0.0-1.0.
- reasoning: one sentence.`)

	return b.String()
}

// formatSearchSummaries renders research snippets for the prompt. An empty
// set is stated explicitly so the model works from video metadata alone
// instead of inventing sources.
func formatSearchSummaries(summaries []store.SearchSummary) string {
	if len(summaries) == 0 {
		return "No research summaries are available. Rely on the video metadata and general knowledge, and avoid fabricating specifics."
	}

	var b strings.Builder
	for i, item := range summaries {
		title := item.Title
		if title == "" {
			title = fmt.Sprintf("Source %d", i+1)
		}
		url := item.URL
		if url == "" {
			url = "no URL"
		}
		summary := item.Summary
		if summary == "" {
			summary = item.Snippet
		}
		if summary == "" {
			summary = "no summary"
		}

		fmt.Fprintf(&b, "### Source %d\nTitle: %s\nURL: %s\nSummary: %s\n", i+1, title, url, summary)
		if item.Snippet != "" && item.Snippet != summary {
			fmt.Fprintf(&b, "Snippet: %s\n", item.Snippet)
		}
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}

package publisher

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"time"

	"github.com/ainewslab/autopress/app/cfg"
	"github.com/ainewslab/autopress/app/store"
)

const (
	siteTitle       = "AI News Briefing"
	siteDescription = "Automated briefings on AI and machine learning, generated twice daily from monitored video sources."
)

// GenerateRSS renders the Posts collection as an RSS 2.0 feed. Posts arrive
// already sorted date-descending, so the feed preserves that order.
func GenerateRSS(posts []store.Post) string {
	var buf bytes.Buffer

	c := cfg.Get()
	baseURL := c.BaseUrl
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%s", c.Port)
	}

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	writeElement(&buf, "title", siteTitle, 4)
	writeElement(&buf, "link", baseURL, 4)
	writeElement(&buf, "description", siteDescription, 4)
	writeElement(&buf, "language", "en", 4)
	writeElement(&buf, "lastBuildDate", time.Now().In(time.Local).Format(time.RFC1123Z), 4)
	writeElement(&buf, "generator", fmt.Sprintf("autopress/%s", c.Version), 4)

	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s/feed.xml\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(baseURL)))

	for _, post := range posts {
		if post.URL == "" {
			continue
		}
		writeItem(&buf, baseURL, post)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String()
}

func writeItem(buf *bytes.Buffer, baseURL string, post store.Post) {
	fullURL := baseURL + "/" + post.URL

	buf.WriteString("    <item>\n")

	writeElement(buf, "title", post.Title, 6)
	writeElement(buf, "link", fullURL, 6)

	buf.WriteString("      <guid isPermaLink=\"true\">")
	xml.EscapeText(buf, []byte(fullURL))
	buf.WriteString("</guid>\n")

	if pubDate, err := time.ParseInLocation("2006-01-02", post.Date, time.Local); err == nil {
		writeElement(buf, "pubDate", pubDate.Format(time.RFC1123Z), 6)
	}

	writeElement(buf, "description", post.Summary, 6)

	for _, tag := range post.Tags {
		if tag != "" {
			writeElement(buf, "category", tag, 6)
		}
	}

	buf.WriteString("    </item>\n")
}

func writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

package drafting

import (
	"fmt"
)

// SubSection is an H3-level block inside an article section.
type SubSection struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Section is an H2-level article block with an overview and optional
// sub-sections.
type Section struct {
	Heading     string       `json:"heading"`
	Overview    string       `json:"overview"`
	SubSections []SubSection `json:"subSections,omitempty"`
}

// Article is the structured output of the drafting service. Downstream
// rendering is mechanical, so every field the renderer needs must be present
// here; missing required fields are rejected at the adapter boundary.
type Article struct {
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Intro      string    `json:"intro"`
	Sections   []Section `json:"sections"`
	Conclusion string    `json:"conclusion"`
	Tags       []string  `json:"tags"`
}

// Validate checks the structural contract of a drafted article. The service
// is instructed to return all fields; absence is an upstream failure, never
// something to paper over with defaults.
func (a *Article) Validate() error {
	if a.Title == "" {
		return fmt.Errorf("drafted article is missing title")
	}
	if a.Summary == "" {
		return fmt.Errorf("drafted article %q is missing summary", a.Title)
	}
	if a.Intro == "" {
		return fmt.Errorf("drafted article %q is missing intro", a.Title)
	}
	if len(a.Sections) == 0 {
		return fmt.Errorf("drafted article %q has no sections", a.Title)
	}
	for i, section := range a.Sections {
		if section.Heading == "" {
			return fmt.Errorf("drafted article %q: section %d is missing heading", a.Title, i+1)
		}
		if section.Overview == "" {
			return fmt.Errorf("drafted article %q: section %q is missing overview", a.Title, section.Heading)
		}
		for j, sub := range section.SubSections {
			if sub.Heading == "" || sub.Body == "" {
				return fmt.Errorf("drafted article %q: section %q sub-section %d is incomplete", a.Title, section.Heading, j+1)
			}
		}
	}
	if a.Conclusion == "" {
		return fmt.Errorf("drafted article %q is missing conclusion", a.Title)
	}
	if len(a.Tags) == 0 {
		return fmt.Errorf("drafted article %q has no tags", a.Title)
	}
	return nil
}

// TopicKeyResult is the normalized output of the topic classification call.
type TopicKeyResult struct {
	TopicKey   string  `json:"topic_key"`
	Product    string  `json:"product,omitempty"`
	Feature    string  `json:"feature,omitempty"`
	Category   string  `json:"category,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

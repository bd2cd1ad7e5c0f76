package drafting

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Drafting models are asked for bare JSON but occasionally wrap the payload
// in a markdown code fence or surrounding prose. The patterns below salvage
// the object without guessing at anything beyond the outermost braces.
var (
	codeFenceRegex  = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")
	jsonObjectRegex = regexp.MustCompile(`(?s)\{.*\}`)
)

// decodeJSON unmarshals a model response into out, salvaging the JSON object
// from code fences or wrapper text when a direct parse fails.
func decodeJSON(response string, out interface{}) error {
	text := strings.TrimSpace(response)
	if text == "" {
		return fmt.Errorf("empty response from drafting service")
	}

	if err := json.Unmarshal([]byte(text), out); err == nil {
		return nil
	}

	if m := codeFenceRegex.FindStringSubmatch(text); m != nil {
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), out); err == nil {
			return nil
		}
	}

	if m := jsonObjectRegex.FindString(text); m != "" {
		if err := json.Unmarshal([]byte(m), out); err == nil {
			return nil
		}
	}

	return fmt.Errorf("response is not valid JSON: %s", truncate(text, 200))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

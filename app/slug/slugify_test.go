package slug

import (
	"testing"
)

func TestMake_BasicTitle(t *testing.T) {
	result := Make("GPT-5 Launch: What You Need to Know")

	expected := "gpt-5-launch-what-you-need-to-know"
	if result != expected {
		t.Errorf("Expected %q, got %q", expected, result)
	}
}

func TestMake_CollapsesSeparators(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"multiple spaces", "open  ai   devday", "open-ai-devday"},
		{"underscores", "topic_key_value", "topic-key-value"},
		{"mixed separators", "a _ b - c", "a-b-c"},
		{"leading and trailing dashes", "--edge case--", "edge-case"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.input); got != tt.expected {
				t.Errorf("Make(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMake_AccentedCharactersFold(t *testing.T) {
	result := Make("Résumé Café")

	expected := "resume-cafe"
	if result != expected {
		t.Errorf("Expected %q, got %q", expected, result)
	}
}

func TestMake_NonLatinFallsBack(t *testing.T) {
	// A title with no ASCII word characters produces the fallback key.
	result := Make("人工知能の最新動向")

	if result != DefaultFallback {
		t.Errorf("Expected fallback %q, got %q", DefaultFallback, result)
	}
}

func TestMake_EmptyValue(t *testing.T) {
	if got := Make(""); got != DefaultFallback {
		t.Errorf("Expected fallback %q, got %q", DefaultFallback, got)
	}
}

func TestMakeWithFallback_CustomFallback(t *testing.T) {
	if got := MakeWithFallback("", "gpt-5-launch"); got != "gpt-5-launch" {
		t.Errorf("Expected custom fallback, got %q", got)
	}

	// Fallback is ignored when the value slugifies cleanly.
	if got := MakeWithFallback("Hello World", "unused"); got != "hello-world" {
		t.Errorf("Expected %q, got %q", "hello-world", got)
	}
}

func TestMake_Stability(t *testing.T) {
	// The same title must always produce the same key across calls.
	a := Make("Anthropic Ships Computer Use API")
	b := Make("Anthropic Ships Computer Use API")

	if a != b {
		t.Errorf("Slug not stable: %q vs %q", a, b)
	}
}

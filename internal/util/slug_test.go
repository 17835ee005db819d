package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		// Basic normalization
		{"lowercase", "INCEPTION", "inception"},
		{"spaces to dashes", "the matrix", "the-matrix"},
		{"already a slug", "mind-bending", "mind-bending"},

		// Runs collapse to one dash
		{"punctuation run", "Sci-Fi & Horror", "sci-fi-horror"},
		{"underscores", "slow_burn", "slow-burn"},
		{"apostrophe splits", "don't", "don-t"},
		{"non-ascii is a separator", "Amélie", "am-lie"},

		// Dash trimming
		{"leading and trailing", "  --Alien--  ", "alien"},
		{"trailing punctuation", "Hello, World!", "hello-world"},

		// Edge cases
		{"empty", "", ""},
		{"only punctuation", "!!! ...", ""},
		{"digits kept", "2001: A Space Odyssey", "2001-a-space-odyssey"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{"The Dark Knight", "WALL·E", "  ", "a--b"}

	for _, input := range inputs {
		once := Slugify(input)
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestJoinSlug(t *testing.T) {
	tests := []struct {
		name     string
		segments []string
		expected string
	}{
		{"all present", []string{"inception", "2010", "bob"}, "inception-2010-bob"},
		{"empty first", []string{"", "2024", "bob"}, "2024-bob"},
		{"empty last", []string{"alien", "1979", ""}, "alien-1979"},
		{"empty middle", []string{"alien", "", "bob"}, "alien-bob"},
		{"all empty", []string{"", "", ""}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinSlug(tt.segments...); got != tt.expected {
				t.Errorf("JoinSlug(%q) = %q, want %q", tt.segments, got, tt.expected)
			}
		})
	}
}

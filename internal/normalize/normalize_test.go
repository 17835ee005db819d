package normalize

import "testing"

func TestName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Mind-bending", "Mind-bending"},
		{"  Slow   Burn  ", "Slow Burn"},
		{"tab\tseparated", "tab separated"},
		{"null\x00byte", "nullbyte"},
		{"Ame\u0301lie", "Am\u00e9lie"}, // decomposed → composed
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Name(tt.input); got != tt.expected {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestKey_Collisions(t *testing.T) {
	pairs := [][2]string{
		{"Sci-Fi", "sci-fi"},
		{"SLOW BURN", "  slow   burn "},
		{"Ame\u0301lie", "AM\u00c9LIE"},
	}

	for _, p := range pairs {
		if Key(p[0]) != Key(p[1]) {
			t.Errorf("Key(%q) = %q, Key(%q) = %q; want equal", p[0], Key(p[0]), p[1], Key(p[1]))
		}
	}

	if Key("Sci-Fi") == Key("SciFi") {
		t.Error("punctuation must remain significant")
	}
}

func TestGenres(t *testing.T) {
	got := Genres([]string{"Action", "Science Fiction", "action", "", "Thriller"})
	want := "Action, Science Fiction, Thriller"
	if got != want {
		t.Errorf("Genres() = %q, want %q", got, want)
	}

	if got := Genres(nil); got != "" {
		t.Errorf("Genres(nil) = %q, want empty", got)
	}
}

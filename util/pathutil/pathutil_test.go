package pathutil

import (
	"strings"
	"testing"
)

func TestDocumentFilename(t *testing.T) {
	tests := []struct {
		title, fallback, ext string
		want                 string
	}{
		{"Malin Kundang", "story", ".json", "Malin Kundang.json"},
		{"Part 1: The Sea?", "story", ".png", "Part 1： The Sea？.png"},
		{"a/b\\c", "story", ".csv", "a／b＼c.csv"},
		{"  ...  ", "story", ".json", "story.json"},
		{"", "laras", ".xlsx", "laras.xlsx"},
		{"Ending.", "story", ".md", "Ending.md"},
	}
	for _, tt := range tests {
		if got := DocumentFilename(tt.title, tt.fallback, tt.ext); got != tt.want {
			t.Errorf("DocumentFilename(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestCleanBasenameTruncates(t *testing.T) {
	name := CleanBasename(strings.Repeat("日", 100))
	if len(name) > FILENAME_MAX_LENGTH || len(name)%3 != 0 {
		t.Errorf("CleanBasename length = %d, want <= %d on rune boundary", len(name), FILENAME_MAX_LENGTH)
	}
}

package stringutil

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestGetTextReader(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"ascii", []byte("hello"), "hello"},
		{"utf8", []byte("Malin Kundang, anak durhaka ✨"), "Malin Kundang, anak durhaka ✨"},
		{"utf8 bom", append(append([]byte{}, Utf8bom...), "hi"...), "hi"},
		{"utf16le bom", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "hi"},
		{"utf16be bom", []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}, "hi"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(GetTextReader(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintStringInWidth(t *testing.T) {
	tests := []struct {
		str        string
		width      int
		padRight   bool
		wantOut    string
		wantRemain string
	}{
		{"abc", 5, true, "abc  ", ""},
		{"abc", 5, false, "  abc", ""},
		{"abcdef", 4, true, "abcd", "ef"},
		{"日本語", 5, true, "日本 ", "語"},
	}
	for _, tt := range tests {
		var sb strings.Builder
		remain := PrintStringInWidth(&sb, tt.str, tt.width, tt.padRight)
		if sb.String() != tt.wantOut || remain != tt.wantRemain {
			t.Errorf("PrintStringInWidth(%q, %d) = %q, %q; want %q, %q",
				tt.str, tt.width, sb.String(), remain, tt.wantOut, tt.wantRemain)
		}
	}
}

func TestCleanTitle(t *testing.T) {
	if got := CleanTitle("  Malin\r\nKundang\u200b "); got != "Malin Kundang" {
		t.Errorf("CleanTitle = %q", got)
	}
}

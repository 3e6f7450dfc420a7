package llm

import (
	"errors"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"tilde fence", "~~~json\n{\"a\":1}\n~~~", `{"a":1}`},
		{"prose around", "Here you go:\n{\"a\":1}\nEnjoy!", `{"a":1}`},
		{"trailing comma object", `{"a":1,}`, `{"a":1}`},
		{"trailing comma array", `{"a":[1,2,],}`, `{"a":[1,2]}`},
		{"nested trailing commas", "{\"a\":{\"b\":[1,\n],\n},\n}", "{\"a\":{\"b\":[1]}}"},
		{"no object", "sorry", "sorry"},
		{"comma bracket in string", `{"dialogue":"Tunggu, ] lalu, } selesai",}`, `{"dialogue":"Tunggu, ] lalu, } selesai"}`},
		{"fence in string", "```json\n{\"dialogue\":\"lalu ~~~ selesai\",\"sfx\":[\"```\",]}\n```",
			"{\"dialogue\":\"lalu ~~~ selesai\",\"sfx\":[\"```\"]}"},
		{"escaped quote in string", `{"a":"say \"hi\", ]",}`, `{"a":"say \"hi\", ]"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := Sanitize(got); again != got {
				t.Errorf("Sanitize is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument("```json\n{\"title\":\"X\",\"scenes\":[],}\n```")
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if doc["title"] != "X" {
		t.Errorf("title = %v, want X", doc["title"])
	}
	if scenes, ok := doc["scenes"].([]any); !ok || len(scenes) != 0 {
		t.Errorf("scenes = %#v, want empty list", doc["scenes"])
	}

	doc, err = ParseDocument(`{"scenes":[{"dialogue":"Tunggu, ] lalu ~~~ selesai"},],}`)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	scene := doc["scenes"].([]any)[0].(map[string]any)
	if got := scene["dialogue"]; got != "Tunggu, ] lalu ~~~ selesai" {
		t.Errorf("dialogue = %q, want it unchanged", got)
	}

	for _, input := range []string{"", "not json at all", "{broken", "[1,2]", "null"} {
		_, err := ParseDocument(input)
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("ParseDocument(%q) error = %v, want *ParseError", input, err)
			continue
		}
		if parseErr.Raw != input {
			t.Errorf("ParseError.Raw = %q, want %q", parseErr.Raw, input)
		}
	}
}

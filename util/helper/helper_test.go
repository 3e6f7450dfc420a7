package helper

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestParseFilenameArgs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.json", "c.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	got := ParseFilenameArgs(filepath.Join(dir, "*.json"), "missing.json", filepath.Join(dir, "a.json"))
	want := []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json"), "missing.json"}
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("ParseFilenameArgs = %v, want %v", got, want)
	}
	if got := ParseGlobFilenames(filepath.Join(dir, "*.toml")); len(got) != 0 {
		t.Errorf("no match: got %v", got)
	}
}

func TestOutput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out", "doc.json")
	if err := CheckOutput(file, false); err != nil {
		t.Fatalf("CheckOutput new file: %v", err)
	}
	if err := WriteOutput(file, nil, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}
	if err := CheckOutput(file, false); err == nil {
		t.Errorf("CheckOutput existing file without force: expected error")
	}
	if err := CheckOutput(file, true); err != nil {
		t.Errorf("CheckOutput with force: %v", err)
	}
	var stdout bytes.Buffer
	if err := WriteOutput("-", &stdout, []byte("hi")); err != nil || stdout.String() != "hi" {
		t.Errorf("stdout = %q, err = %v", stdout.String(), err)
	}
}

func TestGetTemplate(t *testing.T) {
	tpl, err := GetTemplate(`  {{ .title | toUpper }} ({{ .seconds }}s)  `, true)
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	got, err := tpl.Exec(map[string]any{"title": "intro", "seconds": 8})
	if err != nil || got != "INTRO (8s)" {
		t.Errorf("Exec = %q, %v", got, err)
	}
	if _, err := tpl.Exec(map[string]any{"title": "intro"}); err == nil {
		t.Errorf("strict template with missing key: expected error")
	}

	file := filepath.Join(t.TempDir(), "tpl.txt")
	os.WriteFile(file, []byte("{{ .name }}"), 0644)
	tpl, err = GetTemplate("@"+file, false)
	if err != nil {
		t.Fatalf("GetTemplate file: %v", err)
	}
	if got, _ := tpl.Exec(map[string]any{"name": "x"}); got != "x" {
		t.Errorf("file template = %q", got)
	}
}

func TestRunCmdlineInvalid(t *testing.T) {
	for _, cmdline := range []string{"", "   ", `echo 'unterminated`} {
		if err := RunCmdline(cmdline, false, nil, nil, nil); err == nil {
			t.Errorf("RunCmdline(%q): expected error", cmdline)
		}
	}
}

package store

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

type form struct {
	Title   string `json:"title"`
	Seconds int    `json:"seconds"`
}

func testStore(t *testing.T, s Store) {
	t.Helper()
	if got := Load(s, "last_form", form{Title: "default"}); got.Title != "default" {
		t.Errorf("missing key: got %+v, want fallback", got)
	}
	if err := Save(s, "last_form", form{Title: "Kancil", Seconds: 60}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := Load(s, "last_form", form{}); got != (form{Title: "Kancil", Seconds: 60}) {
		t.Errorf("Load = %+v", got)
	}
	if err := s.Set("theme", []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	if got := Load(s, "theme", "dark"); got != "dark" {
		t.Errorf("corrupt entry: got %q, want fallback", got)
	}
	if err := s.Clear("last_form"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, err := s.Get("last_form"); ok || err != nil {
		t.Errorf("after Clear: ok=%v err=%v", ok, err)
	}
	if err := s.Clear("never_set"); err != nil {
		t.Errorf("Clear missing key: %v", err)
	}
	for _, key := range []string{"", "../escape", "a/b", ".."} {
		if err := s.Set(key, []byte("1")); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Set(%q) error = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "laras")
	s := NewFileStore(dir)
	testStore(t, s)

	if err := Save(s, "api_key", "secret"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "api_key.json"))
	if err != nil || string(data) != `"secret"` {
		t.Errorf("file contents = %q, err = %v", data, err)
	}
	keys, err := s.Keys()
	if err != nil || !slices.Equal(keys, []string{"api_key", "theme"}) {
		t.Errorf("Keys = %v, %v", keys, err)
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	s := NewMemoryStore()
	data := []byte(`"a"`)
	s.Set("k", data)
	data[1] = 'b'
	if got, _, _ := s.Get("k"); string(got) != `"a"` {
		t.Errorf("stored value aliased caller slice: %s", got)
	}
}

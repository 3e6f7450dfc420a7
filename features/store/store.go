// Package store is the local key-value persistence of laras: last form values,
// the character bible, the saved api key and the theme.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/natefinch/atomic"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidKey = errors.New("invalid store key")

// Store is a string-keyed byte store. Get reports ok=false for missing keys.
type Store interface {
	Get(key string) (data []byte, ok bool, err error)
	Set(key string, data []byte) error
	Clear(key string) error
}

var keyRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

func checkKey(key string) error {
	if !keyRegex.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[key]
	return bytes.Clone(data), ok, nil
}

func (s *MemoryStore) Set(key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = bytes.Clone(data)
	return nil
}

func (s *MemoryStore) Clear(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// FileStore keeps each key in "<dir>/<key>.json". Writes are atomic.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, key+".json"), nil
}

func (s *FileStore) Get(key string) ([]byte, bool, error) {
	name, err := s.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *FileStore) Set(key string, data []byte) error {
	name, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return err
	}
	return atomic.WriteFile(name, bytes.NewReader(data))
}

func (s *FileStore) Clear(key string) error {
	name, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Keys lists the keys present in the store dir, sorted.
func (s *FileStore) Keys() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, "*.json"))
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		key := filepath.Base(m)
		keys = append(keys, key[:len(key)-len(".json")])
	}
	return keys, nil
}

// Load returns the JSON value stored under key, or fallback if it is missing,
// unreadable or does not parse. Failures are only logged.
func Load[T any](s Store, key string, fallback T) T {
	data, ok, err := s.Get(key)
	if err != nil {
		log.Debugf("store: get %s: %v", key, err)
		return fallback
	}
	if !ok {
		return fallback
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Debugf("store: parse %s: %v", key, err)
		return fallback
	}
	return v
}

// Save stores v as JSON under key.
func Save(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", key, err)
	}
	return s.Set(key, data)
}

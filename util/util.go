package util

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/constraints"
	"gopkg.in/yaml.v3"
)

// Check whether a file (or dir) with name exists in file system.
// If it encounter an file system access error, return false,err
func FileExists(name string) (bool, error) {
	_, err := os.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Clamp returns v limited to the [min, max] range.
func Clamp[T constraints.Integer | constraints.Float](v, min, max T) T {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Map applies a function to each element of a slice and returns a new slice containing the results.
// If input is nil, the output will also be nil.
func Map[T1 any, T2 any](ss []T1, mapper func(T1) T2) (ret []T2) {
	for _, s := range ss {
		ret = append(ret, mapper(s))
	}
	return
}

// Keys returns a sorted slice of all keys in the map.
func Keys[T1 cmp.Ordered, T2 any](m map[T1]T2) []T1 {
	keys := make([]T1, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Duplicates returns the elements that appear more than once in s, in order of their second appearance.
func Duplicates[T comparable](s []T) (dups []T) {
	seen := make(map[T]int)
	for _, item := range s {
		seen[item]++
		if seen[item] == 2 {
			dups = append(dups, item)
		}
	}
	return dups
}

// Parse http content-type header and return mediatype, e.g. "text/html".
// contentType: the http Content-Type header, e.g. "text/html; charset=utf-8"
func MediaType(contentType string) string {
	if contentType != "" {
		if mediatype, _, err := mime.ParseMediaType(contentType); err == nil {
			return mediatype
		}
	}
	return ""
}

func normalizeFormat(contentType string) string {
	if strings.ContainsRune(contentType, '/') {
		contentType = MediaType(contentType)
	}
	switch contentType {
	case "application/json", "text/json", "json", ".json":
		return "json"
	case "application/yaml", "text/yaml", "yaml", ".yaml", "yml", ".yml":
		return "yaml"
	case "application/toml", "text/toml", "toml", ".toml":
		return "toml"
	}
	return ""
}

// FormatOf returns the data format ("json", "yaml" or "toml") of filename by its extension.
// Files without a known extension (including "-", stdin) are treated as json.
func FormatOf(filename string) string {
	if format := normalizeFormat(strings.ToLower(filepath.Ext(filename))); format != "" {
		return format
	}
	return "json"
}

// Unmarshal a json / yaml / toml string according to contentType.
// contentType could be: a mediatype (e.g. "application/json"), or a file type or extension (e.g. "json" or ".json").
// If contentType is empty or is not a supported type, return an error.
func Unmarshal(contentType string, input io.Reader) (data any, err error) {
	format := normalizeFormat(contentType)
	if format == "" {
		return nil, fmt.Errorf("Unmarshal: unsupported contentType %s", contentType)
	}
	body, err := io.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(body) > 0 {
		switch format {
		case "json":
			err = json.Unmarshal(body, &data)
		case "yaml":
			err = yaml.Unmarshal(body, &data)
		case "toml":
			err = toml.Unmarshal(body, &data)
		}
	}
	return data, err
}

// UnmarshalInto decodes input of contentType into target, which is filled through its json tags
// regardless of the source format.
func UnmarshalInto(contentType string, input io.Reader, target any) error {
	data, err := Unmarshal(contentType, input)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to normalize %s input: %w", contentType, err)
	}
	return json.Unmarshal(body, target)
}

// Marshal a object to json / yaml / toml string according to contentType.
// contentType could be: a mediatype (e.g. "application/json"), or a file type or extension (e.g. "json" or ".json").
// If contentType is empty or is not a supported type, return an error.
func Marshal(contentType string, input any) (data []byte, err error) {
	switch normalizeFormat(contentType) {
	case "json":
		return json.MarshalIndent(input, "", "  ")
	case "yaml":
		return yaml.Marshal(input)
	case "toml":
		return toml.Marshal(input)
	default:
		return nil, fmt.Errorf("Marshal: unsupported format %s", contentType)
	}
}

// Execute Go text template and return rendered string.
// The result string is trim spaced.
func ExecTemplate(tpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

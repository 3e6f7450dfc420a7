package store

import (
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

func TestFormatValue(t *testing.T) {
	form := []byte(`{"title":"Kancil","scenes":3,"split":true}`)

	out, err := formatValue(form, "yaml")
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var fromYaml map[string]any
	if err := yaml.Unmarshal(out, &fromYaml); err != nil {
		t.Fatalf("output is not yaml: %v\n%s", err, out)
	}
	if fromYaml["title"] != "Kancil" || fromYaml["split"] != true {
		t.Errorf("yaml output = %v", fromYaml)
	}

	out, err = formatValue(form, ".toml")
	if err != nil {
		t.Fatalf("toml: %v", err)
	}
	var fromToml map[string]any
	if err := toml.Unmarshal(out, &fromToml); err != nil {
		t.Fatalf("output is not toml: %v\n%s", err, out)
	}
	if fromToml["title"] != "Kancil" {
		t.Errorf("toml output = %v", fromToml)
	}

	out, err = formatValue(form, "json")
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(string(out), "\n  \"scenes\": 3") {
		t.Errorf("json output is not indented: %q", out)
	}

	if _, err := formatValue(form, "xml"); err == nil {
		t.Errorf("unsupported format accepted")
	}
	if _, err := formatValue([]byte("{broken"), "yaml"); err == nil {
		t.Errorf("invalid stored json accepted")
	}
}

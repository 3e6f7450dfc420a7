package story

import (
	"encoding/json"
	"testing"
)

func TestValidateSchema(t *testing.T) {
	doc, err := Assemble(Request{Style: StyleCartoon, Scenes: 2, Characters: []Character{{DisplayName: "Kiko"}}}, seededOptions(20)...)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := json.Marshal(doc)
	violations, err := ValidateSchema(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 0 {
		t.Errorf("assembled document violates schema: %v", violations)
	}

	violations, err = ValidateSchema([]byte(`{"version":"2.5","schema":"other","scenes":[{"index":1,"seconds":12}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) == 0 {
		t.Error("expected violations for bad schema tag and duration")
	}

	if _, err := ValidateSchema([]byte(`{`)); err == nil {
		t.Error("expected error for invalid json")
	}
}

func TestSchemaRequiredFields(t *testing.T) {
	s := Schema()
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m["title"] != "LARAS story document" {
		t.Errorf("title = %v", m["title"])
	}
}

package story

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/invopop/jsonschema"
	jsonschemaValidator "github.com/kaptinlin/jsonschema"
)

var (
	schemaOnce     sync.Once
	schemaBytes    []byte
	schemaCompiled *jsonschemaValidator.Schema
	schemaErr      error
)

// Schema returns the JSON schema of Document.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
	}
	s := r.Reflect(&Document{})
	s.Title = "LARAS story document"
	return s
}

func compiledSchema() (*jsonschemaValidator.Schema, error) {
	schemaOnce.Do(func() {
		schemaBytes, schemaErr = json.Marshal(Schema())
		if schemaErr != nil {
			return
		}
		schemaCompiled, schemaErr = jsonschemaValidator.NewCompiler().Compile(schemaBytes)
	})
	return schemaCompiled, schemaErr
}

// ValidateSchema checks raw JSON against the document schema and returns
// the violations found, sorted. An empty result means the document conforms.
func ValidateSchema(raw []byte) ([]string, error) {
	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile document schema: %w", err)
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	result := schema.Validate(instance)
	if result.IsValid() {
		return nil, nil
	}
	violations := collectViolations(result, nil)
	if len(violations) == 0 {
		violations = []string{"document does not conform to schema"}
	}
	sort.Strings(violations)
	return slices.Compact(violations), nil
}

func collectViolations(r *jsonschemaValidator.EvaluationResult, out []string) []string {
	for keyword, e := range r.Errors {
		location := r.InstanceLocation
		if location == "" {
			location = "/"
		}
		out = append(out, fmt.Sprintf("%s: %s: %s", location, keyword, e.Message))
	}
	for _, d := range r.Details {
		out = collectViolations(d, out)
	}
	return out
}

package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiledSchemas holds one compiled validator per Schema.Name. Quiz
// generation validates every reply against the same schema, so it is
// compiled once per process.
var compiledSchemas = struct {
	sync.Mutex
	byName map[string]*jsonschema.Schema
}{byName: map[string]*jsonschema.Schema{}}

// ValidateJSON checks a model reply against schema before it is decoded
// into quiz questions. A nil schema accepts anything. Failures are
// reported as *ErrInvalidResponse carrying the raw reply.
func ValidateJSON(schema *Schema, raw string) error {
	if schema == nil {
		return nil
	}
	reject := func(format string, args ...any) error {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf(format, args...)}
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return reject("reply is not JSON: %w", err)
	}
	validator, err := compiledFor(schema)
	if err != nil {
		return reject("schema %s: %w", schema.Name, err)
	}
	if err := validator.Validate(doc); err != nil {
		return reject("reply does not match %s: %w", schema.Name, err)
	}
	return nil
}

func compiledFor(schema *Schema) (*jsonschema.Schema, error) {
	compiledSchemas.Lock()
	defer compiledSchemas.Unlock()
	if v, ok := compiledSchemas.byName[schema.Name]; ok {
		return v, nil
	}

	// Definition is a Go map; round-trip it so numbers decode the way the
	// compiler expects.
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("encoding definition: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("decoding definition: %w", err)
	}

	url := "https://quizgenius.invalid/schemas/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	v, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	compiledSchemas.byName[schema.Name] = v
	return v, nil
}

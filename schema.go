package gridscan

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidLayout is returned when a layout document does not match the
// layout schema.
var ErrInvalidLayout = errors.New("invalid layout")

//go:embed layout.schema.json
var layoutSchemaJSON []byte

// LayoutSchema returns the JSON schema layout documents must satisfy.
func LayoutSchema() []byte {
	return bytes.Clone(layoutSchemaJSON)
}

var compileLayoutSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("layout.schema.json", bytes.NewReader(layoutSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile("layout.schema.json")
})

// ValidateLayout checks raw JSON against the layout schema.
func ValidateLayout(data []byte) error {
	schema, err := compileLayoutSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	return nil
}

// Package yamlflag provides a command line flag that accepts a YAML document.
package yamlflag

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Value is a flag value that recognizes a YAML document.
// It satisfies both flag.Getter and cli.Generic interfaces.
type Value struct {
	ptr    any
	schema gojsonschema.JSONLoader
}

// Option configures a Value.
type Option func(v *Value)

// WithSchema validates the document against a JSON schema before decoding.
func WithSchema(schema gojsonschema.JSONLoader) Option {
	return func(v *Value) { v.schema = schema }
}

// New creates a flag value that recognizes a YAML document.
//
// The YAML document can be specified directly on the command line:
//
//	--flag="key: value"
//
// Or it can be read from a file, when the flag value starts with '@':
//
//	--flag=@file.yaml
//
// The document is converted to JSON and decoded with encoding/json, so that the JSON tags on ptr apply.
// ptr must be a pointer; panics otherwise.
func New(ptr any, opts ...Option) *Value {
	if val := reflect.ValueOf(ptr); val.Kind() != reflect.Ptr {
		panic(val.Kind())
	}
	v := &Value{ptr: ptr}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Get implements flag.Getter interface.
func (v *Value) Get() any {
	return v.ptr
}

// Set implements flag.Value interface.
func (v *Value) Set(s string) error {
	return Load(s, v.ptr, v.schema)
}

func (v *Value) String() string {
	if v == nil || v.ptr == nil {
		return ""
	}
	j, _ := json.Marshal(v.ptr)
	return string(j)
}

// Load decodes a YAML document given inline, or read from a file when s starts with '@'.
func Load(s string, ptr any, schema gojsonschema.JSONLoader) error {
	doc := []byte(s)
	if strings.HasPrefix(s, "@") {
		file, e := os.ReadFile(s[1:])
		if e != nil {
			return e
		}
		doc = file
	}
	return Unmarshal(doc, ptr, schema)
}

// Unmarshal decodes a YAML (or JSON) document into ptr.
// If schema is not nil, the document must satisfy the JSON schema.
func Unmarshal(doc []byte, ptr any, schema gojsonschema.JSONLoader) error {
	var tree any
	if e := yaml.Unmarshal(doc, &tree); e != nil {
		return fmt.Errorf("YAML decode: %w", e)
	}
	j, e := json.Marshal(normalize(tree))
	if e != nil {
		return fmt.Errorf("YAML to JSON: %w", e)
	}

	if schema != nil {
		if e := validate(j, schema); e != nil {
			return e
		}
	}

	decoder := json.NewDecoder(bytes.NewReader(j))
	decoder.DisallowUnknownFields()
	return decoder.Decode(ptr)
}

// Validate checks the JSON encoding of v against a JSON schema.
func Validate(v any, schema gojsonschema.JSONLoader) error {
	j, e := json.Marshal(v)
	if e != nil {
		return e
	}
	return validate(j, schema)
}

func validate(j []byte, schema gojsonschema.JSONLoader) error {
	result, e := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(j))
	if e != nil {
		return fmt.Errorf("JSON schema validator: %w", e)
	}
	if !result.Valid() {
		return SchemaError{result}
	}
	return nil
}

// normalize converts YAML-specific map types so that encoding/json accepts them.
func normalize(node any) any {
	switch node := node.(type) {
	case map[string]any:
		for k, v := range node {
			node[k] = normalize(v)
		}
		return node
	case map[any]any:
		m := map[string]any{}
		for k, v := range node {
			m[fmt.Sprint(k)] = normalize(v)
		}
		return m
	case []any:
		for i, v := range node {
			node[i] = normalize(v)
		}
		return node
	default:
		return node
	}
}

// SchemaError indicates a document failed JSON schema validation.
type SchemaError struct {
	*gojsonschema.Result
}

func (e SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("document failed schema validation:")
	for _, desc := range e.Result.Errors() {
		b.WriteString("\n- ")
		b.WriteString(desc.String())
	}
	return b.String()
}

// IsSchemaError determines whether err is caused by schema validation failure.
func IsSchemaError(err error) bool {
	var se SchemaError
	return errors.As(err, &se)
}

package task

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/task-tracker/internal/utils"
)

// SchemaURL identifies the embedded schema.
const SchemaURL = "https://github.com/nibzard/task-tracker/tasks.schema.json"

//go:embed tasks.schema.json
var embeddedSchema []byte

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the error location, e.g. "[2].status"
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is the path to a JSON Schema file.
	// If empty, the embedded schema is used.
	SchemaPath string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	SchemaUsed string // schema location that validated the document
}

func (r *ValidationResult) fail(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// Validate validates raw task file contents.
func Validate(data []byte, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.fail(&ValidationError{Err: ErrEmpty})
		return result
	}
	if !json.Valid(data) {
		result.fail(&ValidationError{Err: ErrUnparseable})
		return result
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		result.fail(&ValidationError{Err: fmt.Errorf("parse task file: %w", err)})
		return result
	}

	schema, location, err := compileSchema(opts.SchemaPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%v; using embedded schema", err))
		schema, location, err = compileSchema("")
	}
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("embedded schema unavailable: %v", err))
	} else {
		result.SchemaUsed = location
		if err := schema.Validate(doc); err != nil {
			appendSchemaErrors(result, err)
		}
	}

	// Invariants run only when the document decodes as a collection.
	c, err := Decode(data)
	if err != nil {
		if schema == nil {
			result.fail(&ValidationError{Err: err})
		}
		return result
	}
	if schema == nil {
		for _, ferr := range c.Check() {
			result.fail(ferr)
		}
		return result
	}
	for _, ierr := range c.checkInvariants() {
		result.fail(ierr)
	}
	return result
}

func compileSchema(path string) (*jsonschema.Schema, string, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	if path == "" {
		if err := compiler.AddResource(SchemaURL, bytes.NewReader(embeddedSchema)); err != nil {
			return nil, "", fmt.Errorf("load embedded schema: %w", err)
		}
		schema, err := compiler.Compile(SchemaURL)
		if err != nil {
			return nil, "", fmt.Errorf("compile embedded schema: %w", err)
		}
		return schema, "embedded", nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("invalid schema path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("schema file not found: %s", absPath)
		}
		return nil, "", fmt.Errorf("read schema file: %w", err)
	}
	schema, err := compiler.Compile(absPath)
	if err != nil {
		return nil, "", fmt.Errorf("invalid schema file: %w", err)
	}
	return schema, absPath, nil
}

func appendSchemaErrors(result *ValidationResult, err error) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.fail(err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.fail(&ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

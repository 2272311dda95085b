package config

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	gxserrors "github.com/gxo-labs/gxs/pkg/gxs/v1/errors"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

const schemaFile = "gxs_suite_v1.0.0.json"

//go:embed gxs_suite_v1.0.0.json
var suiteSchemaJSON []byte

// compiledSchema compiles the embedded suite schema on first use.
var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	if len(suiteSchemaJSON) == 0 {
		return nil, gxserrors.NewConfigError(fmt.Sprintf("embedded schema '%s' is empty", schemaFile), nil)
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(suiteSchemaJSON))
	if err != nil {
		return nil, gxserrors.NewConfigError(fmt.Sprintf("failed to compile embedded schema '%s'", schemaFile), err)
	}
	return s, nil
})

// ValidateWithSchema checks a suite document, YAML or JSON, against the
// embedded v1.0.0 schema. Every violation is listed, sorted by field path.
func ValidateWithSchema(document []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	// yaml.v3 yields map[string]interface{} for mappings, which gojsonschema's
	// Go loader accepts as JSON objects.
	var doc interface{}
	if err := yaml.Unmarshal(document, &doc); err != nil {
		return gxserrors.NewConfigError("failed to parse suite for schema validation", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return gxserrors.NewConfigError("schema validation could not run", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", schemaField(desc), desc.Description()))
	}
	sort.Strings(problems)
	return gxserrors.NewValidationError(
		fmt.Sprintf("suite does not match schema %s:\n  - %s", schemaFile, strings.Join(problems, "\n  - ")), nil)
}

// schemaField names the offending field, falling back to the JSON pointer
// context for errors raised on the document root.
func schemaField(desc gojsonschema.ResultError) string {
	if f := desc.Field(); f != "" && f != "(root)" {
		return f
	}
	return desc.Context().String()
}

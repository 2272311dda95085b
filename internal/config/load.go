package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gxserrors "github.com/gxo-labs/gxs/pkg/gxs/v1/errors"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedSchemaVersionConstraint is the schemaVersion major accepted by this engine.
const SupportedSchemaVersionConstraint = "v1"

// LoadSuite validates suite bytes against the embedded schema, decodes them
// strictly, checks the schema version and runs the logical validation. All
// logical problems are reported together in one ValidationError.
func LoadSuite(suiteYAML []byte, filePathHint string) (*Suite, error) {
	if len(bytes.TrimSpace(suiteYAML)) == 0 {
		return nil, gxserrors.NewConfigError("suite content cannot be empty", nil)
	}

	if err := ValidateWithSchema(suiteYAML); err != nil {
		return nil, gxserrors.NewConfigError(fmt.Sprintf("suite '%s' failed schema validation", filePathHint), err)
	}

	var suite Suite
	if err := yamlUnmarshalStrict(suiteYAML, &suite); err != nil {
		return nil, gxserrors.NewConfigError(fmt.Sprintf("failed to parse suite YAML '%s'", filePathHint), err)
	}
	suite.FilePath = filePathHint

	if err := checkSchemaVersion(suite.SchemaVersion, filePathHint); err != nil {
		return nil, err
	}

	if validationErrs := ValidateSuiteStructure(&suite); len(validationErrs) > 0 {
		errorMessages := make([]string, 0, len(validationErrs))
		for _, vErr := range validationErrs {
			errorMessages = append(errorMessages, vErr.Error())
		}
		combinedMessage := fmt.Sprintf("suite '%s' has %d validation error(s):\n- %s",
			filePathHint, len(errorMessages), strings.Join(errorMessages, "\n- "))
		return nil, gxserrors.NewValidationError(combinedMessage, validationErrs[0])
	}

	return &suite, nil
}

// LoadSuiteFromFile reads and loads a suite from disk.
func LoadSuiteFromFile(filePath string) (*Suite, error) {
	if filePath == "" {
		return nil, gxserrors.NewConfigError("suite file path cannot be empty", nil)
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, gxserrors.NewConfigError(fmt.Sprintf("failed to get absolute path for '%s'", filePath), err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, gxserrors.NewConfigError(fmt.Sprintf("failed to read suite file '%s'", absPath), err)
	}
	return LoadSuite(data, absPath)
}

func checkSchemaVersion(version, filePathHint string) error {
	if version == "" {
		return gxserrors.NewValidationError(fmt.Sprintf("suite '%s' is missing required 'schemaVersion' field", filePathHint), nil)
	}
	v := version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return gxserrors.NewValidationError(fmt.Sprintf("suite '%s' has invalid 'schemaVersion' format: '%s'", filePathHint, version), nil)
	}
	if semver.Major(v) != SupportedSchemaVersionConstraint {
		return gxserrors.NewValidationError(
			fmt.Sprintf("suite '%s' schemaVersion '%s' is not compatible with engine requirement '%s'",
				filePathHint, version, SupportedSchemaVersionConstraint),
			nil,
		)
	}
	return nil
}

// yamlUnmarshalStrict rejects fields the target struct does not define.
func yamlUnmarshalStrict(in []byte, out interface{}) error {
	decoder := yaml.NewDecoder(bytes.NewReader(in))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("YAML parsing error: %w", err)
	}
	return nil
}

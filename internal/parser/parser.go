package parser

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"shipkit/pkg/manifest"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Parse reads and validates a deploy manifest YAML file, returning the parsed
// Manifest struct or an error.
func Parse(filePath string) (*manifest.Manifest, error) {
	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("manifest file not found: %s: %w", filePath, os.ErrNotExist)
	}

	// Configure Viper
	v := viper.New()
	v.SetConfigFile(filePath)
	v.SetConfigType("yaml")

	// Read the file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("manifest file not found: %s: %w", filePath, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	// Unmarshal into Manifest struct
	var m manifest.Manifest
	if err := v.Unmarshal(&m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest file - malformed YAML: %w", err)
	}

	// Validate the structure
	if err := validate.Struct(&m); err != nil {
		return nil, formatValidationError(err)
	}

	return &m, nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, formatFieldError(e))
		}

		if len(errorMessages) == 1 {
			return fmt.Errorf("validation error: %s", errorMessages[0])
		}

		result := "validation errors:\n"
		for _, msg := range errorMessages {
			result += fmt.Sprintf("  - %s\n", msg)
		}
		return fmt.Errorf("%s", result)
	}
	return fmt.Errorf("validation failed: %w", err)
}

// formatFieldError formats a single validation error into a user-friendly message.
func formatFieldError(e validator.FieldError) string {
	field := e.Field()
	tag := e.Tag()

	switch tag {
	case "required":
		return fmt.Sprintf("field '%s' is required but missing", field)
	case "eq":
		return fmt.Sprintf("field '%s' must be '%s'", field, e.Param())
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", field, e.Param())
	case "url":
		return fmt.Sprintf("field '%s' must be a valid URL", field)
	default:
		return fmt.Sprintf("field '%s' failed validation (%s)", field, tag)
	}
}

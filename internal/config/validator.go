package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError is one rejected config key.
type ValidationError struct {
	Field   string // dotted key, e.g. "logging.level"
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s = %v: %s", e.Field, e.Value, e.Message)
}

// ValidationErrors reports every rejected key at once.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	switch len(e) {
	case 0:
		return ""
	case 1:
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d validation errors: %s", len(e), strings.Join(msgs, "; "))
}

// ValidLogLevels lists the accepted logging.level values.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLogFormats lists the accepted logging.format values.
func ValidLogFormats() []string {
	return []string{"console", "json"}
}

// ValidOutputFormats lists the accepted output.format values.
func ValidOutputFormats() []string {
	return []string{"json", "yaml"}
}

// ValidExtensions lists the workbook extensions the pipeline can write.
func ValidExtensions() []string {
	return []string{"xlsx", "xlsm"}
}

// Validate returns every invalid value in c, in key order.
func (c *Config) Validate() []ValidationError {
	var v validation
	v.atLeastOne("batch_size", c.BatchSize)
	v.atLeastOne("jobs", c.Jobs)
	v.oneOf("extension", c.Extension, ValidExtensions())
	v.oneOf("logging.level", strings.ToLower(c.Logging.Level), ValidLogLevels())
	v.oneOf("logging.format", c.Logging.Format, ValidLogFormats())
	v.oneOf("output.format", c.Output.Format, ValidOutputFormats())
	return v.errs
}

type validation struct {
	errs []ValidationError
}

func (v *validation) atLeastOne(field string, n int) {
	if n < 1 {
		v.errs = append(v.errs, ValidationError{Field: field, Value: n, Message: "must be at least 1"})
	}
}

func (v *validation) oneOf(field, value string, valid []string) {
	if !slices.Contains(valid, value) {
		v.errs = append(v.errs, ValidationError{
			Field:   field,
			Value:   value,
			Message: "must be one of " + strings.Join(valid, ", "),
		})
	}
}

// Package report renders lint results as colored text or JSON, and checks
// JSON results against the published report schema.
package report

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/dyluth/peoplelint/internal/lint"
	"github.com/dyluth/peoplelint/internal/printer"
)

//go:embed report.schema.json
var schemaJSON string

// SchemaError lists the violations found in a JSON report.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("report does not match schema: %s", strings.Join(e.Violations, "; "))
}

// WriteText writes each filename's errors (red) and warnings (yellow), then
// the aggregate errors. With verbose, clean files are listed as "<file> OK!".
func WriteText(w io.Writer, r *lint.Result, verbose bool) {
	for _, fn := range r.Filenames() {
		errs := r.ErrorsByFilename[fn]
		warnings := r.WarningsByFilename[fn]
		if len(errs) > 0 || len(warnings) > 0 {
			printer.Line(w, fn)
			for _, e := range errs {
				printer.ErrorLine(w, " "+e)
			}
			for _, warning := range warnings {
				printer.WarningLine(w, " "+warning)
			}
		}
		if len(errs) == 0 && verbose {
			printer.OKLine(w, fn+" OK!")
		}
	}

	for _, e := range r.Errors {
		printer.ErrorLine(w, e)
	}
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *lint.Result) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result to JSON: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}

// ValidateJSON checks a JSON document against the report schema.
// Returns *SchemaError when the document is well-formed but invalid.
func ValidateJSON(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("failed to validate report: %w", err)
	}
	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{Violations: make([]string, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		schemaErr.Violations = append(schemaErr.Violations, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return schemaErr
}

// Decode validates data against the report schema and unmarshals it.
func Decode(data []byte) (*lint.Result, error) {
	if err := ValidateJSON(data); err != nil {
		return nil, err
	}

	result := lint.NewResult()
	if err := json.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return result, nil
}
